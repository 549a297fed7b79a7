package network

import (
	"sort"
	"sync"
)

// EdgeKind distinguishes the two relationship types recorded in a snapshot.
type EdgeKind string

const (
	// EdgeFollowing marks an edge added because the actor explicitly lists
	// the target in their following list.
	EdgeFollowing EdgeKind = "following"
	// EdgeMention marks an edge added because a post by the actor references
	// the target with @name syntax.
	EdgeMention EdgeKind = "mention"
)

// UserAttrs is the fixed-shape attribute record attached to a user node when
// it is inserted through AddUser. Nodes that only ever appear as edge targets
// carry no attributes.
type UserAttrs struct {
	Following []string `json:"following"`
	Posts     []string `json:"posts"`
}

// edge is a single directed edge to another node. Parallel edges between the
// same ordered pair are stored as separate entries.
type edge struct {
	to   int
	kind EdgeKind
}

// Snapshot is the directed multigraph of all users and relationships observed
// for one calendar month. Nodes are addressed by stable integer indices with
// a username lookup table; each node owns its outgoing edge list. Edges are
// only ever appended, and an edge's kind never changes after insertion.
//
// A single RWMutex serializes writers against each other and against readers
// of the same snapshot. Snapshots for different months share nothing.
type Snapshot struct {
	mu     sync.RWMutex
	period string

	names []string       // node index -> username
	index map[string]int // username -> node index
	attrs []*UserAttrs   // nil for nodes only referenced as edge targets
	out   [][]edge       // node index -> outgoing edges
}

func newSnapshot(period string) *Snapshot {
	return &Snapshot{
		period: period,
		index:  make(map[string]int),
	}
}

// Period returns the "YYYY-MM" key this snapshot is stored under.
func (s *Snapshot) Period() string {
	return s.period
}

// node returns the index for username, allocating a bare node if absent.
// Callers must hold the write lock.
func (s *Snapshot) node(username string) int {
	if i, ok := s.index[username]; ok {
		return i
	}
	i := len(s.names)
	s.index[username] = i
	s.names = append(s.names, username)
	s.attrs = append(s.attrs, nil)
	s.out = append(s.out, nil)
	return i
}

// addUser upserts the node for username, overwriting any attributes recorded
// earlier in the same month, and appends one following edge per followee and
// one mention edge per @reference found in the posts. Self-loops and parallel
// edges are recorded as-is.
func (s *Snapshot) addUser(username string, following, posts []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.node(username)
	s.attrs[u] = &UserAttrs{Following: following, Posts: posts}

	for _, followee := range following {
		s.out[u] = append(s.out[u], edge{to: s.node(followee), kind: EdgeFollowing})
	}
	for _, post := range posts {
		for _, mention := range ExtractMentions(post) {
			s.out[u] = append(s.out[u], edge{to: s.node(mention), kind: EdgeMention})
		}
	}
}

// Has reports whether username exists in the snapshot, either inserted
// through AddUser or referenced as an edge target.
func (s *Snapshot) Has(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[username]
	return ok
}

// Attrs returns the attribute record for username. ok is false when the user
// is absent or was only ever referenced as an edge target.
func (s *Snapshot) Attrs(username string) (UserAttrs, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[username]
	if !ok || s.attrs[i] == nil {
		return UserAttrs{}, false
	}
	return *s.attrs[i], true
}

// NodeCount returns the number of nodes, including referenced-only ones.
func (s *Snapshot) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}

// EdgeCount returns the total number of edges, counting parallels separately.
func (s *Snapshot) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, edges := range s.out {
		total += len(edges)
	}
	return total
}

// Usernames returns all node names in the snapshot, sorted.
func (s *Snapshot) Usernames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.names))
	copy(names, s.names)
	sort.Strings(names)
	return names
}

// Connections partitions the outgoing edges of username by kind, counting
// parallel edges per target. Both maps are empty but non-nil when the user
// has no outgoing edges, including when the user was never observed at all;
// querying an absent user against an existing snapshot is a normal case.
func (s *Snapshot) Connections(username string) (following, mentions map[string]int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	following = make(map[string]int)
	mentions = make(map[string]int)

	i, ok := s.index[username]
	if !ok {
		return following, mentions
	}
	for _, e := range s.out[i] {
		switch e.kind {
		case EdgeFollowing:
			following[s.names[e.to]]++
		case EdgeMention:
			mentions[s.names[e.to]]++
		}
	}
	return following, mentions
}

// AllConnections returns every connection target of username: following
// targets first, then mention targets, each list sorted. A target reached by
// both edge kinds appears twice, once per list.
func (s *Snapshot) AllConnections(username string) []string {
	following, mentions := s.Connections(username)

	all := make([]string, 0, len(following)+len(mentions))
	for target := range following {
		all = append(all, target)
	}
	sort.Strings(all)

	fromMentions := make([]string, 0, len(mentions))
	for target := range mentions {
		fromMentions = append(fromMentions, target)
	}
	sort.Strings(fromMentions)

	return append(all, fromMentions...)
}
