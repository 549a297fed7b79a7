package network

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"socialgraph/pkg/logger"
)

// Store owns one Snapshot per calendar month, created lazily on the first
// observation for that month and never deleted for the life of the process.
// The store-level mutex only guards the period map; each snapshot carries its
// own lock, so writes to different months never contend.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
	logger    *zap.Logger
}

// NewStore creates an empty network store.
func NewStore() *Store {
	return &Store{
		snapshots: make(map[string]*Snapshot),
		logger:    logger.Get(),
	}
}

// snapshot returns the Snapshot for period. When create is set, a missing
// snapshot is allocated; reads never allocate.
func (s *Store) snapshot(period string, create bool) *Snapshot {
	s.mu.RLock()
	snap, ok := s.snapshots[period]
	s.mu.RUnlock()
	if ok || !create {
		return snap
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap, ok = s.snapshots[period]; ok {
		return snap
	}
	snap = newSnapshot(period)
	s.snapshots[period] = snap
	s.logger.Debug("created network snapshot", zap.String("period", period))
	return snap
}

// AddUser records one observation of a user: the users they follow and the
// posts they made, filed under the month of at. The user node is upserted
// (attributes overwritten, not merged, when the same user is observed twice
// in one month), one following edge is added per followee, and one mention
// edge per @reference extracted from the posts. Followees and mentioned users
// that were never themselves observed become referenced-only nodes.
func (s *Store) AddUser(username string, at time.Time, following, posts []string) {
	period := PeriodKey(at)
	s.snapshot(period, true).addUser(username, following, posts)
	s.logger.Debug("recorded user observation",
		zap.String("username", username),
		zap.String("period", period),
		zap.Int("following", len(following)),
		zap.Int("posts", len(posts)))
}

// GetNetwork returns the snapshot covering at. ok is false when no
// observation was ever recorded for that month; lookups never create.
func (s *Store) GetNetwork(at time.Time) (*Snapshot, bool) {
	snap := s.snapshot(PeriodKey(at), false)
	return snap, snap != nil
}

// Connections returns username's outgoing connections in the month of at,
// partitioned by edge kind and counted per target. ok is false when the month
// has no snapshot. A user without outgoing edges (including one never
// observed) gets two empty maps, not a missing result.
func (s *Store) Connections(username string, at time.Time) (following, mentions map[string]int, ok bool) {
	snap, ok := s.GetNetwork(at)
	if !ok {
		return nil, nil, false
	}
	following, mentions = snap.Connections(username)
	return following, mentions, true
}

// AllConnections returns every connection target of username in the month of
// at: following targets first, then mention targets. ok is false when the
// month has no snapshot.
func (s *Store) AllConnections(username string, at time.Time) ([]string, bool) {
	snap, ok := s.GetNetwork(at)
	if !ok {
		return nil, false
	}
	return snap.AllConnections(username), true
}

// Centrality computes the centrality measures for username over the whole
// snapshot covering at. ok is false when the month has no snapshot; a user
// absent from an existing snapshot gets a result with every value missing.
func (s *Store) Centrality(username string, at time.Time) (*CentralityResult, bool) {
	snap, ok := s.GetNetwork(at)
	if !ok {
		return nil, false
	}
	return snap.Centrality(username), true
}
