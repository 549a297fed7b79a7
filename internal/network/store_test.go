package network

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	march = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)
	april = time.Date(2024, time.April, 2, 18, 0, 0, 0, time.UTC)
)

func TestStore_AddUserConnections(t *testing.T) {
	store := NewStore()
	store.AddUser("u", march, []string{"a", "b"}, []string{"hi @a"})

	following, mentions, ok := store.Connections("u", march)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, following)
	assert.Equal(t, map[string]int{"a": 1}, mentions)
}

func TestStore_SelfLoop(t *testing.T) {
	store := NewStore()
	store.AddUser("u", march, []string{"u"}, nil)

	following, mentions, ok := store.Connections("u", march)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"u": 1}, following)
	assert.Empty(t, mentions)
}

func TestStore_ParallelMentionEdges(t *testing.T) {
	store := NewStore()
	store.AddUser("u", march, nil, []string{"@a @a"})

	_, mentions, ok := store.Connections("u", march)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"a": 2}, mentions)
}

func TestStore_MentionsAcrossPostsAccumulate(t *testing.T) {
	store := NewStore()
	store.AddUser("u", march, nil, []string{"morning @a", "later @a and @b"})

	_, mentions, ok := store.Connections("u", march)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, mentions)
}

func TestStore_MissingPeriod(t *testing.T) {
	store := NewStore()
	store.AddUser("u", march, []string{"a"}, nil)

	_, ok := store.GetNetwork(april)
	assert.False(t, ok)

	_, _, ok = store.Connections("u", april)
	assert.False(t, ok)

	_, ok = store.AllConnections("u", april)
	assert.False(t, ok)

	_, ok = store.Centrality("u", april)
	assert.False(t, ok)
}

func TestStore_UnknownUserInExistingSnapshot(t *testing.T) {
	store := NewStore()
	store.AddUser("u", march, []string{"a"}, nil)

	// The snapshot exists, so an unobserved user is a normal empty result.
	following, mentions, ok := store.Connections("ghost", march)
	require.True(t, ok)
	assert.NotNil(t, following)
	assert.NotNil(t, mentions)
	assert.Empty(t, following)
	assert.Empty(t, mentions)

	all, ok := store.AllConnections("ghost", march)
	require.True(t, ok)
	assert.Empty(t, all)
}

func TestStore_PeriodsAreIsolated(t *testing.T) {
	store := NewStore()
	store.AddUser("u", march, []string{"a"}, nil)
	store.AddUser("u", april, []string{"b"}, nil)

	following, _, ok := store.Connections("u", march)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"a": 1}, following)

	following, _, ok = store.Connections("u", april)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"b": 1}, following)
}

func TestStore_ReAddOverwritesAttrsButKeepsEdges(t *testing.T) {
	store := NewStore()
	store.AddUser("u", march, []string{"a"}, []string{"one"})
	store.AddUser("u", march, []string{"a", "b"}, []string{"two"})

	snap, ok := store.GetNetwork(march)
	require.True(t, ok)

	attrs, ok := snap.Attrs("u")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, attrs.Following)
	assert.Equal(t, []string{"two"}, attrs.Posts)

	// Edges are append-only: the first observation's edge remains.
	following, _, ok := store.Connections("u", march)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, following)
}

func TestStore_ReferencedOnlyNode(t *testing.T) {
	store := NewStore()
	store.AddUser("u", march, []string{"a"}, []string{"hi @b"})

	snap, ok := store.GetNetwork(march)
	require.True(t, ok)

	assert.True(t, snap.Has("a"))
	assert.True(t, snap.Has("b"))
	_, ok = snap.Attrs("a")
	assert.False(t, ok)
	_, ok = snap.Attrs("b")
	assert.False(t, ok)
}

func TestStore_AllConnectionsKeepsKindsSeparate(t *testing.T) {
	store := NewStore()
	store.AddUser("u", march, []string{"a", "c"}, []string{"hey @a @b"})

	all, ok := store.AllConnections("u", march)
	require.True(t, ok)
	// Following targets first, then mention targets; "a" appears once per kind.
	assert.Equal(t, []string{"a", "c", "a", "b"}, all)
}

func TestStore_ReadsAreIdempotent(t *testing.T) {
	store := NewStore()
	store.AddUser("u", march, []string{"a", "b"}, []string{"@a @c"})

	f1, m1, ok := store.Connections("u", march)
	require.True(t, ok)
	f2, m2, ok := store.Connections("u", march)
	require.True(t, ok)

	assert.Equal(t, f1, f2)
	assert.Equal(t, m1, m2)
}

func TestStore_SnapshotCounts(t *testing.T) {
	store := NewStore()
	store.AddUser("u", march, []string{"a"}, []string{"@a @b"})

	snap, ok := store.GetNetwork(march)
	require.True(t, ok)
	assert.Equal(t, 3, snap.NodeCount()) // u, a, b
	assert.Equal(t, 3, snap.EdgeCount()) // u->a following, u->a and u->b mentions
	assert.Equal(t, []string{"a", "b", "u"}, snap.Usernames())
	assert.Equal(t, "2024-03", snap.Period())
}

func TestStore_ConcurrentWritesSamePeriod(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.AddUser(fmt.Sprintf("user%d", i), march, []string{"hub"}, nil)
		}(i)
	}
	wg.Wait()

	snap, ok := store.GetNetwork(march)
	require.True(t, ok)
	assert.Equal(t, 51, snap.NodeCount()) // 50 users plus the shared followee
	assert.Equal(t, 50, snap.EdgeCount())
}
