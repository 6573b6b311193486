package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchsync/server/internal/domain"
	"github.com/watchsync/server/internal/store"
)

func newQueueStore(t *testing.T, videos ...string) *store.Store {
	t.Helper()
	s := store.NewStore()
	_, err := s.CreateRoom(testCode, "alice", "conn-a")
	require.NoError(t, err)
	for _, v := range videos {
		_, _, err := s.AddToQueue(testCode, domain.Video{VideoID: v, Title: v}, "alice")
		require.NoError(t, err)
	}
	return s
}

func queueIDs(t *testing.T, s *store.Store) []string {
	t.Helper()
	room, ok := s.Room(testCode)
	require.True(t, ok)
	out := make([]string, 0, len(room.Queue))
	for _, e := range room.Queue {
		out = append(out, e.VideoID)
	}
	return out
}

func checkVoteInvariant(t *testing.T, s *store.Store) {
	t.Helper()
	room, ok := s.Room(testCode)
	require.True(t, ok)
	prev := int(^uint(0) >> 1)
	for _, e := range room.Queue {
		assert.Equal(t, len(e.VotedBy), e.Votes, "votes must equal voter-set size for %s", e.VideoID)
		assert.LessOrEqual(t, e.Votes, prev, "queue must be non-increasing by votes")
		prev = e.Votes
	}
}

func TestAddToQueue_ActivityAndShape(t *testing.T) {
	s := store.NewStore()
	_, err := s.CreateRoom(testCode, "alice", "conn-a")
	require.NoError(t, err)

	room, act, err := s.AddToQueue(testCode, domain.Video{VideoID: "v1", Title: "first", ThumbnailURL: "t1"}, "alice")
	require.NoError(t, err)
	require.Len(t, room.Queue, 1)
	e := room.Queue[0]
	assert.Equal(t, "v1", e.VideoID)
	assert.Equal(t, "alice", e.AddedBy)
	assert.Zero(t, e.Votes)
	assert.Empty(t, e.VotedBy)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, domain.ActivityQueueAdd, act.Kind)
	assert.Equal(t, "v1", act.Metadata["videoId"])
}

func TestVote_OrdersByDescendingVotes(t *testing.T) {
	s := newQueueStore(t, "v1", "v2", "v3")

	_, changed, err := s.Vote(testCode, "v3", "alice")
	require.NoError(t, err)
	assert.True(t, changed)
	_, _, err = s.Vote(testCode, "v3", "bob")
	require.NoError(t, err)
	_, _, err = s.Vote(testCode, "v2", "alice")
	require.NoError(t, err)

	assert.Equal(t, []string{"v3", "v2", "v1"}, queueIDs(t, s))
	checkVoteInvariant(t, s)
}

func TestVote_DuplicateByNameIsNoOp(t *testing.T) {
	s := newQueueStore(t, "v1")

	_, changed, err := s.Vote(testCode, "v1", "bob")
	require.NoError(t, err)
	assert.True(t, changed)

	room, changed, err := s.Vote(testCode, "v1", "bob")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, room.Queue[0].Votes)
	assert.Equal(t, []string{"bob"}, room.Queue[0].VotedBy)
}

func TestVote_MissingVideoIsNoOp(t *testing.T) {
	s := newQueueStore(t, "v1")

	room, changed, err := s.Vote(testCode, "ghost", "bob")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, room.Queue, 1)
}

func TestUnVote_MirrorsVote(t *testing.T) {
	s := newQueueStore(t, "v1", "v2")

	_, _, err := s.Vote(testCode, "v2", "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"v2", "v1"}, queueIDs(t, s))

	room, changed, err := s.UnVote(testCode, "v2", "bob")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Zero(t, room.Queue[0].Votes+room.Queue[1].Votes)
	checkVoteInvariant(t, s)

	// Removing an absent vote changes nothing.
	_, changed, err = s.UnVote(testCode, "v2", "bob")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestQueue_TiesKeepInsertionOrder(t *testing.T) {
	s := newQueueStore(t, "v1", "v2", "v3", "v4")

	// v2 and v4 tie at one vote: v2 was inserted earlier so it stays first.
	_, _, err := s.Vote(testCode, "v4", "alice")
	require.NoError(t, err)
	_, _, err = s.Vote(testCode, "v2", "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"v4", "v2", "v1", "v3"}, queueIDs(t, s))

	// Dropping to zero and voting back to one re-ranks v4 behind v2,
	// which now holds the earlier position at that count.
	_, _, err = s.UnVote(testCode, "v4", "alice")
	require.NoError(t, err)
	_, _, err = s.Vote(testCode, "v4", "carol")
	require.NoError(t, err)
	assert.Equal(t, []string{"v2", "v4", "v1", "v3"}, queueIDs(t, s))
	checkVoteInvariant(t, s)
}

func TestAddToQueue_ZeroVoteEntrySettlesBehindTies(t *testing.T) {
	s := newQueueStore(t, "v1", "v2")

	_, _, err := s.Vote(testCode, "v2", "alice")
	require.NoError(t, err)

	// Fresh zero-vote entry lands after the voted entry and after the
	// older zero-vote one.
	_, _, err = s.AddToQueue(testCode, domain.Video{VideoID: "v3", Title: "v3"}, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"v2", "v1", "v3"}, queueIDs(t, s))
}

func TestRemoveFromQueue_FirstMatchOnly(t *testing.T) {
	s := newQueueStore(t, "v1")

	// Same external video queued twice.
	_, _, err := s.AddToQueue(testCode, domain.Video{VideoID: "v1", Title: "again"}, "bob")
	require.NoError(t, err)

	room, act, err := s.RemoveFromQueue(testCode, "v1", "alice")
	require.NoError(t, err)
	require.NotNil(t, act)
	assert.Equal(t, domain.ActivityQueueRemove, act.Kind)
	require.Len(t, room.Queue, 1)
	assert.Equal(t, "again", room.Queue[0].Title)
}

func TestRemoveFromQueue_MissingVideoMutatesNothing(t *testing.T) {
	s := newQueueStore(t, "v1", "v2")

	room, act, err := s.RemoveFromQueue(testCode, "ghost", "alice")
	require.NoError(t, err)
	assert.Nil(t, act)
	assert.Equal(t, []string{"v1", "v2"}, queueIDs(t, s))
	assert.Len(t, room.Queue, 2)
}

func TestQueue_InterleavedSequenceHoldsInvariants(t *testing.T) {
	s := newQueueStore(t, "a", "b")

	steps := []func(){
		func() { s.Vote(testCode, "a", "u1") },
		func() { s.AddToQueue(testCode, domain.Video{VideoID: "c", Title: "c"}, "alice") },
		func() { s.Vote(testCode, "b", "u1") },
		func() { s.Vote(testCode, "b", "u2") },
		func() { s.Vote(testCode, "c", "u3") },
		func() { s.UnVote(testCode, "a", "u1") },
		func() { s.AddToQueue(testCode, domain.Video{VideoID: "d", Title: "d"}, "bob") },
		func() { s.Vote(testCode, "d", "u1") },
		func() { s.UnVote(testCode, "b", "u2") },
	}
	for _, step := range steps {
		step()
		checkVoteInvariant(t, s)
	}

	// b:1(u1) a:0 c:1(u3) d:1(u1) — ties resolve by when each entry
	// reached its count relative to the last re-sort, insertion-stable.
	room, ok := s.Room(testCode)
	require.True(t, ok)
	assert.Len(t, room.Queue, 4)
	assert.Equal(t, 1, room.Queue[0].Votes)
	assert.Zero(t, room.Queue[3].Votes)
	assert.Equal(t, "a", room.Queue[3].VideoID)
}
