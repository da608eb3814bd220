package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func input(actions ...core.Action) core.InputFrame {
	var in core.InputFrame
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func sampleReplay(id string) Replay {
	return Replay{
		ID:       id,
		GameID:   "tetris",
		Seed:     42,
		TickRate: 60,
		Ticks:    900,
		Score:    300,
		Level:    1,
		Lines:    2,
		Outcome:  "game_over",
		Frames: []Frame{
			{Tick: 3, Input: input(core.ActionLeft, core.ActionLeft)},
			{Tick: 10, Input: input()},
			{Tick: 12, Input: input(core.ActionRotate, core.ActionHardDrop)},
		},
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should be created")
}

func TestSaveAndGetReplay(t *testing.T) {
	store := openTestStore(t)
	want := sampleReplay("0f3c1c7e-0000-4000-8000-000000000001")
	require.NoError(t, store.SaveReplay(want))

	got, err := store.GetReplay(want.ID)
	require.NoError(t, err)

	assert.Equal(t, want.Seed, got.Seed)
	assert.Equal(t, want.TickRate, got.TickRate)
	assert.Equal(t, want.Ticks, got.Ticks)
	assert.Equal(t, want.Score, got.Score)
	assert.Equal(t, want.Lines, got.Lines)
	assert.Equal(t, want.Outcome, got.Outcome)

	// Empty frames are not stored.
	require.Len(t, got.Frames, 2)
	assert.Equal(t, uint64(3), got.Frames[0].Tick)
	assert.Equal(t, []core.Action{core.ActionLeft, core.ActionLeft}, got.Frames[0].Input.Actions)
	assert.Equal(t, []core.Action{core.ActionRotate, core.ActionHardDrop}, got.Frames[1].Input.Actions)
}

func TestGetReplayNotFound(t *testing.T) {
	store := openTestStore(t)
	_, err := store.GetReplay("missing")
	assert.ErrorIs(t, err, ErrReplayNotFound)
}

func TestSaveReplayDuplicateID(t *testing.T) {
	store := openTestStore(t)
	r := sampleReplay("dup")
	require.NoError(t, store.SaveReplay(r))
	assert.Error(t, store.SaveReplay(r))

	got, err := store.GetReplay("dup")
	require.NoError(t, err)
	assert.Len(t, got.Frames, 2, "failed save must not add frames")
}

func TestSaveReplayRequiresID(t *testing.T) {
	store := openTestStore(t)
	assert.Error(t, store.SaveReplay(Replay{GameID: "tetris"}))
}

func TestListReplays(t *testing.T) {
	store := openTestStore(t)
	for _, id := range []string{"a1", "b2", "c3"} {
		require.NoError(t, store.SaveReplay(sampleReplay(id)))
	}
	other := sampleReplay("z9")
	other.GameID = "other"
	require.NoError(t, store.SaveReplay(other))

	list, err := store.ListReplays("tetris", 10)
	require.NoError(t, err)
	require.Len(t, list, 3)

	// Same-second inserts fall back to insertion order, newest first.
	assert.Equal(t, "c3", list[0].ID)
	assert.Equal(t, "a1", list[2].ID)
	assert.Empty(t, list[0].Frames, "listing does not load frames")

	limited, err := store.ListReplays("tetris", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestResolveID(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.SaveReplay(sampleReplay("abc123")))
	require.NoError(t, store.SaveReplay(sampleReplay("abd456")))

	id, err := store.ResolveID("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	_, err = store.ResolveID("ab")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = store.ResolveID("zzz")
	assert.ErrorIs(t, err, ErrReplayNotFound)
}

func TestDeleteReplay(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.SaveReplay(sampleReplay("gone")))

	require.NoError(t, store.DeleteReplay("gone"))
	_, err := store.GetReplay("gone")
	assert.ErrorIs(t, err, ErrReplayNotFound)

	assert.ErrorIs(t, store.DeleteReplay("gone"), ErrReplayNotFound)

	// Re-saving the same id starts from a clean frame set.
	require.NoError(t, store.SaveReplay(sampleReplay("gone")))
	got, err := store.GetReplay("gone")
	require.NoError(t, err)
	assert.Len(t, got.Frames, 2)
}

func TestGetStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetStats("tetris")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Games)
	assert.True(t, empty.LastPlayed.IsZero())

	require.NoError(t, store.SaveReplay(sampleReplay("s1")))
	require.NoError(t, store.SaveReplay(sampleReplay("s2")))

	stats, err := store.GetStats("tetris")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Games)
	assert.Equal(t, 4, stats.TotalLines)
	assert.Equal(t, uint64(1800), stats.TotalTicks)
}

func TestActionEncoding(t *testing.T) {
	in := input(core.ActionHold, core.ActionDown, core.ActionPause)
	assert.Equal(t, "Hold,Down,Pause", encodeActions(in))
	assert.Equal(t, in.Actions, decodeActions("Hold,Down,Pause").Actions)
	assert.True(t, decodeActions("").Empty())
}
