/*
Package archive
File: archive_test.go
Description: Round-trips snapshots through the SQLite archive.
*/

package archive

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/everforgeworks/galaxies-frontier/internal/game"
)

func sampleSnapshot(tick int) game.GalaxySnapshot {
	return game.GalaxySnapshot{
		Tick:          tick,
		Running:       true,
		Connected:     true,
		CriticalNodes: []int{1},
		Planets: []game.PlanetSnapshot{
			{ID: 0, Class: "A", Inventory: map[string]int{"hydrogen": 2},
				Energy: 3, Cells: 4, Alive: true, Known: true},
		},
		Explorers: []game.ExplorerSnapshot{
			{ID: 1, Position: 0, Inventory: map[string]int{"water": 1},
				Life: 12, Strategy: "best_path", Target: "life", Alive: true},
		},
	}
}

func TestRecordAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frontier.db")

	first, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	runID := first.RunID()
	require.NotEmpty(t, runID)

	for _, tick := range []int{2, 4, 6} {
		require.NoError(t, first.Record(sampleSnapshot(tick)))
	}
	// Close drains the writer queue, so everything recorded is on disk.
	require.NoError(t, first.Close())

	second, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer second.Close()
	assert.NotEqual(t, runID, second.RunID(), "every session is its own run")

	ticks, err := second.Ticks(runID)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 6}, ticks)

	got, err := second.Load(runID, 4)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(4), got)
}

func TestLoadMissingTick(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "frontier.db"), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Load(s.RunID(), 99)
	assert.Error(t, err)
}

func TestRunsAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frontier.db")

	first, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Record(sampleSnapshot(1)))
	require.NoError(t, first.Close())

	second, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.Record(sampleSnapshot(1)))

	ticks, err := second.Ticks(first.RunID())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ticks, "another run's writes never leak in")
}

func TestRecordOverwriteKeepsLatest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frontier.db")
	s, err := Open(path, zap.NewNop())
	require.NoError(t, err)

	snap := sampleSnapshot(3)
	require.NoError(t, s.Record(snap))
	snap.Planets[0].Energy = 1
	require.NoError(t, s.Record(snap))
	runID := s.RunID()
	require.NoError(t, s.Close())

	reader, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer reader.Close()

	got, err := reader.Load(runID, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Planets[0].Energy)

	ticks, err := reader.Ticks(runID)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, ticks, "same tick replaces, not duplicates")
}
