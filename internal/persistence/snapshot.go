// Package persistence provides snapshot capture/restore and
// SQLite-backed autosave storage for the simulation state.
package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/hollybrook/fairway/internal/course"
	"github.com/hollybrook/fairway/internal/sim"
)

// SnapshotVersion is bumped on incompatible layout changes.
const SnapshotVersion = 1

// Snapshot is a complete, self-contained copy of a simulation moment:
// the aggregate state record plus the terrain grid. RNG state is not
// captured; a restored run reseeds and diverges stochastically.
type Snapshot struct {
	Version int         `json:"version"`
	State   *sim.State  `json:"state"`
	Terrain *course.Map `json:"terrain"`
}

// Capture deep-copies the live state into a snapshot. The copy shares
// nothing with the running simulation, so the caller may persist it
// while ticking continues.
func Capture(st *sim.State, terrain *course.Map) (*Snapshot, error) {
	stCopy, err := cloneJSON(st)
	if err != nil {
		return nil, fmt.Errorf("capture state: %w", err)
	}
	terrainCopy, err := cloneJSON(terrain)
	if err != nil {
		return nil, fmt.Errorf("capture terrain: %w", err)
	}
	return &Snapshot{Version: SnapshotVersion, State: stCopy, Terrain: terrainCopy}, nil
}

// Restore deep-copies a snapshot back out into live state.
func Restore(snap *Snapshot) (*sim.State, *course.Map, error) {
	if snap.Version != SnapshotVersion {
		return nil, nil, fmt.Errorf("restore: unsupported snapshot version %d", snap.Version)
	}
	if snap.State == nil || snap.Terrain == nil {
		return nil, nil, fmt.Errorf("restore: incomplete snapshot")
	}
	st, err := cloneJSON(snap.State)
	if err != nil {
		return nil, nil, fmt.Errorf("restore state: %w", err)
	}
	terrain, err := cloneJSON(snap.Terrain)
	if err != nil {
		return nil, nil, fmt.Errorf("restore terrain: %w", err)
	}
	return st, terrain, nil
}

// cloneJSON round-trips a value through JSON, which is also the wire
// format, so a clone is exactly what a saved-and-reloaded value will be.
func cloneJSON[T any](v *T) (*T, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}
