// Package course provides the square-grid terrain model, the terrain
// provider contract consumed by the scheduler and irrigation network,
// and A* pathfinding over the grid.
// See DESIGN.md for the generation decisions.
package course

// GridPos is a tile position on the course grid.
type GridPos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Manhattan returns the L1 distance to another position.
func (p GridPos) Manhattan(o GridPos) int {
	dx := p.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - o.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Neighbor offsets for the 4-connected grid.
var NeighborDirections = [4]GridPos{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
}

// Add returns p offset by d.
func (p GridPos) Add(d GridPos) GridPos {
	return GridPos{X: p.X + d.X, Y: p.Y + d.Y}
}

// TerrainType classifies a course tile.
type TerrainType uint8

const (
	TerrainGreen   TerrainType = iota // Putting surface — tightest mowing tolerance
	TerrainTee                        // Tee box
	TerrainFairway                    // Mowed playing corridor
	TerrainRough                      // Taller grass bordering fairways
	TerrainBunker                     // Sand hazard — raked, never mowed
	TerrainWater                      // Hazard — impassable
	TerrainPath                       // Cart path — passable, no vegetation
)

// NumTerrainTypes is the count of terrain classifications.
const NumTerrainTypes = 7

// TerrainName returns a human-readable terrain label.
func TerrainName(t TerrainType) string {
	names := [NumTerrainTypes]string{
		"green", "tee", "fairway", "rough", "bunker", "water", "path",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// Mowable reports whether grass height matters on this terrain.
func (t TerrainType) Mowable() bool {
	switch t {
	case TerrainGreen, TerrainTee, TerrainFairway, TerrainRough:
		return true
	}
	return false
}

// Vegetated reports whether the tile holds living turf
// (moisture and nutrients apply).
func (t TerrainType) Vegetated() bool {
	return t.Mowable()
}

// Traversable reports whether workers can cross this terrain on foot.
func (t TerrainType) Traversable() bool {
	return t != TerrainWater
}

// MowStandards returns the standard and critical grass heights (mm) for a
// terrain type. Need rises above standard; above critical it is urgent.
func MowStandards(t TerrainType) (standard, critical float64) {
	switch t {
	case TerrainGreen:
		return 4, 8
	case TerrainTee:
		return 10, 18
	case TerrainFairway:
		return 15, 28
	case TerrainRough:
		return 50, 80
	default:
		return 0, 0
	}
}

// Tile is one cell of the course grid.
type Tile struct {
	Type      TerrainType `json:"type"`
	Height    float64     `json:"height"`    // Grass height, mm
	Moisture  float64     `json:"moisture"`  // 0-100
	Nutrients float64     `json:"nutrients"` // 0-100
	Health    float64     `json:"health"`    // 0-100
	Elevation float64     `json:"elevation"` // 0-1, from generation

	// Absolute sim-minute stamps of the last maintenance passes.
	LastMowedAt float64 `json:"last_mowed_at"`
	LastRakedAt float64 `json:"last_raked_at"`

	Blocked bool `json:"blocked,omitempty"` // Construction, fallen tree, etc.
}

// Conditions is an aggregate sample over a tile neighborhood,
// used by the work-target scorer.
type Conditions struct {
	Moisture  float64     `json:"moisture"`
	Nutrients float64     `json:"nutrients"`
	Height    float64     `json:"height"`
	Health    float64     `json:"health"`
	Dominant  TerrainType `json:"dominant"`
	Samples   int         `json:"samples"`

	// Oldest rake stamp among sampled bunker tiles (absolute sim-minutes);
	// drives the rake cooldown in the scorer.
	LastRakedAt float64 `json:"last_raked_at"`
}

// Candidate pairs a position with its sampled conditions; the scheduler
// scores these.
type Candidate struct {
	Pos GridPos `json:"pos"`
	Conditions
}

// EffectType enumerates the terrain mutations maintenance work applies.
type EffectType uint8

const (
	EffectMow EffectType = iota
	EffectWater
	EffectFertilize
	EffectRake
)

// EffectName returns a human-readable effect label.
func EffectName(e EffectType) string {
	switch e {
	case EffectMow:
		return "mow"
	case EffectWater:
		return "water"
	case EffectFertilize:
		return "fertilize"
	case EffectRake:
		return "rake"
	}
	return "unknown"
}

// Provider is the terrain contract the scheduler and irrigation network
// consume. FindWorkCandidates must return a single consistent snapshot
// per call so every worker in one scheduling pass sees the same world.
// ApplyEffect must be safe to call repeatedly with the same arguments.
type Provider interface {
	SampleConditions(pos GridPos, radius int) Conditions
	IsTraversable(pos GridPos) bool
	TerrainTypeAt(pos GridPos) (TerrainType, bool)
	ApplyEffect(pos GridPos, radius int, effect EffectType, efficiency float64, nowMinutes float64, allowed []TerrainType) int
	FindWorkCandidates(center GridPos, maxRadius int) []Candidate
}
