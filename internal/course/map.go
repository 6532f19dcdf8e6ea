package course

// Map is the in-memory terrain grid. It implements Provider and is the
// only terrain mutation point: the scheduler and irrigation network apply
// their effects here, and natural turf drift runs through Advance.
type Map struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Tiles  []Tile `json:"tiles"` // row-major, len = Width*Height
}

// NewMap allocates an empty grid.
func NewMap(width, height int) *Map {
	return &Map{
		Width:  width,
		Height: height,
		Tiles:  make([]Tile, width*height),
	}
}

// InBounds reports whether a position lies on the grid.
func (m *Map) InBounds(p GridPos) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height
}

// At returns the tile at p, or nil when out of bounds.
func (m *Map) At(p GridPos) *Tile {
	if !m.InBounds(p) {
		return nil
	}
	return &m.Tiles[p.Y*m.Width+p.X]
}

// IsTraversable reports whether a worker can stand on or cross p.
func (m *Map) IsTraversable(p GridPos) bool {
	t := m.At(p)
	if t == nil {
		return false
	}
	return t.Type.Traversable() && !t.Blocked
}

// TerrainTypeAt returns the terrain classification at p.
func (m *Map) TerrainTypeAt(p GridPos) (TerrainType, bool) {
	t := m.At(p)
	if t == nil {
		return 0, false
	}
	return t.Type, true
}

// SampleConditions aggregates tile conditions over a square neighborhood
// of the given radius. Only vegetated and bunker tiles contribute.
func (m *Map) SampleConditions(pos GridPos, radius int) Conditions {
	var c Conditions
	var counts [NumTerrainTypes]int
	sawBunker := false

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			t := m.At(GridPos{X: pos.X + dx, Y: pos.Y + dy})
			if t == nil {
				continue
			}
			counts[t.Type]++
			if t.Type == TerrainBunker {
				if !sawBunker || t.LastRakedAt < c.LastRakedAt {
					c.LastRakedAt = t.LastRakedAt
				}
				sawBunker = true
			}
			if !t.Type.Vegetated() && t.Type != TerrainBunker {
				continue
			}
			c.Moisture += t.Moisture
			c.Nutrients += t.Nutrients
			c.Height += t.Height
			c.Health += t.Health
			c.Samples++
		}
	}

	if c.Samples > 0 {
		n := float64(c.Samples)
		c.Moisture /= n
		c.Nutrients /= n
		c.Height /= n
		c.Health /= n
	}

	// Dominant terrain over everything seen, ties to the lower enum value.
	best := -1
	for tt, n := range counts {
		if n > best {
			best = n
			c.Dominant = TerrainType(tt)
		}
	}
	return c
}

// ApplyEffect mutates terrain in a square neighborhood around pos and
// returns the number of tiles affected. The allowed list, when non-empty,
// restricts which terrain types the effect touches; effects also skip
// terrain they are intrinsically inapplicable to (mowing a bunker does
// nothing). Re-applying the same effect with the same arguments is safe.
func (m *Map) ApplyEffect(pos GridPos, radius int, effect EffectType, efficiency float64, nowMinutes float64, allowed []TerrainType) int {
	affected := 0
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			t := m.At(GridPos{X: pos.X + dx, Y: pos.Y + dy})
			if t == nil || !terrainAllowed(t.Type, allowed) {
				continue
			}
			if m.applyToTile(t, effect, efficiency, nowMinutes) {
				affected++
			}
		}
	}
	return affected
}

func terrainAllowed(t TerrainType, allowed []TerrainType) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}

func (m *Map) applyToTile(t *Tile, effect EffectType, efficiency float64, nowMinutes float64) bool {
	switch effect {
	case EffectMow:
		if !t.Type.Mowable() {
			return false
		}
		standard, _ := MowStandards(t.Type)
		if t.Height > standard {
			t.Height = standard
		}
		t.LastMowedAt = nowMinutes
		t.Health = clamp(t.Health+2*efficiency, 0, 100)
		return true

	case EffectWater:
		if !t.Type.Vegetated() {
			return false
		}
		t.Moisture = clamp(t.Moisture+30*efficiency, 0, 100)
		return true

	case EffectFertilize:
		if !t.Type.Vegetated() {
			return false
		}
		t.Nutrients = clamp(t.Nutrients+40*efficiency, 0, 100)
		return true

	case EffectRake:
		if t.Type != TerrainBunker {
			return false
		}
		t.LastRakedAt = nowMinutes
		t.Health = clamp(t.Health+5*efficiency, 0, 100)
		return true
	}
	return false
}

// WaterAt adds a raw moisture amount at a single tile. Irrigation heads
// use this; unlike EffectWater the amount is caller-computed from
// pressure and coverage efficiency.
func (m *Map) WaterAt(pos GridPos, amount float64) bool {
	t := m.At(pos)
	if t == nil || !t.Type.Vegetated() || amount <= 0 {
		return false
	}
	t.Moisture = clamp(t.Moisture+amount, 0, 100)
	return true
}

// FindWorkCandidates samples every tile in the square window around
// center and returns them in row-major order — a single consistent
// snapshot for one scheduling pass.
func (m *Map) FindWorkCandidates(center GridPos, maxRadius int) []Candidate {
	out := make([]Candidate, 0, (2*maxRadius+1)*(2*maxRadius+1))
	for dy := -maxRadius; dy <= maxRadius; dy++ {
		for dx := -maxRadius; dx <= maxRadius; dx++ {
			p := GridPos{X: center.X + dx, Y: center.Y + dy}
			t := m.At(p)
			if t == nil {
				continue
			}
			out = append(out, Candidate{
				Pos: p,
				Conditions: Conditions{
					Moisture:    t.Moisture,
					Nutrients:   t.Nutrients,
					Height:      t.Height,
					Health:      t.Health,
					Dominant:    t.Type,
					Samples:     1,
					LastRakedAt: t.LastRakedAt,
				},
			})
		}
	}
	return out
}

// Turf drift rates, per sim-minute.
const (
	growthPerMinute      = 0.012 // mm, at full moisture and nutrients
	evaporationPerMinute = 0.03  // moisture points
	rainPerMinute        = 0.25  // moisture points while raining
	nutrientPerMinute    = 0.004 // nutrient points consumed by growth
)

// Advance runs natural turf drift: grass grows, moisture evaporates or
// accumulates under rain, nutrients deplete, and health tracks how well
// the tile is kept.
func (m *Map) Advance(deltaMinutes float64, raining bool) {
	for i := range m.Tiles {
		t := &m.Tiles[i]
		if !t.Type.Vegetated() {
			continue
		}

		// Growth scales with how well-fed and watered the turf is.
		vigor := (t.Moisture / 100) * (0.5 + t.Nutrients/200)
		t.Height += growthPerMinute * vigor * deltaMinutes
		t.Nutrients = clamp(t.Nutrients-nutrientPerMinute*vigor*deltaMinutes, 0, 100)

		if raining {
			t.Moisture = clamp(t.Moisture+rainPerMinute*deltaMinutes, 0, 100)
		} else {
			t.Moisture = clamp(t.Moisture-evaporationPerMinute*deltaMinutes, 0, 100)
		}

		// Health drifts toward a score derived from current upkeep.
		target := upkeepScore(t)
		t.Health += (target - t.Health) * 0.002 * deltaMinutes
	}
}

// upkeepScore rates a tile 0-100 from moisture, nutrients, and how far
// the grass has outgrown its standard.
func upkeepScore(t *Tile) float64 {
	standard, critical := MowStandards(t.Type)
	heightScore := 100.0
	if t.Height > standard && critical > standard {
		over := (t.Height - standard) / (critical - standard)
		heightScore = clamp(100-over*60, 0, 100)
	}
	moistScore := 100 - abs(t.Moisture-60) // happiest around 60
	nutriScore := clamp(t.Nutrients*1.25, 0, 100)
	return clamp((heightScore+moistScore+nutriScore)/3, 0, 100)
}

// AverageCondition returns the mean health over all vegetated and bunker
// tiles — the course-condition figure prestige tracks.
func (m *Map) AverageCondition() float64 {
	total, n := 0.0, 0
	for i := range m.Tiles {
		t := &m.Tiles[i]
		if t.Type.Vegetated() || t.Type == TerrainBunker {
			total += t.Health
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
