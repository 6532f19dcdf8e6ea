// Course generation using layered simplex noise plus deterministic hole
// stamping: elevation and moisture fields come from noise, hole corridors
// (tee, fairway, green, bunkers) are laid on top from the seed.
package course

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds course generation parameters.
type GenConfig struct {
	Width    int     // Grid width in tiles
	Height   int     // Grid height in tiles
	Seed     int64   // Random seed (0 = random)
	Holes    int     // Number of holes to carve
	SeaLevel float64 // Elevation threshold for water hazards (0.0-1.0)
}

// DefaultGenConfig returns a nine-hole course on a mid-sized grid.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:    96,
		Height:   96,
		Holes:    9,
		SeaLevel: 0.22,
	}
}

// SmallTestConfig returns a tiny course for rapid iteration and tests.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Width:    24,
		Height:   24,
		Holes:    2,
		Seed:     42,
		SeaLevel: 0.15,
	}
}

// Generate creates a complete course map.
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	elevNoise := opensimplex.NewNormalized(seed)
	moistNoise := opensimplex.NewNormalized(seed + 1)

	m := NewMap(cfg.Width, cfg.Height)

	// Base layer: rough everywhere, water in the low spots.
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			t := m.At(GridPos{X: x, Y: y})
			fx, fy := float64(x)/18.0, float64(y)/18.0

			// Multi-octave elevation for natural-looking ponds.
			elev := 0.7*elevNoise.Eval2(fx, fy) + 0.3*elevNoise.Eval2(fx*2.7, fy*2.7)
			t.Elevation = elev

			if elev < cfg.SeaLevel {
				t.Type = TerrainWater
				continue
			}

			t.Type = TerrainRough
			t.Moisture = 35 + 40*moistNoise.Eval2(fx, fy)
			t.Nutrients = 45 + 25*moistNoise.Eval2(fx*1.9, fy*1.9)
			standard, critical := MowStandards(TerrainRough)
			t.Height = standard + rng.Float64()*(critical-standard)*0.5
			t.Health = 60 + rng.Float64()*20
		}
	}

	for h := 0; h < cfg.Holes; h++ {
		carveHole(m, rng)
	}
	return m
}

// carveHole stamps one tee→green corridor: fairway band, green disc,
// tee pad, flanking bunkers, and a cart path along the corridor.
func carveHole(m *Map, rng *rand.Rand) {
	tee := randomLandTile(m, rng)
	green := randomLandTile(m, rng)
	if tee == green {
		return
	}

	length := math.Hypot(float64(green.X-tee.X), float64(green.Y-tee.Y))
	if length < 6 {
		return
	}
	steps := int(length * 2)

	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		cx := float64(tee.X) + f*float64(green.X-tee.X)
		cy := float64(tee.Y) + f*float64(green.Y-tee.Y)
		stampDisc(m, int(cx), int(cy), 2, TerrainFairway)
	}

	stampDisc(m, green.X, green.Y, 2, TerrainGreen)
	stampDisc(m, tee.X, tee.Y, 1, TerrainTee)

	// One or two bunkers guarding the green.
	for i := 0; i < 1+rng.Intn(2); i++ {
		bx := green.X + rng.Intn(7) - 3
		by := green.Y + rng.Intn(7) - 3
		stampDisc(m, bx, by, 1, TerrainBunker)
	}

	// Cart path offset one tile beside the corridor.
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		cx := int(float64(tee.X)+f*float64(green.X-tee.X)) + 3
		cy := int(float64(tee.Y) + f*float64(green.Y-tee.Y))
		if t := m.At(GridPos{X: cx, Y: cy}); t != nil && t.Type == TerrainRough {
			t.Type = TerrainPath
			t.Height, t.Moisture, t.Nutrients = 0, 0, 0
		}
	}
}

func stampDisc(m *Map, cx, cy, radius int, tt TerrainType) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			t := m.At(GridPos{X: cx + dx, Y: cy + dy})
			if t == nil || t.Type == TerrainWater {
				continue
			}
			// Greens win over fairway, fairway never overwrites a green.
			if tt == TerrainFairway && (t.Type == TerrainGreen || t.Type == TerrainTee || t.Type == TerrainBunker) {
				continue
			}
			t.Type = tt
			switch tt {
			case TerrainBunker:
				t.Height, t.Moisture, t.Nutrients = 0, 0, 0
				t.Health = 70
			default:
				standard, _ := MowStandards(tt)
				t.Height = standard
				if t.Moisture < 40 {
					t.Moisture = 40
				}
				t.Health = 75
			}
		}
	}
}

func randomLandTile(m *Map, rng *rand.Rand) GridPos {
	for i := 0; i < 200; i++ {
		p := GridPos{X: 3 + rng.Intn(m.Width-6), Y: 3 + rng.Intn(m.Height-6)}
		if t := m.At(p); t != nil && t.Type == TerrainRough {
			return p
		}
	}
	return GridPos{X: m.Width / 2, Y: m.Height / 2}
}

// TerrainCounts tallies tiles by terrain type, for startup logging.
func TerrainCounts(m *Map) [NumTerrainTypes]int {
	var counts [NumTerrainTypes]int
	for i := range m.Tiles {
		counts[m.Tiles[i].Type]++
	}
	return counts
}
