package course

import "testing"

func flatMap(w, h int, tt TerrainType) *Map {
	m := NewMap(w, h)
	for i := range m.Tiles {
		m.Tiles[i].Type = tt
		m.Tiles[i].Moisture = 50
		m.Tiles[i].Nutrients = 50
		m.Tiles[i].Health = 70
	}
	return m
}

func TestApplyEffectMowCutsToStandard(t *testing.T) {
	m := flatMap(5, 5, TerrainFairway)
	standard, critical := MowStandards(TerrainFairway)
	pos := GridPos{2, 2}
	m.At(pos).Height = critical + 10

	n := m.ApplyEffect(pos, 0, EffectMow, 1.0, 600, nil)
	if n != 1 {
		t.Fatalf("affected = %d, want 1", n)
	}
	if got := m.At(pos).Height; got != standard {
		t.Errorf("height after mow = %v, want %v", got, standard)
	}
	if m.At(pos).LastMowedAt != 600 {
		t.Errorf("LastMowedAt = %v, want 600", m.At(pos).LastMowedAt)
	}

	// Re-applying with identical arguments must be safe and change nothing.
	before := *m.At(pos)
	m.ApplyEffect(pos, 0, EffectMow, 1.0, 600, nil)
	after := *m.At(pos)
	if before.Height != after.Height || before.LastMowedAt != after.LastMowedAt {
		t.Error("repeated mow changed tile state")
	}
}

func TestApplyEffectRespectsAllowedTypes(t *testing.T) {
	m := flatMap(3, 3, TerrainFairway)
	m.At(GridPos{1, 1}).Type = TerrainGreen

	// Watering restricted to greens touches only the one green tile.
	n := m.ApplyEffect(GridPos{1, 1}, 1, EffectWater, 1.0, 0, []TerrainType{TerrainGreen})
	if n != 1 {
		t.Errorf("affected = %d, want 1", n)
	}
}

func TestApplyEffectSkipsInapplicableTerrain(t *testing.T) {
	m := flatMap(3, 3, TerrainBunker)
	if n := m.ApplyEffect(GridPos{1, 1}, 1, EffectMow, 1.0, 0, nil); n != 0 {
		t.Errorf("mowed %d bunker tiles", n)
	}
	if n := m.ApplyEffect(GridPos{1, 1}, 0, EffectRake, 1.0, 90, nil); n != 1 {
		t.Errorf("raked %d tiles, want 1", n)
	}
	if got := m.At(GridPos{1, 1}).LastRakedAt; got != 90 {
		t.Errorf("LastRakedAt = %v, want 90", got)
	}
}

func TestSampleConditionsAverages(t *testing.T) {
	m := flatMap(3, 3, TerrainFairway)
	m.At(GridPos{0, 0}).Moisture = 20
	m.At(GridPos{2, 2}).Moisture = 80

	c := m.SampleConditions(GridPos{1, 1}, 1)
	if c.Samples != 9 {
		t.Fatalf("samples = %d, want 9", c.Samples)
	}
	want := (20.0 + 80.0 + 7*50.0) / 9.0
	if c.Moisture != want {
		t.Errorf("moisture = %v, want %v", c.Moisture, want)
	}
	if c.Dominant != TerrainFairway {
		t.Errorf("dominant = %v, want fairway", c.Dominant)
	}
}

func TestAdvanceGrowsGrassAndEvaporates(t *testing.T) {
	m := flatMap(2, 2, TerrainFairway)
	h0 := m.At(GridPos{0, 0}).Height
	mo0 := m.At(GridPos{0, 0}).Moisture

	m.Advance(60, false)
	tile := m.At(GridPos{0, 0})
	if tile.Height <= h0 {
		t.Errorf("grass did not grow: %v -> %v", h0, tile.Height)
	}
	if tile.Moisture >= mo0 {
		t.Errorf("moisture did not evaporate: %v -> %v", mo0, tile.Moisture)
	}

	// Rain refills moisture.
	mo1 := tile.Moisture
	m.Advance(60, true)
	if tile.Moisture <= mo1 {
		t.Errorf("rain did not raise moisture: %v -> %v", mo1, tile.Moisture)
	}
}

func TestFindWorkCandidatesRowMajorAndClipped(t *testing.T) {
	m := flatMap(4, 4, TerrainRough)
	got := m.FindWorkCandidates(GridPos{0, 0}, 1)
	// Window around the corner clips to the 2x2 in-bounds quadrant.
	if len(got) != 4 {
		t.Fatalf("candidates = %d, want 4", len(got))
	}
	wantOrder := []GridPos{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for i, w := range wantOrder {
		if got[i].Pos != w {
			t.Errorf("candidate %d at %v, want %v", i, got[i].Pos, w)
		}
	}
}

func TestGenerateDeterministicFromSeed(t *testing.T) {
	a := Generate(SmallTestConfig())
	b := Generate(SmallTestConfig())
	if len(a.Tiles) != len(b.Tiles) {
		t.Fatal("tile counts differ")
	}
	for i := range a.Tiles {
		if a.Tiles[i].Type != b.Tiles[i].Type || a.Tiles[i].Height != b.Tiles[i].Height {
			t.Fatalf("tile %d differs between identical seeds", i)
		}
	}

	counts := TerrainCounts(a)
	if counts[TerrainGreen] == 0 || counts[TerrainFairway] == 0 {
		t.Error("generated course has no greens or fairways")
	}
}
