package crew

import (
	"testing"

	"github.com/hollybrook/fairway/internal/course"
)

func TestClaimRegistryExclusive(t *testing.T) {
	r := NewClaimRegistry()
	pos := course.GridPos{X: 3, Y: 4}

	if !r.Claim(pos, 1) {
		t.Fatal("fresh claim refused")
	}
	if r.Claim(pos, 2) {
		t.Error("second worker claimed a held tile")
	}
	if !r.Claim(pos, 1) {
		t.Error("owner could not re-claim its own tile")
	}
	if !r.Held(pos, 2) {
		t.Error("Held false for a tile claimed by another worker")
	}
	if r.Held(pos, 1) {
		t.Error("Held true for the claim's own holder")
	}

	r.Release(pos)
	if r.Len() != 0 {
		t.Errorf("len = %d after release, want 0", r.Len())
	}
	if !r.Claim(pos, 2) {
		t.Error("released tile could not be re-claimed")
	}
}

func TestSeedPreclaimsLiveTargets(t *testing.T) {
	a := course.GridPos{X: 1, Y: 1}
	w := &Worker{ID: 7, Target: &a}
	idle := &Worker{ID: 8}

	r := NewClaimRegistry()
	r.Seed([]*Worker{w, idle})

	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1", r.Len())
	}
	if r.Claim(a, 8) {
		t.Error("seeded claim not exclusive")
	}
}
