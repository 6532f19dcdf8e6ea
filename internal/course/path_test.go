package course

import "testing"

// gridTraversal builds a TraversalFunc from an ASCII sketch where '#'
// blocks and anything else is open.
func gridTraversal(rows []string) TraversalFunc {
	return func(p GridPos) bool {
		if p.Y < 0 || p.Y >= len(rows) || p.X < 0 || p.X >= len(rows[p.Y]) {
			return false
		}
		return rows[p.Y][p.X] != '#'
	}
}

func TestFindPathStraightLine(t *testing.T) {
	open := gridTraversal([]string{
		".....",
		".....",
		".....",
	})
	path := FindPath(GridPos{0, 0}, GridPos{4, 0}, open)
	if len(path) != 4 {
		t.Fatalf("path length = %d, want 4", len(path))
	}
	if path[len(path)-1] != (GridPos{4, 0}) {
		t.Errorf("path ends at %v, want goal", path[len(path)-1])
	}
}

func TestFindPathAroundWall(t *testing.T) {
	rows := []string{
		".....",
		".###.",
		".....",
	}
	path := FindPath(GridPos{0, 1}, GridPos{4, 1}, gridTraversal(rows))
	if path == nil {
		t.Fatal("no path found around wall")
	}
	// Manhattan distance is 4 but the wall forces a detour of 6 steps.
	if len(path) != 6 {
		t.Errorf("path length = %d, want 6", len(path))
	}
	for _, p := range path {
		if rows[p.Y][p.X] == '#' {
			t.Errorf("path crosses wall at %v", p)
		}
	}
}

func TestFindPathUnreachable(t *testing.T) {
	rows := []string{
		"..#..",
		"..#..",
		"..#..",
	}
	if path := FindPath(GridPos{0, 1}, GridPos{4, 1}, gridTraversal(rows)); path != nil {
		t.Errorf("found path through solid wall: %v", path)
	}
}

func TestFindPathGoalBlocked(t *testing.T) {
	rows := []string{"..#"}
	if path := FindPath(GridPos{0, 0}, GridPos{2, 0}, gridTraversal(rows)); path != nil {
		t.Errorf("found path to blocked goal: %v", path)
	}
}

func TestFindPathSameTile(t *testing.T) {
	path := FindPath(GridPos{1, 1}, GridPos{1, 1}, func(GridPos) bool { return true })
	if path == nil || len(path) != 0 {
		t.Errorf("same-tile path = %v, want empty non-nil", path)
	}
}

// Equal-cost routes must resolve the same way every run.
func TestFindPathDeterministic(t *testing.T) {
	open := gridTraversal([]string{
		"........",
		"........",
		"........",
		"........",
	})
	first := FindPath(GridPos{0, 0}, GridPos{7, 3}, open)
	for i := 0; i < 50; i++ {
		again := FindPath(GridPos{0, 0}, GridPos{7, 3}, open)
		if len(again) != len(first) {
			t.Fatalf("run %d: length %d, want %d", i, len(again), len(first))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("run %d: waypoint %d = %v, want %v", i, j, again[j], first[j])
			}
		}
	}
}
