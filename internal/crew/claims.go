package crew

import "github.com/hollybrook/fairway/internal/course"

// ClaimRegistry reserves target tiles for the duration of one scheduling
// pass. It is rebuilt from live worker targets at the start of every tick
// and extended as idle workers pick new targets within the same pass, so
// at most one worker is ever inbound to or working a given tile.
// Keys are typed grid positions, not strings, so coordinate scales can
// never collide.
type ClaimRegistry struct {
	held map[course.GridPos]WorkerID
}

// NewClaimRegistry returns an empty registry.
func NewClaimRegistry() *ClaimRegistry {
	return &ClaimRegistry{held: make(map[course.GridPos]WorkerID)}
}

// Claim reserves pos for owner. Returns false if another worker already
// holds it; re-claiming one's own tile succeeds.
func (r *ClaimRegistry) Claim(pos course.GridPos, owner WorkerID) bool {
	if holder, ok := r.held[pos]; ok && holder != owner {
		return false
	}
	r.held[pos] = owner
	return true
}

// Held reports whether pos is claimed by a worker other than owner.
func (r *ClaimRegistry) Held(pos course.GridPos, owner WorkerID) bool {
	holder, ok := r.held[pos]
	return ok && holder != owner
}

// Release drops a claim. Releasing an unheld position is a no-op.
func (r *ClaimRegistry) Release(pos course.GridPos) {
	delete(r.held, pos)
}

// Len returns the number of held claims.
func (r *ClaimRegistry) Len() int {
	return len(r.held)
}

// Seed pre-claims every currently-targeted tile from a worker list.
// Called once per tick per roster before any new targeting runs.
func (r *ClaimRegistry) Seed(workers []*Worker) {
	for _, w := range workers {
		if w.Target != nil {
			r.held[*w.Target] = w.ID
		}
	}
}
