package sim

// PrestigeState is the course's standing, recomputed hourly from turf
// condition, reputation, amenities, and the recent excellence window.
// Score maps to a green-fee demand multiplier.
type PrestigeState struct {
	Score     float64 `json:"score"` // 0-100
	Amenities int     `json:"amenities"`
}

// excellenceWindow is how many trailing daily condition snapshots feed
// the prestige recompute.
const excellenceWindow = 7

const amenityPrestige = 3.0

// Recompute refreshes the score. Weights: current condition carries the
// most, the trailing excellence window rewards sustained upkeep, and
// reputation and amenities round it out.
func (p *PrestigeState) Recompute(condition, reputation float64, excellence []float64) {
	window := excellence
	if len(window) > excellenceWindow {
		window = window[len(window)-excellenceWindow:]
	}
	historic := condition
	if len(window) > 0 {
		sum := 0.0
		for _, v := range window {
			sum += v
		}
		historic = sum / float64(len(window))
	}

	score := condition*0.45 + historic*0.25 + reputation*0.30
	score += float64(p.Amenities) * amenityPrestige
	p.Score = clamp(score, 0, 100)
}

// DemandMultiplier maps prestige to arrival demand: 0.5x at rock bottom,
// 1x at a score of 50, up to 1.5x at 100.
func (p *PrestigeState) DemandMultiplier() float64 {
	return 0.5 + p.Score/100.0
}
