// Applicant generation — seeded candidate profiles for the hiring flow.
package crew

import (
	"math/rand"

	"github.com/hollybrook/fairway/internal/econ"
)

// Applicant is a generated candidate: experience sets both the starting
// efficiency and the wage they will ask for.
type Applicant struct {
	Name       string
	Efficiency float64
	WageAsk    econ.Cents
}

// Spawner produces applicant profiles from a seeded stream, so a given
// run always meets the same candidates in the same order.
type Spawner struct {
	rng      *rand.Rand
	baseWage econ.Cents
}

// NewSpawner creates an applicant spawner with the given seed and the
// market base wage per sim-hour.
func NewSpawner(seed int64, baseWage econ.Cents) *Spawner {
	return &Spawner{
		rng:      rand.New(rand.NewSource(seed + 300)),
		baseWage: baseWage,
	}
}

// Spawn generates one applicant. Efficiency is bell-curved around 1.0;
// experienced candidates ask proportionally more.
func (s *Spawner) Spawn() Applicant {
	eff := 1.0 + s.rng.NormFloat64()*0.12
	if eff < 0.7 {
		eff = 0.7
	}
	if eff > 1.5 {
		eff = 1.5
	}
	return Applicant{
		Name:       s.generateName(),
		Efficiency: eff,
		WageAsk:    econ.Cents(float64(s.baseWage) * (0.8 + eff*0.3)),
	}
}

// SpawnBatch generates a posting's worth of applicants.
func (s *Spawner) SpawnBatch(count int) []Applicant {
	out := make([]Applicant, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, s.Spawn())
	}
	return out
}

func (s *Spawner) generateName() string {
	first := firstNames[s.rng.Intn(len(firstNames))]
	last := lastNames[s.rng.Intn(len(lastNames))]
	return first + " " + last
}

var firstNames = []string{
	"Sam", "Dana", "Ollie", "Marisol", "Kit", "June", "Pat", "Theo",
	"Reyna", "Gus", "Lena", "Marcus", "Ivy", "Cole", "Priya", "Walt",
	"Nadia", "Felix", "Rosa", "Dex",
}

var lastNames = []string{
	"Whitlow", "Pruitt", "Vance", "Reyes", "Farrier", "Okafor",
	"Ellison", "Marsh", "Calloway", "Bright", "Tanaka", "Holt",
	"Iverson", "McCrae", "Soto", "Lindqvist",
}
