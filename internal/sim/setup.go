package sim

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/hollybrook/fairway/internal/config"
	"github.com/hollybrook/fairway/internal/course"
	"github.com/hollybrook/fairway/internal/crew"
	"github.com/hollybrook/fairway/internal/econ"
	"github.com/hollybrook/fairway/internal/irrigation"
	"github.com/hollybrook/fairway/internal/scenario"
	"github.com/hollybrook/fairway/internal/weather"
)

const (
	starterRoster        = 3
	starterWaterUnitCost = 2 // cents per moisture unit delivered
)

// New builds a fresh simulation: generated terrain, starter irrigation
// covering the greens, a small crew, and a ledger opened with the
// configured bankroll. A zero tuning seed draws one from the wall clock.
func New(tuning config.Tuning, sc *scenario.Scenario, logger *slog.Logger) *Simulation {
	if logger == nil {
		logger = slog.Default()
	}
	seed := tuning.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	gen := course.DefaultGenConfig()
	gen.Width = tuning.CourseWidth
	gen.Height = tuning.CourseHeight
	gen.Holes = tuning.Holes
	gen.Seed = seed
	terrain := course.Generate(gen)

	st := &State{
		Clock:      NewClock(),
		Weather:    weather.State{Condition: weather.Sunny},
		Gates:      NewHourGates(),
		Seed:       seed,
		Ledger:     econ.NewLedger(tuning.StartingCash),
		Network:    starterNetwork(terrain),
		TeeSheet:   NewTeeSheet(),
		Prestige:   PrestigeState{Score: 50},
		Reputation: 50,
	}
	st.ScenarioProgress = scenario.NewProgress(sc)

	s := &Simulation{
		State:    st,
		Terrain:  terrain,
		Sched:    crew.NewScheduler(),
		Tuning:   tuning,
		Scenario: sc,
		rng:      rng,
		logger:   logger,
		spawner:  crew.NewSpawner(seed, tuning.WorkerWage),
		spawn:    findSpawn(terrain),
	}
	s.Sched.SearchRadius = tuning.SearchRadius
	s.Sched.MoveSpeed = tuning.MoveSpeed

	for i := 0; i < starterRoster; i++ {
		s.addWorker(s.spawner.Spawn())
	}

	logger.Info("simulation ready",
		"seed", seed,
		"course", gen.Width*gen.Height,
		"holes", gen.Holes,
		"crew", len(st.Workers),
		"sprinklers", len(st.Network.Sprinklers),
	)
	return s
}

// Attach rebuilds the runtime wrapper around a restored state record.
// The RNG is reseeded from the restored seed; stochastic draws after a
// restore diverge from the original run, which is accepted.
func Attach(st *State, terrain *course.Map, tuning config.Tuning, sc *scenario.Scenario, logger *slog.Logger) *Simulation {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Simulation{
		State:    st,
		Terrain:  terrain,
		Sched:    crew.NewScheduler(),
		Tuning:   tuning,
		Scenario: sc,
		rng:      rand.New(rand.NewSource(st.Seed)),
		logger:   logger,
		spawner:  crew.NewSpawner(st.Seed, tuning.WorkerWage),
		spawn:    findSpawn(terrain),
	}
	s.Sched.SearchRadius = tuning.SearchRadius
	s.Sched.MoveSpeed = tuning.MoveSpeed
	return s
}

// findSpawn picks the clubhouse tile: the first cart-path tile, falling
// back to the first traversable one.
func findSpawn(m *course.Map) course.GridPos {
	var fallback *course.GridPos
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			p := course.GridPos{X: x, Y: y}
			tt, ok := m.TerrainTypeAt(p)
			if !ok {
				continue
			}
			if tt == course.TerrainPath {
				return p
			}
			if fallback == nil && m.IsTraversable(p) {
				fp := p
				fallback = &fp
			}
		}
	}
	if fallback != nil {
		return *fallback
	}
	return course.GridPos{}
}

// addWorker puts an applicant on the roster at the spawn tile.
func (s *Simulation) addWorker(a crew.Applicant) *crew.Worker {
	s.State.NextWorkerID++
	w := &crew.Worker{
		ID:         crew.WorkerID(s.State.NextWorkerID),
		Name:       a.Name,
		Pos:        s.spawn,
		Task:       crew.TaskIdle,
		Efficiency: a.Efficiency,
		OnDuty:     true,
		HourlyWage: a.WageAsk,
	}
	s.State.Workers = append(s.State.Workers, w)
	return w
}

// starterNetwork lays a modest system: one source, a main line chained
// through a handful of green clusters, and a sprinkler head per cluster
// watering the surrounding green in a pre-dawn window.
func starterNetwork(m *course.Map) irrigation.Network {
	heads := greenHeads(m, 6)
	if len(heads) == 0 {
		return irrigation.Network{}
	}

	n := irrigation.Network{
		Sources: []irrigation.Source{{ID: 1, Pos: heads[0], UnitCost: starterWaterUnitCost}},
	}

	var pipeID, sprinklerID uint64
	var upstream uint64
	for _, head := range heads {
		pipeID++
		main := irrigation.Pipe{
			ID: pipeID, Pos: head, Kind: irrigation.PipeMain,
			SourceID: 1, UpstreamID: upstream, InstalledDay: 1,
		}
		n.Pipes = append(n.Pipes, main)
		upstream = main.ID

		pipeID++
		lateral := irrigation.Pipe{
			ID: pipeID, Pos: head, Kind: irrigation.PipeLateral,
			SourceID: 1, UpstreamID: main.ID, InstalledDay: 1,
		}
		n.Pipes = append(n.Pipes, lateral)

		sprinklerID++
		n.Sprinklers = append(n.Sprinklers, irrigation.Sprinkler{
			ID:       sprinklerID,
			Pos:      head,
			PipeID:   lateral.ID,
			Coverage: greenCoverage(m, head, 2),
			Schedule: irrigation.Schedule{
				Enabled:  true,
				Windows:  []irrigation.TimeRange{{StartMinute: 4 * 60, EndMinute: 5 * 60}},
				SkipRain: true,
			},
		})
	}
	return n
}

// greenHeads scatters up to max head positions across the greens, kept
// at least a few tiles apart so each covers its own cluster.
func greenHeads(m *course.Map, max int) []course.GridPos {
	const minSpacing = 6
	var heads []course.GridPos
	for y := 0; y < m.Height && len(heads) < max; y++ {
		for x := 0; x < m.Width && len(heads) < max; x++ {
			p := course.GridPos{X: x, Y: y}
			if tt, ok := m.TerrainTypeAt(p); !ok || tt != course.TerrainGreen {
				continue
			}
			tooClose := false
			for _, h := range heads {
				if p.Manhattan(h) < minSpacing {
					tooClose = true
					break
				}
			}
			if !tooClose {
				heads = append(heads, p)
			}
		}
	}
	return heads
}

// greenCoverage collects the green tiles within radius of a head; the
// center sprays at full efficiency, the ring weaker.
func greenCoverage(m *course.Map, head course.GridPos, radius int) []irrigation.CoverageTile {
	var cov []irrigation.CoverageTile
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := course.GridPos{X: head.X + dx, Y: head.Y + dy}
			if tt, ok := m.TerrainTypeAt(p); !ok || tt != course.TerrainGreen {
				continue
			}
			eff := 1.0
			if dx != 0 || dy != 0 {
				eff = 0.7
			}
			cov = append(cov, irrigation.CoverageTile{Pos: p, Efficiency: eff})
		}
	}
	return cov
}
