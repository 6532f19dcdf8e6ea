package sim

import (
	"fmt"

	"github.com/hollybrook/fairway/internal/crew"
	"github.com/hollybrook/fairway/internal/econ"
)

const amenityCost = econ.Cents(1_500_00)

// HireWorker posts the job, charges the fee, and hires the next
// applicant off the seeded stream. An explicit name overrides the
// applicant's generated one.
func (s *Simulation) HireWorker(name string) (*crew.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.State
	if len(st.Workers) >= s.Tuning.MaxRoster {
		return nil, fmt.Errorf("hire: roster is full (%d)", s.Tuning.MaxRoster)
	}
	if !st.Ledger.AddExpense(st.Clock.Day, st.Clock.MinuteOfDay, econ.CatHiring, s.Tuning.JobPostingCost, "job posting") {
		return nil, fmt.Errorf("hire: cannot afford posting fee %s", s.Tuning.JobPostingCost.Dollars())
	}
	a := s.spawner.Spawn()
	if name != "" {
		a.Name = name
	}
	w := s.addWorker(a)
	s.notify("crew", "hired "+w.Name, "")
	return w, nil
}

// FireWorker removes a worker; in-flight work is abandoned, state
// discarded. Partial progress earns nothing.
func (s *Simulation) FireWorker(id crew.WorkerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.State
	for i, w := range st.Workers {
		if w.ID != id {
			continue
		}
		st.Workers = append(st.Workers[:i], st.Workers[i+1:]...)
		s.notify("crew", "let go "+w.Name, "")
		return nil
	}
	return fmt.Errorf("fire worker %d: not on roster", id)
}

// BuyRobot purchases an autonomous unit. Its charging station is the
// clubhouse tile.
func (s *Simulation) BuyRobot(kind crew.RobotKind) (*crew.Robot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.State
	if len(st.Workers)+len(st.Robots) >= s.Tuning.MaxRoster {
		return nil, fmt.Errorf("buy robot: roster is full (%d)", s.Tuning.MaxRoster)
	}
	if !st.Ledger.AddExpense(st.Clock.Day, st.Clock.MinuteOfDay, econ.CatEquipment, s.Tuning.RobotPrice, "robot purchase") {
		return nil, fmt.Errorf("buy robot: cannot afford %s", s.Tuning.RobotPrice.Dollars())
	}

	st.NextWorkerID++
	r := &crew.Robot{
		Worker: crew.Worker{
			ID:         crew.WorkerID(st.NextWorkerID),
			Name:       fmt.Sprintf("%s unit %d", crew.RobotKindName(kind), st.NextWorkerID),
			Pos:        s.spawn,
			Task:       crew.TaskIdle,
			Efficiency: 1.0,
			OnDuty:     true,
		},
		Kind:    kind,
		Battery: 100,
		Home:    s.spawn,
	}
	st.Robots = append(st.Robots, r)
	s.notify("crew", "purchased "+r.Name, "")
	return r, nil
}

// SellRobot removes a robot and recovers half its purchase price.
func (s *Simulation) SellRobot(id crew.WorkerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.State
	for i, r := range st.Robots {
		if r.ID != id {
			continue
		}
		st.Robots = append(st.Robots[:i], st.Robots[i+1:]...)
		st.Ledger.AddIncome(st.Clock.Day, st.Clock.MinuteOfDay, econ.CatEquipment, s.Tuning.RobotPrice/2, "robot sale")
		s.notify("crew", "sold "+r.Name, "")
		return nil
	}
	return fmt.Errorf("sell robot %d: not owned", id)
}

// RepairRobot services a broken-down unit for the flat repair fee.
func (s *Simulation) RepairRobot(id crew.WorkerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.State
	for _, r := range st.Robots {
		if r.ID != id {
			continue
		}
		if !r.BrokenDown {
			return fmt.Errorf("repair robot %d: not broken down", id)
		}
		if !st.Ledger.AddExpense(st.Clock.Day, st.Clock.MinuteOfDay, econ.CatRepairs, s.Tuning.RobotRepairCost, "robot repair") {
			return fmt.Errorf("repair robot %d: cannot afford %s", id, s.Tuning.RobotRepairCost.Dollars())
		}
		crew.RepairRobot(r)
		s.notify("crew", "repaired "+r.Name, "")
		return nil
	}
	return fmt.Errorf("repair robot %d: not owned", id)
}

// RepairPipe fixes a leaking pipe for the flat repair fee.
func (s *Simulation) RepairPipe(pipeID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.State
	p := st.Network.FindPipe(pipeID)
	if p == nil {
		return fmt.Errorf("repair pipe %d: no such pipe", pipeID)
	}
	if !p.Leaking {
		return fmt.Errorf("repair pipe %d: not leaking", pipeID)
	}
	if !st.Ledger.AddExpense(st.Clock.Day, st.Clock.MinuteOfDay, econ.CatRepairs, s.Tuning.LeakRepairCost, "pipe repair") {
		return fmt.Errorf("repair pipe %d: cannot afford %s", pipeID, s.Tuning.LeakRepairCost.Dollars())
	}
	st.Network.Repair(pipeID, st.Clock.Day)
	s.notify("irrigation", fmt.Sprintf("pipe %d repaired", pipeID), "")
	return nil
}

// BuyAmenity adds a fixed prestige-bearing amenity (pro shop upgrades,
// cart fleet, practice range).
func (s *Simulation) BuyAmenity() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.State
	if !st.Ledger.AddExpense(st.Clock.Day, st.Clock.MinuteOfDay, econ.CatAmenities, amenityCost, "amenity") {
		return fmt.Errorf("buy amenity: cannot afford %s", amenityCost.Dollars())
	}
	st.Prestige.Amenities++
	s.notify("finance", "new amenity opened", "")
	return nil
}

// StartCampaign launches a catalog campaign; the first daily charge must
// be affordable up front, subsequent charges land at end of day.
func (s *Simulation) StartCampaign(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(CampaignCatalog) {
		return fmt.Errorf("start campaign: no catalog entry %d", index)
	}
	c := CampaignCatalog[index]
	st := s.State
	for _, active := range st.Marketing.Campaigns {
		if active.Name == c.Name {
			return fmt.Errorf("start campaign: %q already running", c.Name)
		}
	}
	if !st.Ledger.CanAfford(c.DailyCost) {
		return fmt.Errorf("start campaign: cannot afford %s/day", c.DailyCost.Dollars())
	}
	st.Marketing.Campaigns = append(st.Marketing.Campaigns, c)
	s.notify("finance", "campaign started: "+c.Name, "")
	return nil
}

// StartResearch begins funding a catalog project. One project at a time;
// completed projects cannot repeat.
func (s *Simulation) StartResearch(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(ResearchCatalog) {
		return fmt.Errorf("start research: no catalog entry %d", index)
	}
	p := ResearchCatalog[index]
	st := s.State
	if st.Research.Active != nil {
		return fmt.Errorf("start research: %q already in progress", st.Research.Active.Name)
	}
	if st.Research.done(p.Name) {
		return fmt.Errorf("start research: %q already completed", p.Name)
	}
	st.Research.Active = &p
	st.Research.Funded = 0
	s.notify("research", "research started: "+p.Name, "")
	return nil
}
