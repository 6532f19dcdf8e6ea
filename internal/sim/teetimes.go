package sim

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"sort"

	"github.com/hollybrook/fairway/internal/config"
)

// TeeSlot is one bookable start time on a given day.
type TeeSlot struct {
	Minute      int  `json:"minute"` // minute of day
	Booked      bool `json:"booked"`
	NoShow      bool `json:"no_show,omitempty"`
	CheckedIn   bool `json:"checked_in,omitempty"`
	PartyWalked bool `json:"party_walked,omitempty"` // filled by a walk-on
}

// TeeSheet maps day number to that day's slots, ordered by minute.
type TeeSheet struct {
	Days map[int][]TeeSlot `json:"days"`

	BookingsToday int `json:"bookings_today"`
	NoShowsToday  int `json:"no_shows_today"`
	WalkOnsToday  int `json:"walk_ons_today"`
}

// NewTeeSheet returns an empty sheet.
func NewTeeSheet() TeeSheet {
	return TeeSheet{Days: make(map[int][]TeeSlot)}
}

// TeeDay is the serialized form of one day's slots. The sheet marshals
// as an ordered list of these so snapshots are byte-stable.
type TeeDay struct {
	Day   int       `json:"day"`
	Slots []TeeSlot `json:"slots"`
}

type teeSheetJSON struct {
	Days          json.RawMessage `json:"days"`
	BookingsToday int             `json:"bookings_today"`
	NoShowsToday  int             `json:"no_shows_today"`
	WalkOnsToday  int             `json:"walk_ons_today"`
}

// MarshalJSON writes the day map as a day-ordered list of pairs.
func (t TeeSheet) MarshalJSON() ([]byte, error) {
	days := make([]TeeDay, 0, len(t.Days))
	for day, slots := range t.Days {
		days = append(days, TeeDay{Day: day, Slots: slots})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })

	raw, err := json.Marshal(days)
	if err != nil {
		return nil, err
	}
	return json.Marshal(teeSheetJSON{
		Days:          raw,
		BookingsToday: t.BookingsToday,
		NoShowsToday:  t.NoShowsToday,
		WalkOnsToday:  t.WalkOnsToday,
	})
}

// UnmarshalJSON accepts both the ordered-list form and the older plain
// map form for the days field.
func (t *TeeSheet) UnmarshalJSON(raw []byte) error {
	var aux teeSheetJSON
	if err := json.Unmarshal(raw, &aux); err != nil {
		return err
	}
	t.BookingsToday = aux.BookingsToday
	t.NoShowsToday = aux.NoShowsToday
	t.WalkOnsToday = aux.WalkOnsToday
	t.Days = make(map[int][]TeeSlot)

	trimmed := bytes.TrimSpace(aux.Days)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '[' {
		var days []TeeDay
		if err := json.Unmarshal(trimmed, &days); err != nil {
			return err
		}
		for _, d := range days {
			t.Days[d.Day] = d.Slots
		}
		return nil
	}
	return json.Unmarshal(trimmed, &t.Days)
}

// Slot cadence: first tee every 10 minutes from open until an hour
// before last light.
const (
	slotInterval  = 10
	firstSlotHour = openHour
	lastSlotHour  = 16
)

// ResetDaily zeroes the day counters and drops fully-spent days.
func (t *TeeSheet) ResetDaily(currentDay int) {
	t.BookingsToday = 0
	t.NoShowsToday = 0
	t.WalkOnsToday = 0
	for day := range t.Days {
		if day < currentDay {
			delete(t.Days, day)
		}
	}
}

// GenerateDay lays out the slot grid for a day and runs the booking
// simulation against it. Generation is idempotent per day. Returns the
// number of bookings made.
func (t *TeeSheet) GenerateDay(day int, bookProb, demandMult float64, rng *rand.Rand) int {
	if t.Days == nil {
		t.Days = make(map[int][]TeeSlot)
	}
	if _, ok := t.Days[day]; ok {
		return 0
	}

	var slots []TeeSlot
	for h := firstSlotHour; h <= lastSlotHour; h++ {
		for m := 0; m < 60; m += slotInterval {
			slots = append(slots, TeeSlot{Minute: h*60 + m})
		}
	}

	p := clamp(bookProb*demandMult, 0, 0.95)
	booked := 0
	for i := range slots {
		if rng.Float64() < p {
			slots[i].Booked = true
			booked++
		}
	}
	t.Days[day] = slots
	t.BookingsToday += booked
	return booked
}

// dueSlots returns indexes of booked, unresolved slots at or before the
// given minute on the given day, in tee order.
func (t *TeeSheet) dueSlots(day int, minute float64) []int {
	slots := t.Days[day]
	var due []int
	for i, s := range slots {
		if s.Booked && !s.CheckedIn && !s.NoShow && float64(s.Minute) <= minute {
			due = append(due, i)
		}
	}
	sort.Slice(due, func(a, b int) bool { return slots[due[a]].Minute < slots[due[b]].Minute })
	return due
}

// processTeeTimes resolves due bookings: each party either no-shows or
// checks in and joins the course (capacity permitting; full course turns
// a booking into a rejection).
func (s *State) processTeeTimes(tuning config.Tuning, condition float64, rng *rand.Rand) (checkedIn, noShows, rejected int) {
	day := s.Clock.Day
	slots := s.TeeSheet.Days[day]
	if len(slots) == 0 {
		return 0, 0, 0
	}

	for _, i := range s.TeeSheet.dueSlots(day, s.Clock.MinuteOfDay) {
		if rng.Float64() < tuning.NoShowProbability {
			slots[i].NoShow = true
			noShows++
			continue
		}
		if len(s.Golfers.Active) >= tuning.MaxGolfersOnCourse {
			slots[i].NoShow = true // booking lost to a full course
			rejected++
			continue
		}
		slots[i].CheckedIn = true
		s.Golfers.admit(day, float64(slots[i].Minute), 9, condition, false)
		checkedIn++
	}

	s.TeeSheet.NoShowsToday += noShows
	s.Golfers.recordRejections(rejected, tuning.GreenFee)
	return checkedIn, noShows, rejected
}

// processWalkOns runs the hourly walk-on draw (open hours only). Walk-ons
// take unbooked slots when one is free this hour; otherwise they play as
// unscheduled parties if the course has room, or are rejected.
func (s *State) processWalkOns(tuning config.Tuning, demandMult, condition float64, rng *rand.Rand) (admitted, rejected int) {
	hour := s.Clock.Hour()
	if hour < openHour || hour > closeHour {
		return 0, 0
	}

	count := stochasticCount(tuning.WalkOnsPerHour*s.Weather.ArrivalFactor()*demandMult, rng)
	day := s.Clock.Day
	slots := s.TeeSheet.Days[day]

	for n := 0; n < count; n++ {
		if len(s.Golfers.Active) >= tuning.MaxGolfersOnCourse {
			rejected++
			continue
		}
		for i := range slots {
			if !slots[i].Booked && !slots[i].PartyWalked && slots[i].Minute/60 == hour {
				slots[i].Booked = true
				slots[i].PartyWalked = true
				slots[i].CheckedIn = true
				break
			}
		}
		s.Golfers.admit(day, s.Clock.MinuteOfDay, 9, condition, true)
		admitted++
	}

	s.TeeSheet.WalkOnsToday += admitted
	s.Golfers.recordRejections(rejected, tuning.GreenFee)
	return admitted, rejected
}
