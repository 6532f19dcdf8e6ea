// Package config provides balance and service tuning, loaded from an
// optional YAML file with environment-variable overrides on top of
// compiled-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/hollybrook/fairway/internal/econ"
)

// Tuning holds every balance constant the simulation reads.
type Tuning struct {
	Seed int64 `yaml:"seed"`

	// Money, in cents.
	StartingCash    econ.Cents `yaml:"starting_cash"`
	GreenFee        econ.Cents `yaml:"green_fee"`
	WorkerWage      econ.Cents `yaml:"worker_wage"` // per sim-hour
	JobPostingCost  econ.Cents `yaml:"job_posting_cost"`
	RobotPrice      econ.Cents `yaml:"robot_price"`
	RobotHourlyCost econ.Cents `yaml:"robot_hourly_cost"`
	RobotRepairCost econ.Cents `yaml:"robot_repair_cost"`
	LeakRepairCost  econ.Cents `yaml:"leak_repair_cost"`
	UtilityDaily    econ.Cents `yaml:"utility_daily"`

	// Demand.
	BaseArrivalsPerHour float64 `yaml:"base_arrivals_per_hour"`
	WalkOnsPerHour      float64 `yaml:"walk_ons_per_hour"`
	MaxGolfersOnCourse  int     `yaml:"max_golfers_on_course"`
	BookingProbability  float64 `yaml:"booking_probability"`
	NoShowProbability   float64 `yaml:"no_show_probability"`

	// Crew.
	MaxRoster    int     `yaml:"max_roster"`
	SearchRadius int     `yaml:"search_radius"`
	MoveSpeed    float64 `yaml:"move_speed"` // tiles per sim-minute

	// Course generation.
	CourseWidth  int `yaml:"course_width"`
	CourseHeight int `yaml:"course_height"`
	Holes        int `yaml:"holes"`

	// Service.
	Port     int    `yaml:"port"`
	DBPath   string `yaml:"db_path"`
	AdminKey string `yaml:"admin_key"`
}

// Default returns the compiled-in balance.
func Default() Tuning {
	return Tuning{
		StartingCash:    25_000_00,
		GreenFee:        45_00,
		WorkerWage:      18_00,
		JobPostingCost:  250_00,
		RobotPrice:      4_500_00,
		RobotHourlyCost: 2_50,
		RobotRepairCost: 350_00,
		LeakRepairCost:  120_00,
		UtilityDaily:    180_00,

		BaseArrivalsPerHour: 6,
		WalkOnsPerHour:      2.5,
		MaxGolfersOnCourse:  40,
		BookingProbability:  0.25,
		NoShowProbability:   0.08,

		MaxRoster:    12,
		SearchRadius: 25,
		MoveSpeed:    1.5,

		CourseWidth:  96,
		CourseHeight: 96,
		Holes:        9,

		Port:   8080,
		DBPath: "data/fairway.db",
	}
}

// Load reads a YAML tuning file over the defaults, then applies env
// overrides. An empty path skips the file.
func Load(path string) (Tuning, error) {
	t := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return t, fmt.Errorf("read tuning: %w", err)
		}
		if err := yaml.Unmarshal(raw, &t); err != nil {
			return t, fmt.Errorf("parse tuning: %w", err)
		}
	}
	t.applyEnv()
	return t, nil
}

// applyEnv overrides individual settings from the environment.
func (t *Tuning) applyEnv() {
	if v := envInt64("FAIRWAY_SEED"); v != nil {
		t.Seed = *v
	}
	if v := envInt64("FAIRWAY_STARTING_CASH"); v != nil {
		t.StartingCash = econ.Cents(*v)
	}
	if v := envInt64("FAIRWAY_GREEN_FEE"); v != nil {
		t.GreenFee = econ.Cents(*v)
	}
	if v := envInt64("FAIRWAY_PORT"); v != nil {
		t.Port = int(*v)
	}
	if v := os.Getenv("FAIRWAY_DB_PATH"); v != "" {
		t.DBPath = v
	}
	if v := os.Getenv("FAIRWAY_ADMIN_KEY"); v != "" {
		t.AdminKey = v
	}
}

func envInt64(key string) *int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
