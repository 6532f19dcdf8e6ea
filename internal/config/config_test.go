package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAreSane(t *testing.T) {
	d := Default()
	if d.StartingCash <= 0 || d.GreenFee <= 0 || d.WorkerWage <= 0 {
		t.Fatalf("non-positive money defaults: %+v", d)
	}
	if d.MaxRoster < 1 || d.Holes < 1 || d.Port == 0 {
		t.Fatalf("bad structural defaults: %+v", d)
	}
	if d.BookingProbability <= 0 || d.BookingProbability >= 1 {
		t.Fatalf("booking probability out of range: %f", d.BookingProbability)
	}
}

func TestLoadAppliesYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	body := "green_fee: 6000\nmax_roster: 4\ndb_path: /tmp/alt.db\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.GreenFee != 60_00 {
		t.Errorf("green fee = %d, want 6000", got.GreenFee)
	}
	if got.MaxRoster != 4 {
		t.Errorf("max roster = %d, want 4", got.MaxRoster)
	}
	if got.DBPath != "/tmp/alt.db" {
		t.Errorf("db path = %q", got.DBPath)
	}
	// Untouched keys keep their defaults.
	if got.WorkerWage != Default().WorkerWage {
		t.Errorf("worker wage changed unexpectedly: %d", got.WorkerWage)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing tuning file")
	}
}

func TestEnvOverridesWinOverYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("green_fee: 6000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FAIRWAY_GREEN_FEE", "7500")
	t.Setenv("FAIRWAY_ADMIN_KEY", "hunter2")

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.GreenFee != 75_00 {
		t.Errorf("green fee = %d, want 7500", got.GreenFee)
	}
	if got.AdminKey != "hunter2" {
		t.Errorf("admin key = %q", got.AdminKey)
	}
}
