// Command fairwaysim runs the golf course management simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hollybrook/fairway/internal/api"
	"github.com/hollybrook/fairway/internal/config"
	"github.com/hollybrook/fairway/internal/persistence"
	"github.com/hollybrook/fairway/internal/scenario"
	"github.com/hollybrook/fairway/internal/sim"
)

var (
	tuningFile   string
	scenarioFile string
	snapshotFile string
	speed        float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fairwaysim",
		Short: "Golf course management simulation",
		Long: `fairwaysim runs a persistent golf course: tee sheet, golfers,
groundskeeping crew, autonomous mowers, irrigation, and the books.
State autosaves to SQLite; snapshots restore a run exactly.`,
		Run: runSim,
	}
	rootCmd.Flags().StringVarP(&tuningFile, "config", "c", "", "Path to YAML tuning file")
	rootCmd.Flags().StringVarP(&scenarioFile, "scenario", "s", "", "Path to scenario JSON")
	rootCmd.Flags().StringVar(&snapshotFile, "restore", "", "Snapshot file to resume from")
	rootCmd.Flags().Float64Var(&speed, "speed", 1, "Initial time scale (0, 1, 2, 4, 8)")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print the day-by-day performance report from the autosave database",
		Run:   runReport,
	}
	reportCmd.Flags().StringVarP(&tuningFile, "config", "c", "", "Path to YAML tuning file")

	rootCmd.AddCommand(reportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSim(cmd *cobra.Command, args []string) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	tuning, err := config.Load(tuningFile)
	if err != nil {
		slog.Error("load tuning", "error", err)
		os.Exit(1)
	}

	var sc *scenario.Scenario
	if scenarioFile != "" {
		sc, err = scenario.Load(scenarioFile)
		if err != nil {
			slog.Error("load scenario", "error", err)
			os.Exit(1)
		}
		slog.Info("scenario loaded", "name", sc.Name, "objectives", len(sc.Objectives))
	}

	os.MkdirAll(filepath.Dir(tuning.DBPath), 0o755)
	db, err := persistence.Open(tuning.DBPath)
	if err != nil {
		slog.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", tuning.DBPath)

	var simulation *sim.Simulation
	if snapshotFile != "" {
		snap, err := persistence.ReadSnapshot(snapshotFile)
		if err != nil {
			slog.Error("read snapshot", "error", err)
			os.Exit(1)
		}
		st, terrain, err := persistence.Restore(snap)
		if err != nil {
			slog.Error("restore snapshot", "error", err)
			os.Exit(1)
		}
		simulation = sim.Attach(st, terrain, tuning, sc, logger)
		slog.Info("resumed from snapshot", "path", snapshotFile, "day", st.Clock.Day)
	} else {
		simulation = sim.New(tuning, sc, logger)
	}
	simulation.SetTimeScale(speed)

	apiServer := &api.Server{
		Sim:      simulation,
		DB:       db,
		Port:     tuning.Port,
		AdminKey: tuning.AdminKey,
	}
	if tuning.AdminKey == "" {
		slog.Warn("FAIRWAY_ADMIN_KEY not set — control POST endpoints will be disabled")
	}
	apiServer.Start()

	fmt.Printf("\nThe course is open. API: http://localhost:%d/api/v1/status\n", tuning.Port)
	fmt.Println("Running... (Ctrl+C to stop)")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	snapshotPath := filepath.Join(filepath.Dir(tuning.DBPath), "autosave.fws")
	frame := time.NewTicker(200 * time.Millisecond)
	defer frame.Stop()

	last := time.Now()
	for {
		select {
		case <-sigCh:
			slog.Info("shutting down")
			autosave(simulation, db, snapshotPath)
			return
		case now := <-frame.C:
			simulation.Advance(float64(now.Sub(last).Milliseconds()))
			last = now
			if simulation.TakeAutosaveRequest() {
				autosave(simulation, db, snapshotPath)
			}
		}
	}
}

// autosave writes both stores: the queryable SQLite tables and a
// compressed snapshot file for exact resume.
func autosave(s *sim.Simulation, db *persistence.DB, snapshotPath string) {
	var snap *persistence.Snapshot
	var captureErr error
	var summaries []sim.DaySummary

	s.Inspect(func(v *sim.Simulation) {
		snap, captureErr = persistence.Capture(v.State, v.Terrain)
		summaries = append(summaries, v.DaySummaries...)
	})
	if captureErr != nil {
		slog.Error("capture failed", "error", captureErr)
		return
	}

	if err := db.SaveState(snap.State, summaries); err != nil {
		slog.Error("autosave db failed", "error", err)
	}
	if err := persistence.WriteSnapshot(snapshotPath, snap); err != nil {
		slog.Error("autosave snapshot failed", "error", err)
	}
}

func runReport(cmd *cobra.Command, args []string) {
	tuning, err := config.Load(tuningFile)
	if err != nil {
		color.Red("Error loading tuning: %v", err)
		os.Exit(1)
	}

	db, err := persistence.Open(tuning.DBPath)
	if err != nil {
		color.Red("Error opening database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	summaries, err := db.DaySummaries()
	if err != nil {
		color.Red("Error reading summaries: %v", err)
		os.Exit(1)
	}
	if len(summaries) == 0 {
		color.Yellow("No day summaries recorded yet.")
		return
	}

	titleColor := color.New(color.FgCyan, color.Bold)
	titleColor.Println("\nFairway — daily performance")
	fmt.Println()

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Day", "Revenue", "Expenses", "Net", "Cash", "Rounds", "Turned Away", "Lost Revenue", "Satisfaction", "Condition", "Prestige", "Weather"}),
	)
	for _, s := range summaries {
		table.Append([]string{
			fmt.Sprintf("%d", s.Day),
			s.Revenue.Dollars(),
			s.Expenses.Dollars(),
			s.Net.Dollars(),
			s.Cash.Dollars(),
			fmt.Sprintf("%d", s.Rounds),
			fmt.Sprintf("%d", s.Rejections),
			s.LostRevenue.Dollars(),
			fmt.Sprintf("%.0f", s.AvgSatisfaction),
			fmt.Sprintf("%.0f", s.Condition),
			fmt.Sprintf("%.0f", s.Prestige),
			s.Weather,
		})
	}
	table.Render()

	last := summaries[len(summaries)-1]
	if last.Net >= 0 {
		color.New(color.FgGreen, color.Bold).Printf("\nDay %d closed %s in the black.\n", last.Day, last.Net.Dollars())
	} else {
		color.New(color.FgRed, color.Bold).Printf("\nDay %d closed %s in the red.\n", last.Day, (-last.Net).Dollars())
	}
}
