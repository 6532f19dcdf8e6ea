package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/hollybrook/fairway/internal/sim"
)

// DB wraps a SQLite connection for autosave storage. Roster, network,
// and ledger tables are full-replaced on every save; day summaries and
// metadata accumulate.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workers (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		pos_x INTEGER NOT NULL,
		pos_y INTEGER NOT NULL,
		task INTEGER NOT NULL,
		work_progress REAL NOT NULL,
		efficiency REAL NOT NULL,
		on_duty INTEGER NOT NULL,
		hourly_wage INTEGER NOT NULL,
		target_json TEXT,
		path_json TEXT
	);

	CREATE TABLE IF NOT EXISTS robots (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		kind INTEGER NOT NULL,
		battery REAL NOT NULL,
		broken_down INTEGER NOT NULL,
		home_x INTEGER NOT NULL,
		home_y INTEGER NOT NULL,
		pos_x INTEGER NOT NULL,
		pos_y INTEGER NOT NULL,
		task INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pipes (
		id INTEGER PRIMARY KEY,
		pos_x INTEGER NOT NULL,
		pos_y INTEGER NOT NULL,
		kind INTEGER NOT NULL,
		source_id INTEGER NOT NULL,
		upstream_id INTEGER NOT NULL,
		installed_day INTEGER NOT NULL,
		last_repair_day INTEGER NOT NULL,
		leaking INTEGER NOT NULL,
		pressure REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sprinklers (
		id INTEGER PRIMARY KEY,
		pos_x INTEGER NOT NULL,
		pos_y INTEGER NOT NULL,
		pipe_id INTEGER NOT NULL,
		active INTEGER NOT NULL,
		coverage_json TEXT NOT NULL,
		schedule_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		day INTEGER NOT NULL,
		minute REAL NOT NULL,
		kind INTEGER NOT NULL,
		category INTEGER NOT NULL,
		amount INTEGER NOT NULL,
		note TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS day_summaries (
		day INTEGER PRIMARY KEY,
		revenue INTEGER NOT NULL,
		expenses INTEGER NOT NULL,
		net INTEGER NOT NULL,
		cash INTEGER NOT NULL,
		rounds INTEGER NOT NULL,
		rejections INTEGER NOT NULL,
		lost_revenue INTEGER NOT NULL,
		no_shows INTEGER NOT NULL,
		avg_satisfaction REAL NOT NULL,
		condition REAL NOT NULL,
		prestige REAL NOT NULL,
		weather TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_day ON transactions(day);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveWorkers writes the human roster (full replace).
func (db *DB) SaveWorkers(st *sim.State) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM workers"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO workers
		(id, name, pos_x, pos_y, task, work_progress, efficiency, on_duty, hourly_wage, target_json, path_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, w := range st.Workers {
		targetJSON, _ := json.Marshal(w.Target)
		pathJSON, _ := json.Marshal(w.Path)
		_, err := stmt.Exec(
			w.ID, w.Name, w.Pos.X, w.Pos.Y, w.Task, w.WorkProgress,
			w.Efficiency, boolInt(w.OnDuty), w.HourlyWage,
			string(targetJSON), string(pathJSON),
		)
		if err != nil {
			return fmt.Errorf("insert worker %d: %w", w.ID, err)
		}
	}
	return tx.Commit()
}

// SaveRobots writes the robot roster (full replace).
func (db *DB) SaveRobots(st *sim.State) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM robots"); err != nil {
		return err
	}

	for _, r := range st.Robots {
		_, err := tx.Exec(`INSERT INTO robots
			(id, name, kind, battery, broken_down, home_x, home_y, pos_x, pos_y, task)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Kind, r.Battery, boolInt(r.BrokenDown),
			r.Home.X, r.Home.Y, r.Pos.X, r.Pos.Y, r.Task,
		)
		if err != nil {
			return fmt.Errorf("insert robot %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// SaveNetwork writes the irrigation system (full replace).
func (db *DB) SaveNetwork(st *sim.State) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM pipes"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM sprinklers"); err != nil {
		return err
	}

	for _, p := range st.Network.Pipes {
		_, err := tx.Exec(`INSERT INTO pipes
			(id, pos_x, pos_y, kind, source_id, upstream_id, installed_day, last_repair_day, leaking, pressure)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Pos.X, p.Pos.Y, p.Kind, p.SourceID, p.UpstreamID,
			p.InstalledDay, p.LastRepairDay, boolInt(p.Leaking), p.Pressure,
		)
		if err != nil {
			return fmt.Errorf("insert pipe %d: %w", p.ID, err)
		}
	}

	for _, sp := range st.Network.Sprinklers {
		coverageJSON, _ := json.Marshal(sp.Coverage)
		scheduleJSON, _ := json.Marshal(sp.Schedule)
		_, err := tx.Exec(`INSERT INTO sprinklers
			(id, pos_x, pos_y, pipe_id, active, coverage_json, schedule_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sp.ID, sp.Pos.X, sp.Pos.Y, sp.PipeID, boolInt(sp.Active),
			string(coverageJSON), string(scheduleJSON),
		)
		if err != nil {
			return fmt.Errorf("insert sprinkler %d: %w", sp.ID, err)
		}
	}
	return tx.Commit()
}

// SaveTransactions writes the full ledger history (full replace).
func (db *DB) SaveTransactions(st *sim.State) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM transactions"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO transactions
		(id, day, minute, kind, category, amount, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range st.Ledger.Transactions {
		_, err := stmt.Exec(t.ID, t.Day, t.Minute, t.Kind, t.Category, t.Amount, t.Note)
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// SaveDaySummary upserts one end-of-day report.
func (db *DB) SaveDaySummary(s sim.DaySummary) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO day_summaries
		(day, revenue, expenses, net, cash, rounds, rejections, lost_revenue, no_shows, avg_satisfaction, condition, prestige, weather)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Day, s.Revenue, s.Expenses, s.Net, s.Cash, s.Rounds,
		s.Rejections, s.LostRevenue, s.NoShows, s.AvgSatisfaction, s.Condition, s.Prestige, s.Weather,
	)
	return err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}

// SaveState performs a full autosave of the simulation state.
func (db *DB) SaveState(st *sim.State, summaries []sim.DaySummary) error {
	slog.Info("autosaving",
		"day", st.Clock.Day,
		"workers", len(st.Workers),
		"robots", len(st.Robots),
		"transactions", len(st.Ledger.Transactions),
	)

	if err := db.SaveWorkers(st); err != nil {
		return fmt.Errorf("save workers: %w", err)
	}
	if err := db.SaveRobots(st); err != nil {
		return fmt.Errorf("save robots: %w", err)
	}
	if err := db.SaveNetwork(st); err != nil {
		return fmt.Errorf("save network: %w", err)
	}
	if err := db.SaveTransactions(st); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	for _, s := range summaries {
		if err := db.SaveDaySummary(s); err != nil {
			return fmt.Errorf("save day %d summary: %w", s.Day, err)
		}
	}
	if err := db.SaveMeta("day", strconv.Itoa(st.Clock.Day)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta("cash", strconv.FormatInt(int64(st.Ledger.Cash), 10)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta("seed", strconv.FormatInt(st.Seed, 10)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	return nil
}

// DaySummaries returns every stored end-of-day report in day order.
func (db *DB) DaySummaries() ([]sim.DaySummary, error) {
	rows, err := db.conn.Queryx(`SELECT day, revenue, expenses, net, cash, rounds,
		rejections, lost_revenue, no_shows, avg_satisfaction, condition, prestige, weather
		FROM day_summaries ORDER BY day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sim.DaySummary
	for rows.Next() {
		var s sim.DaySummary
		if err := rows.Scan(&s.Day, &s.Revenue, &s.Expenses, &s.Net, &s.Cash,
			&s.Rounds, &s.Rejections, &s.LostRevenue, &s.NoShows,
			&s.AvgSatisfaction, &s.Condition, &s.Prestige, &s.Weather); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
