// Package api serves the course state over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/hollybrook/fairway/internal/crew"
	"github.com/hollybrook/fairway/internal/econ"
	"github.com/hollybrook/fairway/internal/irrigation"
	"github.com/hollybrook/fairway/internal/persistence"
	"github.com/hollybrook/fairway/internal/scenario"
	"github.com/hollybrook/fairway/internal/sim"
	"github.com/hollybrook/fairway/internal/weather"
)

// Server serves the simulation over HTTP.
type Server struct {
	Sim      *sim.Simulation
	DB       *persistence.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	hub *eventHub
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	s.hub = newEventHub(s.Sim)
	go s.hub.run()

	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/finances", s.handleFinances)
	mux.HandleFunc("/api/v1/workers", s.handleWorkers)
	mux.HandleFunc("/api/v1/irrigation", s.handleIrrigation)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/ws/events", s.hub.handleWS)

	// Control endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/pause", s.adminOnly(s.handlePause))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, corsMiddleware(mux)); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "control endpoints disabled (no FAIRWAY_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var status map[string]any
	s.Sim.Inspect(func(v *sim.Simulation) {
		st := v.State
		status = map[string]any{
			"day":        st.Clock.Day,
			"time":       fmt.Sprintf("%02d:%02d", st.Clock.Hour(), int(st.Clock.MinuteOfDay)%60),
			"speed":      st.Clock.TimeScale,
			"weather":    weather.ConditionName(st.Weather.Condition),
			"cash":       st.Ledger.Cash,
			"cash_text":  st.Ledger.Cash.Dollars(),
			"prestige":   st.Prestige.Score,
			"reputation": st.Reputation,
			"condition":  v.Terrain.AverageCondition(),
			"golfers":    len(st.Golfers.Active),
			"workers":    len(st.Workers),
			"robots":     len(st.Robots),
			"leaks":      st.Network.LeakCount(),
			"scenario":   scenario.StatusName(st.ScenarioProgress.Status),
		}
	})
	writeJSON(w, status)
}

func (s *Server) handleFinances(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)

	var resp map[string]any
	s.Sim.Inspect(func(v *sim.Simulation) {
		st := v.State

		byCategory := make(map[string]map[string]econ.Cents, econ.NumCategories)
		for c := 0; c < econ.NumCategories; c++ {
			byCategory[econ.CategoryName(econ.Category(c))] = map[string]econ.Cents{
				"income":  st.Ledger.Today.Income[c],
				"expense": st.Ledger.Today.Expense[c],
			}
		}

		txs := st.Ledger.Transactions
		if len(txs) > limit {
			txs = txs[len(txs)-limit:]
		}
		recent := make([]econ.Transaction, len(txs))
		copy(recent, txs)

		summaries := make([]sim.DaySummary, len(v.DaySummaries))
		copy(summaries, v.DaySummaries)

		resp = map[string]any{
			"cash":          st.Ledger.Cash,
			"today":         byCategory,
			"transactions":  recent,
			"day_summaries": summaries,
		}
	})
	writeJSON(w, resp)
}

func (s *Server) handleWorkers(w http.ResponseWriter, r *http.Request) {
	var resp map[string]any
	s.Sim.Inspect(func(v *sim.Simulation) {
		workers := make([]map[string]any, 0, len(v.State.Workers))
		for _, wk := range v.State.Workers {
			workers = append(workers, workerView(wk, nil))
		}
		robots := make([]map[string]any, 0, len(v.State.Robots))
		for _, rb := range v.State.Robots {
			robots = append(robots, workerView(&rb.Worker, rb))
		}
		resp = map[string]any{"workers": workers, "robots": robots}
	})
	writeJSON(w, resp)
}

func workerView(wk *crew.Worker, rb *crew.Robot) map[string]any {
	view := map[string]any{
		"id":         wk.ID,
		"name":       wk.Name,
		"pos":        wk.Pos,
		"task":       crew.TaskName(wk.Task),
		"progress":   wk.WorkProgress,
		"efficiency": wk.Efficiency,
		"on_duty":    wk.OnDuty,
	}
	if wk.Target != nil {
		view["target"] = *wk.Target
	}
	if rb != nil {
		view["kind"] = crew.RobotKindName(rb.Kind)
		view["battery"] = rb.Battery
		view["broken_down"] = rb.BrokenDown
	}
	return view
}

func (s *Server) handleIrrigation(w http.ResponseWriter, r *http.Request) {
	var resp map[string]any
	s.Sim.Inspect(func(v *sim.Simulation) {
		n := v.State.Network

		// Copy before encoding: the tick rewrites pressure and active
		// flags in place once the lock is released.
		sources := make([]irrigation.Source, len(n.Sources))
		copy(sources, n.Sources)
		pipes := make([]irrigation.Pipe, len(n.Pipes))
		copy(pipes, n.Pipes)
		sprinklers := make([]irrigation.Sprinkler, len(n.Sprinklers))
		copy(sprinklers, n.Sprinklers)

		resp = map[string]any{
			"sources":    sources,
			"pipes":      pipes,
			"sprinklers": sprinklers,
			"leaks":      n.LeakCount(),
		}
	})
	writeJSON(w, resp)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)

	var events []sim.Notification
	s.Sim.Inspect(func(v *sim.Simulation) {
		ns := v.Notifications
		if len(ns) > limit {
			ns = ns[len(ns)-limit:]
		}
		events = make([]sim.Notification, len(ns))
		copy(events, ns)
	})
	writeJSON(w, map[string]any{"events": events})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.Sim.SetTimeScale(req.Speed)
	writeJSON(w, map[string]any{"ok": true})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.Sim.SetTimeScale(0)
	writeJSON(w, map[string]any{"ok": true})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}
