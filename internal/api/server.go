// Package api provides the HTTP server for the EcoQuest engine.
// It exposes the gamification core — ledger, levels, encounters,
// verification, notifications — as a JSON API for the mobile client.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecoquest-app/ecoquest/internal/app/encounter"
	"github.com/ecoquest-app/ecoquest/internal/app/ledger"
	"github.com/ecoquest-app/ecoquest/internal/app/notify"
	"github.com/ecoquest-app/ecoquest/internal/app/verify"
	"github.com/ecoquest-app/ecoquest/internal/app/wallet"
	"github.com/ecoquest-app/ecoquest/internal/health"
)

// Server is the EcoQuest HTTP API server. All services are injected; the
// server owns no state of its own beyond the SSE hub.
type Server struct {
	ledger         *ledger.Service
	spawner        *encounter.Spawner
	scorer         *verify.Scorer
	notify         *notify.Service
	wallet         *wallet.Service
	checker        *health.Checker
	events         *EventHub
	version        string
	metricsEnabled bool
}

// NewServer creates a new API server over the injected services.
func NewServer(lgr *ledger.Service, spawner *encounter.Spawner, scorer *verify.Scorer, notifier *notify.Service, w *wallet.Service, version string) *Server {
	return &Server{
		ledger:  lgr,
		spawner: spawner,
		scorer:  scorer,
		notify:  notifier,
		wallet:  w,
		events:  NewEventHub(),
		version: version,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealthChecker attaches a health checker so /health reports real
// check results instead of a static ok.
func (s *Server) SetHealthChecker(c *health.Checker) { s.checker = c }

// Events returns the SSE hub (for broadcasting from outside the API).
func (s *Server) Events() *EventHub { return s.events }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute)) // long-lived SSE subscribers
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/ledger", s.handleLedger)
		r.Post("/ledger/xp", s.handleAddXP)
		r.Post("/ledger/reset", s.handleReset)

		r.Get("/levels", s.handleLevels)

		r.Get("/badges", s.handleBadges)
		r.Post("/badges/{id}/earn", s.handleEarnBadge)

		r.Get("/achievements", s.handleAchievements)
		r.Post("/achievements/{id}/complete", s.handleCompleteAchievement)

		r.Get("/encounters", s.handleEncounters)
		r.Post("/encounters/{id}/complete", s.handleCompleteEncounter)

		r.Post("/verify", s.handleVerify)

		r.Get("/notifications", s.handleNotifications)
		r.Post("/notifications/{id}/shown", s.handleNotificationShown)

		r.Get("/wallet", s.handleWallet)
		r.Get("/wallet/history", s.handleWalletHistory)

		r.Get("/events", s.events.HandleSSE)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the mobile client's dev builds.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
