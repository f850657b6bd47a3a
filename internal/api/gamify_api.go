package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ecoquest-app/ecoquest/internal/app/ledger"
	"github.com/ecoquest-app/ecoquest/internal/domain"
)

// verifiedCleanupXP is the mission reward applied when a photo submission
// passes verification.
const verifiedCleanupXP = 150

// publish fans engagement events out to stored notifications and the SSE feed.
func (s *Server) publish(events []domain.Event) {
	if len(events) == 0 {
		return
	}
	s.notify.Dispatch(events)
	s.events.Broadcast(events)
}

// ─── Ledger ─────────────────────────────────────────────────────────────────

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Snapshot())
}

type addXPRequest struct {
	Amount int64  `json:"amount"`
	Source string `json:"source"`
}

func (s *Server) handleAddXP(w http.ResponseWriter, r *http.Request) {
	var req addXPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := s.ledger.AddXP(req.Amount, domain.XPSource(req.Source))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.publish(events)

	writeJSON(w, http.StatusOK, map[string]any{
		"ledger": s.ledger.Snapshot(),
		"events": events,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.ledger.Reset()
	writeJSON(w, http.StatusOK, s.ledger.Snapshot())
}

// ─── Levels / Badges / Achievements ─────────────────────────────────────────

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"levels": ledger.Levels()})
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"badges": s.ledger.Snapshot().Badges})
}

func (s *Server) handleEarnBadge(w http.ResponseWriter, r *http.Request) {
	events := s.ledger.EarnBadge(chi.URLParam(r, "id"))
	s.publish(events)
	writeJSON(w, http.StatusOK, map[string]any{
		"earned": len(events) > 0,
		"events": events,
	})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"achievements": s.ledger.Snapshot().Achievements})
}

// handleCompleteAchievement marks the achievement done, then applies its
// declared XP reward. The ledger deliberately does not award that XP
// itself, so the wiring lives here at the caller boundary.
func (s *Server) handleCompleteAchievement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	events := s.ledger.CompleteAchievement(id)

	if len(events) > 0 {
		if reward := s.ledger.AchievementReward(id); reward > 0 {
			xpEvents, err := s.ledger.AddXP(reward, domain.XPAchievement)
			if err != nil {
				log.Printf("[api] achievement %s reward: %v", id, err)
			}
			events = append(events, xpEvents...)
		}
	}
	s.publish(events)

	writeJSON(w, http.StatusOK, map[string]any{
		"completed": len(events) > 0,
		"events":    events,
	})
}

// ─── Encounters ─────────────────────────────────────────────────────────────

func (s *Server) handleEncounters(w http.ResponseWriter, r *http.Request) {
	live := s.spawner.Nearby()

	// Nothing nearby: spawn a fresh batch around the caller, if we know
	// where they are.
	if len(live) == 0 {
		lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
		if latErr == nil && lngErr == nil {
			live = s.spawner.Spawn(domain.Coordinate{Latitude: lat, Longitude: lng})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"encounters": live})
}

func (s *Server) handleCompleteEncounter(w http.ResponseWriter, r *http.Request) {
	reward, events, err := s.spawner.Complete(chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrEncounterNotClaimable) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.publish(events)

	writeJSON(w, http.StatusOK, map[string]any{
		"reward": reward,
		"events": events,
		"ledger": s.ledger.Snapshot(),
	})
}

// ─── Verification ───────────────────────────────────────────────────────────

// handleVerify scores a cleanup submission. An unreadable image is NOT an
// HTTP error: the client gets the terminal failed result with its
// recommendation, exactly like any other low-confidence outcome.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var sub domain.CleanupSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.scorer.Score(sub)
	if err != nil {
		log.Printf("[api] verify %s: %v", sub.MissionID, err)
	}

	var events []domain.Event
	if result.Verified {
		events = append(events, domain.Event{
			Kind:  domain.EventCleanupVerified,
			Title: "Cleanup Verified!",
			Body:  fmt.Sprintf("Your cleanup passed verification at %d%% confidence. +%d XP", result.Confidence, verifiedCleanupXP),
			At:    time.Now(),
		})
		xpEvents, xpErr := s.ledger.AddXP(verifiedCleanupXP, domain.XPVerified)
		if xpErr != nil {
			log.Printf("[api] verified cleanup xp: %v", xpErr)
		}
		events = append(events, xpEvents...)
		s.publish(events)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"result": result,
		"xp":     verifiedXP(result),
		"events": events,
	})
}

func verifiedXP(result domain.VerificationResult) int64 {
	if result.Verified {
		return verifiedCleanupXP
	}
	return 0
}

// ─── Notifications ──────────────────────────────────────────────────────────

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	pending, err := s.notify.Pending(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": pending})
}

func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := s.notify.MarkShown(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─── Wallet ─────────────────────────────────────────────────────────────────

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	balance, err := s.wallet.Balance()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaves": balance})
}

func (s *Server) handleWalletHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.wallet.History(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// ─── Health ─────────────────────────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.checker == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	status := "ok"
	code := http.StatusOK
	if !s.checker.IsHealthy() {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": s.checker.Statuses(),
	})
}
