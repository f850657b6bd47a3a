// Package metrics provides Prometheus metrics for the EcoQuest engine —
// counters and gauges for XP flow, verification outcomes, encounters,
// notifications, and ledger persistence health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── XP / Levels ────────────────────────────────────────────────────────────

// XPAwarded tracks total XP applied to the ledger, by source.
var XPAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecoquest",
	Name:      "xp_awarded_total",
	Help:      "Total XP applied to the ledger.",
}, []string{"source"})

// CurrentLevel tracks the user's current level.
var CurrentLevel = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "ecoquest",
	Name:      "level_current",
	Help:      "Current user level.",
})

// LedgerPersistFailures tracks failed durable writes of the ledger record.
var LedgerPersistFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ecoquest",
	Name:      "ledger_persist_failures_total",
	Help:      "Ledger storage writes that failed and were deferred.",
})

// ─── Verification ───────────────────────────────────────────────────────────

// Verifications tracks scored submissions by outcome (verified, rejected, failed).
var Verifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecoquest",
	Name:      "verifications_total",
	Help:      "Cleanup submissions scored, by outcome.",
}, []string{"outcome"})

// VerificationConfidence tracks the confidence distribution of scored submissions.
var VerificationConfidence = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "ecoquest",
	Name:      "verification_confidence",
	Help:      "Confidence scores of cleanup submissions.",
	Buckets:   []float64{10, 25, 50, 75, 85, 95, 100},
})

// ─── Encounters ─────────────────────────────────────────────────────────────

// EncountersSpawned tracks spawned encounters by rarity.
var EncountersSpawned = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecoquest",
	Name:      "encounters_spawned_total",
	Help:      "Encounters spawned, by rarity.",
}, []string{"rarity"})

// EncountersClaimed tracks successfully claimed encounters.
var EncountersClaimed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ecoquest",
	Name:      "encounters_claimed_total",
	Help:      "Encounters claimed before expiry.",
})

// EncountersExpired tracks encounters removed by the expiry sweep.
var EncountersExpired = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ecoquest",
	Name:      "encounters_expired_total",
	Help:      "Encounters swept after their lifetime elapsed.",
})

// ─── Notifications ──────────────────────────────────────────────────────────

// NotificationsSuppressed tracks notifications dropped by policy.
var NotificationsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecoquest",
	Name:      "notifications_suppressed_total",
	Help:      "Notifications suppressed, by reason (daily_cap, quiet_hours).",
}, []string{"reason"})
