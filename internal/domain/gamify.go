// Package domain holds the pure types of the EcoQuest engine.
// The gamification core drives cleanup missions through XP, levels,
// badges, achievements, and encounter rewards.
// Design rule: real impact, not dark patterns.
package domain

import "time"

// ─── Level / XP Types ───────────────────────────────────────────────────────

// Level is one entry of the static level catalog.
// Thresholds are cumulative XP and strictly ascending; level 1 starts at 0.
type Level struct {
	Level       int    `json:"level"`
	Title       string `json:"title"`
	XPThreshold int64  `json:"xp_threshold"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// LevelProgress maps a cumulative XP amount onto the level catalog.
// At the terminal level XPSpan is 0 and Percent is pinned to 100.
type LevelProgress struct {
	Current     Level   `json:"current"`
	Next        Level   `json:"next"`
	XPIntoLevel int64   `json:"xp_into_level"`
	XPSpan      int64   `json:"xp_span"`
	Percent     float64 `json:"percent"`
}

// AtMax reports whether there is no further level to reach.
func (p LevelProgress) AtMax() bool {
	return p.Current.Level == p.Next.Level
}

// XPSource categorizes how XP was earned. Metadata only — not validated.
type XPSource string

const (
	XPMission     XPSource = "MISSION"
	XPEncounter   XPSource = "ENCOUNTER"
	XPVerified    XPSource = "CLEANUP_VERIFIED"
	XPAchievement XPSource = "ACHIEVEMENT"
	XPCommunity   XPSource = "COMMUNITY_EVENT"
)

// ─── Badge / Achievement Types ──────────────────────────────────────────────

// Badge is a cosmetic award. Earning sets EarnedAt; badges are never un-earned.
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	EarnedAt    time.Time `json:"earned_at,omitzero"`
}

// Earned reports whether the badge has been awarded.
func (b Badge) Earned() bool { return !b.EarnedAt.IsZero() }

// Achievement is a one-shot goal with a declared XP reward.
// Completing it does NOT apply the reward to the ledger — callers wire
// that explicitly (observed behavior of the mobile app, kept as-is).
type Achievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	XPReward    int64     `json:"xp_reward"`
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
}

// ─── Ledger State ───────────────────────────────────────────────────────────

// LedgerState is the full per-user gamification state. It is serialized as
// one JSON record under a fixed storage key and hydrated at session start.
type LedgerState struct {
	TotalXP      int64         `json:"total_xp"`
	WeeklyXP     int64         `json:"weekly_xp"`
	MonthlyXP    int64         `json:"monthly_xp"`
	Streak       int           `json:"streak"`
	Badges       []Badge       `json:"badges"`
	Achievements []Achievement `json:"achievements"`
	Progress     LevelProgress `json:"progress"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ─── Engagement Events ──────────────────────────────────────────────────────

// EventKind categorizes engagement events emitted by ledger mutations.
type EventKind string

const (
	EventLevelUp         EventKind = "level_up"
	EventBadgeEarned     EventKind = "badge_earned"
	EventAchievementDone EventKind = "achievement_completed"
	EventStreakMilestone EventKind = "streak_milestone"
	EventCleanupVerified EventKind = "cleanup_verified"
)

// Event is a thin notification trigger derived from a state change.
// The ledger emits events; it never dispatches them itself.
type Event struct {
	Kind  EventKind `json:"kind"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
	At    time.Time `json:"at"`
}

// StreakMilestones are the day counts worth celebrating.
var StreakMilestones = []int{3, 7, 14, 30, 100, 365}
