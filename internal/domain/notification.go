package domain

import "time"

// ─── Notification Types ─────────────────────────────────────────────────────

// NotificationType categorizes notifications.
type NotificationType string

const (
	NotifyLevelUp     NotificationType = "level_up"
	NotifyBadge       NotificationType = "badge"
	NotifyAchievement NotificationType = "achievement"
	NotifyStreak      NotificationType = "streak_milestone"
	NotifyVerified    NotificationType = "cleanup_verified"
)

// Notification is a user-facing message stored for the UI to surface.
// Delivery (push, in-app banner) is the caller's concern.
type Notification struct {
	ID        int64            `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"created_at"`
	Shown     bool             `json:"shown"`
}

// NotificationPolicy governs how often notifications are created.
// Quiet hours and the daily cap suppress silently — no error, no backlog.
type NotificationPolicy struct {
	MaxPerDay  int    `json:"max_per_day"`
	QuietStart string `json:"quiet_start"` // "22:00"
	QuietEnd   string `json:"quiet_end"`   // "08:00"
}

// DefaultNotificationPolicy returns the shipped policy: 3/day, nights quiet.
func DefaultNotificationPolicy() NotificationPolicy {
	return NotificationPolicy{
		MaxPerDay:  3,
		QuietStart: "22:00",
		QuietEnd:   "08:00",
	}
}
