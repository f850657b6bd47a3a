// Package notify is the thin dispatch layer between ledger events and
// stored notifications. Policy: a daily cap and quiet hours, both of which
// suppress silently. Delivery (push, banners) is out of scope — the UI
// polls pending notifications or follows the SSE feed.
package notify

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ecoquest-app/ecoquest/internal/domain"
	"github.com/ecoquest-app/ecoquest/internal/infra/metrics"
	"github.com/ecoquest-app/ecoquest/internal/infra/sqlite"
)

// Service manages notifications under the configured policy.
type Service struct {
	db     *sqlite.DB
	policy domain.NotificationPolicy
	clock  func() time.Time
}

// NewService creates a notification service with the default policy.
func NewService(db *sqlite.DB) *Service {
	return NewServiceWithPolicy(db, domain.DefaultNotificationPolicy(), time.Now)
}

// NewServiceWithPolicy creates a notification service with a custom policy
// and clock.
func NewServiceWithPolicy(db *sqlite.DB, policy domain.NotificationPolicy, clock func() time.Time) *Service {
	return &Service{db: db, policy: policy, clock: clock}
}

// Create stores a notification if policy allows it. Policy is judged at
// creation time, not against the event timestamp the notification carries.
// Returns the notification ID (0 if suppressed by policy) and any error.
func (s *Service) Create(notif domain.Notification) (int64, error) {
	now := s.clock()
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = now
	}

	startOfDay := now.Truncate(24 * time.Hour)
	todayCount, err := s.db.NotificationCountSince(startOfDay)
	if err != nil {
		return 0, fmt.Errorf("count today: %w", err)
	}
	if todayCount >= s.policy.MaxPerDay {
		metrics.NotificationsSuppressed.WithLabelValues("daily_cap").Inc()
		return 0, nil
	}

	if s.isQuietHour(now) {
		metrics.NotificationsSuppressed.WithLabelValues("quiet_hours").Inc()
		return 0, nil
	}

	notif.Shown = false
	id, err := s.db.InsertNotification(notif)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	return id, nil
}

// Dispatch turns engagement events into notifications. Storage failures are
// logged, never surfaced — notifications are best-effort.
func (s *Service) Dispatch(events []domain.Event) {
	for _, ev := range events {
		if _, err := s.Create(domain.Notification{
			Type:      typeForEvent(ev.Kind),
			Title:     ev.Title,
			Body:      ev.Body,
			CreatedAt: ev.At,
		}); err != nil {
			log.Printf("[notify] dispatch %s: %v", ev.Kind, err)
		}
	}
}

// Pending returns unshown notifications.
func (s *Service) Pending(limit int) ([]domain.Notification, error) {
	return s.db.ListPendingNotifications(limit)
}

// MarkShown marks a notification as shown.
func (s *Service) MarkShown(id int64) error {
	return s.db.MarkNotificationShown(id)
}

// Policy returns the active notification policy.
func (s *Service) Policy() domain.NotificationPolicy {
	return s.policy
}

func typeForEvent(kind domain.EventKind) domain.NotificationType {
	switch kind {
	case domain.EventLevelUp:
		return domain.NotifyLevelUp
	case domain.EventBadgeEarned:
		return domain.NotifyBadge
	case domain.EventAchievementDone:
		return domain.NotifyAchievement
	case domain.EventStreakMilestone:
		return domain.NotifyStreak
	default:
		return domain.NotifyVerified
	}
}

// isQuietHour returns true if the given time falls within quiet hours.
func (s *Service) isQuietHour(t time.Time) bool {
	startHour, startMin := parseHHMM(s.policy.QuietStart)
	endHour, endMin := parseHHMM(s.policy.QuietEnd)

	timeMinutes := t.Hour()*60 + t.Minute()
	startMinutes := startHour*60 + startMin
	endMinutes := endHour*60 + endMin

	if startMinutes > endMinutes {
		// Wraps midnight: e.g., 22:00 – 08:00
		return timeMinutes >= startMinutes || timeMinutes < endMinutes
	}
	return timeMinutes >= startMinutes && timeMinutes < endMinutes
}

// parseHHMM parses "HH:MM" into hour and minute.
func parseHHMM(s string) (int, int) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h, m
}
