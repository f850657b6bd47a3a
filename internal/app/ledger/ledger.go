// Package ledger implements the XP ledger — the single source of truth for
// a user's gamification state: XP totals, level progress, badges,
// achievements, and streak count.
//
// All mutations are serialized behind one mutex and applied in memory
// first; persistence is dispatched to a single-writer queue so concurrent
// mutations can never interleave storage writes (the mobile app had a
// last-write-wins race here).
package ledger

import (
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/ecoquest-app/ecoquest/internal/domain"
	"github.com/ecoquest-app/ecoquest/internal/infra/metrics"
)

// stateKey is the single storage key the full ledger record lives under.
const stateKey = "ledger_state"

// Service is the XP ledger. Construct once per session and pass by
// reference; it owns its storage key exclusively.
type Service struct {
	mu    sync.Mutex
	store domain.StateStore
	clock func() time.Time
	state domain.LedgerState

	persistCh chan struct{} // buffered 1 — pending writes coalesce
	stopCh    chan struct{}
	doneCh    chan struct{}
	stopOnce  sync.Once
}

// New creates a ledger backed by store, hydrating any previously saved
// state. A failed or corrupt read falls back to the initial state — the
// ledger never refuses to start over a storage problem.
func New(store domain.StateStore) *Service {
	return NewWithClock(store, time.Now)
}

// NewWithClock creates a ledger with an injected clock for tests.
func NewWithClock(store domain.StateStore, clock func() time.Time) *Service {
	s := &Service{
		store:     store,
		clock:     clock,
		persistCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	s.state = s.hydrate()
	go s.writer()
	return s
}

// hydrate loads the saved record, or returns the initial state.
func (s *Service) hydrate() domain.LedgerState {
	raw, err := s.store.GetState(stateKey)
	if err != nil {
		log.Printf("[ledger] load failed, starting fresh: %v", err)
		return s.initialState()
	}
	if raw == "" {
		return s.initialState()
	}

	var state domain.LedgerState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		log.Printf("[ledger] %v: %v — starting fresh", domain.ErrStateCorrupted, err)
		return s.initialState()
	}

	// Recompute rather than trust the stored snapshot.
	state.Progress = ProgressFor(state.TotalXP)
	return state
}

func (s *Service) initialState() domain.LedgerState {
	return domain.LedgerState{
		Badges:       defaultBadges(),
		Achievements: defaultAchievements(),
		Progress:     ProgressFor(0),
		UpdatedAt:    s.clock(),
	}
}

// ─── Mutations ──────────────────────────────────────────────────────────────

// AddXP applies a positive XP delta from source and returns any engagement
// events (level-ups) the delta produced. Linear: AddXP(a) then AddXP(b) is
// AddXP(a+b). Persistence is scheduled, not awaited.
func (s *Service) AddXP(amount int64, source domain.XPSource) ([]domain.Event, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidXPAmount, amount)
	}

	s.mu.Lock()
	oldLevel := s.state.Progress.Current.Level
	s.state.TotalXP += amount
	s.state.WeeklyXP += amount
	s.state.MonthlyXP += amount
	s.state.Progress = ProgressFor(s.state.TotalXP)
	s.state.UpdatedAt = s.clock()
	newProgress := s.state.Progress
	s.mu.Unlock()

	metrics.XPAwarded.WithLabelValues(string(source)).Add(float64(amount))
	metrics.CurrentLevel.Set(float64(newProgress.Current.Level))
	s.schedulePersist()

	var events []domain.Event
	if newProgress.Current.Level > oldLevel {
		events = append(events, domain.Event{
			Kind:  domain.EventLevelUp,
			Title: "Level Up!",
			Body:  fmt.Sprintf("You reached Level %d — %s", newProgress.Current.Level, newProgress.Current.Title),
			At:    s.clock(),
		})
	}
	return events, nil
}

// EarnBadge stamps EarnedAt on the matching catalog entry. Idempotent:
// unknown ids and already-earned badges are silent no-ops.
func (s *Service) EarnBadge(id string) []domain.Event {
	s.mu.Lock()
	var earned *domain.Badge
	for i := range s.state.Badges {
		if s.state.Badges[i].ID == id && !s.state.Badges[i].Earned() {
			s.state.Badges[i].EarnedAt = s.clock()
			s.state.UpdatedAt = s.clock()
			earned = &s.state.Badges[i]
			break
		}
	}
	var events []domain.Event
	if earned != nil {
		events = append(events, domain.Event{
			Kind:  domain.EventBadgeEarned,
			Title: "Badge Earned!",
			Body:  fmt.Sprintf("%s %s — %s", earned.Icon, earned.Name, earned.Description),
			At:    s.clock(),
		})
	}
	s.mu.Unlock()

	if earned != nil {
		s.schedulePersist()
	}
	return events
}

// CompleteAchievement marks the achievement done and stamps CompletedAt.
// Idempotent under the same rules as badges. Does NOT award the declared
// XPReward — callers wire that through AddXP explicitly.
func (s *Service) CompleteAchievement(id string) []domain.Event {
	s.mu.Lock()
	var done *domain.Achievement
	for i := range s.state.Achievements {
		if s.state.Achievements[i].ID == id && !s.state.Achievements[i].Completed {
			s.state.Achievements[i].Completed = true
			s.state.Achievements[i].CompletedAt = s.clock()
			s.state.UpdatedAt = s.clock()
			done = &s.state.Achievements[i]
			break
		}
	}
	var events []domain.Event
	if done != nil {
		events = append(events, domain.Event{
			Kind:  domain.EventAchievementDone,
			Title: "Achievement Complete!",
			Body:  fmt.Sprintf("%s %s — %s", done.Icon, done.Title, done.Description),
			At:    s.clock(),
		})
	}
	s.mu.Unlock()

	if done != nil {
		s.schedulePersist()
	}
	return events
}

// SetStreak records the externally computed day count. Crossing a milestone
// upward emits a streak event. Negative counts are ignored — a streak is a
// non-negative number of days.
func (s *Service) SetStreak(days int) []domain.Event {
	if days < 0 {
		return nil
	}
	s.mu.Lock()
	old := s.state.Streak
	s.state.Streak = days
	s.state.UpdatedAt = s.clock()
	s.mu.Unlock()

	s.schedulePersist()

	var events []domain.Event
	if days > old && slices.Contains(domain.StreakMilestones, days) {
		events = append(events, domain.Event{
			Kind:  domain.EventStreakMilestone,
			Title: "Streak Milestone!",
			Body:  fmt.Sprintf("%d days of cleanups in a row. Keep it going!", days),
			At:    s.clock(),
		})
	}
	return events
}

// Reset restores the ledger to its initial state and persists it.
func (s *Service) Reset() {
	s.mu.Lock()
	s.state = s.initialState()
	s.mu.Unlock()
	metrics.CurrentLevel.Set(1)
	s.schedulePersist()
}

// Snapshot returns a deep copy of the current state for rendering.
func (s *Service) Snapshot() domain.LedgerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.Badges = slices.Clone(s.state.Badges)
	out.Achievements = slices.Clone(s.state.Achievements)
	return out
}

// AchievementReward returns the declared XP reward for an achievement id,
// or 0 if unknown. Used by callers honoring the manual-award contract.
func (s *Service) AchievementReward(id string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.state.Achievements {
		if a.ID == id {
			return a.XPReward
		}
	}
	return 0
}

// ─── Persistence ────────────────────────────────────────────────────────────

// schedulePersist queues a write. The channel holds one pending signal, so
// a burst of mutations collapses into a single storage write of the latest
// state.
func (s *Service) schedulePersist() {
	select {
	case s.persistCh <- struct{}{}:
	default: // a write is already pending — it will pick up this state
	}
}

// writer is the single goroutine allowed to touch storage.
func (s *Service) writer() {
	defer close(s.doneCh)
	for {
		select {
		case <-s.persistCh:
			s.persist()
		case <-s.stopCh:
			s.persist() // final flush
			return
		}
	}
}

// persist writes the current state. Failures are logged and counted, never
// surfaced — the next mutation schedules another attempt.
func (s *Service) persist() {
	s.mu.Lock()
	blob, err := json.Marshal(s.state)
	s.mu.Unlock()
	if err != nil {
		log.Printf("[ledger] marshal state: %v", err)
		return
	}
	if err := s.store.SetState(stateKey, string(blob)); err != nil {
		metrics.LedgerPersistFailures.Inc()
		log.Printf("[ledger] persist failed (retried on next write): %v", err)
	}
}

// Close flushes any pending write and stops the writer goroutine.
// Safe to call more than once.
func (s *Service) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.doneCh
}
