// Package encounter implements the session-local reward spawner: tappable
// cleanup encounters spawned around the player, claimed for fixed XP/leaf
// rewards, and swept once their ten-minute lifetime elapses.
package encounter

import (
	"log"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ecoquest-app/ecoquest/internal/app/ledger"
	"github.com/ecoquest-app/ecoquest/internal/app/wallet"
	"github.com/ecoquest-app/ecoquest/internal/domain"
	"github.com/ecoquest-app/ecoquest/internal/infra/metrics"
)

const (
	spawnRadiusMinM = 150.0
	spawnRadiusMaxM = 300.0
	encounterTTL    = 10 * time.Minute

	// Flat-earth degrees-per-meter conversion. Fine for sub-kilometer
	// offsets; NOT valid for large radii or polar latitudes.
	metersPerDegree = 111000.0
)

// Spawner holds the live encounter set. Encounters are never persisted:
// they live in memory and die by claim or sweep.
type Spawner struct {
	mu         sync.Mutex
	encounters map[string]*domain.Encounter
	rng        *rand.Rand
	clock      func() time.Time
	ledger     *ledger.Service
	wallet     *wallet.Service // nil disables leaf payouts
}

// New creates a spawner forwarding claim XP to the given ledger and leaf
// rewards to the given wallet (nil wallet disables leaf payouts).
func New(lgr *ledger.Service, w *wallet.Service) *Spawner {
	return NewWithRand(lgr, w, rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

// NewWithRand creates a spawner with an injected randomness source and
// clock so tests can fix the draw sequence.
func NewWithRand(lgr *ledger.Service, w *wallet.Service, rng *rand.Rand, clock func() time.Time) *Spawner {
	return &Spawner{
		encounters: make(map[string]*domain.Encounter),
		rng:        rng,
		clock:      clock,
		ledger:     lgr,
		wallet:     w,
	}
}

// Spawn creates 1–3 encounters offset from center by a random bearing and
// a radius drawn uniformly from [150m, 300m].
func (s *Spawner) Spawn(center domain.Coordinate) []domain.Encounter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	n := 1 + s.rng.Intn(3)

	out := make([]domain.Encounter, 0, n)
	for i := 0; i < n; i++ {
		entry := pickEntry(s.rng.Intn(100))

		bearing := s.rng.Float64() * 2 * math.Pi
		radius := spawnRadiusMinM + s.rng.Float64()*(spawnRadiusMaxM-spawnRadiusMinM)

		enc := domain.Encounter{
			ID:     uuid.NewString(),
			Type:   entry.Type,
			Rarity: entry.Rarity,
			Reward: entry.Reward,
			Location: domain.Coordinate{
				Latitude:  center.Latitude + radius*math.Cos(bearing)/metersPerDegree,
				Longitude: center.Longitude + radius*math.Sin(bearing)/(metersPerDegree*math.Cos(center.Latitude*math.Pi/180)),
			},
			SpawnedAt: now,
			ExpiresAt: now.Add(encounterTTL),
		}

		s.encounters[enc.ID] = &enc
		metrics.EncountersSpawned.WithLabelValues(string(enc.Rarity)).Inc()
		out = append(out, enc)
	}
	return out
}

// Nearby returns live encounters: unclaimed and unexpired, soonest-expiring
// first. Expired entries are filtered even if the sweep has not run yet.
func (s *Spawner) Nearby() []domain.Encounter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	var out []domain.Encounter
	for _, e := range s.encounters {
		if e.Claimed || e.Expired(now) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out
}

// Complete claims an encounter: marks it claimed, forwards the XP to the
// ledger, and returns the fixed reward plus any engagement events. Fails
// with domain.ErrEncounterNotClaimable when the id is absent, already
// claimed, or expired — callers treat that as a recoverable no-op.
func (s *Spawner) Complete(id string) (domain.EncounterReward, []domain.Event, error) {
	s.mu.Lock()
	e, ok := s.encounters[id]
	if !ok || e.Claimed || e.Expired(s.clock()) {
		s.mu.Unlock()
		return domain.EncounterReward{}, nil, domain.ErrEncounterNotClaimable
	}
	e.Claimed = true
	reward := e.Reward
	rare := e.Rarity == domain.RarityRare
	s.mu.Unlock()

	metrics.EncountersClaimed.Inc()

	events, err := s.ledger.AddXP(reward.XP, domain.XPEncounter)
	if err != nil {
		return reward, nil, err
	}
	if rare {
		events = append(events, s.ledger.EarnBadge("rare_find")...)
	}
	if s.wallet != nil && reward.Leaves > 0 {
		if err := s.wallet.Earn(int64(reward.Leaves), id, "encounter claim"); err != nil {
			// XP already applied; leaf payout failure is logged, not fatal.
			log.Printf("[encounter] leaf payout failed for %s: %v", id, err)
		}
	}
	return reward, events, nil
}

// Sweep removes encounters whose lifetime has elapsed and returns how many
// were dropped. Run periodically (the daemon schedules it every minute).
func (s *Spawner) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	removed := 0
	for id, e := range s.encounters {
		if !e.ExpiresAt.After(now) {
			delete(s.encounters, id)
			removed++
		}
	}
	if removed > 0 {
		metrics.EncountersExpired.Add(float64(removed))
	}
	return removed
}
