package domain

import "time"

// ─── Encounter Types ────────────────────────────────────────────────────────

// Rarity tiers an encounter type for the weighted spawner.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
)

// EncounterType identifies a trash/material category.
type EncounterType string

const (
	EncounterPlasticBottle EncounterType = "plastic_bottle"
	EncounterFoodWrapper   EncounterType = "food_wrapper"
	EncounterAluminumCan   EncounterType = "aluminum_can"
	EncounterPaperLitter   EncounterType = "paper_litter"
	EncounterGlassShards   EncounterType = "glass_shards"
	EncounterEWaste        EncounterType = "e_waste"
)

// Coordinate is a WGS84 point, optionally with a GPS accuracy radius.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"` // meters; 0 = unknown
}

// EncounterReward is the fixed payout for claiming an encounter type.
type EncounterReward struct {
	XP     int64 `json:"xp"`
	Leaves int64 `json:"leaves"` // secondary currency
}

// Encounter is a tappable cleanup spawn near the player. Session-local:
// spawned in memory, never persisted, swept once expired.
type Encounter struct {
	ID        string          `json:"id"`
	Type      EncounterType   `json:"type"`
	Rarity    Rarity          `json:"rarity"`
	Reward    EncounterReward `json:"reward"`
	Location  Coordinate      `json:"location"`
	SpawnedAt time.Time       `json:"spawned_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	Claimed   bool            `json:"claimed"`
}

// Expired reports whether the encounter is past its lifetime.
func (e Encounter) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
