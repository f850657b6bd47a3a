package encounter

import "github.com/ecoquest-app/ecoquest/internal/domain"

// Entry fixes the rarity, payout, and spawn weight of one
// encounter type. Weights are percentages and must sum to 100.
type Entry struct {
	Type   domain.EncounterType
	Rarity domain.Rarity
	Reward domain.EncounterReward
	Weight int
}

// rewardCatalog is the static encounter reward model. The two common types
// carry ~67% of the weight; rare types sit in the 2–8% band.
var rewardCatalog = []Entry{
	{Type: domain.EncounterPlasticBottle, Rarity: domain.RarityCommon, Reward: domain.EncounterReward{XP: 20, Leaves: 5}, Weight: 34},
	{Type: domain.EncounterFoodWrapper, Rarity: domain.RarityCommon, Reward: domain.EncounterReward{XP: 15, Leaves: 4}, Weight: 33},
	{Type: domain.EncounterAluminumCan, Rarity: domain.RarityUncommon, Reward: domain.EncounterReward{XP: 30, Leaves: 8}, Weight: 12},
	{Type: domain.EncounterPaperLitter, Rarity: domain.RarityUncommon, Reward: domain.EncounterReward{XP: 25, Leaves: 6}, Weight: 10},
	{Type: domain.EncounterGlassShards, Rarity: domain.RarityRare, Reward: domain.EncounterReward{XP: 60, Leaves: 15}, Weight: 6},
	{Type: domain.EncounterEWaste, Rarity: domain.RarityRare, Reward: domain.EncounterReward{XP: 75, Leaves: 20}, Weight: 5},
}

// Catalog returns the reward model (for display).
func Catalog() []Entry {
	out := make([]Entry, len(rewardCatalog))
	copy(out, rewardCatalog)
	return out
}

// RewardFor returns the fixed payout for an encounter type.
func RewardFor(t domain.EncounterType) (domain.EncounterReward, bool) {
	for _, e := range rewardCatalog {
		if e.Type == t {
			return e.Reward, true
		}
	}
	return domain.EncounterReward{}, false
}

// pickEntry draws a catalog entry from the cumulative-weight table.
// roll must be in [0,100).
func pickEntry(roll int) Entry {
	cum := 0
	for _, e := range rewardCatalog {
		cum += e.Weight
		if roll < cum {
			return e
		}
	}
	return rewardCatalog[len(rewardCatalog)-1]
}
