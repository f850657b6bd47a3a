package ledger

import "github.com/ecoquest-app/ecoquest/internal/domain"

// ─── Default Badge Catalog ──────────────────────────────────────────────────
// Badges ship unearned; earning stamps EarnedAt. Order is display order.

func defaultBadges() []domain.Badge {
	return []domain.Badge{
		{ID: "first_cleanup", Name: "First Sweep", Description: "Complete your first cleanup mission.", Icon: "🧹"},
		{ID: "streak_3", Name: "Warming Up", Description: "Keep a 3-day cleanup streak.", Icon: "🔥"},
		{ID: "streak_7", Name: "Week of Green", Description: "Keep a 7-day cleanup streak.", Icon: "🌿"},
		{ID: "streak_30", Name: "Habit Formed", Description: "Keep a 30-day cleanup streak.", Icon: "📅"},
		{ID: "verified_10", Name: "Trusted Hands", Description: "Pass photo verification 10 times.", Icon: "📸"},
		{ID: "recycler", Name: "Recycler", Description: "Claim 25 recyclable encounters.", Icon: "♻️"},
		{ID: "rare_find", Name: "Rare Find", Description: "Claim a rare encounter.", Icon: "💎"},
		{ID: "community_event", Name: "Better Together", Description: "Join a community cleanup event.", Icon: "🤝"},
		{ID: "night_owl", Name: "Night Owl", Description: "Complete a mission after sunset.", Icon: "🦉"},
		{ID: "level_5", Name: "Cleanup Captain", Description: "Reach level 5.", Icon: "⭐"},
	}
}

// ─── Default Achievement Catalog ────────────────────────────────────────────
// XPReward is declared here but NOT applied by CompleteAchievement — the
// caller awards it explicitly. Kept asymmetric to match the mobile app.

func defaultAchievements() []domain.Achievement {
	return []domain.Achievement{
		{ID: "missions_1", Title: "Getting Started", Description: "Complete 1 mission.", Icon: "🎯", XPReward: 50},
		{ID: "missions_10", Title: "Regular", Description: "Complete 10 missions.", Icon: "🏅", XPReward: 200},
		{ID: "missions_50", Title: "Dedicated", Description: "Complete 50 missions.", Icon: "🏆", XPReward: 1000},
		{ID: "encounters_25", Title: "Street Sweeper", Description: "Claim 25 encounters.", Icon: "🗑️", XPReward: 150},
		{ID: "encounters_100", Title: "Block by Block", Description: "Claim 100 encounters.", Icon: "🏙️", XPReward: 500},
		{ID: "verified_first", Title: "Proof Positive", Description: "Pass your first photo verification.", Icon: "✅", XPReward: 75},
		{ID: "verified_25", Title: "Beyond Doubt", Description: "Pass photo verification 25 times.", Icon: "🔍", XPReward: 400},
		{ID: "weekly_500", Title: "Strong Week", Description: "Earn 500 XP in one week.", Icon: "📈", XPReward: 100},
		{ID: "leaves_1000", Title: "Leaf Collector", Description: "Collect 1000 leaves.", Icon: "🍃", XPReward: 250},
		{ID: "max_level", Title: "Eco Legend", Description: "Reach the top level.", Icon: "👑", XPReward: 2000},
	}
}
