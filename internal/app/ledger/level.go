package ledger

import "github.com/ecoquest-app/ecoquest/internal/domain"

// levelCatalog is the static level table. Thresholds are cumulative XP and
// strictly ascending; level 1 must sit at 0 so any XP total resolves.
var levelCatalog = []domain.Level{
	{Level: 1, Title: "Sprouting Hero", XPThreshold: 0, Color: "#A5D6A7", Description: "Every forest starts with a seed."},
	{Level: 2, Title: "Green Seedling", XPThreshold: 250, Color: "#81C784", Description: "First roots in the community."},
	{Level: 3, Title: "Eco Scout", XPThreshold: 600, Color: "#66BB6A", Description: "Knows where the litter hides."},
	{Level: 4, Title: "Trash Tracker", XPThreshold: 1100, Color: "#4CAF50", Description: "No wrapper escapes notice."},
	{Level: 5, Title: "Cleanup Captain", XPThreshold: 1800, Color: "#43A047", Description: "Leads cleanups, not just joins them."},
	{Level: 6, Title: "Recycling Ranger", XPThreshold: 2800, Color: "#388E3C", Description: "Sorts it all, every time."},
	{Level: 7, Title: "Waste Warrior", XPThreshold: 4200, Color: "#2E7D32", Description: "A full-time force against litter."},
	{Level: 8, Title: "River Restorer", XPThreshold: 6000, Color: "#1B5E20", Description: "Waterways run cleaner behind you."},
	{Level: 9, Title: "Planet Protector", XPThreshold: 8500, Color: "#33691E", Description: "Your impact crosses neighborhoods."},
	{Level: 10, Title: "Eco Legend", XPThreshold: 12000, Color: "#827717", Description: "The name volunteers tell stories about."},
}

// Levels returns a copy of the level catalog (for display).
func Levels() []domain.Level {
	out := make([]domain.Level, len(levelCatalog))
	copy(out, levelCatalog)
	return out
}

// MaxLevel returns the terminal catalog level.
func MaxLevel() int {
	return levelCatalog[len(levelCatalog)-1].Level
}

// ProgressFor maps a cumulative XP amount onto the level catalog.
// Pure and total: any totalXP >= 0 resolves to the highest level whose
// threshold it meets; below-first-threshold input resolves to level 1.
// At the terminal level Next == Current, XPSpan is 0 and Percent is 100.
func ProgressFor(totalXP int64) domain.LevelProgress {
	idx := 0
	for i, lvl := range levelCatalog {
		if totalXP >= lvl.XPThreshold {
			idx = i
		} else {
			break
		}
	}

	current := levelCatalog[idx]
	if idx == len(levelCatalog)-1 {
		return domain.LevelProgress{
			Current:     current,
			Next:        current,
			XPIntoLevel: totalXP - current.XPThreshold,
			XPSpan:      0,
			Percent:     100,
		}
	}

	next := levelCatalog[idx+1]
	span := next.XPThreshold - current.XPThreshold
	into := totalXP - current.XPThreshold
	pct := float64(into) / float64(span) * 100
	if pct > 100 {
		pct = 100
	}
	return domain.LevelProgress{
		Current:     current,
		Next:        next,
		XPIntoLevel: into,
		XPSpan:      span,
		Percent:     pct,
	}
}
