package gamify

// Level is the tier derived from a profile's points. It is computed on
// demand and never stored; points are the only persisted driver.
type Level struct {
	Name  string `json:"name"`
	Badge string `json:"badge"`
	Color string `json:"color"`
}

type tier struct {
	min   int
	level Level
}

// Ascending thresholds, lower bound inclusive.
var tiers = []tier{
	{0, Level{Name: "Iniciante", Badge: "⭐", Color: "#8b5cf6"}},
	{50, Level{Name: "Bronze", Badge: "🥉", Color: "#d97706"}},
	{200, Level{Name: "Prata", Badge: "🥈", Color: "#9ca3af"}},
	{500, Level{Name: "Ouro", Badge: "🥇", Color: "#fbbf24"}},
	{1000, Level{Name: "Diamante", Badge: "💎", Color: "#60a5fa"}},
}

func LevelOf(points int) Level {
	for i := len(tiers) - 1; i >= 0; i-- {
		if points >= tiers[i].min {
			return tiers[i].level
		}
	}
	return tiers[0].level
}

// NextThreshold returns the points needed for the next tier, or the top
// threshold when the profile is already at the highest tier.
func NextThreshold(points int) int {
	for _, t := range tiers[1:] {
		if points < t.min {
			return t.min
		}
	}
	return tiers[len(tiers)-1].min
}

// Progress reports how far the given points are toward the next tier,
// in [0,1]. Measured linearly from the current tier's lower bound, so
// crossing a threshold restarts at 0 instead of jumping mid-bar.
func Progress(points int) float64 {
	if points < 0 {
		points = 0
	}
	prev := 0
	for _, t := range tiers[1:] {
		if points < t.min {
			return float64(points-prev) / float64(t.min-prev)
		}
		prev = t.min
	}
	return 1
}
