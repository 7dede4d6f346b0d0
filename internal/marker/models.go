package marker

import "time"

// Marker is a user-created point annotation on the community map.
// Position is [lat, lng]; records with a missing position are kept but
// must be skipped by map consumers, never crashed on.
type Marker struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Position  []float64 `json:"position,omitempty"`
	Title     string    `json:"title"`
	Desc      string    `json:"desc"`
	Category  string    `json:"category"`
	PhotoURL  string    `json:"photoURL"`
	Timestamp time.Time `json:"timestamp"`
}

type UpdateRequest struct {
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	Category string `json:"category"`
	PhotoURL string `json:"photoURL"`
}

const (
	maxTitleLen = 100
	maxDescLen  = 500
)

// CategoryInfo labels a marker category for presentation.
type CategoryInfo struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var categories = map[string]CategoryInfo{
	"vermelho": {Label: "Perigo", Color: "#dc2626", Icon: "🚨"},
	"amarelo":  {Label: "Atenção", Color: "#eab308", Icon: "⚠️"},
	"roxo":     {Label: "Ideia", Color: "#9333ea", Icon: "💡"},
	"duvida":   {Label: "Dúvida", Color: "#6b7280", Icon: "❓"},
	"verde":    {Label: "Positivo", Color: "#16a34a", Icon: "✅"},
}

// KnownCategory reports whether the value belongs to the fixed set
// accepted on writes.
func KnownCategory(category string) bool {
	_, ok := categories[category]
	return ok
}

// CategoryInfoFor never fails: unrecognized values read back from the
// collection get a fallback label instead of breaking rendering.
func CategoryInfoFor(category string) CategoryInfo {
	if info, ok := categories[category]; ok {
		return info
	}
	return CategoryInfo{Label: category, Color: "#6b7280", Icon: "📍"}
}
