package gamify

// Achievement unlock state is a pure function of (marker count, points)
// and is recomputed on every view, never persisted.
type Achievement struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	Icon     string `json:"icon"`
	Unlocked bool   `json:"unlocked"`
}

func Achievements(markerCount, points int) []Achievement {
	return []Achievement{
		{ID: "first_marker", Name: "Primeiro Passo", Desc: "Criou seu primeiro marcador", Icon: "🎯", Unlocked: markerCount >= 1},
		{ID: "explorer", Name: "Explorador", Desc: "Criou 10 marcadores", Icon: "🗺️", Unlocked: markerCount >= 10},
		{ID: "cartographer", Name: "Cartógrafo", Desc: "Criou 50 marcadores", Icon: "🧭", Unlocked: markerCount >= 50},
		{ID: "points_100", Name: "Centenário", Desc: "Atingiu 100 pontos", Icon: "💯", Unlocked: points >= 100},
		{ID: "points_500", Name: "Campeão", Desc: "Atingiu 500 pontos", Icon: "🏆", Unlocked: points >= 500},
	}
}
