package comment

import "time"

type Comment struct {
	ID        string    `json:"id"`
	MarkerID  string    `json:"markerId"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
