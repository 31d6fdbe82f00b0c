package domain

import "time"

type Question struct {
	ID        uint        `json:"question_id"`
	EventID   uint        `json:"event_id"`
	AskedBy   UserSummary `json:"asked_by"`
	Text      string      `json:"question"`
	Votes     int         `json:"votes"`
	CreatedAt time.Time   `json:"created_at"`
}
