package model

import "time"

// Micropost is a short (1–140 character) post owned by exactly one user.
// Posts are destroyed together with their owner.
type Micropost struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}
