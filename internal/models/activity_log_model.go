package models

import "time"

// ActivityLog records a change to one of the user's lists.
type ActivityLog struct {
	ID        string    `json:"id" firestore:"-"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	UserID    string    `json:"userId" firestore:"userId"`
	Action    string    `json:"action" firestore:"action"` // LIST_ADD or LIST_REMOVE
	Category  Category  `json:"category" firestore:"category"`
	MovieID   int       `json:"movieId" firestore:"movieId"`
	Title     string    `json:"title,omitempty" firestore:"title,omitempty"`
}

const (
	ActionListAdd    = "LIST_ADD"
	ActionListRemove = "LIST_REMOVE"
)
