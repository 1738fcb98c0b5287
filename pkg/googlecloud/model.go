package googlecloud

import (
	"time"
)

// Task is the stored form of a board card. The ID is the key name.
type Task struct {
	ID          string    `datastore:"-" json:"id"`
	Title       string    `datastore:"title" json:"title"`
	Description string    `datastore:"description,noindex" json:"description"`
	Status      string    `datastore:"status" json:"status"`
	Priority    string    `datastore:"priority" json:"priority"`
	DueDate     time.Time `datastore:"due_date" json:"due_date"`
	CreatedAt   time.Time `datastore:"created_at" json:"created_at"`
	Deleted     bool      `datastore:"deleted" json:"deleted"`
}
