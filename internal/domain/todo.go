package domain

import "time"

// Priority of a todo. The store defaults it to medium at creation;
// a full-overwrite update may write it back to NULL.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Category groups todos by area of life.
type Category string

const (
	CategoryGeneral  Category = "general"
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
	CategoryLearning Category = "learning"
)

// Domain entity. Does not depend on Gin, Postgres or Redis.
type Todo struct {
	ID          int64
	Title       string
	Description string
	Priority    *Priority
	Category    *Category
	Completed   bool

	CreatedAt time.Time
}

// TodoDraft carries the fields a caller supplies at creation.
// Title and Description are pointers so an omitted field reaches the store
// as NULL and fails its NOT NULL constraint there, not earlier.
type TodoDraft struct {
	Title       *string
	Description *string
	Priority    *Priority
	Category    *Category
}

// TodoPatch is a full-row overwrite: every field is written as given,
// nil included. Nothing is preserved from the existing row.
type TodoPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	Category    *Category
	Completed   *bool
}
