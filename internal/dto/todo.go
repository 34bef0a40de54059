package dto

import "time"

// CreateTodoRequest deliberately binds without presence rules: a missing
// title or description is forwarded to the store and rejected by its
// NOT NULL constraint, which keeps validation in one place.
type CreateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Category    *string `json:"category"`
}

// UpdateTodoRequest is a full overwrite: every field the caller wants
// preserved must be resent. Omitted fields are written as NULL.
type UpdateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Category    *string `json:"category"`
	Completed   *bool   `json:"completed"`
}

type TodoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    *string   `json:"priority"`
	Category    *string   `json:"category"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
