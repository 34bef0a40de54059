package tui

import (
	"context"
	"sort"
	"strings"

	todosdk "github.com/abdullah3034/Todo/sdk/todo"
)

// Fixed user-facing messages. The underlying error is never shown; the user
// re-triggers the action, there is no automatic retry.
const (
	msgFetchFailed    = "Failed to fetch todos"
	msgCreateFailed   = "Failed to create todo"
	msgMarkDoneFailed = "Failed to mark todo as done"
	msgUpdateFailed   = "Failed to update todo"
)

const (
	defaultPriority = "medium"
	defaultCategory = "general"
)

// State is the client-side container: the fetched list (newest first), a
// loading flag, at most one error message, and three filter criteria. It is
// not safe for concurrent use; the terminal front end drives it from a
// single goroutine.
type State struct {
	client *todosdk.Client

	todos   []todosdk.Todo
	loading bool
	errMsg  string

	search   string
	priority string // "" matches all
	category string // "" matches all
}

func NewState(client *todosdk.Client) *State {
	return &State{client: client}
}

// Load fetches the full list and stores it sorted descending by id, an
// approximation of recency ordering. On failure the previous list stays.
func (s *State) Load(ctx context.Context) {
	s.loading = true
	list, err := s.client.List(ctx)
	s.loading = false
	if err != nil {
		s.errMsg = msgFetchFailed
		return
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	s.todos = list
	s.errMsg = ""
}

// Create posts a new todo and prepends the returned record to the local
// list rather than re-fetching.
func (s *State) Create(ctx context.Context, in todosdk.CreateInput) {
	t, err := s.client.Create(ctx, in)
	if err != nil {
		s.errMsg = msgCreateFailed
		return
	}
	s.todos = append([]todosdk.Todo{t}, s.todos...)
	s.errMsg = ""
}

// MarkDone removes the todo permanently: "done" keeps the deletion
// semantics of the original contract rather than flipping the completed
// flag (Toggle exists for that).
func (s *State) MarkDone(ctx context.Context, id int64) {
	if err := s.client.Delete(ctx, id); err != nil {
		s.errMsg = msgMarkDoneFailed
		return
	}
	kept := s.todos[:0]
	for _, t := range s.todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.todos = kept
	s.errMsg = ""
}

// Toggle flips the completed flag through a full-overwrite update, resending
// every field so nothing is lost, and mirrors the flip locally.
func (s *State) Toggle(ctx context.Context, id int64) {
	idx := -1
	for i := range s.todos {
		if s.todos[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	t := s.todos[idx]
	completed := !t.Completed
	err := s.client.Update(ctx, id, todosdk.UpdateInput{
		Title:       &t.Title,
		Description: &t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
		Completed:   &completed,
	})
	if err != nil {
		s.errMsg = msgUpdateFailed
		return
	}
	s.todos[idx].Completed = completed
	s.errMsg = ""
}

// SetSearch sets the free-text filter. Empty matches all.
func (s *State) SetSearch(q string) { s.search = strings.TrimSpace(q) }

// SetPriority sets the priority filter. Empty matches all.
func (s *State) SetPriority(p string) { s.priority = strings.TrimSpace(p) }

// SetCategory sets the category filter. Empty matches all.
func (s *State) SetCategory(c string) { s.category = strings.TrimSpace(c) }

// ClearFilters resets all three criteria.
func (s *State) ClearFilters() {
	s.search, s.priority, s.category = "", "", ""
}

// Visible derives the filtered subset: the conjunction of a case-insensitive
// substring match on title or description, an exact priority match (absent
// row priority counts as medium) and an exact category match (absent counts
// as general).
func (s *State) Visible() []todosdk.Todo {
	out := make([]todosdk.Todo, 0, len(s.todos))
	q := strings.ToLower(s.search)
	for _, t := range s.todos {
		if q != "" &&
			!strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			continue
		}
		if s.priority != "" && orDefault(t.Priority, defaultPriority) != s.priority {
			continue
		}
		if s.category != "" && orDefault(t.Category, defaultCategory) != s.category {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Len reports the size of the unfiltered list.
func (s *State) Len() int { return len(s.todos) }

// Loading reports whether a fetch is in progress.
func (s *State) Loading() bool { return s.loading }

// Err returns the current error banner, empty when none.
func (s *State) Err() string { return s.errMsg }

func orDefault(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}
