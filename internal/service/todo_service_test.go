package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dom "github.com/abdullah3034/Todo/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memRepo mirrors the store contract in memory: generated ids, creation
// defaults for priority/category, and a NOT NULL violation when title or
// description is absent.
type memRepo struct {
	nextID    int64
	rows      []dom.Todo
	fail      error
	listCalls int
}

func notNullViolation() error {
	return &pgconn.PgError{Code: "23502", Message: "null value in column violates not-null constraint"}
}

func (r *memRepo) Create(_ context.Context, d dom.TodoDraft) (dom.Todo, error) {
	if r.fail != nil {
		return dom.Todo{}, r.fail
	}
	if d.Title == nil || d.Description == nil {
		return dom.Todo{}, notNullViolation()
	}
	r.nextID++
	t := dom.Todo{
		ID:          r.nextID,
		Title:       *d.Title,
		Description: *d.Description,
		Priority:    d.Priority,
		Category:    d.Category,
		CreatedAt:   time.Now().UTC(),
	}
	if t.Priority == nil {
		p := dom.PriorityMedium
		t.Priority = &p
	}
	if t.Category == nil {
		c := dom.CategoryGeneral
		t.Category = &c
	}
	r.rows = append(r.rows, t)
	return t, nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (dom.Todo, error) {
	if r.fail != nil {
		return dom.Todo{}, r.fail
	}
	for _, t := range r.rows {
		if t.ID == id {
			return t, nil
		}
	}
	return dom.Todo{}, pgx.ErrNoRows
}

func (r *memRepo) List(_ context.Context) ([]dom.Todo, error) {
	r.listCalls++
	if r.fail != nil {
		return nil, r.fail
	}
	if len(r.rows) == 0 {
		// The real repo never allocates for an empty result set.
		return nil, nil
	}
	out := make([]dom.Todo, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *memRepo) Update(_ context.Context, id int64, p dom.TodoPatch) (int64, error) {
	if r.fail != nil {
		return 0, r.fail
	}
	for i := range r.rows {
		if r.rows[i].ID != id {
			continue
		}
		if p.Title == nil || p.Description == nil {
			return 0, notNullViolation()
		}
		r.rows[i].Title = *p.Title
		r.rows[i].Description = *p.Description
		r.rows[i].Priority = p.Priority
		r.rows[i].Category = p.Category
		r.rows[i].Completed = p.Completed != nil && *p.Completed
		return 1, nil
	}
	return 0, nil
}

func (r *memRepo) Delete(_ context.Context, id int64) (int64, error) {
	if r.fail != nil {
		return 0, r.fail
	}
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// memCache is an in-memory ListCache honoring the same contract as the
// Redis-backed one: GetList returns nil on a miss, a cached empty list
// stays non-nil.
type memCache struct {
	list          []dom.Todo
	sets          int
	invalidations int
}

func (c *memCache) GetList(_ context.Context) ([]dom.Todo, error) {
	return c.list, nil
}

func (c *memCache) SetList(_ context.Context, list []dom.Todo) error {
	c.sets++
	c.list = list
	return nil
}

func (c *memCache) Invalidate(_ context.Context) error {
	c.invalidations++
	c.list = nil
	return nil
}

// gatedRepo blocks List until released, so tests can hold a fetch in
// flight while more List calls arrive.
type gatedRepo struct {
	memRepo
	entered chan struct{}
	release chan struct{}
}

func (r *gatedRepo) List(ctx context.Context) ([]dom.Todo, error) {
	select {
	case r.entered <- struct{}{}:
	default:
	}
	<-r.release
	return r.memRepo.List(ctx)
}

func strPtr(s string) *string { return &s }

func priPtr(p dom.Priority) *dom.Priority { return &p }

func catPtr(c dom.Category) *dom.Category { return &c }

func TestCreateAppliesDefaults(t *testing.T) {
	svc := NewTodoService(&memRepo{}, nil)

	got, err := svc.Create(context.Background(), dom.TodoDraft{
		Title:       strPtr("Buy milk"),
		Description: strPtr("2%"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID == 0 {
		t.Error("expected generated id")
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
	if got.Priority == nil || *got.Priority != dom.PriorityMedium {
		t.Errorf("priority = %v, want medium", got.Priority)
	}
	if got.Category == nil || *got.Category != dom.CategoryGeneral {
		t.Errorf("category = %v, want general", got.Category)
	}
	if got.Completed {
		t.Error("new todo must not be completed")
	}
}

func TestCreateMissingTitleFails(t *testing.T) {
	repo := &memRepo{}
	svc := NewTodoService(repo, nil)

	_, err := svc.Create(context.Background(), dom.TodoDraft{Description: strPtr("no title")})
	if err == nil {
		t.Fatal("expected store error for missing title")
	}
	var pge *pgconn.PgError
	if !errors.As(err, &pge) || pge.Code != "23502" {
		t.Fatalf("expected NOT NULL violation, got %v", err)
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("list count = %d, want 0 (failed create must not insert)", len(list))
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewTodoService(&memRepo{}, nil)

	_, err := svc.GetByID(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateOverwritesEveryField(t *testing.T) {
	repo := &memRepo{}
	svc := NewTodoService(repo, nil)

	created, err := svc.Create(context.Background(), dom.TodoDraft{
		Title:       strPtr("old"),
		Description: strPtr("old desc"),
		Priority:    priPtr(dom.PriorityLow),
		Category:    catPtr(dom.CategoryWork),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	done := true
	n, err := svc.Update(context.Background(), created.ID, dom.TodoPatch{
		Title:       strPtr("new"),
		Description: strPtr("new desc"),
		Priority:    priPtr(dom.PriorityHigh),
		Category:    catPtr(dom.CategoryHealth),
		Completed:   &done,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}

	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "new" || got.Description != "new desc" {
		t.Errorf("title/description = %q/%q, want new/new desc", got.Title, got.Description)
	}
	if got.Priority == nil || *got.Priority != dom.PriorityHigh {
		t.Errorf("priority = %v, want high", got.Priority)
	}
	if got.Category == nil || *got.Category != dom.CategoryHealth {
		t.Errorf("category = %v, want health", got.Category)
	}
	if !got.Completed {
		t.Error("completed = false, want true")
	}
}

func TestUpdateOmittedOptionalFieldsAreNotPreserved(t *testing.T) {
	repo := &memRepo{}
	svc := NewTodoService(repo, nil)

	created, _ := svc.Create(context.Background(), dom.TodoDraft{
		Title:       strPtr("t"),
		Description: strPtr("d"),
		Priority:    priPtr(dom.PriorityHigh),
		Category:    catPtr(dom.CategoryShopping),
	})

	// Priority/category omitted: the overwrite clears them instead of
	// keeping the old values.
	if _, err := svc.Update(context.Background(), created.ID, dom.TodoPatch{
		Title:       strPtr("t"),
		Description: strPtr("d"),
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Priority != nil {
		t.Errorf("priority = %v, want nil", *got.Priority)
	}
	if got.Category != nil {
		t.Errorf("category = %v, want nil", *got.Category)
	}
}

func TestUpdateNonexistentSucceedsAndMutatesNothing(t *testing.T) {
	repo := &memRepo{}
	svc := NewTodoService(repo, nil)
	svc.Create(context.Background(), dom.TodoDraft{Title: strPtr("keep"), Description: strPtr("me")})

	n, err := svc.Update(context.Background(), 999, dom.TodoPatch{
		Title:       strPtr("x"),
		Description: strPtr("y"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if n != 0 {
		t.Fatalf("rows = %d, want 0", n)
	}

	list, _ := svc.List(context.Background())
	if len(list) != 1 || list[0].Title != "keep" {
		t.Fatalf("existing row mutated: %+v", list)
	}
}

func TestDeleteIdempotentInEffect(t *testing.T) {
	repo := &memRepo{}
	svc := NewTodoService(repo, nil)

	created, _ := svc.Create(context.Background(), dom.TodoDraft{Title: strPtr("a"), Description: strPtr("b")})

	n, err := svc.Delete(context.Background(), created.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete existing: n=%d err=%v, want 1/nil", n, err)
	}
	list, _ := svc.List(context.Background())
	if len(list) != 0 {
		t.Fatalf("list count = %d after delete, want 0", len(list))
	}

	n, err = svc.Delete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Delete nonexistent must not error: %v", err)
	}
	if n != 0 {
		t.Fatalf("rows = %d, want 0", n)
	}
}

func TestListCompleteness(t *testing.T) {
	svc := NewTodoService(&memRepo{}, nil)

	const n = 5
	for i := 0; i < n; i++ {
		title := "todo " + string(rune('a'+i))
		if _, err := svc.Create(context.Background(), dom.TodoDraft{Title: &title, Description: strPtr("d")}); err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != n {
		t.Fatalf("list count = %d, want %d", len(list), n)
	}
	seen := map[int64]bool{}
	for _, tt := range list {
		if seen[tt.ID] {
			t.Fatalf("id %d present more than once", tt.ID)
		}
		seen[tt.ID] = true
	}
}

func TestCreateTrimsSurroundingWhitespace(t *testing.T) {
	svc := NewTodoService(&memRepo{}, nil)

	got, err := svc.Create(context.Background(), dom.TodoDraft{
		Title:       strPtr("  Buy milk  "),
		Description: strPtr(" 2% "),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Title != "Buy milk" || got.Description != "2%" {
		t.Fatalf("stored %q/%q, want surrounding whitespace trimmed", got.Title, got.Description)
	}
}

func TestListCacheHitSkipsRepo(t *testing.T) {
	repo := &memRepo{}
	c := &memCache{}
	svc := NewTodoService(repo, c)

	svc.Create(context.Background(), dom.TodoDraft{Title: strPtr("a"), Description: strPtr("b")})

	first, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.listCalls != 1 || c.sets != 1 {
		t.Fatalf("after miss: listCalls=%d sets=%d, want 1/1", repo.listCalls, c.sets)
	}

	second, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("cache hit still reached the repo: listCalls=%d", repo.listCalls)
	}
	if len(second) != len(first) || second[0].ID != first[0].ID {
		t.Fatalf("cached list = %+v, want %+v", second, first)
	}
}

func TestEveryWriteInvalidatesListCache(t *testing.T) {
	repo := &memRepo{}
	c := &memCache{}
	svc := NewTodoService(repo, c)

	created, _ := svc.Create(context.Background(), dom.TodoDraft{Title: strPtr("a"), Description: strPtr("b")})
	if c.invalidations != 1 {
		t.Fatalf("create: invalidations=%d, want 1", c.invalidations)
	}

	svc.List(context.Background()) // prime
	done := true
	svc.Update(context.Background(), created.ID, dom.TodoPatch{
		Title: strPtr("a"), Description: strPtr("b"), Completed: &done,
	})
	if c.invalidations != 2 {
		t.Fatalf("update: invalidations=%d, want 2", c.invalidations)
	}

	// The next read must see the write, not the primed list.
	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || !list[0].Completed {
		t.Fatalf("post-update list = %+v, want the updated row", list)
	}

	svc.Delete(context.Background(), created.ID)
	if c.invalidations != 3 {
		t.Fatalf("delete: invalidations=%d, want 3", c.invalidations)
	}
}

func TestEmptyStoreIsCachedNotRefetched(t *testing.T) {
	repo := &memRepo{}
	c := &memCache{}
	svc := NewTodoService(repo, c)

	for i := 0; i < 3; i++ {
		list, err := svc.List(context.Background())
		if err != nil {
			t.Fatalf("List #%d: %v", i, err)
		}
		if len(list) != 0 {
			t.Fatalf("List #%d = %+v, want empty", i, list)
		}
	}
	// The empty result is cached as [] rather than treated as a miss.
	if repo.listCalls != 1 {
		t.Fatalf("listCalls = %d, want 1 (empty list must cache)", repo.listCalls)
	}
	if c.list == nil {
		t.Fatal("cached empty list must be non-nil")
	}
}

func TestConcurrentListsCollapseToOneFetch(t *testing.T) {
	repo := &gatedRepo{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	repo.rows = []dom.Todo{{ID: 1, Title: "a", Description: "b"}}
	c := &memCache{}
	svc := NewTodoService(repo, c)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.List(context.Background())
		}(i)
	}

	// Hold the first fetch in flight so the rest either join it or land on
	// the freshly set cache, then let it finish.
	<-repo.entered
	close(repo.release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("List #%d: %v", i, err)
		}
	}
	if repo.listCalls != 1 {
		t.Fatalf("listCalls = %d, want 1 (flights must collapse)", repo.listCalls)
	}
}

func TestStoreErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewTodoService(&memRepo{fail: boom}, nil)

	if _, err := svc.List(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("List err = %v, want wrapped %v", err, boom)
	}
	if _, err := svc.GetByID(context.Background(), 1); !errors.Is(err, boom) {
		t.Fatalf("GetByID err = %v, want %v", err, boom)
	}
}
