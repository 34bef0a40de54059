package service

import (
	"context"
	"errors"
	"strings"

	dom "github.com/abdullah3034/Todo/internal/domain"
	"github.com/abdullah3034/Todo/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

// ErrNotFound is returned by GetByID when no row matches. Update and Delete
// never return it: matching zero rows there is a normal outcome.
var ErrNotFound = errors.New("not found")

// ListCache is the slice of the cache layer the service needs. GetList
// returns nil on a miss; a cached empty list is non-nil.
type ListCache interface {
	GetList(ctx context.Context) ([]dom.Todo, error)
	SetList(ctx context.Context, list []dom.Todo) error
	Invalidate(ctx context.Context) error
}

type TodoService struct {
	repo  repo.TodoRepo
	cache ListCache
	sf    singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c ListCache) *TodoService {
	return &TodoService{repo: r, cache: c}
}

func (s *TodoService) Create(ctx context.Context, d dom.TodoDraft) (dom.Todo, error) {
	if d.Title != nil {
		t := strings.TrimSpace(*d.Title)
		d.Title = &t
	}
	if d.Description != nil {
		desc := strings.TrimSpace(*d.Description)
		d.Description = &desc
	}
	t, err := s.repo.Create(ctx, d)
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) List(ctx context.Context) ([]dom.Todo, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}
	v, err, _ := s.sf.Do(keyListFlight, func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if list == nil {
			// An empty store must cache as [] rather than null, or the
			// nil hit check above would re-fetch it forever.
			list = []dom.Todo{}
		}
		_ = s.cache.SetList(ctx, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Todo), nil
}

const keyListFlight = "list"

func (s *TodoService) GetByID(ctx context.Context, id int64) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

// Update overwrites the whole row with the patch. The count of matched rows
// is returned; zero is not an error.
func (s *TodoService) Update(ctx context.Context, id int64, p dom.TodoPatch) (int64, error) {
	n, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return 0, err
	}
	s.invalidateCache(ctx)
	return n, nil
}

// Delete removes the row if it exists; zero matched rows is not an error.
func (s *TodoService) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	s.invalidateCache(ctx)
	return n, nil
}

func (s *TodoService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}
}
