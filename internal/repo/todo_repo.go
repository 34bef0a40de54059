package repo

import (
	"context"

	dom "github.com/abdullah3034/Todo/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TodoRepo executes one parameterized statement per call. No retries,
// no transactions: every operation is an independent round trip.
type TodoRepo interface {
	Create(ctx context.Context, d dom.TodoDraft) (dom.Todo, error)
	GetByID(ctx context.Context, id int64) (dom.Todo, error)
	List(ctx context.Context) ([]dom.Todo, error)
	Update(ctx context.Context, id int64, p dom.TodoPatch) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

const todoColumns = `id, title, description, priority, category, completed, created_at`

// Create inserts a new row. Priority and category fall back to their store
// defaults only here, never on update.
func (r *PGTodoRepo) Create(ctx context.Context, d dom.TodoDraft) (dom.Todo, error) {
	query := `
		INSERT INTO todos (title, description, priority, category)
		VALUES ($1, $2, COALESCE($3, 'medium'), COALESCE($4, 'general'))
		RETURNING ` + todoColumns
	return scanTodo(r.db.QueryRow(ctx, query, d.Title, d.Description, d.Priority, d.Category))
}

func (r *PGTodoRepo) GetByID(ctx context.Context, id int64) (dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	return scanTodo(r.db.QueryRow(ctx, query, id))
}

func (r *PGTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update overwrites all five mutable fields with the patch as given.
// A nil completed falls back to FALSE rather than NULL (the column stays
// NOT NULL); nil priority/category are written as NULL. Matching zero rows
// is not an error, the count is returned for the caller to interpret.
func (r *PGTodoRepo) Update(ctx context.Context, id int64, p dom.TodoPatch) (int64, error) {
	query := `
		UPDATE todos
		SET title = $2, description = $3, priority = $4, category = $5, completed = COALESCE($6, FALSE)
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, p.Title, p.Description, p.Priority, p.Category, p.Completed)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes the row permanently. Matching zero rows is not an error.
func (r *PGTodoRepo) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanTodo(row pgx.Row) (dom.Todo, error) {
	var t dom.Todo
	var priority, category *string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &priority, &category, &t.Completed, &t.CreatedAt)
	if err != nil {
		return dom.Todo{}, err
	}
	if priority != nil {
		p := dom.Priority(*priority)
		t.Priority = &p
	}
	if category != nil {
		c := dom.Category(*category)
		t.Category = &c
	}
	return t, nil
}
