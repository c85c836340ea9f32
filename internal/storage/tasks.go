package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"task-manager-api/internal/models"

	"github.com/lib/pq"
)

const taskColumns = "id, user_id, title, description, status, priority, due_date, completed_at, category_id, tags, attachments, created_at, updated_at"

// DefaultPageLimit dipakai ketika limit tidak diberikan atau tidak valid.
const DefaultPageLimit = 10

// sortColumns memetakan nama field pada query string ke kolom database.
// Nama field di luar daftar ini diabaikan, sort kembali ke urutan insert.
// Identifier tidak pernah diambil langsung dari input caller.
var sortColumns = map[string]string{
	"title":       "title",
	"status":      "status",
	"priority":    "priority",
	"dueDate":     "due_date",
	"completedAt": "completed_at",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	// alias snake_case, konsisten dengan field JSON response
	"due_date":     "due_date",
	"completed_at": "completed_at",
	"created_at":   "created_at",
	"updated_at":   "updated_at",
}

// PostgresTaskStore adalah implementasi TaskStore di atas database/sql.
type PostgresTaskStore struct {
	db *sql.DB
}

func NewPostgresTaskStore(db *sql.DB) *PostgresTaskStore {
	return &PostgresTaskStore{db: db}
}

func (s *PostgresTaskStore) Create(ctx context.Context, t *models.Task) error {
	attachments, err := json.Marshal(t.Attachments)
	if err != nil {
		return err
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return s.db.QueryRowContext(ctx,
		`INSERT INTO tasks (user_id, title, description, status, priority, due_date, category_id, tags, attachments)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		t.UserID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.CategoryID,
		pq.Array(t.Tags), attachments,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// orderClause menerjemahkan token "field:direction" menjadi klausa ORDER BY.
// Token "desc" menghasilkan urutan menurun, selain itu menaik.
// Tanpa sortBy (atau field tidak dikenal) urutan mengikuti urutan insert.
func orderClause(sortBy string) string {
	if sortBy == "" {
		return "ORDER BY id ASC"
	}
	parts := strings.SplitN(sortBy, ":", 2)
	column, ok := sortColumns[parts[0]]
	if !ok {
		return "ORDER BY id ASC"
	}
	direction := "ASC"
	if len(parts) == 2 && parts[1] == "desc" {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}

// List membangun view ter-filter, ter-sort, dan ter-paginate atas task
// milik satu user, plus total match tanpa pagination.
func (s *PostgresTaskStore) List(ctx context.Context, userID int, opts ListOptions) (*TaskPage, error) {
	limit := opts.Limit
	if limit < 1 {
		limit = DefaultPageLimit
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * limit

	where := "WHERE user_id = $1"
	args := []interface{}{userID}
	if opts.Status != "" {
		where += " AND status = $2"
		args = append(args, opts.Status)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks "+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM tasks %s %s LIMIT %d OFFSET %d",
		taskColumns, where, orderClause(opts.SortBy), limit, skip)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &TaskPage{
		Tasks:       tasks,
		Total:       total,
		CurrentPage: skip/limit + 1,
		TotalPages:  (total + limit - 1) / limit,
	}, nil
}

func (s *PostgresTaskStore) Get(ctx context.Context, id, userID int) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM tasks WHERE id = $1 AND user_id = $2", taskColumns),
		id, userID)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *PostgresTaskStore) Update(ctx context.Context, t *models.Task) error {
	attachments, err := json.Marshal(t.Attachments)
	if err != nil {
		return err
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	err = s.db.QueryRowContext(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, status = $3, priority = $4, due_date = $5,
		     completed_at = $6, category_id = $7, tags = $8, attachments = $9, updated_at = NOW()
		 WHERE id = $10 AND user_id = $11
		 RETURNING updated_at`,
		t.Title, t.Description, t.Status, t.Priority, t.DueDate,
		t.CompletedAt, t.CategoryID, pq.Array(t.Tags), attachments,
		t.ID, t.UserID,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *PostgresTaskStore) Delete(ctx context.Context, id, userID int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats mengelompokkan task milik user per status dan menghitung jumlahnya.
// Urutan antar status tidak dijamin.
func (s *PostgresTaskStore) Stats(ctx context.Context, userID int) ([]models.StatusCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM tasks WHERE user_id = $1 GROUP BY status", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []models.StatusCount{}
	for rows.Next() {
		var sc models.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		stats = append(stats, sc)
	}
	return stats, rows.Err()
}

// Analytics menghitung jumlah task yang dibuat per hari kalender
// sejak since, urut menaik berdasarkan tanggal.
func (s *PostgresTaskStore) Analytics(ctx context.Context, userID int, since time.Time) ([]models.DailyCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COUNT(*)
		 FROM tasks
		 WHERE user_id = $1 AND created_at >= $2
		 GROUP BY day
		 ORDER BY day ASC`,
		userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []models.DailyCount{}
	for rows.Next() {
		var dc models.DailyCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var attachments []byte
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.CompletedAt, &t.CategoryID, pq.Array(&t.Tags), &attachments,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attachments, &t.Attachments); err != nil {
		return nil, err
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Attachments == nil {
		t.Attachments = []models.Attachment{}
	}
	return &t, nil
}
