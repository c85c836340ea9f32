package storage

import (
	"context"
	"database/sql"
	"errors"

	"task-manager-api/internal/models"
)

const categoryColumns = "id, user_id, name, color, icon, created_at, updated_at"

// PostgresCategoryStore adalah implementasi CategoryStore di atas database/sql.
type PostgresCategoryStore struct {
	db *sql.DB
}

func NewPostgresCategoryStore(db *sql.DB) *PostgresCategoryStore {
	return &PostgresCategoryStore{db: db}
}

func (s *PostgresCategoryStore) Create(ctx context.Context, c *models.Category) error {
	return s.db.QueryRowContext(ctx,
		`INSERT INTO categories (user_id, name, color, icon)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		c.UserID, c.Name, c.Color, c.Icon,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (s *PostgresCategoryStore) List(ctx context.Context, userID int) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE user_id = $1 ORDER BY id ASC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.Icon, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *PostgresCategoryStore) Get(ctx context.Context, id, userID int) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = $1 AND user_id = $2",
		id, userID,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.Icon, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *PostgresCategoryStore) Update(ctx context.Context, c *models.Category) error {
	err := s.db.QueryRowContext(ctx,
		`UPDATE categories
		 SET name = $1, color = $2, icon = $3, updated_at = NOW()
		 WHERE id = $4 AND user_id = $5
		 RETURNING updated_at`,
		c.Name, c.Color, c.Icon, c.ID, c.UserID,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *PostgresCategoryStore) Delete(ctx context.Context, id, userID int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1 AND user_id = $2", id, userID)
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
