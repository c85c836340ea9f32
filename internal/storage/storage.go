package storage

import (
	"context"
	"errors"
	"time"

	"task-manager-api/internal/models"
)

// ErrNotFound dikembalikan ketika record dengan id+owner tersebut tidak ada.
// Store sengaja tidak membedakan "record milik user lain" dengan
// "record tidak ada" supaya keberadaan record tidak bocor.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail dikembalikan ketika email sudah terdaftar (unique violation).
var ErrDuplicateEmail = errors.New("email already registered")

// ListOptions adalah parameter query untuk listing task.
// SortBy memakai format "field:direction", misalnya "dueDate:desc".
type ListOptions struct {
	Status string
	SortBy string
	Page   int
	Limit  int
}

// TaskPage adalah satu halaman hasil listing beserta informasi pagination.
type TaskPage struct {
	Tasks       []models.Task `json:"tasks"`
	Total       int           `json:"total"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	List(ctx context.Context, userID int, opts ListOptions) (*TaskPage, error)
	Get(ctx context.Context, id, userID int) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id, userID int) error
	Stats(ctx context.Context, userID int) ([]models.StatusCount, error)
	Analytics(ctx context.Context, userID int, since time.Time) ([]models.DailyCount, error)
}

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	List(ctx context.Context, userID int) ([]models.Category, error)
	Get(ctx context.Context, id, userID int) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id, userID int) error
}
