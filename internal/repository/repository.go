package repository

import (
	"context"
	"database/sql"
	"time"

	"teleop_console/internal/models"
)

// Authorization stores operator accounts.
type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// EventQuery selects console events. Zero From/To are open bounds, an empty
// Type matches every type and Limit <= 0 means no limit.
type EventQuery struct {
	From  time.Time
	To    time.Time
	Type  string
	Limit int
}

// EventRepo is the console audit log.
type EventRepo interface {
	Append(ctx context.Context, e models.ConsoleEvent) error
	List(ctx context.Context, q EventQuery) ([]models.ConsoleEvent, error)
}

// Repository groups the stores backed by one sqlite connection.
type Repository struct {
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo: NewEventSQLite(db),
		Auth:      NewOperatorRepository(db),
	}
}
