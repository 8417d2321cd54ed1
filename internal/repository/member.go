package repository

import (
	"context"
	"errors"

	"sss-backend/internal/domain"
)

var (
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate value")
	// ErrNotFound is returned by updates that target a missing row.
	ErrNotFound = errors.New("not found")
)

// MemberRepository defines persistence operations for Member entities.
//
// Find* lookups report absence through the boolean result; an error is only
// returned when the store itself fails.
type MemberRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, member *domain.Member) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Member, bool, error)
	FindByUsername(ctx context.Context, username string) (*domain.Member, bool, error)
	FindByRefreshToken(ctx context.Context, token string) (*domain.Member, bool, error)
	UpdateRefreshToken(ctx context.Context, id int64, token string) error
	Count(ctx context.Context) (int64, error)
}

// Transactor runs fn inside a single unit of work. Repository calls made with
// the context handed to fn share that unit of work; a non-nil error from fn
// rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
