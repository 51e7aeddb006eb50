// Package users implements the record store for user records: keyed storage
// with filtered lookup and conditional update over a closed field set.
package users

import (
	"context"

	"github.com/mlevkov/authd/internal/server/models"
)

type Repository interface {
	// Create inserts a new user record. Email uniqueness is enforced by the
	// store itself; a duplicate yields common.ErrAlreadyExists.
	Create(ctx context.Context, email string, hashedPassword string) (*models.User, error)

	// FindOne returns the single record matching all criteria, or
	// common.ErrNotFound. Empty criteria or an unknown field yields
	// common.ErrInvalidCriteria.
	FindOne(ctx context.Context, criteria map[Field]any) (*models.User, error)

	// Update applies fields to the record with the given id as one atomic
	// statement. Unknown fields yield common.ErrInvalidField before any
	// write; a missing id yields common.ErrNotFound. A nil value stores NULL.
	Update(ctx context.Context, id string, fields map[Field]any) error

	// ConsumeResetToken sets a new password hash and clears the reset token
	// in a single guarded statement, so exactly one of several racing calls
	// succeeds. A token matching no record yields common.ErrNotFound.
	ConsumeResetToken(ctx context.Context, token string, hashedPassword string) error
}
