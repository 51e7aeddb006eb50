// Package auth implements credential and session business logic on top of
// the user record store. The state machine lives in the session_id and
// reset_token fields of each record and is transitioned only through the
// operations below.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mlevkov/authd/internal/common"
	"github.com/mlevkov/authd/internal/logging"
	"github.com/mlevkov/authd/internal/server/config"
	"github.com/mlevkov/authd/internal/server/models"
	"github.com/mlevkov/authd/internal/server/repositories/users"
)

// ErrSessionNotCreated is the uniform failure of CreateSession. Unknown
// email and store failure collapse into it on purpose: the opportunistic
// session path must not reveal which emails are registered. The underlying
// cause goes to the log instead.
var ErrSessionNotCreated = errors.New("session not created")

type Service struct {
	repo       users.Repository
	logger     logging.Logger
	bcryptCost int
}

func NewService(repo users.Repository, l logging.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:       repo,
		logger:     l.With("module", "auth_service"),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a new user with a freshly salted hash of password.
// A duplicate email surfaces as common.ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, email string, password string) (*models.User, error) {

	if email == "" || password == "" {
		return nil, common.ErrInvalidInput
	}

	hashed, err := hashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, email, hashed)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// ValidateLogin reports whether email and password identify a registered
// user. An unknown email and a wrong password are indistinguishable to the
// caller.
func (s *Service) ValidateLogin(ctx context.Context, email string, password string) bool {

	user, err := s.repo.FindOne(ctx, map[users.Field]any{users.FieldEmail: email})
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "login lookup failed", "error", err.Error())
		}
		return false
	}

	return checkPassword(user.HashedPassword, password)
}

// CreateSession generates an opaque session token for the user with the
// given email and stores it on the record. All failures collapse into
// ErrSessionNotCreated; the cause is logged.
func (s *Service) CreateSession(ctx context.Context, email string) (string, error) {

	user, err := s.repo.FindOne(ctx, map[users.Field]any{users.FieldEmail: email})
	if err != nil {
		s.logger.Warn(ctx, "session not created", "reason", err.Error())
		return "", ErrSessionNotCreated
	}

	token := uuid.NewString()

	if err := s.repo.Update(ctx, user.ID, map[users.Field]any{users.FieldSessionID: token}); err != nil {
		s.logger.Warn(ctx, "session not created", "reason", err.Error())
		return "", ErrSessionNotCreated
	}

	return token, nil
}

// ResolveSession returns the owner of the given session token, or
// common.ErrNotFound. An empty token resolves to absent without a store
// round-trip. The lookup does not mutate state.
func (s *Service) ResolveSession(ctx context.Context, token string) (*models.User, error) {

	if token == "" {
		return nil, common.ErrNotFound
	}

	user, err := s.repo.FindOne(ctx, map[users.Field]any{users.FieldSessionID: token})
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "session lookup failed", "error", err.Error())
		}
		return nil, common.ErrNotFound
	}

	return user, nil
}

// DestroySession clears the session token for the given user id. Revoking
// an inactive session or a nonexistent user is a no-op; unexpected store
// failures are logged, not returned.
func (s *Service) DestroySession(ctx context.Context, userID string) {

	if userID == "" {
		return
	}

	err := s.repo.Update(ctx, userID, map[users.Field]any{users.FieldSessionID: nil})
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		s.logger.Warn(ctx, "session revoke failed", "user_id", userID, "error", err.Error())
	}
}

// RequestPasswordReset generates a single-use reset token for the user with
// the given email and stores it on the record. Unlike CreateSession this
// path surfaces common.ErrNotFound: it is the user's own recovery flow and
// silence would leave them without a signal.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {

	user, err := s.repo.FindOne(ctx, map[users.Field]any{users.FieldEmail: email})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("error looking up user: %w", err)
	}

	token, err := common.MakeRandHexString(32)
	if err != nil {
		return "", fmt.Errorf("error generating reset token: %w", err)
	}

	if err := s.repo.Update(ctx, user.ID, map[users.Field]any{users.FieldResetToken: token}); err != nil {
		return "", fmt.Errorf("error storing reset token: %w", err)
	}

	return token, nil
}

// ApplyPasswordReset consumes a reset token: it writes a fresh salted hash
// of newPassword and clears the token in one atomic store operation, so a
// token is usable exactly once even under concurrent attempts. A token that
// matches no record yields common.ErrInvalidToken.
func (s *Service) ApplyPasswordReset(ctx context.Context, token string, newPassword string) error {

	if token == "" || newPassword == "" {
		return common.ErrInvalidInput
	}

	hashed, err := hashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.repo.ConsumeResetToken(ctx, token, hashed); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidToken
		}
		return fmt.Errorf("error consuming reset token: %w", err)
	}

	return nil
}
