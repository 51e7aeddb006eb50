package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mlevkov/authd/internal/common"
	"github.com/mlevkov/authd/internal/dbx"
	"github.com/mlevkov/authd/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, email string, hashedPassword string) (*models.User, error) {

	query :=
		`INSERT INTO users (email, hashed_password)
         VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	user := &models.User{Email: email, HashedPassword: hashedPassword}
	err := r.db.QueryRowContext(ctx, query, email, hashedPassword).
		Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) FindOne(ctx context.Context, criteria map[Field]any) (*models.User, error) {

	if len(criteria) == 0 {
		return nil, common.ErrInvalidCriteria
	}
	for f := range criteria {
		if _, ok := criteriaFields[f]; !ok {
			return nil, fmt.Errorf("%w: %s", common.ErrInvalidCriteria, f)
		}
	}

	var (
		clauses []string
		args    []any
	)
	for _, f := range fieldOrder {
		v, ok := criteria[f]
		if !ok {
			continue
		}
		args = append(args, v)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", f, len(args)))
	}

	query := fmt.Sprintf(
		`SELECT id, email, hashed_password, session_id, reset_token, created_at FROM users
		 WHERE %s
		 ORDER BY id LIMIT 1
		 `, strings.Join(clauses, " AND "))

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&user.ID, &user.Email, &user.HashedPassword, &user.SessionID, &user.ResetToken, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, fields map[Field]any) error {

	if len(fields) == 0 {
		return common.ErrInvalidField
	}
	// validate the whole field set before touching storage
	for f := range fields {
		if _, ok := updateFields[f]; !ok {
			return fmt.Errorf("%w: %s", common.ErrInvalidField, f)
		}
	}

	var (
		clauses []string
		args    []any
	)
	for _, f := range fieldOrder {
		v, ok := fields[f]
		if !ok {
			continue
		}
		args = append(args, v)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", f, len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE users SET %s
		 WHERE id = $%d
		 `, strings.Join(clauses, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) ConsumeResetToken(ctx context.Context, token string, hashedPassword string) error {

	query :=
		`UPDATE users SET hashed_password = $1, reset_token = NULL
		 WHERE reset_token = $2
		 `

	res, err := r.db.ExecContext(ctx, query, hashedPassword, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
