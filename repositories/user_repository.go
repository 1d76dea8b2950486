package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/courtside/tournament-api/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("email is already in use")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUID(ctx context.Context, uid string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, uid string) error
	RevokeTokens(ctx context.Context, uid string, at time.Time) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `uid, email, display_name, password_hash, roles, tokens_valid_after, created_at, updated_at`

func (r *postgresUserRepository) Create(ctx context.Context, u *models.User) error {
	if u.UID == "" {
		u.UID = uuid.NewString()
	}
	query := `
		INSERT INTO users (uid, email, display_name, password_hash, roles)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		u.UID, u.Email, u.DisplayName, u.PasswordHash, pq.Array(u.Roles),
	).Scan(&u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrUserEmailConflict
		}
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, uid))
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresUserRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var roles pq.StringArray
	err := row.Scan(
		&u.UID, &u.Email, &u.DisplayName, &u.PasswordHash,
		&roles, &u.TokensValidAfter, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.Roles = roles
	return u, nil
}

func (r *postgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		var roles pq.StringArray
		if err := rows.Scan(
			&u.UID, &u.Email, &u.DisplayName, &u.PasswordHash,
			&roles, &u.TokensValidAfter, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		u.Roles = roles
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresUserRepository) Update(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users
		SET email = $2, display_name = $3, password_hash = $4, roles = $5, updated_at = now()
		WHERE uid = $1`

	result, err := r.db.ExecContext(ctx, query,
		u.UID, u.Email, u.DisplayName, u.PasswordHash, pq.Array(u.Roles),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrUserEmailConflict
		}
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) Delete(ctx context.Context, uid string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) RevokeTokens(ctx context.Context, uid string, at time.Time) error {
	query := `UPDATE users SET tokens_valid_after = $2, updated_at = now() WHERE uid = $1`
	result, err := r.db.ExecContext(ctx, query, uid, at)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}
