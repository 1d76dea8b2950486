package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/courtside/tournament-api/models"
)

var ErrCoachNotFound = errors.New("coach not found")

type CoachRepository interface {
	Create(ctx context.Context, coach *models.Coach) error
	GetByID(ctx context.Context, id string) (*models.Coach, error)
	List(ctx context.Context, teamID *string) ([]models.Coach, error)
	Update(ctx context.Context, coach *models.Coach) error
	Delete(ctx context.Context, id string) error
}

type postgresCoachRepository struct {
	db *sql.DB
}

func NewPostgresCoachRepository(db *sql.DB) CoachRepository {
	return &postgresCoachRepository{db: db}
}

const coachColumns = `id, name, email, phone, team_id, role, created_at, updated_at`

func (r *postgresCoachRepository) Create(ctx context.Context, c *models.Coach) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query := `
		INSERT INTO coaches (id, name, email, phone, team_id, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.TeamID, c.Role,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *postgresCoachRepository) GetByID(ctx context.Context, id string) (*models.Coach, error) {
	query := `SELECT ` + coachColumns + ` FROM coaches WHERE id = $1`

	c := &models.Coach{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.TeamID, &c.Role, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCoachRepository) List(ctx context.Context, teamID *string) ([]models.Coach, error) {
	query := `SELECT ` + coachColumns + ` FROM coaches`
	args := []interface{}{}
	if teamID != nil {
		query += ` WHERE team_id = $1`
		args = append(args, *teamID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coaches := []models.Coach{}
	for rows.Next() {
		var c models.Coach
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.Phone, &c.TeamID, &c.Role, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		coaches = append(coaches, c)
	}
	return coaches, rows.Err()
}

func (r *postgresCoachRepository) Update(ctx context.Context, c *models.Coach) error {
	query := `
		UPDATE coaches
		SET name = $2, email = $3, phone = $4, team_id = $5, role = $6, updated_at = now()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.TeamID, c.Role,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCoachNotFound)
}

func (r *postgresCoachRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM coaches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCoachNotFound)
}
