package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/courtside/tournament-api/models"
)

var ErrDivisionNotFound = errors.New("division not found")

type DivisionRepository interface {
	Create(ctx context.Context, division *models.Division) error
	GetByID(ctx context.Context, id string) (*models.Division, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Division, error)
	Update(ctx context.Context, division *models.Division) error
	Delete(ctx context.Context, id string) error
}

type postgresDivisionRepository struct {
	db *sql.DB
}

func NewPostgresDivisionRepository(db *sql.DB) DivisionRepository {
	return &postgresDivisionRepository{db: db}
}

const divisionColumns = `id, name, tournament_id, created_at, updated_at`

func (r *postgresDivisionRepository) Create(ctx context.Context, d *models.Division) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	query := `
		INSERT INTO divisions (id, name, tournament_id)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query, d.ID, d.Name, d.TournamentID).
		Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *postgresDivisionRepository) GetByID(ctx context.Context, id string) (*models.Division, error) {
	query := `SELECT ` + divisionColumns + ` FROM divisions WHERE id = $1`

	d := &models.Division{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.TournamentID, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDivisionNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *postgresDivisionRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Division, error) {
	query := `SELECT ` + divisionColumns + ` FROM divisions WHERE tournament_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	divisions := []models.Division{}
	for rows.Next() {
		var d models.Division
		if err := rows.Scan(&d.ID, &d.Name, &d.TournamentID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		divisions = append(divisions, d)
	}
	return divisions, rows.Err()
}

func (r *postgresDivisionRepository) Update(ctx context.Context, d *models.Division) error {
	query := `UPDATE divisions SET name = $2, updated_at = now() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, d.ID, d.Name)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrDivisionNotFound)
}

func (r *postgresDivisionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM divisions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrDivisionNotFound)
}
