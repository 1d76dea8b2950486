package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/courtside/tournament-api/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrStaffMemberExists  = errors.New("staff member already added")
)

// ListTournamentsFilter narrows the tournament listing. Sport is always
// set; the rest are optional. PublishedOnly and StaffUID implement the
// visibility rules for anonymous and non-admin callers.
type ListTournamentsFilter struct {
	Sport         string
	Location      *string
	StartDate     *time.Time
	EndDate       *time.Time
	PublishedOnly bool
	StaffUID      *string
}

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Locations(ctx context.Context, sport string) ([]string, error)
	Update(ctx context.Context, t *models.Tournament) error
	Delete(ctx context.Context, id string) error
	SetStaffRole(ctx context.Context, exec SQLExecutor, id, staffUID, role string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, title, sport, location, start_date, end_date, tournament_type,
	is_published, created_by_user_id, staff, staff_uids, time_zone,
	number_of_weeks, created_at, updated_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	staffJSON, err := json.Marshal(t.Staff)
	if err != nil {
		return fmt.Errorf("failed to encode staff map: %w", err)
	}

	query := `
		INSERT INTO tournaments (
			id, title, sport, location, start_date, end_date, tournament_type,
			is_published, created_by_user_id, staff, staff_uids, time_zone, number_of_weeks
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		t.ID, t.Title, t.Sport, t.Location, t.StartDate, t.EndDate, t.TournamentType,
		t.IsPublished, t.CreatedByUserID, staffJSON, pq.Array(t.StaffUIDs), t.TimeZone, t.NumberOfWeeks,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	var staffJSON []byte
	var staffUIDs pq.StringArray
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Sport, &t.Location, &t.StartDate, &t.EndDate, &t.TournamentType,
		&t.IsPublished, &t.CreatedByUserID, &staffJSON, &staffUIDs, &t.TimeZone,
		&t.NumberOfWeeks, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(staffJSON, &t.Staff); err != nil {
		return nil, fmt.Errorf("failed to decode staff map for tournament %s: %w", id, err)
	}
	t.StaffUIDs = staffUIDs
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE sport = $1`
	args := []interface{}{filter.Sport}
	argID := 2

	if filter.Location != nil {
		query += fmt.Sprintf(" AND location = $%d", argID)
		args = append(args, *filter.Location)
		argID++
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		query += fmt.Sprintf(" AND start_date >= $%d AND end_date <= $%d", argID, argID+1)
		args = append(args, *filter.StartDate, *filter.EndDate)
		argID += 2
	}
	if filter.StaffUID != nil {
		query += fmt.Sprintf(" AND $%d = ANY(staff_uids)", argID)
		args = append(args, *filter.StaffUID)
		argID++
	}
	if filter.PublishedOnly {
		query += " AND is_published = TRUE"
	}

	query += " ORDER BY start_date DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := []models.Tournament{}
	for rows.Next() {
		var t models.Tournament
		var staffJSON []byte
		var staffUIDs pq.StringArray
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Sport, &t.Location, &t.StartDate, &t.EndDate, &t.TournamentType,
			&t.IsPublished, &t.CreatedByUserID, &staffJSON, &staffUIDs, &t.TimeZone,
			&t.NumberOfWeeks, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(staffJSON, &t.Staff); err != nil {
			return nil, fmt.Errorf("failed to decode staff map for tournament %s: %w", t.ID, err)
		}
		t.StaffUIDs = staffUIDs
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Locations(ctx context.Context, sport string) ([]string, error) {
	query := `SELECT location FROM tournaments WHERE sport = $1 ORDER BY title ASC`
	rows, err := r.db.QueryContext(ctx, query, sport)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []string{}
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments
		SET title = $2, sport = $3, location = $4, start_date = $5, end_date = $6,
			tournament_type = $7, is_published = $8, time_zone = $9,
			number_of_weeks = $10, updated_at = now()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		t.ID, t.Title, t.Sport, t.Location, t.StartDate, t.EndDate,
		t.TournamentType, t.IsPublished, t.TimeZone, t.NumberOfWeeks,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// SetStaffRole records a staff assignment. The WHERE clause re-checks the
// staff map at write time, so under read committed a concurrent addition of
// the same UID updates zero rows instead of appending a duplicate. Callers
// must have verified the tournament exists in the same transaction; a zero
// row count here therefore means the UID is already present.
func (r *postgresTournamentRepository) SetStaffRole(ctx context.Context, exec SQLExecutor, id, staffUID, role string) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournaments
		SET staff = jsonb_set(staff, ARRAY[$2], to_jsonb($3::text)),
			staff_uids = array_append(staff_uids, $2),
			updated_at = now()
		WHERE id = $1 AND NOT staff ? $2`

	result, err := executor.ExecContext(ctx, query, id, staffUID, role)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStaffMemberExists)
}
