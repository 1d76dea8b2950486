package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/courtside/tournament-api/models"
	"github.com/courtside/tournament-api/repositories"
)

// EventBroadcaster pushes tournament events to connected clients. Satisfied
// by *live.Hub; nil disables broadcasting.
type EventBroadcaster interface {
	Publish(room, eventType string, payload interface{})
}

type TournamentService interface {
	List(ctx context.Context, filter TournamentListFilter, caller *models.CurrentUser) ([]models.TournamentListItem, error)
	Locations(ctx context.Context, sport string) ([]string, error)
	Create(ctx context.Context, input CreateTournamentInput, caller *models.CurrentUser) (*models.Tournament, error)
	Get(ctx context.Context, id string) (*models.Tournament, error)
	Update(ctx context.Context, id string, input UpdateTournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id string) error
	AddStaff(ctx context.Context, tournamentID, staffUID, role string, caller *models.CurrentUser) error
}

type TournamentListFilter struct {
	Sport     string
	Location  *string
	StartDate *time.Time
	EndDate   *time.Time
}

type CreateTournamentInput struct {
	Title          string                `json:"title"`
	Location       string                `json:"location"`
	Sport          string                `json:"sport"`
	StartDate      time.Time             `json:"start_date"`
	EndDate        time.Time             `json:"end_date"`
	TournamentType models.TournamentType `json:"tournament_type,omitempty"`
	TimeZone       string                `json:"time_zone,omitempty"`
	NumberOfWeeks  *int                  `json:"number_of_weeks,omitempty"`
}

type UpdateTournamentInput struct {
	Title          *string                `json:"title,omitempty"`
	Location       *string                `json:"location,omitempty"`
	Sport          *string                `json:"sport,omitempty"`
	StartDate      *time.Time             `json:"start_date,omitempty"`
	EndDate        *time.Time             `json:"end_date,omitempty"`
	TournamentType *models.TournamentType `json:"tournament_type,omitempty"`
	IsPublished    *bool                  `json:"is_published,omitempty"`
	TimeZone       *string                `json:"time_zone,omitempty"`
	NumberOfWeeks  *int                   `json:"number_of_weeks,omitempty"`
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	userRepo       repositories.UserRepository
	broadcaster    EventBroadcaster
	logger         *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	broadcaster EventBroadcaster,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		userRepo:       userRepo,
		broadcaster:    broadcaster,
		logger:         logger,
	}
}

// List returns tournaments visible to the caller. Admins see everything
// matching the filters, other authenticated callers only tournaments they
// staff, anonymous callers only published ones. Each item carries a derived
// team_count; the count queries run concurrently.
func (s *tournamentService) List(ctx context.Context, filter TournamentListFilter, caller *models.CurrentUser) ([]models.TournamentListItem, error) {
	repoFilter := repositories.ListTournamentsFilter{
		Sport:     filter.Sport,
		Location:  filter.Location,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	}
	switch {
	case caller == nil:
		repoFilter.PublishedOnly = true
	case !caller.HasRole(models.RoleAdmin):
		uid := caller.UID
		repoFilter.StaffUID = &uid
	}

	tournaments, err := s.tournamentRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}

	items := make([]models.TournamentListItem, len(tournaments))
	g, gCtx := errgroup.WithContext(ctx)
	for i := range tournaments {
		i := i
		g.Go(func() error {
			t := tournaments[i]
			count, err := s.teamRepo.CountByTournament(gCtx, t.ID)
			if err != nil {
				return fmt.Errorf("failed to count teams for tournament %s: %w", t.ID, err)
			}
			items[i] = models.TournamentListItem{
				ID:             t.ID,
				Title:          t.Title,
				Sport:          t.Sport,
				Location:       t.Location,
				StartDate:      t.StartDate,
				EndDate:        t.EndDate,
				TournamentType: t.TournamentType,
				IsPublished:    t.IsPublished,
				TimeZone:       t.TimeZone,
				NumberOfWeeks:  t.NumberOfWeeks,
				CreatedAt:      t.CreatedAt,
				UpdatedAt:      t.UpdatedAt,
				TeamCount:      count,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *tournamentService) Locations(ctx context.Context, sport string) ([]string, error) {
	return s.tournamentRepo.Locations(ctx, sport)
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput, caller *models.CurrentUser) (*models.Tournament, error) {
	if input.Title == "" || input.Location == "" || input.Sport == "" ||
		input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, ErrTournamentFieldsRequired
	}

	tournamentType := input.TournamentType
	if tournamentType == "" {
		tournamentType = models.TypeFullTournament
	}
	timeZone := input.TimeZone
	if timeZone == "" {
		timeZone = "+08:00"
	}

	t := &models.Tournament{
		Title:           input.Title,
		Sport:           input.Sport,
		Location:        input.Location,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		TournamentType:  tournamentType,
		IsPublished:     true,
		CreatedByUserID: caller.UID,
		Staff:           map[string]string{caller.UID: models.RoleTournamentDirector},
		StaffUIDs:       []string{caller.UID},
		TimeZone:        timeZone,
		NumberOfWeeks:   input.NumberOfWeeks,
	}

	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.publish(t.ID, "TOURNAMENT_CREATED", t)
	return t, nil
}

func (s *tournamentService) Get(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *tournamentService) Update(ctx context.Context, id string, input UpdateTournamentInput) (*models.Tournament, error) {
	if input.Title == nil && input.Location == nil && input.Sport == nil &&
		input.StartDate == nil && input.EndDate == nil && input.TournamentType == nil &&
		input.IsPublished == nil && input.TimeZone == nil && input.NumberOfWeeks == nil {
		return nil, ErrNoUpdateFields
	}

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		t.Title = *input.Title
	}
	if input.Location != nil {
		t.Location = *input.Location
	}
	if input.Sport != nil {
		t.Sport = *input.Sport
	}
	if input.StartDate != nil {
		t.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		t.EndDate = *input.EndDate
	}
	if input.TournamentType != nil {
		t.TournamentType = *input.TournamentType
	}
	if input.IsPublished != nil {
		t.IsPublished = *input.IsPublished
	}
	if input.TimeZone != nil {
		t.TimeZone = *input.TimeZone
	}
	if input.NumberOfWeeks != nil {
		t.NumberOfWeeks = input.NumberOfWeeks
	}

	if err := s.tournamentRepo.Update(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to update tournament %s: %w", id, err)
	}

	s.publish(t.ID, "TOURNAMENT_UPDATED", t)
	return t, nil
}

func (s *tournamentService) Delete(ctx context.Context, id string) error {
	// No cascading cleanup: teams and divisions referencing this
	// tournament stay behind and must be removed by the caller.
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to delete tournament %s: %w", id, err)
	}
	return nil
}

// AddStaff grants a user a role on a tournament. Validation and the write
// run in one transaction, and the write itself re-checks the staff map, so
// two concurrent additions of the same UID cannot both succeed.
func (s *tournamentService) AddStaff(ctx context.Context, tournamentID, staffUID, role string, caller *models.CurrentUser) error {
	if staffUID == "" || role == "" {
		return ErrNoUpdateFields
	}

	if _, err := s.userRepo.GetByUID(ctx, staffUID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to verify user %s: %w", staffUID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
			}
		}
	}()

	t, err := s.tournamentRepo.GetByID(ctx, tx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			txErr = ErrTournamentNotFound
		} else {
			txErr = err
		}
		return txErr
	}

	if txErr = validateStaffAddition(t, staffUID, caller); txErr != nil {
		return txErr
	}

	if txErr = s.tournamentRepo.SetStaffRole(ctx, tx, tournamentID, staffUID, role); txErr != nil {
		// A concurrent addition of the same UID committed between our
		// read and this write; surface it as the same conflict the
		// pre-check reports.
		if errors.Is(txErr, repositories.ErrStaffMemberExists) {
			txErr = ErrStaffConflict
			return txErr
		}
		return fmt.Errorf("failed to set staff role: %w", txErr)
	}

	if txErr = tx.Commit(); txErr != nil {
		return fmt.Errorf("failed to commit staff addition: %w", txErr)
	}

	s.logger.Info("staff member added",
		slog.String("tournament_id", tournamentID),
		slog.String("staff_uid", staffUID),
		slog.String("role", role),
	)
	s.publish(tournamentID, "STAFF_ADDED", map[string]string{"uid": staffUID, "role": role})
	return nil
}

// validateStaffAddition holds the guard clauses for staff addition: the
// target must not already be staff, and the caller must be a global admin
// or this tournament's director.
func validateStaffAddition(t *models.Tournament, staffUID string, caller *models.CurrentUser) error {
	if _, exists := t.Staff[staffUID]; exists {
		return ErrStaffConflict
	}

	isGlobalAdmin := caller.HasRole(models.RoleAdmin)
	isDirector := t.Staff[caller.UID] == models.RoleTournamentDirector
	if !isGlobalAdmin && !isDirector {
		return ErrStaffForbidden
	}
	return nil
}

func (s *tournamentService) publish(room, eventType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.Publish(room, eventType, payload)
	}
}
