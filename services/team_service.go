package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/courtside/tournament-api/models"
	"github.com/courtside/tournament-api/repositories"
	"github.com/courtside/tournament-api/storage"
)

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	Get(ctx context.Context, id string) (*models.Team, error)
	List(ctx context.Context, tournamentID, divisionID *string) ([]models.Team, error)
	Update(ctx context.Context, id string, input UpdateTeamInput) (*models.Team, error)
	Delete(ctx context.Context, id string) error
	UploadLogo(ctx context.Context, id, contentType string, logo io.Reader) (*models.Team, error)
}

type CreateTeamInput struct {
	Name         string  `json:"name"`
	TournamentID string  `json:"tournament_id"`
	DivisionID   *string `json:"division_id,omitempty"`
	CoachUserID  *string `json:"coach_user_id,omitempty"`
	CoachName    *string `json:"coach_name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
}

type UpdateTeamInput struct {
	Name         *string `json:"name,omitempty"`
	DivisionID   *string `json:"division_id,omitempty"`
	CoachUserID  *string `json:"coach_user_id,omitempty"`
	CoachName    *string `json:"coach_name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
}

type teamService struct {
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	divisionRepo   repositories.DivisionRepository
	uploader       storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	divisionRepo repositories.DivisionRepository,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		divisionRepo:   divisionRepo,
		uploader:       uploader,
	}
}

// Create validates required fields and verifies the referenced tournament
// (and division, when given) exist before anything is written.
func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if input.Name == "" || input.TournamentID == "" {
		return nil, ErrTeamFieldsRequired
	}

	if _, err := s.tournamentRepo.GetByID(ctx, nil, input.TournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to verify tournament %s: %w", input.TournamentID, err)
	}

	if input.DivisionID != nil {
		if _, err := s.divisionRepo.GetByID(ctx, *input.DivisionID); err != nil {
			if errors.Is(err, repositories.ErrDivisionNotFound) {
				return nil, ErrDivisionNotFound
			}
			return nil, fmt.Errorf("failed to verify division %s: %w", *input.DivisionID, err)
		}
	}

	team := &models.Team{
		Name:         input.Name,
		TournamentID: input.TournamentID,
		DivisionID:   input.DivisionID,
		CoachUserID:  input.CoachUserID,
		CoachName:    input.CoachName,
		ContactEmail: input.ContactEmail,
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) Get(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	s.resolveLogoURL(team)
	return team, nil
}

func (s *teamService) List(ctx context.Context, tournamentID, divisionID *string) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx, repositories.ListTeamsFilter{
		TournamentID: tournamentID,
		DivisionID:   divisionID,
	})
	if err != nil {
		return nil, err
	}
	for i := range teams {
		s.resolveLogoURL(&teams[i])
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, id string, input UpdateTeamInput) (*models.Team, error) {
	if input.Name == nil && input.DivisionID == nil && input.CoachUserID == nil &&
		input.CoachName == nil && input.ContactEmail == nil {
		return nil, ErrNoUpdateFields
	}

	team, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		team.Name = *input.Name
	}
	if input.DivisionID != nil {
		if _, err := s.divisionRepo.GetByID(ctx, *input.DivisionID); err != nil {
			if errors.Is(err, repositories.ErrDivisionNotFound) {
				return nil, ErrDivisionNotFound
			}
			return nil, fmt.Errorf("failed to verify division %s: %w", *input.DivisionID, err)
		}
		team.DivisionID = input.DivisionID
	}
	if input.CoachUserID != nil {
		team.CoachUserID = input.CoachUserID
	}
	if input.CoachName != nil {
		team.CoachName = input.CoachName
	}
	if input.ContactEmail != nil {
		team.ContactEmail = input.ContactEmail
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update team %s: %w", id, err)
	}
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id string) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %s: %w", id, err)
	}
	return nil
}

// UploadLogo stores the team logo in the object store and records its key.
// A previous logo is deleted best-effort after the new key is saved.
func (s *teamService) UploadLogo(ctx context.Context, id, contentType string, logo io.Reader) (*models.Team, error) {
	team, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("teams/%s/logo", team.ID)
	result, err := s.uploader.Upload(ctx, key, contentType, logo)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	oldKey := team.LogoKey
	if err := s.teamRepo.UpdateLogoKey(ctx, team.ID, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to record team logo key: %w", err)
	}
	if oldKey != nil && *oldKey != result.Key {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	team.LogoKey = &result.Key
	s.resolveLogoURL(team)
	return team, nil
}

func (s *teamService) resolveLogoURL(team *models.Team) {
	if s.uploader == nil || team.LogoKey == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*team.LogoKey); url != "" {
		team.LogoURL = &url
	}
}
