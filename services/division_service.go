package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtside/tournament-api/models"
	"github.com/courtside/tournament-api/repositories"
)

type DivisionService interface {
	Create(ctx context.Context, input CreateDivisionInput) (*models.Division, error)
	Get(ctx context.Context, id string) (*models.Division, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Division, error)
	Update(ctx context.Context, id string, name *string) (*models.Division, error)
	Delete(ctx context.Context, id string) error
}

type CreateDivisionInput struct {
	Name         string `json:"name"`
	TournamentID string `json:"tournament_id"`
}

type divisionService struct {
	divisionRepo   repositories.DivisionRepository
	tournamentRepo repositories.TournamentRepository
}

func NewDivisionService(divisionRepo repositories.DivisionRepository, tournamentRepo repositories.TournamentRepository) DivisionService {
	return &divisionService{divisionRepo: divisionRepo, tournamentRepo: tournamentRepo}
}

func (s *divisionService) Create(ctx context.Context, input CreateDivisionInput) (*models.Division, error) {
	if input.Name == "" || input.TournamentID == "" {
		return nil, ErrDivisionFieldsRequired
	}

	if _, err := s.tournamentRepo.GetByID(ctx, nil, input.TournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to verify tournament %s: %w", input.TournamentID, err)
	}

	division := &models.Division{
		Name:         input.Name,
		TournamentID: input.TournamentID,
	}

	if err := s.divisionRepo.Create(ctx, division); err != nil {
		return nil, fmt.Errorf("failed to create division: %w", err)
	}
	return division, nil
}

func (s *divisionService) Get(ctx context.Context, id string) (*models.Division, error) {
	division, err := s.divisionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrDivisionNotFound) {
			return nil, ErrDivisionNotFound
		}
		return nil, err
	}
	return division, nil
}

func (s *divisionService) ListByTournament(ctx context.Context, tournamentID string) ([]models.Division, error) {
	if tournamentID == "" {
		return nil, ErrTournamentIDRequired
	}
	return s.divisionRepo.ListByTournament(ctx, tournamentID)
}

func (s *divisionService) Update(ctx context.Context, id string, name *string) (*models.Division, error) {
	if name == nil {
		return nil, ErrNoUpdateFields
	}

	division, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	division.Name = *name
	if err := s.divisionRepo.Update(ctx, division); err != nil {
		if errors.Is(err, repositories.ErrDivisionNotFound) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to update division %s: %w", id, err)
	}
	return division, nil
}

func (s *divisionService) Delete(ctx context.Context, id string) error {
	if err := s.divisionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrDivisionNotFound) {
			return ErrDivisionNotFound
		}
		return fmt.Errorf("failed to delete division %s: %w", id, err)
	}
	return nil
}
