package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtside/tournament-api/models"
	"github.com/courtside/tournament-api/repositories"
)

type CoachService interface {
	Create(ctx context.Context, input CreateCoachInput) (*models.Coach, error)
	Get(ctx context.Context, id string) (*models.Coach, error)
	List(ctx context.Context, teamID *string) ([]models.Coach, error)
	Update(ctx context.Context, id string, input UpdateCoachInput) (*models.Coach, error)
	Delete(ctx context.Context, id string) error
}

type CreateCoachInput struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  *string `json:"phone,omitempty"`
	TeamID *string `json:"team_id,omitempty"`
	Role   *string `json:"role,omitempty"`
}

type UpdateCoachInput struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	TeamID *string `json:"team_id,omitempty"`
	Role   *string `json:"role,omitempty"`
}

type coachService struct {
	coachRepo repositories.CoachRepository
	teamRepo  repositories.TeamRepository
}

func NewCoachService(coachRepo repositories.CoachRepository, teamRepo repositories.TeamRepository) CoachService {
	return &coachService{coachRepo: coachRepo, teamRepo: teamRepo}
}

func (s *coachService) Create(ctx context.Context, input CreateCoachInput) (*models.Coach, error) {
	if input.Name == "" || input.Email == "" {
		return nil, ErrCoachFieldsRequired
	}

	if input.TeamID != nil {
		if _, err := s.teamRepo.GetByID(ctx, *input.TeamID); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to verify team %s: %w", *input.TeamID, err)
		}
	}

	coach := &models.Coach{
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		TeamID: input.TeamID,
		Role:   input.Role,
	}

	if err := s.coachRepo.Create(ctx, coach); err != nil {
		return nil, fmt.Errorf("failed to create coach: %w", err)
	}
	return coach, nil
}

func (s *coachService) Get(ctx context.Context, id string) (*models.Coach, error) {
	coach, err := s.coachRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCoachNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	return coach, nil
}

func (s *coachService) List(ctx context.Context, teamID *string) ([]models.Coach, error) {
	return s.coachRepo.List(ctx, teamID)
}

func (s *coachService) Update(ctx context.Context, id string, input UpdateCoachInput) (*models.Coach, error) {
	if input.Name == nil && input.Email == nil && input.Phone == nil &&
		input.TeamID == nil && input.Role == nil {
		return nil, ErrNoUpdateFields
	}

	coach, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		coach.Name = *input.Name
	}
	if input.Email != nil {
		coach.Email = *input.Email
	}
	if input.Phone != nil {
		coach.Phone = input.Phone
	}
	if input.TeamID != nil {
		coach.TeamID = input.TeamID
	}
	if input.Role != nil {
		coach.Role = input.Role
	}

	if err := s.coachRepo.Update(ctx, coach); err != nil {
		if errors.Is(err, repositories.ErrCoachNotFound) {
			return nil, ErrCoachNotFound
		}
		return nil, fmt.Errorf("failed to update coach %s: %w", id, err)
	}
	return coach, nil
}

func (s *coachService) Delete(ctx context.Context, id string) error {
	if err := s.coachRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrCoachNotFound) {
			return ErrCoachNotFound
		}
		return fmt.Errorf("failed to delete coach %s: %w", id, err)
	}
	return nil
}
