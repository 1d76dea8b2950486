package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtside/tournament-api/models"
	"github.com/courtside/tournament-api/repositories"
)

type PlayerService interface {
	Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	Get(ctx context.Context, id string) (*models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
	Update(ctx context.Context, id string, input UpdatePlayerInput) (*models.Player, error)
	Delete(ctx context.Context, id string) error
}

type CreatePlayerInput struct {
	Name         string `json:"name"`
	Position     string `json:"position"`
	Team         string `json:"team"`
	JerseyNumber *int   `json:"jerseyNumber"`
	IsActive     *bool  `json:"isActive,omitempty"`
}

type UpdatePlayerInput struct {
	Name         *string `json:"name,omitempty"`
	Position     *string `json:"position,omitempty"`
	Team         *string `json:"team,omitempty"`
	JerseyNumber *int    `json:"jerseyNumber,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository) PlayerService {
	return &playerService{playerRepo: playerRepo}
}

func (s *playerService) Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	if input.Name == "" || input.Position == "" || input.Team == "" || input.JerseyNumber == nil {
		return nil, ErrPlayerFieldsRequired
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	player := &models.Player{
		Name:         input.Name,
		Position:     input.Position,
		Team:         input.Team,
		JerseyNumber: *input.JerseyNumber,
		IsActive:     isActive,
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) Get(ctx context.Context, id string) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) List(ctx context.Context) ([]models.Player, error) {
	return s.playerRepo.List(ctx)
}

func (s *playerService) Update(ctx context.Context, id string, input UpdatePlayerInput) (*models.Player, error) {
	if input.Name == nil && input.Position == nil && input.Team == nil &&
		input.JerseyNumber == nil && input.IsActive == nil {
		return nil, ErrNoUpdateFields
	}

	player, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		player.Name = *input.Name
	}
	if input.Position != nil {
		player.Position = *input.Position
	}
	if input.Team != nil {
		player.Team = *input.Team
	}
	if input.JerseyNumber != nil {
		player.JerseyNumber = *input.JerseyNumber
	}
	if input.IsActive != nil {
		player.IsActive = *input.IsActive
	}

	if err := s.playerRepo.Update(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to update player %s: %w", id, err)
	}
	return player, nil
}

func (s *playerService) Delete(ctx context.Context, id string) error {
	if err := s.playerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to delete player %s: %w", id, err)
	}
	return nil
}
