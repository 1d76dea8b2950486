package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/courtside/tournament-api/models"
	"github.com/courtside/tournament-api/repositories"
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, error)
	RegisterAdmin(ctx context.Context, input RegisterInput) (string, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context, uid string) error
	AssignDefaultRoles(ctx context.Context, uid string, roles []string) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, uid string, input UpdateUserInput) error
	DeleteUser(ctx context.Context, uid string) error
}

type RegisterInput struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	DisplayName string   `json:"displayName"`
	Roles       []string `json:"roles,omitempty"`
}

type UpdateUserInput struct {
	DisplayName *string  `json:"displayName,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Register creates a user with the requested role set. Roles outside the
// assignable set are rejected; an empty role list defaults to spectator.
func (s *authService) Register(ctx context.Context, input RegisterInput) (string, error) {
	roles := input.Roles
	if len(roles) > 0 {
		for _, role := range roles {
			if !isAssignableRole(role) {
				return "", ErrInvalidRole
			}
		}
	} else {
		roles = []string{models.RoleSpectator}
	}
	return s.createUser(ctx, input, roles)
}

// RegisterAdmin creates a user carrying the admin role. The route exposing
// it must verify the requester is an admin.
func (s *authService) RegisterAdmin(ctx context.Context, input RegisterInput) (string, error) {
	return s.createUser(ctx, input, []string{models.RoleAdmin})
}

func (s *authService) createUser(ctx context.Context, input RegisterInput, roles []string) (string, error) {
	if input.Email == "" || input.Password == "" || input.DisplayName == "" {
		return "", ErrUserFieldsRequired
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        input.Email,
		DisplayName:  input.DisplayName,
		PasswordHash: string(hashedPassword),
		Roles:        roles,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	return user.UID, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// Logout revokes every outstanding token for the user by bumping the
// tokens_valid_after watermark to now.
func (s *authService) Logout(ctx context.Context, uid string) error {
	err := s.userRepo.RevokeTokens(ctx, uid, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to revoke tokens for user %s: %w", uid, err)
	}
	return nil
}

// AssignDefaultRoles attaches a role set to a user that signed in through a
// third-party provider and has no role claim yet. The caller signals the
// client to refresh its token afterwards.
func (s *authService) AssignDefaultRoles(ctx context.Context, uid string, roles []string) error {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	user.Roles = roles
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to assign roles to user %s: %w", uid, err)
	}
	return nil
}

func (s *authService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *authService) UpdateUser(ctx context.Context, uid string, input UpdateUserInput) error {
	if input.DisplayName == nil && len(input.Roles) == 0 {
		return ErrNoUpdateFields
	}

	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if len(input.Roles) > 0 {
		user.Roles = input.Roles
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update user %s: %w", uid, err)
	}
	return nil
}

func (s *authService) DeleteUser(ctx context.Context, uid string) error {
	if err := s.userRepo.Delete(ctx, uid); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user %s: %w", uid, err)
	}
	return nil
}

func isAssignableRole(role string) bool {
	for _, r := range models.AssignableRoles {
		if r == role {
			return true
		}
	}
	return false
}
