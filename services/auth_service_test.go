package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/tournament-api/models"
)

func TestRegisterDefaultsToSpectator(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo)

	uid, err := svc.Register(context.Background(), RegisterInput{
		Email:       "alice@example.com",
		Password:    "secret123",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	user, err := repo.GetByUID(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleSpectator}, user.Roles)
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestRegisterRejectsUnassignableRole(t *testing.T) {
	svc := NewAuthService(newMemUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "mallory@example.com",
		Password:    "secret123",
		DisplayName: "Mallory",
		Roles:       []string{models.RoleAdmin},
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegisterRequiresAllFields(t *testing.T) {
	svc := NewAuthService(newMemUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrUserFieldsRequired)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo)

	input := RegisterInput{Email: "alice@example.com", Password: "secret123", DisplayName: "Alice"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterAdminForcesAdminRole(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo)

	uid, err := svc.RegisterAdmin(context.Background(), RegisterInput{
		Email:       "root@example.com",
		Password:    "secret123",
		DisplayName: "Root",
		Roles:       []string{models.RoleSpectator},
	})
	require.NoError(t, err)

	user, err := repo.GetByUID(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleAdmin}, user.Roles)
}

func TestLogin(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "alice@example.com",
		Password:    "secret123",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutBumpsRevocationWatermark(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo)

	uid, err := svc.Register(context.Background(), RegisterInput{
		Email:       "alice@example.com",
		Password:    "secret123",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), uid))
	assert.Contains(t, repo.revokedAt, uid)

	assert.ErrorIs(t, svc.Logout(context.Background(), "ghost"), ErrUserNotFound)
}

func TestUpdateUserRequiresAField(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo)

	uid, err := svc.Register(context.Background(), RegisterInput{
		Email:       "alice@example.com",
		Password:    "secret123",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	err = svc.UpdateUser(context.Background(), uid, UpdateUserInput{})
	assert.ErrorIs(t, err, ErrNoUpdateFields)

	name := "Alice B"
	require.NoError(t, svc.UpdateUser(context.Background(), uid, UpdateUserInput{DisplayName: &name}))

	user, err := repo.GetByUID(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "Alice B", user.DisplayName)
}

func TestAssignDefaultRoles(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo)

	uid, err := svc.Register(context.Background(), RegisterInput{
		Email:       "alice@example.com",
		Password:    "secret123",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	require.NoError(t, svc.AssignDefaultRoles(context.Background(), uid, []string{models.RoleTournamentDirector}))

	user, err := repo.GetByUID(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleTournamentDirector}, user.Roles)

	err = svc.AssignDefaultRoles(context.Background(), "ghost", []string{models.RolePlayer})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
