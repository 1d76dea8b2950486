package models

import "time"

// Role values assignable to users. Stored as plain strings so the role
// set on a user document can grow without a schema change.
const (
	RoleAdmin              = "admin"
	RoleTournamentDirector = "tournamentDirector"
	RoleSiteDirector       = "siteDirector"
	RoleScorekeeper        = "scorekeeper"
	RolePlayer             = "player"
	RoleSpectator          = "spectator"
)

// AssignableRoles are the roles a caller may request at registration time.
// RoleAdmin is deliberately absent; admins are created via register-admin.
var AssignableRoles = []string{
	RolePlayer,
	RoleSpectator,
	RoleTournamentDirector,
	RoleSiteDirector,
	RoleScorekeeper,
}

type User struct {
	UID          string    `json:"id" db:"uid"`
	Email        string    `json:"email" db:"email"`
	DisplayName  string    `json:"displayName" db:"display_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Roles        []string  `json:"roles" db:"roles"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// TokensValidAfter invalidates every token issued before it.
	// Bumped on logout, never exposed to clients.
	TokensValidAfter *time.Time `json:"-" db:"tokens_valid_after"`
}
