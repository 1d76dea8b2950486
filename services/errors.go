package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	// Not found
	ErrUserNotFound       = errors.New("user not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrDivisionNotFound   = errors.New("division not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrCoachNotFound      = errors.New("coach not found")

	// Validation and business rules (400)
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrUserFieldsRequired       = errors.New("email, password and displayName are required")
	ErrInvalidRole              = errors.New("invalid role provided")
	ErrNoUpdateFields           = errors.New("at least one field must be provided")
	ErrTournamentIDRequired     = errors.New("tournament_id is required")
	ErrTeamFieldsRequired       = errors.New("team name and tournament_id are required")
	ErrDivisionFieldsRequired   = errors.New("name and tournament_id are required")
	ErrPlayerFieldsRequired     = errors.New("name, position, team, and jerseyNumber are required")
	ErrCoachFieldsRequired      = errors.New("name and email are required")
	ErrTournamentFieldsRequired = errors.New("title, location, sport, start_date and end_date are required")

	// Conflicts (409)
	ErrEmailTaken    = errors.New("the email address is already in use by another account")
	ErrStaffConflict = errors.New("this user is already a staff member")

	// Authorization (403)
	ErrStaffForbidden = errors.New("only an admin or a director of this tournament can add staff")
)
