package models

import "time"

type Team struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	DivisionID   *string   `json:"division_id,omitempty" db:"division_id"`
	CoachUserID  *string   `json:"coach_user_id,omitempty" db:"coach_user_id"`
	CoachName    *string   `json:"coach_name,omitempty" db:"coach_name"`
	ContactEmail *string   `json:"contact_email,omitempty" db:"contact_email"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}
