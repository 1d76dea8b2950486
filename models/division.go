package models

import "time"

type Division struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
