package models

import "time"

type Player struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Position     string    `json:"position" db:"position"`
	Team         string    `json:"team" db:"team"`
	JerseyNumber int       `json:"jerseyNumber" db:"jersey_number"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
