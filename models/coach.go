package models

import "time"

type Coach struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	TeamID    *string   `json:"team_id,omitempty" db:"team_id"`
	Role      *string   `json:"role,omitempty" db:"role"` // "Head Coach", "Assistant Coach", ...
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
