package models

import "time"

// TournamentType mirrors the product's tournament flavors.
type TournamentType string

const (
	TypeFullTournament     TournamentType = "full_tournament"
	TypeShowcaseTournament TournamentType = "showcase_tournament"
	TypeBracketOnly        TournamentType = "bracket_only_tournament"
	TypeQuickTournament    TournamentType = "quick_tournament"
	TypeLeague             TournamentType = "league"
)

// Tournament is the tournament document. Staff maps user UID to the role
// that user holds inside this tournament; StaffUIDs duplicates the keys so
// membership can be filtered with a single array predicate.
type Tournament struct {
	ID              string            `json:"id" db:"id"`
	Title           string            `json:"title" db:"title"`
	Sport           string            `json:"sport" db:"sport"`
	Location        string            `json:"location" db:"location"`
	StartDate       time.Time         `json:"start_date" db:"start_date"`
	EndDate         time.Time         `json:"end_date" db:"end_date"`
	TournamentType  TournamentType    `json:"tournament_type" db:"tournament_type"`
	IsPublished     bool              `json:"is_published" db:"is_published"`
	CreatedByUserID string            `json:"created_by_user_id,omitempty" db:"created_by_user_id"`
	Staff           map[string]string `json:"staff,omitempty" db:"staff"`
	StaffUIDs       []string          `json:"staff_uids,omitempty" db:"staff_uids"`
	TimeZone        string            `json:"time_zone,omitempty" db:"time_zone"`
	NumberOfWeeks   *int              `json:"number_of_weeks,omitempty" db:"number_of_weeks"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
}

// TournamentListItem is the listing projection: staff, staff_uids and
// created_by_user_id are stripped, team_count is derived per tournament.
type TournamentListItem struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Sport          string         `json:"sport"`
	Location       string         `json:"location"`
	StartDate      time.Time      `json:"start_date"`
	EndDate        time.Time      `json:"end_date"`
	TournamentType TournamentType `json:"tournament_type"`
	IsPublished    bool           `json:"is_published"`
	TimeZone       string         `json:"time_zone,omitempty"`
	NumberOfWeeks  *int           `json:"number_of_weeks,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	TeamCount      int            `json:"team_count"`
}
