package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/courtside/tournament-api/models"
	"github.com/courtside/tournament-api/repositories"
)

// In-memory repository fakes shared by the service tests.

// nopTxDB builds a *sql.DB whose connections only support transaction
// control. It lets the transactional code paths run against the in-memory
// repositories, which ignore the executor they are handed.
func nopTxDB() *sql.DB {
	return sql.OpenDB(nopConnector{})
}

type nopConnector struct{}

func (nopConnector) Connect(context.Context) (driver.Conn, error) { return nopConn{}, nil }

func (nopConnector) Driver() driver.Driver { return nopDriver{} }

type nopDriver struct{}

func (nopDriver) Open(string) (driver.Conn, error) { return nopConn{}, nil }

type nopConn struct{}

func (nopConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("statements not supported") }

func (nopConn) Close() error { return nil }

func (nopConn) Begin() (driver.Tx, error) { return nopTx{}, nil }

type nopTx struct{}

func (nopTx) Commit() error { return nil }

func (nopTx) Rollback() error { return nil }

type memUserRepo struct {
	users     map[string]*models.User
	revokedAt map[string]time.Time
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User), revokedAt: make(map[string]time.Time)}
}

func (m *memUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	if user.UID == "" {
		user.UID = fmt.Sprintf("uid-%d", len(m.users)+1)
	}
	copied := *user
	m.users[user.UID] = &copied
	return nil
}

func (m *memUserRepo) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	user, ok := m.users[uid]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (m *memUserRepo) List(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, *user)
	}
	return users, nil
}

func (m *memUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := m.users[user.UID]; !ok {
		return repositories.ErrUserNotFound
	}
	copied := *user
	m.users[user.UID] = &copied
	return nil
}

func (m *memUserRepo) Delete(ctx context.Context, uid string) error {
	if _, ok := m.users[uid]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(m.users, uid)
	return nil
}

func (m *memUserRepo) RevokeTokens(ctx context.Context, uid string, at time.Time) error {
	if _, ok := m.users[uid]; !ok {
		return repositories.ErrUserNotFound
	}
	m.revokedAt[uid] = at
	return nil
}

type memTournamentRepo struct {
	tournaments map[string]*models.Tournament
}

func newMemTournamentRepo() *memTournamentRepo {
	return &memTournamentRepo{tournaments: make(map[string]*models.Tournament)}
}

func (m *memTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	if t.ID == "" {
		t.ID = fmt.Sprintf("tournament-%d", len(m.tournaments)+1)
	}
	copied := *t
	m.tournaments[t.ID] = &copied
	return nil
}

func (m *memTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id string) (*models.Tournament, error) {
	t, ok := m.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	copied.Staff = make(map[string]string, len(t.Staff))
	for uid, role := range t.Staff {
		copied.Staff[uid] = role
	}
	copied.StaffUIDs = append([]string(nil), t.StaffUIDs...)
	return &copied, nil
}

func (m *memTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	var out []models.Tournament
	for _, t := range m.tournaments {
		if filter.Sport != "" && t.Sport != filter.Sport {
			continue
		}
		if filter.PublishedOnly && !t.IsPublished {
			continue
		}
		if filter.StaffUID != nil {
			member := false
			for _, uid := range t.StaffUIDs {
				if uid == *filter.StaffUID {
					member = true
					break
				}
			}
			if !member {
				continue
			}
		}
		out = append(out, *t)
	}
	return out, nil
}

func (m *memTournamentRepo) Locations(ctx context.Context, sport string) ([]string, error) {
	var out []string
	for _, t := range m.tournaments {
		if t.Sport == sport {
			out = append(out, t.Location)
		}
	}
	return out, nil
}

func (m *memTournamentRepo) Update(ctx context.Context, t *models.Tournament) error {
	if _, ok := m.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	copied := *t
	m.tournaments[t.ID] = &copied
	return nil
}

func (m *memTournamentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(m.tournaments, id)
	return nil
}

func (m *memTournamentRepo) SetStaffRole(ctx context.Context, exec repositories.SQLExecutor, id, staffUID, role string) error {
	t, ok := m.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	if _, exists := t.Staff[staffUID]; exists {
		return repositories.ErrStaffMemberExists
	}
	if t.Staff == nil {
		t.Staff = make(map[string]string)
	}
	t.Staff[staffUID] = role
	t.StaffUIDs = append(t.StaffUIDs, staffUID)
	return nil
}

type memTeamRepo struct {
	teams map[string]*models.Team
}

func newMemTeamRepo() *memTeamRepo {
	return &memTeamRepo{teams: make(map[string]*models.Team)}
}

func (m *memTeamRepo) Create(ctx context.Context, team *models.Team) error {
	if team.ID == "" {
		team.ID = fmt.Sprintf("team-%d", len(m.teams)+1)
	}
	copied := *team
	m.teams[team.ID] = &copied
	return nil
}

func (m *memTeamRepo) GetByID(ctx context.Context, id string) (*models.Team, error) {
	team, ok := m.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (m *memTeamRepo) List(ctx context.Context, filter repositories.ListTeamsFilter) ([]models.Team, error) {
	var out []models.Team
	for _, team := range m.teams {
		if filter.TournamentID != nil && team.TournamentID != *filter.TournamentID {
			continue
		}
		if filter.DivisionID != nil && (team.DivisionID == nil || *team.DivisionID != *filter.DivisionID) {
			continue
		}
		out = append(out, *team)
	}
	return out, nil
}

func (m *memTeamRepo) CountByTournament(ctx context.Context, tournamentID string) (int, error) {
	count := 0
	for _, team := range m.teams {
		if team.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (m *memTeamRepo) Update(ctx context.Context, team *models.Team) error {
	if _, ok := m.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	copied := *team
	m.teams[team.ID] = &copied
	return nil
}

func (m *memTeamRepo) UpdateLogoKey(ctx context.Context, id string, logoKey *string) error {
	team, ok := m.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.LogoKey = logoKey
	return nil
}

func (m *memTeamRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(m.teams, id)
	return nil
}

type memDivisionRepo struct {
	divisions map[string]*models.Division
}

func newMemDivisionRepo() *memDivisionRepo {
	return &memDivisionRepo{divisions: make(map[string]*models.Division)}
}

func (m *memDivisionRepo) Create(ctx context.Context, division *models.Division) error {
	if division.ID == "" {
		division.ID = fmt.Sprintf("division-%d", len(m.divisions)+1)
	}
	copied := *division
	m.divisions[division.ID] = &copied
	return nil
}

func (m *memDivisionRepo) GetByID(ctx context.Context, id string) (*models.Division, error) {
	division, ok := m.divisions[id]
	if !ok {
		return nil, repositories.ErrDivisionNotFound
	}
	copied := *division
	return &copied, nil
}

func (m *memDivisionRepo) ListByTournament(ctx context.Context, tournamentID string) ([]models.Division, error) {
	var out []models.Division
	for _, division := range m.divisions {
		if division.TournamentID == tournamentID {
			out = append(out, *division)
		}
	}
	return out, nil
}

func (m *memDivisionRepo) Update(ctx context.Context, division *models.Division) error {
	if _, ok := m.divisions[division.ID]; !ok {
		return repositories.ErrDivisionNotFound
	}
	copied := *division
	m.divisions[division.ID] = &copied
	return nil
}

func (m *memDivisionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.divisions[id]; !ok {
		return repositories.ErrDivisionNotFound
	}
	delete(m.divisions, id)
	return nil
}

type memPlayerRepo struct {
	players map[string]*models.Player
}

func newMemPlayerRepo() *memPlayerRepo {
	return &memPlayerRepo{players: make(map[string]*models.Player)}
}

func (m *memPlayerRepo) Create(ctx context.Context, player *models.Player) error {
	if player.ID == "" {
		player.ID = fmt.Sprintf("player-%d", len(m.players)+1)
	}
	copied := *player
	m.players[player.ID] = &copied
	return nil
}

func (m *memPlayerRepo) GetByID(ctx context.Context, id string) (*models.Player, error) {
	player, ok := m.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (m *memPlayerRepo) List(ctx context.Context) ([]models.Player, error) {
	var out []models.Player
	for _, player := range m.players {
		out = append(out, *player)
	}
	return out, nil
}

func (m *memPlayerRepo) Update(ctx context.Context, player *models.Player) error {
	if _, ok := m.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	copied := *player
	m.players[player.ID] = &copied
	return nil
}

func (m *memPlayerRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(m.players, id)
	return nil
}

type memCoachRepo struct {
	coaches map[string]*models.Coach
}

func newMemCoachRepo() *memCoachRepo {
	return &memCoachRepo{coaches: make(map[string]*models.Coach)}
}

func (m *memCoachRepo) Create(ctx context.Context, coach *models.Coach) error {
	if coach.ID == "" {
		coach.ID = fmt.Sprintf("coach-%d", len(m.coaches)+1)
	}
	copied := *coach
	m.coaches[coach.ID] = &copied
	return nil
}

func (m *memCoachRepo) GetByID(ctx context.Context, id string) (*models.Coach, error) {
	coach, ok := m.coaches[id]
	if !ok {
		return nil, repositories.ErrCoachNotFound
	}
	copied := *coach
	return &copied, nil
}

func (m *memCoachRepo) List(ctx context.Context, teamID *string) ([]models.Coach, error) {
	var out []models.Coach
	for _, coach := range m.coaches {
		if teamID != nil && (coach.TeamID == nil || *coach.TeamID != *teamID) {
			continue
		}
		out = append(out, *coach)
	}
	return out, nil
}

func (m *memCoachRepo) Update(ctx context.Context, coach *models.Coach) error {
	if _, ok := m.coaches[coach.ID]; !ok {
		return repositories.ErrCoachNotFound
	}
	copied := *coach
	m.coaches[coach.ID] = &copied
	return nil
}

func (m *memCoachRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.coaches[id]; !ok {
		return repositories.ErrCoachNotFound
	}
	delete(m.coaches, id)
	return nil
}
