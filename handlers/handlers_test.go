package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/tournament-api/auth"
	"github.com/courtside/tournament-api/models"
	"github.com/courtside/tournament-api/services"
)

// stubTeamService records calls and returns canned results.
type stubTeamService struct {
	team *models.Team
	err  error
}

func (s *stubTeamService) Create(ctx context.Context, input services.CreateTeamInput) (*models.Team, error) {
	return s.team, s.err
}

func (s *stubTeamService) Get(ctx context.Context, id string) (*models.Team, error) {
	return s.team, s.err
}

func (s *stubTeamService) List(ctx context.Context, tournamentID, divisionID *string) ([]models.Team, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.Team{*s.team}, nil
}

func (s *stubTeamService) Update(ctx context.Context, id string, input services.UpdateTeamInput) (*models.Team, error) {
	return s.team, s.err
}

func (s *stubTeamService) Delete(ctx context.Context, id string) error { return s.err }

func (s *stubTeamService) UploadLogo(ctx context.Context, id, contentType string, logo io.Reader) (*models.Team, error) {
	return s.team, s.err
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func newTeamRouter(svc services.TeamService) *chi.Mux {
	h := NewTeamHandler(svc)
	router := chi.NewRouter()
	router.Post("/teams", h.Create)
	router.Get("/teams/{id}", h.Get)
	router.Patch("/teams/{id}", h.Update)
	return router
}

func TestUpdateTeamEmptyBody(t *testing.T) {
	router := newTeamRouter(&stubTeamService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/teams/team-1", strings.NewReader(""))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Equal(t, "body must not be empty", env.Message)
	assert.Nil(t, env.Data)
}

func TestUpdateTeamUnknownField(t *testing.T) {
	router := newTeamRouter(&stubTeamService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/teams/team-1", strings.NewReader(`{"nmae":"typo"}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTeamNotFound(t *testing.T) {
	router := newTeamRouter(&stubTeamService{err: services.ErrTeamNotFound})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/teams/missing", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusNotFound, env.Status)
	assert.Equal(t, "team not found", env.Message)
}

func TestCreateTeamEnvelope(t *testing.T) {
	router := newTeamRouter(&stubTeamService{team: &models.Team{ID: "team-1", Name: "Eagles", TournamentID: "t1"}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/teams", strings.NewReader(`{"name":"Eagles","tournament_id":"t1"}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusCreated, env.Status)
	assert.NotNil(t, env.Data)
}

func newAuthHandlerForTokens() (*AuthHandler, *auth.TokenManager) {
	tokens := auth.NewTokenManager("auth-secret", "access-secret", "courtside", "courtside-api")
	return NewAuthHandler(nil, tokens), tokens
}

func TestCheckSessionUnauthenticated(t *testing.T) {
	h, _ := newAuthHandlerForTokens()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/check-session", nil)
	h.CheckSession(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "The request is unauthenticated.", decodeEnvelope(t, rec).Message)
}

func TestCheckSessionValidBearer(t *testing.T) {
	h, tokens := newAuthHandlerForTokens()

	token, err := tokens.IssueIDToken("user-1", "alice@example.com", nil, "password")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/check-session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.CheckSession(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", decodeEnvelope(t, rec).Message)
}

func TestCheckSessionInvalidCookie(t *testing.T) {
	h, _ := newAuthHandlerForTokens()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/check-session", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "tampered"})
	h.CheckSession(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid session. Please sign in again.", decodeEnvelope(t, rec).Message)
}

func TestRequestAPIKey(t *testing.T) {
	h, tokens := newAuthHandlerForTokens()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/request-api-key", nil)
	h.RequestAPIKey(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	key, _ := data["apiKey"].(string)
	assert.NoError(t, tokens.VerifyAPIKey(key))
}

func TestTournamentListRequiresSport(t *testing.T) {
	h := NewTournamentHandler(nil)
	router := chi.NewRouter()
	router.Get("/tournament/all", h.List)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tournament/all", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "sport query parameter is required", decodeEnvelope(t, rec).Message)
}

// stubTournamentService records the filter the handler builds.
type stubTournamentService struct {
	filter services.TournamentListFilter
}

func (s *stubTournamentService) List(ctx context.Context, filter services.TournamentListFilter, caller *models.CurrentUser) ([]models.TournamentListItem, error) {
	s.filter = filter
	return []models.TournamentListItem{}, nil
}

func (s *stubTournamentService) Locations(ctx context.Context, sport string) ([]string, error) {
	return nil, nil
}

func (s *stubTournamentService) Create(ctx context.Context, input services.CreateTournamentInput, caller *models.CurrentUser) (*models.Tournament, error) {
	return nil, nil
}

func (s *stubTournamentService) Get(ctx context.Context, id string) (*models.Tournament, error) {
	return nil, nil
}

func (s *stubTournamentService) Update(ctx context.Context, id string, input services.UpdateTournamentInput) (*models.Tournament, error) {
	return nil, nil
}

func (s *stubTournamentService) Delete(ctx context.Context, id string) error { return nil }

func (s *stubTournamentService) AddStaff(ctx context.Context, tournamentID, staffUID, role string, caller *models.CurrentUser) error {
	return nil
}

func newTournamentListRouter(svc services.TournamentService) *chi.Mux {
	h := NewTournamentHandler(svc)
	router := chi.NewRouter()
	router.Get("/tournament/all", h.List)
	return router
}

func TestTournamentListWidensBareEndDate(t *testing.T) {
	svc := &stubTournamentService{}
	router := newTournamentListRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tournament/all?sport=basketball&startDate=2026-06-01&endDate=2026-06-10", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.filter.StartDate)
	require.NotNil(t, svc.filter.EndDate)

	// A tournament whose end_date falls anywhere on June 10 must still
	// satisfy the inclusive end_date bound.
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), *svc.filter.StartDate)
	assert.Equal(t, time.Date(2026, 6, 10, 23, 59, 59, 999000000, time.UTC), *svc.filter.EndDate)
}

func TestTournamentListKeepsTimestampEndDate(t *testing.T) {
	svc := &stubTournamentService{}
	router := newTournamentListRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tournament/all?sport=basketball&endDate=2026-06-10T08:00:00Z", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.filter.EndDate)
	assert.Equal(t, time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC), *svc.filter.EndDate)
}
