package routes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/courtside/tournament-api/auth"
	"github.com/courtside/tournament-api/handlers"
	"github.com/courtside/tournament-api/metrics"
	"github.com/courtside/tournament-api/middleware"
	"github.com/courtside/tournament-api/models"
	"github.com/courtside/tournament-api/repositories"
	"github.com/courtside/tournament-api/services"
)

// staticUserRepo serves a single fixed user to the authenticator.
type staticUserRepo struct {
	user *models.User
}

func (s *staticUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (s *staticUserRepo) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	if s.user != nil && s.user.UID == uid {
		copied := *s.user
		return &copied, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (s *staticUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (s *staticUserRepo) List(ctx context.Context) ([]models.User, error) { return nil, nil }

func (s *staticUserRepo) Update(ctx context.Context, user *models.User) error { return nil }

func (s *staticUserRepo) Delete(ctx context.Context, uid string) error { return nil }

func (s *staticUserRepo) RevokeTokens(ctx context.Context, uid string, at time.Time) error {
	return nil
}

type stubTeamService struct {
	team *models.Team
}

func (s *stubTeamService) Create(ctx context.Context, input services.CreateTeamInput) (*models.Team, error) {
	return s.team, nil
}

func (s *stubTeamService) Get(ctx context.Context, id string) (*models.Team, error) {
	return s.team, nil
}

func (s *stubTeamService) List(ctx context.Context, tournamentID, divisionID *string) ([]models.Team, error) {
	return []models.Team{*s.team}, nil
}

func (s *stubTeamService) Update(ctx context.Context, id string, input services.UpdateTeamInput) (*models.Team, error) {
	return s.team, nil
}

func (s *stubTeamService) Delete(ctx context.Context, id string) error { return nil }

func (s *stubTeamService) UploadLogo(ctx context.Context, id, contentType string, logo io.Reader) (*models.Team, error) {
	return s.team, nil
}

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func newTestRouter(t *testing.T) (http.Handler, *auth.TokenManager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager("auth-secret", "access-secret", "courtside", "courtside-api")
	users := &staticUserRepo{user: &models.User{
		UID:   "admin-1",
		Email: "admin@example.com",
		Roles: []string{models.RoleAdmin},
	}}

	limiter := middleware.NewRateLimiter(rate.Limit(100), 100)
	t.Cleanup(limiter.Stop)

	router := InitRoutes(Deps{
		Auth:        middleware.NewAuth(tokens, users, logger),
		AuthLimiter: limiter,
		Collector:   metrics.NewCollector(),

		AuthHandler:       handlers.NewAuthHandler(nil, tokens),
		TournamentHandler: handlers.NewTournamentHandler(nil),
		TeamHandler:       handlers.NewTeamHandler(&stubTeamService{team: &models.Team{ID: "team-1", Name: "Eagles", TournamentID: "t1"}}),
		PlayerHandler:     handlers.NewPlayerHandler(nil),
		CoachHandler:      handlers.NewCoachHandler(nil),
		DivisionHandler:   handlers.NewDivisionHandler(nil),
		LiveHandler:       handlers.NewLiveHandler(nil, logger),
	})
	return router, tokens
}

func adminBearer(t *testing.T, tokens *auth.TokenManager) string {
	t.Helper()
	token, err := tokens.IssueIDToken("admin-1", "admin@example.com", []string{models.RoleAdmin}, "password")
	require.NoError(t, err)
	return "Bearer " + token
}

func TestWritesRejectedWithoutServiceKey(t *testing.T) {
	router, tokens := newTestRouter(t)

	// A valid credential alone is not enough; the service key header
	// gates every route group.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/teams/", strings.NewReader(`{"name":"Eagles","tournament_id":"t1"}`))
	req.Header.Set("Authorization", adminBearer(t, tokens))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access to the resource is prohibited.", decodeEnvelope(t, rec).Message)
}

func TestAuthRoutesRejectedWithoutServiceKey(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/auth/login"},
		{http.MethodPost, "/auth/register"},
		{http.MethodPost, "/auth/create-session"},
		{http.MethodGet, "/auth/check-session"},
		{http.MethodPost, "/auth/logout"},
		{http.MethodGet, "/auth/users"},
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRequestAPIKeyNeedsNoServiceKey(t *testing.T) {
	router, tokens := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/request-api-key", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	key, ok := data["apiKey"].(string)
	require.True(t, ok)
	assert.NoError(t, tokens.VerifyAPIKey(key))
}

func TestWriteAllowedWithServiceKeyAndToken(t *testing.T) {
	router, tokens := newTestRouter(t)

	apiKey, err := tokens.IssueAPIKey()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/teams/", strings.NewReader(`{"name":"Eagles","tournament_id":"t1"}`))
	req.Header.Set("Authorization", adminBearer(t, tokens))
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}
