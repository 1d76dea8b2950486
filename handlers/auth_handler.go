package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/courtside/tournament-api/auth"
	"github.com/courtside/tournament-api/middleware"
	"github.com/courtside/tournament-api/models"
	"github.com/courtside/tournament-api/services"
)

type AuthHandler struct {
	authService services.AuthService
	tokens      *auth.TokenManager
}

func NewAuthHandler(as services.AuthService, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{authService: as, tokens: tokens}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	uid, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	createdResponse(w, "User registered successfully.", map[string]string{"uid": uid})
}

func (h *AuthHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	uid, err := h.authService.RegisterAdmin(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	createdResponse(w, "Admin registered successfully.", map[string]string{"uid": uid})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	user, err := h.authService.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	token, err := h.tokens.IssueIDToken(user.UID, user.Email, user.Roles, "password")
	if err != nil {
		serverErrorResponse(w, err)
		return
	}

	okResponse(w, "Login successful.", map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// CreateSession exchanges a verified ID token for a long-lived session cookie.
// A provider sign-in that carries no roles yet gets a default role assigned and
// a 205 telling the client to refresh its token before retrying.
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var input struct {
		IDToken string `json:"idToken"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	claims, err := h.tokens.VerifyIDToken(input.IDToken)
	if err != nil {
		unauthorizedResponse(w, "Invalid or expired authentication token.")
		return
	}

	if len(claims.Roles) == 0 && claims.SignInProvider == "google.com" {
		if err := h.authService.AssignDefaultRoles(r.Context(), claims.UID, []string{models.RoleTournamentDirector}); err != nil {
			mapServiceErrorToHTTP(w, err)
			return
		}
		writeJSON(w, http.StatusResetContent, "Custom claims set. Please refresh your token.", nil)
		return
	}

	session, err := h.tokens.IssueSessionToken(claims)
	if err != nil {
		serverErrorResponse(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    session,
		Path:     "/",
		MaxAge:   int(auth.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	okResponse(w, "Session created successfully.", nil)
}

// CheckSession verifies the credential on the request and stops there, so
// clients can probe whether they are still signed in. The bearer path skips
// the stored role lookup that the regular authenticator performs.
func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("session"); err == nil && cookie.Value != "" {
		claims, err := h.tokens.VerifySessionToken(cookie.Value)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				unauthorizedResponse(w, "Your session has expired. Please sign in again.")
				return
			}
			unauthorizedResponse(w, "Invalid session. Please sign in again.")
			return
		}
		okResponse(w, "OK", map[string]string{"uid": claims.UID, "email": claims.Email})
		return
	}

	if token, ok := bearerToken(r); ok {
		claims, err := h.tokens.VerifyIDToken(token)
		if err != nil {
			unauthorizedResponse(w, "Invalid or expired authentication token.")
			return
		}
		okResponse(w, "OK", map[string]string{"uid": claims.UID, "email": claims.Email})
		return
	}

	unauthorizedResponse(w, "The request is unauthenticated.")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	current := middleware.CurrentUserFromContext(r.Context())
	if current == nil {
		unauthorizedResponse(w, "The request is unauthenticated.")
		return
	}

	if err := h.authService.Logout(r.Context(), current.UID); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	okResponse(w, "Logged out successfully.", nil)
}

// RequestAPIKey hands out the short-lived service key trusted frontends attach
// to every request.
func (h *AuthHandler) RequestAPIKey(w http.ResponseWriter, r *http.Request) {
	key, err := h.tokens.IssueAPIKey()
	if err != nil {
		serverErrorResponse(w, err)
		return
	}
	okResponse(w, "API key issued.", map[string]string{"apiKey": key})
}

func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	user, err := h.authService.GetUser(r.Context(), uid)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	okResponse(w, "User retrieved successfully.", user)
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	okResponse(w, "Users retrieved successfully.", users)
}

func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	var input services.UpdateUserInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.authService.UpdateUser(r.Context(), uid, input); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	okResponse(w, "User updated successfully.", nil)
}

func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	if err := h.authService.DeleteUser(r.Context(), uid); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	okResponse(w, "User deleted successfully.", nil)
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):], true
	}
	return "", false
}
