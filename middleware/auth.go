package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/courtside/tournament-api/auth"
	"github.com/courtside/tournament-api/models"
	"github.com/courtside/tournament-api/repositories"
)

const (
	sessionCookieName = "session"
	apiKeyHeader      = "x-api-key"

	msgAPIKeyForbidden = "Access to the resource is prohibited."
	msgUnauthenticated = "The request is unauthenticated."
	msgSessionExpired  = "Your session has expired. Please sign in again."
	msgSessionInvalid  = "Invalid session. Please sign in again."
	msgBearerInvalid   = "Invalid or expired authentication token."
	msgForbidden       = "You do not have permission to access this resource."
)

// Auth carries the token manager and user store needed by the request guards.
type Auth struct {
	tokens *auth.TokenManager
	users  repositories.UserRepository
	logger *slog.Logger
}

func NewAuth(tokens *auth.TokenManager, users repositories.UserRepository, logger *slog.Logger) *Auth {
	return &Auth{tokens: tokens, users: users, logger: logger}
}

// RequireAPIKey rejects requests that do not carry a valid service key in the
// x-api-key header.
func (a *Auth) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(apiKeyHeader)
		if key == "" {
			writeError(w, http.StatusForbidden, msgAPIKeyForbidden)
			return
		}
		if err := a.tokens.VerifyAPIKey(key); err != nil {
			writeError(w, http.StatusForbidden, msgAPIKeyForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Authenticate requires a valid session cookie or bearer ID token. The caller's
// roles are loaded from the stored user record, falling back to ["player"] when
// no record exists.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, errStatus, errMsg := a.verifyRequest(r)
		if claims == nil {
			writeError(w, errStatus, errMsg)
			return
		}

		revokedMsg := msgBearerInvalid
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			revokedMsg = msgSessionExpired
		}

		roles := []string{models.RolePlayer}
		user, err := a.users.GetByUID(r.Context(), claims.UID)
		switch {
		case err == nil:
			if a.revoked(user, claims) {
				writeError(w, http.StatusUnauthorized, revokedMsg)
				return
			}
			if len(user.Roles) > 0 {
				roles = user.Roles
			}
		case errors.Is(err, repositories.ErrUserNotFound):
			// no stored record, keep the default role
		default:
			a.logger.Error("failed to load user for authentication", slog.String("uid", claims.UID), slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
			return
		}

		current := &models.CurrentUser{UID: claims.UID, Email: claims.Email, Roles: roles}
		next.ServeHTTP(w, r.WithContext(WithCurrentUser(r.Context(), current)))
	})
}

// AuthenticateOptional attaches the caller when a valid credential is present
// and otherwise lets the request through anonymously. Unlike Authenticate, the
// roles here come straight from the token claim rather than the stored user
// record, so a stale token keeps its roles until it expires.
func (a *Auth) AuthenticateOptional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _, _ := a.verifyRequest(r)
		if claims == nil {
			next.ServeHTTP(w, r)
			return
		}
		if user, err := a.users.GetByUID(r.Context(), claims.UID); err == nil && a.revoked(user, claims) {
			next.ServeHTTP(w, r)
			return
		}

		current := &models.CurrentUser{UID: claims.UID, Email: claims.Email, Roles: claims.Roles}
		next.ServeHTTP(w, r.WithContext(WithCurrentUser(r.Context(), current)))
	})
}

// AuthorizeRoles allows the request through when the caller holds at least one
// of the given roles.
func AuthorizeRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current := CurrentUserFromContext(r.Context())
			if current == nil {
				writeError(w, http.StatusUnauthorized, msgUnauthenticated)
				return
			}
			for _, role := range roles {
				if current.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, msgForbidden)
		})
	}
}

// verifyRequest extracts and verifies the credential on the request, trying the
// session cookie before the Authorization header. A nil claims result carries
// the status and message the mandatory authenticator should respond with.
func (a *Auth) verifyRequest(r *http.Request) (*auth.Claims, int, string) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		claims, err := a.tokens.VerifySessionToken(cookie.Value)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return nil, http.StatusUnauthorized, msgSessionExpired
			}
			return nil, http.StatusUnauthorized, msgSessionInvalid
		}
		return claims, 0, ""
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		claims, err := a.tokens.VerifyIDToken(token)
		if err != nil {
			return nil, http.StatusUnauthorized, msgBearerInvalid
		}
		return claims, 0, ""
	}

	return nil, http.StatusUnauthorized, msgUnauthenticated
}

// revoked reports whether the credential was issued before the user's token
// revocation watermark.
func (a *Auth) revoked(user *models.User, claims *auth.Claims) bool {
	return user.TokensValidAfter != nil && claims.IssuedAt.Before(*user.TokensValidAfter)
}
