package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/courtside/tournament-api/models"
)

type contextKey string

const currentUserKey contextKey = "currentUser"

// WithCurrentUser attaches the authenticated caller to the request context.
func WithCurrentUser(ctx context.Context, user *models.CurrentUser) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// CurrentUserFromContext returns the authenticated caller, or nil when the
// request is anonymous.
func CurrentUserFromContext(ctx context.Context) *models.CurrentUser {
	user, _ := ctx.Value(currentUserKey).(*models.CurrentUser)
	return user
}

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Status: status, Message: message, Data: nil})
}
