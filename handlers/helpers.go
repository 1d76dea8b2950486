package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/courtside/tournament-api/services"
)

// envelope is the uniform response body: the status field mirrors the HTTP
// status code, message carries the human-readable outcome, and data holds the
// payload (null on failure).
type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Status: status, Message: message, Data: data}); err != nil {
		slog.Error("failed to write json response", slog.Any("error", err))
	}
}

func okResponse(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, message, data)
}

func createdResponse(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, message, data)
}

func badRequestResponse(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, err.Error(), nil)
}

func unauthorizedResponse(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, message, nil)
}

func serverErrorResponse(w http.ResponseWriter, err error) {
	slog.Error("internal server error", slog.Any("error", err))
	writeJSON(w, http.StatusInternalServerError, "Something went wrong. Please try again later.", nil)
}

// mapServiceErrorToHTTP translates service layer sentinels into responses.
func mapServiceErrorToHTTP(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrDivisionNotFound),
		errors.Is(err, services.ErrPlayerNotFound),
		errors.Is(err, services.ErrCoachNotFound):
		writeJSON(w, http.StatusNotFound, err.Error(), nil)

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrStaffConflict):
		writeJSON(w, http.StatusConflict, err.Error(), nil)

	case errors.Is(err, services.ErrStaffForbidden):
		writeJSON(w, http.StatusForbidden, err.Error(), nil)

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrUserFieldsRequired),
		errors.Is(err, services.ErrNoUpdateFields),
		errors.Is(err, services.ErrTournamentIDRequired),
		errors.Is(err, services.ErrTournamentFieldsRequired),
		errors.Is(err, services.ErrTeamFieldsRequired),
		errors.Is(err, services.ErrDivisionFieldsRequired),
		errors.Is(err, services.ErrPlayerFieldsRequired),
		errors.Is(err, services.ErrCoachFieldsRequired):
		writeJSON(w, http.StatusBadRequest, err.Error(), nil)

	default:
		serverErrorResponse(w, err)
	}
}
