package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/courtside/tournament-api/middleware"
	"github.com/courtside/tournament-api/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

// List serves the tournament catalogue. Visibility depends on who is asking,
// so the route sits behind the optional authenticator.
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sport := query.Get("sport")
	if sport == "" {
		badRequestResponse(w, errors.New("sport query parameter is required"))
		return
	}

	filter := services.TournamentListFilter{Sport: sport}
	if location := query.Get("location"); location != "" {
		filter.Location = &location
	}

	startDate, err := parseDateQuery(query.Get("startDate"))
	if err != nil {
		badRequestResponse(w, errors.New("startDate must be an ISO date"))
		return
	}
	filter.StartDate = startDate

	endDate, err := parseEndDateQuery(query.Get("endDate"))
	if err != nil {
		badRequestResponse(w, errors.New("endDate must be an ISO date"))
		return
	}
	filter.EndDate = endDate

	caller := middleware.CurrentUserFromContext(r.Context())
	items, err := h.tournamentService.List(r.Context(), filter, caller)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	okResponse(w, "Tournaments retrieved successfully.", items)
}

func (h *TournamentHandler) Locations(w http.ResponseWriter, r *http.Request) {
	sport := r.URL.Query().Get("sport")
	if sport == "" {
		badRequestResponse(w, errors.New("sport query parameter is required"))
		return
	}

	locations, err := h.tournamentService.Locations(r.Context(), sport)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	okResponse(w, "Locations retrieved successfully.", locations)
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	caller := middleware.CurrentUserFromContext(r.Context())
	if caller == nil {
		unauthorizedResponse(w, "The request is unauthenticated.")
		return
	}

	tournament, err := h.tournamentService.Create(r.Context(), input, caller)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	createdResponse(w, "Tournament created successfully.", tournament)
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tournament, err := h.tournamentService.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	okResponse(w, "Tournament retrieved successfully.", tournament)
}

func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input services.UpdateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	okResponse(w, "Tournament updated successfully.", tournament)
}

func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.tournamentService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	okResponse(w, "Tournament deleted successfully.", nil)
}

func (h *TournamentHandler) AddStaff(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input struct {
		UID  string `json:"uid"`
		Role string `json:"role"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	caller := middleware.CurrentUserFromContext(r.Context())
	if caller == nil {
		unauthorizedResponse(w, "The request is unauthenticated.")
		return
	}

	if err := h.tournamentService.AddStaff(r.Context(), id, input.UID, input.Role, caller); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	okResponse(w, "Staff member added successfully.", nil)
}

// parseDateQuery accepts RFC 3339 timestamps or bare ISO dates. Empty input
// yields a nil time with no error.
func parseDateQuery(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseEndDateQuery widens a bare ISO date to the last instant of that day
// so tournaments ending on the queried date are still matched by the
// inclusive end_date comparison.
func parseEndDateQuery(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	t = t.Add(24*time.Hour - time.Millisecond)
	return &t, nil
}
