package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/courtside/tournament-api/services"
)

type CoachHandler struct {
	coachService services.CoachService
}

func NewCoachHandler(cs services.CoachService) *CoachHandler {
	return &CoachHandler{coachService: cs}
}

func (h *CoachHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateCoachInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	coach, err := h.coachService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	createdResponse(w, "Coach created successfully.", coach)
}

func (h *CoachHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	coach, err := h.coachService.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	okResponse(w, "Coach retrieved successfully.", coach)
}

func (h *CoachHandler) List(w http.ResponseWriter, r *http.Request) {
	var teamID *string
	if v := r.URL.Query().Get("teamId"); v != "" {
		teamID = &v
	}

	coaches, err := h.coachService.List(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	okResponse(w, "Coaches retrieved successfully.", coaches)
}

func (h *CoachHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input services.UpdateCoachInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	coach, err := h.coachService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	okResponse(w, "Coach updated successfully.", coach)
}

func (h *CoachHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.coachService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	okResponse(w, "Coach deleted successfully.", nil)
}
