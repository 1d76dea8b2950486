package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/courtside/tournament-api/services"
)

type DivisionHandler struct {
	divisionService services.DivisionService
}

func NewDivisionHandler(ds services.DivisionService) *DivisionHandler {
	return &DivisionHandler{divisionService: ds}
}

func (h *DivisionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateDivisionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	division, err := h.divisionService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	createdResponse(w, "Division created successfully.", division)
}

func (h *DivisionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	division, err := h.divisionService.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	okResponse(w, "Division retrieved successfully.", division)
}

func (h *DivisionHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID := r.URL.Query().Get("tournamentId")

	divisions, err := h.divisionService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	okResponse(w, "Divisions retrieved successfully.", divisions)
}

func (h *DivisionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input struct {
		Name *string `json:"name,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	division, err := h.divisionService.Update(r.Context(), id, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	okResponse(w, "Division updated successfully.", division)
}

func (h *DivisionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.divisionService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	okResponse(w, "Division deleted successfully.", nil)
}
