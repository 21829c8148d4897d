package api

import (
	"net/http"
	"time"

	"autorent/internal/models"
)

type reservationRequest struct {
	CarID       string  `json:"car_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	TotalAmount float64 `json:"total_amount,omitempty"`
}

func (s *HTTPServer) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	var req reservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	start, err := time.Parse(models.DateLayout, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date; expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse(models.DateLayout, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date; expected YYYY-MM-DD")
		return
	}

	reservation, err := s.reservations.Create(r.Context(), identity.ID, req.CarID, start, end, req.TotalAmount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

func (s *HTTPServer) handleMyReservations(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	reservations, err := s.reservations.ListForUser(r.Context(), identity.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": reservations})
}

func (s *HTTPServer) handleCancelReservation(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	reservation, err := s.reservations.Transition(r.Context(), r.PathValue("id"), models.StatusCancelled, identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}
