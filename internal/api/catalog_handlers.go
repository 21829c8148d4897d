package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"autorent/internal/assistant"
	"autorent/internal/models"
)

func (s *HTTPServer) handleListCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.CarFilter{
		Make:         q.Get("make"),
		Transmission: q.Get("transmission"),
		FuelType:     q.Get("fuel_type"),
		OfficeID:     q.Get("office_id"),
	}
	if raw := q.Get("max_price_per_day"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid max_price_per_day")
			return
		}
		filter.MaxPricePerDay = price
	}
	if q.Get("available") == "true" {
		filter.OnlyAvailable = true
	}

	cars, err := s.fleet.ListCars(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cars": cars})
}

func (s *HTTPServer) handleGetCar(w http.ResponseWriter, r *http.Request) {
	car, err := s.fleet.GetCar(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

// parsePeriod reads start/end query parameters in YYYY-MM-DD form.
func parsePeriod(r *http.Request) (time.Time, time.Time, bool) {
	start, err := time.Parse(models.DateLayout, r.URL.Query().Get("start"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(models.DateLayout, r.URL.Query().Get("end"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (s *HTTPServer) handleCarAvailability(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parsePeriod(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "start and end are required in YYYY-MM-DD format")
		return
	}

	available, err := s.reservations.CheckAvailable(r.Context(), r.PathValue("id"), start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"available": available})
}

func (s *HTTPServer) handleListOffices(w http.ResponseWriter, r *http.Request) {
	offices, err := s.offices.ListOffices(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"offices": offices})
}

func (s *HTTPServer) handleGetOffice(w http.ResponseWriter, r *http.Request) {
	office, err := s.offices.GetOffice(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, office)
}

func (s *HTTPServer) handleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.reviews.ListForCar(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

func (s *HTTPServer) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	var req struct {
		Rating        int    `json:"rating"`
		Comment       string `json:"comment"`
		ReservationID string `json:"reservation_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	review := &models.Review{
		UserID:        identity.ID,
		CarID:         r.PathValue("id"),
		ReservationID: req.ReservationID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}
	if err := s.reviews.Create(r.Context(), review); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (s *HTTPServer) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	added, err := s.favorites.Toggle(r.Context(), identity.ID, r.PathValue("carId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"favorite": added})
}

func (s *HTTPServer) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	ids, err := s.favorites.ListCarIDs(r.Context(), identity.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"car_ids": ids})
}

func (s *HTTPServer) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	notifications, err := s.notifications.ListForUser(r.Context(), identity.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
}

func (s *HTTPServer) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant is not configured")
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var identityPtr *models.Identity
	if identity, ok := identityFrom(r.Context()); ok {
		identityPtr = &identity
	}

	answer, err := s.assistant.Chat(r.Context(), identityPtr, req.Message)
	if errors.Is(err, assistant.ErrRateLimited) {
		writeError(w, http.StatusTooManyRequests, "too many chat requests")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("assistant chat failed")
		writeError(w, http.StatusBadGateway, "assistant unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": answer})
}
