package api

import (
	"net/http"

	"autorent/internal/models"
)

func (s *HTTPServer) handleCreateCar(w http.ResponseWriter, r *http.Request) {
	var car models.Car
	if err := decodeJSON(r, &car); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.fleet.CreateCar(r.Context(), &car); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

func (s *HTTPServer) handleUpdateCar(w http.ResponseWriter, r *http.Request) {
	var car models.Car
	if err := decodeJSON(r, &car); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	car.ID = r.PathValue("id")

	if err := s.fleet.UpdateCar(r.Context(), &car); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (s *HTTPServer) handleDeleteCar(w http.ResponseWriter, r *http.Request) {
	if err := s.fleet.DeleteCar(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *HTTPServer) handleCreateOffice(w http.ResponseWriter, r *http.Request) {
	var office models.Office
	if err := decodeJSON(r, &office); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.offices.CreateOffice(r.Context(), &office); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, office)
}

func (s *HTTPServer) handleUpdateOffice(w http.ResponseWriter, r *http.Request) {
	var office models.Office
	if err := decodeJSON(r, &office); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	office.ID = r.PathValue("id")

	if err := s.offices.UpdateOffice(r.Context(), &office); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, office)
}

func (s *HTTPServer) handleDeleteOffice(w http.ResponseWriter, r *http.Request) {
	if err := s.offices.DeleteOffice(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *HTTPServer) handleListReservations(w http.ResponseWriter, r *http.Request) {
	status := models.ReservationStatus(r.URL.Query().Get("status"))

	reservations, err := s.reservations.ListAll(r.Context(), status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": reservations})
}

func (s *HTTPServer) handleTransition(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reservation, err := s.reservations.Transition(r.Context(), r.PathValue("id"), models.ReservationStatus(req.Status), identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// handleVerifyPickup resolves a scanned pickup code to its reservation so
// office staff can confirm the handover.
func (s *HTTPServer) handleVerifyPickup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QRCodeData string `json:"qr_code_data"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	reservationID, err := s.reservations.ResolvePickupToken(r.Context(), req.QRCodeData)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reservation_id": reservationID})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusNotFound, "export is not configured")
		return
	}

	start, end, ok := parsePeriod(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "start and end are required in YYYY-MM-DD format")
		return
	}

	path, err := s.exporter.ExportSchedule(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file": path})
}
