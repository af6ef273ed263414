package reminders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"chronic-care-tracker/internal/domain/patients"
	"chronic-care-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reminders", func(rr chi.Router) {
		rr.Get("/", listRemindersHandler(svc))
		rr.Post("/done", markDoneHandler(svc))
	})

	// Disparo manual del reset, con semántica idéntica al tick programado.
	r.Post("/admin/reminders/reset", resetHandler(svc))
}

type reminderResponse struct {
	DiseaseID      string `json:"disease_id"`
	DiseaseName    string `json:"disease"`
	MedicationID   string `json:"medication_id"`
	MedicationName string `json:"med_name"`
	Dose           string `json:"dose"`
	SlotID         string `json:"slot_id"`
	Slot           string `json:"slot"`
}

type classificationResponse struct {
	Current  []reminderResponse `json:"current"`
	Upcoming []reminderResponse `json:"upcoming"`
}

type markDoneRequest struct {
	DiseaseID    string `json:"disease_id"`
	MedicationID string `json:"medication_id"`
	Slot         string `json:"slot"`
}

type markDoneResponse struct {
	Medication medicationResponse `json:"medication"`
}

type timingSlotResponse struct {
	ID     string `json:"id"`
	Slot   string `json:"slot"`
	Status string `json:"status"`
}

type medicationResponse struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Dose     string               `json:"dose"`
	Duration string               `json:"duration"`
	Status   string               `json:"status"`
	Timing   []timingSlotResponse `json:"timing"`
}

// listRemindersHandler godoc
// @Summary  Recordatorios del paciente particionados en current/upcoming
// @Tags     reminders
// @Produce  json
// @Success  200 {object} classificationResponse
// @Router   /reminders [get]
func listRemindersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := authedEmail(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		c, err := svc.List(r.Context(), email)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toClassificationResponse(c))
	}
}

// markDoneHandler godoc
// @Summary  Marcar un slot como tomado (pending→done, idempotente)
// @Tags     reminders
// @Accept   json
// @Produce  json
// @Success  200 {object} markDoneResponse
// @Router   /reminders/done [post]
func markDoneHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := authedEmail(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req markDoneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		med, err := svc.MarkDone(r.Context(), email, MarkDoneInput{
			DiseaseID:    req.DiseaseID,
			MedicationID: req.MedicationID,
			Slot:         patients.SlotName(req.Slot),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, markDoneResponse{Medication: toMedicationResponse(med)})
	}
}

func resetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ResetAllSlots(r.Context()); err != nil {
			http.Error(w, "reset failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
	}
}

func authedEmail(r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.Email) == "" {
		return "", false
	}
	return claims.Email, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, patients.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, patients.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toClassificationResponse(c Classification) classificationResponse {
	out := classificationResponse{
		Current:  make([]reminderResponse, 0, len(c.Current)),
		Upcoming: make([]reminderResponse, 0, len(c.Upcoming)),
	}
	for _, r := range c.Current {
		out.Current = append(out.Current, toReminderResponse(r))
	}
	for _, r := range c.Upcoming {
		out.Upcoming = append(out.Upcoming, toReminderResponse(r))
	}
	return out
}

func toReminderResponse(r Reminder) reminderResponse {
	return reminderResponse{
		DiseaseID:      r.DiseaseID,
		DiseaseName:    r.DiseaseName,
		MedicationID:   r.MedicationID,
		MedicationName: r.MedicationName,
		Dose:           r.Dose,
		SlotID:         r.SlotID,
		Slot:           string(r.Slot),
	}
}

func toMedicationResponse(m patients.Medication) medicationResponse {
	timing := make([]timingSlotResponse, 0, len(m.Timing))
	for _, t := range m.Timing {
		timing = append(timing, timingSlotResponse{
			ID:     t.ID,
			Slot:   string(t.Slot),
			Status: string(t.Status),
		})
	}
	return medicationResponse{
		ID:       m.ID,
		Name:     m.Name,
		Dose:     m.Dose,
		Duration: m.Duration,
		Status:   string(m.Status),
		Timing:   timing,
	}
}

// writeJSON está duplicado a propósito entre handlers de distintos módulos
// (patients/reminders); si aparece un tercer consumidor, conviene extraerlo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
