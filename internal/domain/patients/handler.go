package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"chronic-care-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Perfil del paciente autenticado
	r.Post("/patients", createPatientHandler(svc))
	r.Get("/profile", getProfileHandler(svc))
	r.Patch("/profile", updateProfileHandler(svc))

	// Enfermedades (alta + pausa/discontinuación)
	r.Post("/diseases", addDiseaseHandler(svc))
	r.Patch("/diseases/{diseaseID}/status", updateDiseaseStatusHandler(svc))

	// Proyección de turnos
	r.Get("/appointments", listAppointmentsHandler(svc))
}

type createPatientRequest struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

type updateProfileRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name   *string `json:"name"`
	Age    *int    `json:"age"`
	Gender *string `json:"gender"`
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

type diseaseResponse struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Summary         string               `json:"summary"`
	Status          string               `json:"status"`
	AssignedDoctor  string               `json:"assigned_doctor,omitempty"`
	NextAppointment *time.Time           `json:"next_appointment,omitempty"`
	Medications     []medicationResponse `json:"medications"`
}

type patientResponse struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	Name      string            `json:"name"`
	Age       int               `json:"age"`
	Gender    string            `json:"gender,omitempty"`
	Diseases  []diseaseResponse `json:"diseases"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type timingSlotRequest struct {
	Slot string `json:"slot"`
}

type medicationRequest struct {
	Name     string              `json:"name"`
	Dose     string              `json:"dose"`
	Duration string              `json:"duration"`
	Timing   []timingSlotRequest `json:"timing"`
}

type addDiseaseRequest struct {
	Name            string              `json:"name"`
	Summary         string              `json:"summary"`
	Status          string              `json:"status"`
	AssignedDoctor  string              `json:"assigned_doctor"`
	NextAppointment string              `json:"next_appointment"` // RFC3339 opcional
	Medications     []medicationRequest `json:"medications"`
}

type updateDiseaseStatusRequest struct {
	Status string `json:"status"`
}

type appointmentResponse struct {
	DiseaseID      string    `json:"disease_id"`
	DiseaseName    string    `json:"disease"`
	DiseaseStatus  string    `json:"disease_status"`
	AssignedDoctor string    `json:"assigned_doctor,omitempty"`
	At             time.Time `json:"at"`
}

// createPatientHandler godoc
// @Summary  Registrar perfil del paciente autenticado
// @Tags     patients
// @Accept   json
// @Produce  json
// @Success  201 {object} patientResponse
// @Router   /patients [post]
func createPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := authedEmail(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), email, CreateInput{
			Name:   req.Name,
			Age:    req.Age,
			Gender: req.Gender,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

// getProfileHandler godoc
// @Summary  Perfil completo del paciente (enfermedades incluidas)
// @Tags     patients
// @Produce  json
// @Success  200 {object} patientResponse
// @Router   /profile [get]
func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := authedEmail(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetProfile(r.Context(), email)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

func updateProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := authedEmail(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateProfileRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.UpdateProfile(r.Context(), email, UpdateProfileInput{
			Name:   req.Name,
			Age:    req.Age,
			Gender: req.Gender,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

// addDiseaseHandler godoc
// @Summary  Alta de enfermedad con medicaciones y slots horarios
// @Tags     diseases
// @Accept   json
// @Produce  json
// @Success  201 {object} diseaseResponse
// @Router   /diseases [post]
func addDiseaseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := authedEmail(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req addDiseaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var nextAppt *time.Time
		if strings.TrimSpace(req.NextAppointment) != "" {
			t, err := time.Parse(time.RFC3339, req.NextAppointment)
			if err != nil {
				http.Error(w, "next_appointment must be RFC3339", http.StatusBadRequest)
				return
			}
			nextAppt = &t
		}

		in := DiseaseInput{
			Name:            req.Name,
			Summary:         req.Summary,
			Status:          DiseaseStatus(req.Status),
			AssignedDoctor:  req.AssignedDoctor,
			NextAppointment: nextAppt,
		}
		for _, m := range req.Medications {
			mi := MedicationInput{Name: m.Name, Dose: m.Dose, Duration: m.Duration}
			for _, t := range m.Timing {
				mi.Timing = append(mi.Timing, TimingSlotInput{Slot: SlotName(t.Slot)})
			}
			in.Medications = append(in.Medications, mi)
		}

		d, err := svc.AddDisease(r.Context(), email, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDiseaseResponse(d))
	}
}

func updateDiseaseStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := authedEmail(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateDiseaseStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.UpdateDiseaseStatus(r.Context(), email, chi.URLParam(r, "diseaseID"), DiseaseStatus(req.Status))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDiseaseResponse(d))
	}
}

func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := authedEmail(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListAppointments(r.Context(), email)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, appointmentResponse{
				DiseaseID:      a.DiseaseID,
				DiseaseName:    a.DiseaseName,
				DiseaseStatus:  string(a.DiseaseStatus),
				AssignedDoctor: a.AssignedDoctor,
				At:             a.At,
			})
		}

		writeJSON(w, http.StatusOK, out)
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
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "patient not found", http.StatusNotFound)
	case errors.Is(err, ErrAlreadyExists):
		http.Error(w, "patient already exists", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPatientResponse(p Patient) patientResponse {
	diseases := make([]diseaseResponse, 0, len(p.Diseases))
	for _, d := range p.Diseases {
		diseases = append(diseases, toDiseaseResponse(d))
	}
	return patientResponse{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Age:       p.Age,
		Gender:    p.Gender,
		Diseases:  diseases,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toDiseaseResponse(d Disease) diseaseResponse {
	meds := make([]medicationResponse, 0, len(d.Medications))
	for _, m := range d.Medications {
		meds = append(meds, toMedicationResponse(m))
	}
	return diseaseResponse{
		ID:              d.ID,
		Name:            d.Name,
		Summary:         d.Summary,
		Status:          string(d.Status),
		AssignedDoctor:  d.AssignedDoctor,
		NextAppointment: d.NextAppointment,
		Medications:     meds,
	}
}

func toMedicationResponse(m Medication) medicationResponse {
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
