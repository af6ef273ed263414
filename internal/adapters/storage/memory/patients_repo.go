package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"chronic-care-tracker/internal/domain/patients"
)

// patientRepo guarda el documento completo por email. Mutate corre el
// read-modify-write entero con el mutex tomado; el clonado profundo evita
// que dos requests compartan slices del árbol.
type patientRepo struct {
	mu      sync.RWMutex
	byEmail map[string]patients.Patient
}

func NewPatientRepo() patients.Repository {
	return &patientRepo{
		byEmail: make(map[string]patients.Patient),
	}
}

func (r *patientRepo) Create(ctx context.Context, p patients.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Email) == "" {
		return errors.New("patient id and email required")
	}
	if _, exists := r.byEmail[p.Email]; exists {
		return patients.ErrAlreadyExists
	}
	r.byEmail[p.Email] = clonePatient(p)
	return nil
}

func (r *patientRepo) GetByEmail(ctx context.Context, email string) (patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byEmail[email]
	if !ok {
		return patients.Patient{}, patients.ErrNotFound
	}
	return clonePatient(p), nil
}

// Mutate sostiene el lock durante todo el read-modify-write: dos mutaciones
// concurrentes sobre el mismo paciente se serializan y la segunda ve el
// resultado de la primera, nunca una foto vieja.
func (r *patientRepo) Mutate(ctx context.Context, email string, fn func(*patients.Patient) error) (patients.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byEmail[email]
	if !ok {
		return patients.Patient{}, patients.ErrNotFound
	}

	p := clonePatient(stored)
	if err := fn(&p); err != nil {
		if errors.Is(err, patients.ErrUnchanged) {
			return p, nil
		}
		return patients.Patient{}, err
	}

	r.byEmail[email] = clonePatient(p)
	return p, nil
}

// ResetAllSlots muta solo el Status de cada slot: los IDs quedan intactos,
// el reset nunca recrea entidades.
func (r *patientRepo) ResetAllSlots(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for email, p := range r.byEmail {
		for di := range p.Diseases {
			for mi := range p.Diseases[di].Medications {
				for ti := range p.Diseases[di].Medications[mi].Timing {
					p.Diseases[di].Medications[mi].Timing[ti].Status = patients.SlotPending
				}
			}
		}
		r.byEmail[email] = p
	}
	return nil
}

func clonePatient(p patients.Patient) patients.Patient {
	out := p
	out.Diseases = make([]patients.Disease, len(p.Diseases))
	for i, d := range p.Diseases {
		cd := d
		if d.NextAppointment != nil {
			t := *d.NextAppointment
			cd.NextAppointment = &t
		}
		cd.Medications = make([]patients.Medication, len(d.Medications))
		for j, m := range d.Medications {
			cm := m
			cm.Timing = make([]patients.TimingSlot, len(m.Timing))
			copy(cm.Timing, m.Timing)
			cd.Medications[j] = cm
		}
		out.Diseases[i] = cd
	}
	return out
}
