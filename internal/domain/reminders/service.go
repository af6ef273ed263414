package reminders

import (
	"context"
	"strings"
	"time"

	"chronic-care-tracker/internal/domain/patients"
	"chronic-care-tracker/internal/platform/logger"
)

const storageTimeout = 10 * time.Second

// Service orquesta el motor de recordatorios: clasificación en lectura,
// transición pending→done y reset diario bulk.
type Service struct {
	repo patients.Repository
	log  logger.Logger
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo patients.Repository, log logger.Logger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo: repo,
		log:  log,
		loc:  loc,
		now:  time.Now,
	}
}

// List carga el árbol del paciente y lo clasifica con la hora actual en la
// zona operacional configurada.
func (s *Service) List(ctx context.Context, email string) (Classification, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Classification{}, ErrInvalidInput
	}

	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return Classification{}, err
	}

	return Classify(s.now().In(s.loc), p)
}

type MarkDoneInput struct {
	DiseaseID    string
	MedicationID string
	Slot         patients.SlotName
}

// MarkDone pasa exactamente un slot a done y persiste el documento completo
// del paciente. Es idempotente: repetirlo sobre un slot ya done no escribe
// ni falla. La búsqueda del slot es por nombre; si hay duplicados (invariante
// roto aguas arriba) gana el primero y se deja constancia en el log.
// Todo corre dentro de Mutate del repositorio: dos markDone concurrentes
// sobre el mismo paciente se serializan y ninguno pisa lo que escribió el
// otro.
func (s *Service) MarkDone(ctx context.Context, email string, in MarkDoneInput) (patients.Medication, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	diseaseID := strings.TrimSpace(in.DiseaseID)
	medicationID := strings.TrimSpace(in.MedicationID)

	if email == "" || diseaseID == "" || medicationID == "" {
		return patients.Medication{}, ErrInvalidInput
	}
	if !patients.ValidSlotName(in.Slot) {
		return patients.Medication{}, ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	var out patients.Medication
	_, err := s.repo.Mutate(ctx, email, func(p *patients.Patient) error {
		di := -1
		for i := range p.Diseases {
			if p.Diseases[i].ID == diseaseID {
				di = i
				break
			}
		}
		if di < 0 {
			return patients.ErrNotFound
		}

		mi := -1
		for i := range p.Diseases[di].Medications {
			if p.Diseases[di].Medications[i].ID == medicationID {
				mi = i
				break
			}
		}
		if mi < 0 {
			return patients.ErrNotFound
		}

		med := &p.Diseases[di].Medications[mi]

		ti := -1
		matches := 0
		for i := range med.Timing {
			if med.Timing[i].Slot != in.Slot {
				continue
			}
			matches++
			if ti < 0 {
				ti = i
			}
		}
		if ti < 0 {
			return patients.ErrNotFound
		}
		if matches > 1 && s.log != nil {
			// dato ambiguo: no debería existir más de un slot con el mismo
			// nombre por medicación; se resuelve con el primero
			s.log.Warn("duplicate timing slots in medication", map[string]any{
				"patient":    p.ID,
				"medication": med.ID,
				"slot":       string(in.Slot),
				"matches":    matches,
			})
		}

		// Idempotente: ya estaba done, no hay nada que escribir.
		if med.Timing[ti].Status == patients.SlotDone {
			out = *med
			return patients.ErrUnchanged
		}

		med.Timing[ti].Status = patients.SlotDone
		p.UpdatedAt = s.now()
		out = *med
		return nil
	})
	if err != nil {
		return patients.Medication{}, err
	}
	return out, nil
}

// ResetAllSlots vuelve cada slot de cada paciente a pending, sin consultar
// el estado de las enfermedades: la supresión es responsabilidad del
// clasificador en lectura, no del reset. La operación es bulk y todo-o-nada
// a nivel del adaptador de storage; si falla, se reporta y se reintenta en
// el próximo tick (o por disparo manual).
func (s *Service) ResetAllSlots(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	return s.repo.ResetAllSlots(ctx)
}
