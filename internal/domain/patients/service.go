package patients

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name   string
	Age    int
	Gender string
}

// Create registra el perfil del paciente para la identidad ya autenticada.
func (s *Service) Create(ctx context.Context, email string, in CreateInput) (Patient, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return Patient{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Patient{}, ErrInvalidInput
	}
	if in.Age < 0 {
		return Patient{}, ErrInvalidInput
	}

	now := s.now()
	p := Patient{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      strings.TrimSpace(in.Name),
		Age:       in.Age,
		Gender:    strings.TrimSpace(in.Gender),
		Diseases:  []Disease{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) GetProfile(ctx context.Context, email string) (Patient, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Patient{}, ErrInvalidInput
	}
	return s.repo.GetByEmail(ctx, email)
}

type UpdateProfileInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name   *string
	Age    *int
	Gender *string
}

// UpdateProfile corre dentro de Mutate del repositorio: la validación y la
// escritura ven el mismo documento, sin ventana entre lectura y escritura.
func (s *Service) UpdateProfile(ctx context.Context, email string, in UpdateProfileInput) (Patient, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Patient{}, ErrInvalidInput
	}

	return s.repo.Mutate(ctx, email, func(p *Patient) error {
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return ErrInvalidInput
			}
			p.Name = name
		}
		if in.Age != nil {
			if *in.Age < 0 {
				return ErrInvalidInput
			}
			p.Age = *in.Age
		}
		if in.Gender != nil {
			p.Gender = strings.TrimSpace(*in.Gender)
		}

		p.UpdatedAt = s.now()
		return nil
	})
}

type TimingSlotInput struct {
	Slot SlotName
}

type MedicationInput struct {
	Name     string
	Dose     string
	Duration string
	Timing   []TimingSlotInput
}

type DiseaseInput struct {
	Name            string
	Summary         string
	Status          DiseaseStatus // vacío => ongoing
	AssignedDoctor  string
	NextAppointment *time.Time
	Medications     []MedicationInput
}

// AddDisease agrega una enfermedad (con medicaciones y slots) al documento.
// Los nombres de slot se validan contra el conjunto cerrado y no se admiten
// duplicados dentro de una misma medicación: el invariante se rechaza acá,
// en el borde, y no durante la clasificación.
func (s *Service) AddDisease(ctx context.Context, email string, in DiseaseInput) (Disease, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Summary) == "" {
		return Disease{}, ErrInvalidInput
	}

	status := in.Status
	if status == "" {
		status = DiseaseOngoing
	}
	if !ValidDiseaseStatus(status) {
		return Disease{}, ErrInvalidInput
	}

	meds := make([]Medication, 0, len(in.Medications))
	for _, mi := range in.Medications {
		if strings.TrimSpace(mi.Name) == "" || strings.TrimSpace(mi.Dose) == "" || strings.TrimSpace(mi.Duration) == "" {
			return Disease{}, ErrInvalidInput
		}

		seen := map[SlotName]struct{}{}
		timing := make([]TimingSlot, 0, len(mi.Timing))
		for _, ti := range mi.Timing {
			if !ValidSlotName(ti.Slot) {
				return Disease{}, ErrInvalidInput
			}
			if _, dup := seen[ti.Slot]; dup {
				return Disease{}, ErrInvalidInput
			}
			seen[ti.Slot] = struct{}{}
			timing = append(timing, TimingSlot{
				ID:     uuid.NewString(),
				Slot:   ti.Slot,
				Status: SlotPending,
			})
		}

		meds = append(meds, Medication{
			ID:       uuid.NewString(),
			Name:     strings.TrimSpace(mi.Name),
			Dose:     strings.TrimSpace(mi.Dose),
			Duration: strings.TrimSpace(mi.Duration),
			Status:   MedicationPending,
			Timing:   timing,
		})
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Disease{}, ErrInvalidInput
	}

	d := Disease{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(in.Name),
		Summary:         strings.TrimSpace(in.Summary),
		Status:          status,
		AssignedDoctor:  strings.TrimSpace(in.AssignedDoctor),
		NextAppointment: in.NextAppointment,
		Medications:     meds,
	}

	_, err := s.repo.Mutate(ctx, email, func(p *Patient) error {
		p.Diseases = append(p.Diseases, d)
		p.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return Disease{}, err
	}
	return d, nil
}

// UpdateDiseaseStatus es el flujo de pausa/discontinuación: cambia solo el
// estado de la enfermedad; la supresión de recordatorios derivados ocurre
// en lectura, dentro del clasificador.
func (s *Service) UpdateDiseaseStatus(ctx context.Context, email, diseaseID string, status DiseaseStatus) (Disease, error) {
	diseaseID = strings.TrimSpace(diseaseID)
	if diseaseID == "" || !ValidDiseaseStatus(status) {
		return Disease{}, ErrInvalidInput
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Disease{}, ErrInvalidInput
	}

	var out Disease
	_, err := s.repo.Mutate(ctx, email, func(p *Patient) error {
		for i := range p.Diseases {
			if p.Diseases[i].ID != diseaseID {
				continue
			}
			p.Diseases[i].Status = status
			p.UpdatedAt = s.now()
			out = p.Diseases[i]
			return nil
		}
		return ErrNotFound
	})
	if err != nil {
		return Disease{}, err
	}
	return out, nil
}

// Appointment es una proyección de solo lectura sobre las enfermedades
// que tienen turno agendado.
type Appointment struct {
	DiseaseID      string
	DiseaseName    string
	DiseaseStatus  DiseaseStatus
	AssignedDoctor string
	At             time.Time
}

func (s *Service) ListAppointments(ctx context.Context, email string) ([]Appointment, error) {
	p, err := s.GetProfile(ctx, email)
	if err != nil {
		return nil, err
	}

	out := make([]Appointment, 0)
	for _, d := range p.Diseases {
		if d.NextAppointment == nil {
			continue
		}
		out = append(out, Appointment{
			DiseaseID:      d.ID,
			DiseaseName:    d.Name,
			DiseaseStatus:  d.Status,
			AssignedDoctor: d.AssignedDoctor,
			At:             *d.NextAppointment,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})

	return out, nil
}
