package patients

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byEmail map[string]Patient
}

func newTestRepo() *testRepo {
	return &testRepo{byEmail: map[string]Patient{}}
}

func (r *testRepo) Create(ctx context.Context, p Patient) error {
	if _, ok := r.byEmail[p.Email]; ok {
		return ErrAlreadyExists
	}
	r.byEmail[p.Email] = p
	return nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (Patient, error) {
	p, ok := r.byEmail[email]
	if !ok {
		return Patient{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) Mutate(ctx context.Context, email string, fn func(*Patient) error) (Patient, error) {
	p, ok := r.byEmail[email]
	if !ok {
		return Patient{}, ErrNotFound
	}
	if err := fn(&p); err != nil {
		if errors.Is(err, ErrUnchanged) {
			return p, nil
		}
		return Patient{}, err
	}
	r.byEmail[email] = p
	return p, nil
}

func (r *testRepo) ResetAllSlots(ctx context.Context) error {
	for email, p := range r.byEmail {
		for di := range p.Diseases {
			for mi := range p.Diseases[di].Medications {
				for ti := range p.Diseases[di].Medications[mi].Timing {
					p.Diseases[di].Medications[mi].Timing[ti].Status = SlotPending
				}
			}
		}
		r.byEmail[email] = p
	}
	return nil
}

func newFixedService(repo Repository) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_NormalizesEmail(t *testing.T) {
	svc := newFixedService(newTestRepo())

	p, err := svc.Create(context.Background(), "  Ana@Example.COM ", CreateInput{Name: "Ana", Age: 34})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %q", p.Email)
	}
	if p.ID == "" || p.Diseases == nil {
		t.Fatalf("missing defaults: %+v", p)
	}
}

func TestService_Create_Validates(t *testing.T) {
	svc := newFixedService(newTestRepo())

	cases := []struct {
		name  string
		email string
		in    CreateInput
	}{
		{"empty email", "", CreateInput{Name: "Ana"}},
		{"not an email", "ana", CreateInput{Name: "Ana"}},
		{"empty name", "ana@example.com", CreateInput{Name: "  "}},
		{"negative age", "ana@example.com", CreateInput{Name: "Ana", Age: -1}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), tc.email, tc.in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestService_Create_Duplicate(t *testing.T) {
	svc := newFixedService(newTestRepo())

	if _, err := svc.Create(context.Background(), "ana@example.com", CreateInput{Name: "Ana"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), "ana@example.com", CreateInput{Name: "Ana"}); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestService_UpdateProfile_Partial(t *testing.T) {
	svc := newFixedService(newTestRepo())

	if _, err := svc.Create(context.Background(), "ana@example.com", CreateInput{Name: "Ana", Age: 34, Gender: "female"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	age := 35
	p, err := svc.UpdateProfile(context.Background(), "ana@example.com", UpdateProfileInput{Age: &age})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Age != 35 || p.Name != "Ana" || p.Gender != "female" {
		t.Fatalf("partial update touched other fields: %+v", p)
	}

	empty := " "
	if _, err := svc.UpdateProfile(context.Background(), "ana@example.com", UpdateProfileInput{Name: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank name: expected ErrInvalidInput, got %v", err)
	}
}

func diseaseInput() DiseaseInput {
	return DiseaseInput{
		Name:    "Hypertension",
		Summary: "Stage 1",
		Medications: []MedicationInput{{
			Name:     "Losartan",
			Dose:     "50mg",
			Duration: "90 days",
			Timing:   []TimingSlotInput{{Slot: SlotMorning}, {Slot: SlotNight}},
		}},
	}
}

func TestService_AddDisease_DefaultsAndIDs(t *testing.T) {
	svc := newFixedService(newTestRepo())
	if _, err := svc.Create(context.Background(), "ana@example.com", CreateInput{Name: "Ana"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	d, err := svc.AddDisease(context.Background(), "ana@example.com", diseaseInput())
	if err != nil {
		t.Fatalf("add disease: %v", err)
	}
	if d.Status != DiseaseOngoing {
		t.Fatalf("empty status must default to ongoing, got %s", d.Status)
	}
	if d.ID == "" || d.Medications[0].ID == "" || d.Medications[0].Timing[0].ID == "" {
		t.Fatalf("missing generated ids: %+v", d)
	}
	if d.Medications[0].Status != MedicationPending {
		t.Fatalf("medication must start pending, got %s", d.Medications[0].Status)
	}
	for _, s := range d.Medications[0].Timing {
		if s.Status != SlotPending {
			t.Fatalf("slots must start pending: %+v", s)
		}
	}

	p, _ := svc.GetProfile(context.Background(), "ana@example.com")
	if len(p.Diseases) != 1 {
		t.Fatalf("disease not persisted: %+v", p.Diseases)
	}
}

func TestService_AddDisease_Rejections(t *testing.T) {
	svc := newFixedService(newTestRepo())
	if _, err := svc.Create(context.Background(), "ana@example.com", CreateInput{Name: "Ana"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := diseaseInput()
	bad.Status = "archived"
	if _, err := svc.AddDisease(context.Background(), "ana@example.com", bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown status: expected ErrInvalidInput, got %v", err)
	}

	bad = diseaseInput()
	bad.Medications[0].Timing = []TimingSlotInput{{Slot: "Midnight"}}
	if _, err := svc.AddDisease(context.Background(), "ana@example.com", bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown slot: expected ErrInvalidInput, got %v", err)
	}

	// Slots duplicados dentro de una medicación se rechazan en el alta.
	bad = diseaseInput()
	bad.Medications[0].Timing = []TimingSlotInput{{Slot: SlotMorning}, {Slot: SlotMorning}}
	if _, err := svc.AddDisease(context.Background(), "ana@example.com", bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("duplicate slot: expected ErrInvalidInput, got %v", err)
	}

	bad = diseaseInput()
	bad.Medications[0].Dose = ""
	if _, err := svc.AddDisease(context.Background(), "ana@example.com", bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty dose: expected ErrInvalidInput, got %v", err)
	}
}

func TestService_UpdateDiseaseStatus(t *testing.T) {
	svc := newFixedService(newTestRepo())
	if _, err := svc.Create(context.Background(), "ana@example.com", CreateInput{Name: "Ana"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	d, err := svc.AddDisease(context.Background(), "ana@example.com", diseaseInput())
	if err != nil {
		t.Fatalf("add disease: %v", err)
	}

	updated, err := svc.UpdateDiseaseStatus(context.Background(), "ana@example.com", d.ID, DiseasePaused)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != DiseasePaused {
		t.Fatalf("expected paused, got %s", updated.Status)
	}

	if _, err := svc.UpdateDiseaseStatus(context.Background(), "ana@example.com", "nope", DiseasePaused); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown disease: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.UpdateDiseaseStatus(context.Background(), "ana@example.com", d.ID, "archived"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("invalid status: expected ErrInvalidInput, got %v", err)
	}
}

func TestService_ListAppointments(t *testing.T) {
	svc := newFixedService(newTestRepo())
	if _, err := svc.Create(context.Background(), "ana@example.com", CreateInput{Name: "Ana"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	later := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	sooner := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)

	in := diseaseInput()
	in.Name = "Hypertension"
	in.AssignedDoctor = "Dr. Ruiz"
	in.NextAppointment = &later
	if _, err := svc.AddDisease(context.Background(), "ana@example.com", in); err != nil {
		t.Fatalf("add disease: %v", err)
	}

	in2 := diseaseInput()
	in2.Name = "Diabetes"
	in2.NextAppointment = &sooner
	if _, err := svc.AddDisease(context.Background(), "ana@example.com", in2); err != nil {
		t.Fatalf("add disease: %v", err)
	}

	in3 := diseaseInput()
	in3.Name = "Asthma" // sin turno: no aparece
	if _, err := svc.AddDisease(context.Background(), "ana@example.com", in3); err != nil {
		t.Fatalf("add disease: %v", err)
	}

	items, err := svc.ListAppointments(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("list appointments: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 appointments, got %+v", items)
	}
	if items[0].DiseaseName != "Diabetes" || items[1].DiseaseName != "Hypertension" {
		t.Fatalf("appointments not sorted by time: %+v", items)
	}
}
