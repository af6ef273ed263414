package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chronic-care-tracker/internal/domain/patients"
)

func seedPatient() patients.Patient {
	return patients.Patient{
		ID:    "pat-1",
		Email: "ana@example.com",
		Name:  "Ana",
		Diseases: []patients.Disease{{
			ID:      "d1",
			Name:    "Hypertension",
			Summary: "Stage 1",
			Status:  patients.DiseaseOngoing,
			Medications: []patients.Medication{{
				ID:       "m1",
				Name:     "Losartan",
				Dose:     "50mg",
				Duration: "90 days",
				Status:   patients.MedicationPending,
				Timing: []patients.TimingSlot{
					{ID: "s1", Slot: patients.SlotMorning, Status: patients.SlotDone},
					{ID: "s2", Slot: patients.SlotNight, Status: patients.SlotPending},
				},
			}},
		}},
	}
}

func TestPatientRepo_CreateAndGet(t *testing.T) {
	repo := NewPatientRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, seedPatient()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, seedPatient()); !errors.Is(err, patients.ErrAlreadyExists) {
		t.Fatalf("duplicate create: expected ErrAlreadyExists, got %v", err)
	}

	if _, err := repo.GetByEmail(ctx, "nadie@example.com"); !errors.Is(err, patients.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	p, err := repo.GetByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(p.Diseases) != 1 || len(p.Diseases[0].Medications[0].Timing) != 2 {
		t.Fatalf("tree not preserved: %+v", p)
	}
}

func TestPatientRepo_CloneIsolation(t *testing.T) {
	repo := NewPatientRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, seedPatient()); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Mutar lo devuelto no debe tocar lo almacenado.
	p, _ := repo.GetByEmail(ctx, "ana@example.com")
	p.Diseases[0].Medications[0].Timing[1].Status = patients.SlotDone

	fresh, _ := repo.GetByEmail(ctx, "ana@example.com")
	if fresh.Diseases[0].Medications[0].Timing[1].Status != patients.SlotPending {
		t.Fatal("stored document aliased by returned copy")
	}
}

func TestPatientRepo_Mutate(t *testing.T) {
	repo := NewPatientRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, seedPatient()); err != nil {
		t.Fatalf("create: %v", err)
	}

	p, err := repo.Mutate(ctx, "ana@example.com", func(p *patients.Patient) error {
		p.Name = "Ana María"
		return nil
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if p.Name != "Ana María" {
		t.Fatalf("mutation not reflected in result: %+v", p)
	}
	fresh, _ := repo.GetByEmail(ctx, "ana@example.com")
	if fresh.Name != "Ana María" {
		t.Fatalf("mutation not persisted: %+v", fresh)
	}

	// fn con error aborta sin escribir.
	boom := errors.New("boom")
	if _, err := repo.Mutate(ctx, "ana@example.com", func(p *patients.Patient) error {
		p.Name = "no debería persistir"
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected fn error surfaced, got %v", err)
	}
	fresh, _ = repo.GetByEmail(ctx, "ana@example.com")
	if fresh.Name != "Ana María" {
		t.Fatal("aborted mutation leaked into storage")
	}

	// ErrUnchanged: éxito sin escribir.
	if _, err := repo.Mutate(ctx, "ana@example.com", func(p *patients.Patient) error {
		return patients.ErrUnchanged
	}); err != nil {
		t.Fatalf("unchanged mutate must succeed: %v", err)
	}

	if _, err := repo.Mutate(ctx, "nadie@example.com", func(p *patients.Patient) error {
		return nil
	}); !errors.Is(err, patients.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPatientRepo_MutateSerializesSameDocument(t *testing.T) {
	// La segunda mutación concurrente debe esperar a la primera y ver su
	// resultado: ninguna escribe sobre una foto vieja del documento.
	repo := NewPatientRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, seedPatient()); err != nil {
		t.Fatalf("create: %v", err)
	}

	entered := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := repo.Mutate(ctx, "ana@example.com", func(p *patients.Patient) error {
			close(entered)
			time.Sleep(30 * time.Millisecond) // mantiene abierta la primera mutación
			p.Diseases[0].Medications[0].Timing[1].Status = patients.SlotDone
			return nil
		})
		done <- err
	}()

	<-entered
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := repo.Mutate(ctx, "ana@example.com", func(p *patients.Patient) error {
			p.Diseases[0].Medications[0].Timing[0].Status = patients.SlotPending
			return nil
		}); err != nil {
			t.Errorf("second mutate: %v", err)
		}
	}()

	if err := <-done; err != nil {
		t.Fatalf("first mutate: %v", err)
	}
	wg.Wait()

	p, _ := repo.GetByEmail(ctx, "ana@example.com")
	timing := p.Diseases[0].Medications[0].Timing
	if timing[0].Status != patients.SlotPending || timing[1].Status != patients.SlotDone {
		t.Fatalf("concurrent mutation lost: %+v", timing)
	}
}

func TestPatientRepo_ResetAllSlots(t *testing.T) {
	repo := NewPatientRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, seedPatient()); err != nil {
		t.Fatalf("create: %v", err)
	}

	other := seedPatient()
	other.ID = "pat-2"
	other.Email = "juan@example.com"
	other.Diseases[0].Status = patients.DiseasePaused
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.ResetAllSlots(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := repo.ResetAllSlots(ctx); err != nil {
		t.Fatalf("second reset: %v", err)
	}

	for _, email := range []string{"ana@example.com", "juan@example.com"} {
		p, err := repo.GetByEmail(ctx, email)
		if err != nil {
			t.Fatalf("get %s: %v", email, err)
		}
		timing := p.Diseases[0].Medications[0].Timing
		for _, s := range timing {
			if s.Status != patients.SlotPending {
				t.Fatalf("%s: slot %s not pending after reset", email, s.ID)
			}
		}
		// La identidad de los slots sobrevive al reset.
		if timing[0].ID != "s1" || timing[1].ID != "s2" {
			t.Fatalf("%s: slot ids changed across reset: %+v", email, timing)
		}
	}
}
