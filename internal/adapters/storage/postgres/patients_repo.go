package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"chronic-care-tracker/internal/domain/patients"
)

// PatientsRepo persiste el documento del paciente en tablas normalizadas
// (patients/diseases/medications/timing_slots con columna position para
// preservar el orden). Mutate corre lectura y escritura del documento en
// la misma transacción, con la fila del paciente bajo FOR UPDATE: dos
// mutaciones concurrentes sobre el mismo paciente se serializan.
type PatientsRepo struct {
	db *sql.DB
}

// querier cubre *sql.DB y *sql.Tx para compartir las lecturas del árbol.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO patients (id, email, name, age, gender, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, p.ID, p.Email, p.Name, p.Age, p.Gender, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return err
	}

	if err := upsertTree(ctx, tx, p); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PatientsRepo) GetByEmail(ctx context.Context, email string) (patients.Patient, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return patients.Patient{}, patients.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, age, gender, created_at, updated_at
		FROM patients
		WHERE email = $1
	`, email)

	var p patients.Patient
	if err := row.Scan(&p.ID, &p.Email, &p.Name, &p.Age, &p.Gender, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return patients.Patient{}, patients.ErrNotFound
		}
		return patients.Patient{}, err
	}

	if err := loadTree(ctx, r.db, &p); err != nil {
		return patients.Patient{}, err
	}

	return p, nil
}

func (r *PatientsRepo) Mutate(ctx context.Context, email string, fn func(*patients.Patient) error) (patients.Patient, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return patients.Patient{}, patients.ErrNotFound
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return patients.Patient{}, err
	}
	defer func() { _ = tx.Rollback() }()

	// FOR UPDATE bloquea la fila del paciente hasta el commit: la mutación
	// concurrente que llegue segunda espera y relee el documento fresco.
	row := tx.QueryRowContext(ctx, `
		SELECT id, email, name, age, gender, created_at, updated_at
		FROM patients
		WHERE email = $1
		FOR UPDATE
	`, email)

	var p patients.Patient
	if err := row.Scan(&p.ID, &p.Email, &p.Name, &p.Age, &p.Gender, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return patients.Patient{}, patients.ErrNotFound
		}
		return patients.Patient{}, err
	}
	if err := loadTree(ctx, tx, &p); err != nil {
		return patients.Patient{}, err
	}

	if err := fn(&p); err != nil {
		if errors.Is(err, patients.ErrUnchanged) {
			return p, nil
		}
		return patients.Patient{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE patients
		SET name = $2, age = $3, gender = $4, updated_at = $5
		WHERE id = $1
	`, p.ID, p.Name, p.Age, p.Gender, p.UpdatedAt)
	if err != nil {
		return patients.Patient{}, err
	}

	if err := upsertTree(ctx, tx, p); err != nil {
		return patients.Patient{}, err
	}

	if err := tx.Commit(); err != nil {
		return patients.Patient{}, err
	}
	return p, nil
}

// ResetAllSlots es un único UPDATE sobre toda la colección: idempotente y
// todo-o-nada. Solo muta status; los IDs de los slots no se tocan.
func (r *PatientsRepo) ResetAllSlots(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE timing_slots
		SET status = $1
		WHERE status <> $1
	`, string(patients.SlotPending))
	return err
}

// upsertTree inserta o actualiza el árbol completo. Nada en el dominio
// borra enfermedades/medicaciones/slots, así que alcanza con upserts.
func upsertTree(ctx context.Context, tx *sql.Tx, p patients.Patient) error {
	for di, d := range p.Diseases {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO diseases (id, patient_id, position, name, summary, status, assigned_doctor, next_appointment)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (id) DO UPDATE
			SET position = EXCLUDED.position,
			    name = EXCLUDED.name,
			    summary = EXCLUDED.summary,
			    status = EXCLUDED.status,
			    assigned_doctor = EXCLUDED.assigned_doctor,
			    next_appointment = EXCLUDED.next_appointment
		`, d.ID, p.ID, di, d.Name, d.Summary, string(d.Status), d.AssignedDoctor, toNullTime(d.NextAppointment))
		if err != nil {
			return err
		}

		for mi, m := range d.Medications {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO medications (id, disease_id, position, name, dose, duration, status)
				VALUES ($1,$2,$3,$4,$5,$6,$7)
				ON CONFLICT (id) DO UPDATE
				SET position = EXCLUDED.position,
				    name = EXCLUDED.name,
				    dose = EXCLUDED.dose,
				    duration = EXCLUDED.duration,
				    status = EXCLUDED.status
			`, m.ID, d.ID, mi, m.Name, m.Dose, m.Duration, string(m.Status))
			if err != nil {
				return err
			}

			for ti, t := range m.Timing {
				_, err := tx.ExecContext(ctx, `
					INSERT INTO timing_slots (id, medication_id, position, slot, status)
					VALUES ($1,$2,$3,$4,$5)
					ON CONFLICT (id) DO UPDATE
					SET position = EXCLUDED.position,
					    slot = EXCLUDED.slot,
					    status = EXCLUDED.status
				`, t.ID, m.ID, ti, string(t.Slot), string(t.Status))
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func loadTree(ctx context.Context, q querier, p *patients.Patient) error {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, summary, status, assigned_doctor, next_appointment
		FROM diseases
		WHERE patient_id = $1
		ORDER BY position ASC
	`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	diseaseIdx := map[string]int{}
	p.Diseases = make([]patients.Disease, 0)
	for rows.Next() {
		var d patients.Disease
		var status string
		var appt sql.NullTime
		if err := rows.Scan(&d.ID, &d.Name, &d.Summary, &status, &d.AssignedDoctor, &appt); err != nil {
			return err
		}
		d.Status = patients.DiseaseStatus(status)
		if appt.Valid {
			t := appt.Time
			d.NextAppointment = &t
		}
		d.Medications = make([]patients.Medication, 0)
		diseaseIdx[d.ID] = len(p.Diseases)
		p.Diseases = append(p.Diseases, d)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	medRows, err := q.QueryContext(ctx, `
		SELECT m.id, m.disease_id, m.name, m.dose, m.duration, m.status
		FROM medications m
		JOIN diseases d ON d.id = m.disease_id
		WHERE d.patient_id = $1
		ORDER BY d.position ASC, m.position ASC
	`, p.ID)
	if err != nil {
		return err
	}
	defer medRows.Close()

	medIdx := map[string][2]int{}
	for medRows.Next() {
		var m patients.Medication
		var diseaseID, status string
		if err := medRows.Scan(&m.ID, &diseaseID, &m.Name, &m.Dose, &m.Duration, &status); err != nil {
			return err
		}
		m.Status = patients.MedicationStatus(status)
		m.Timing = make([]patients.TimingSlot, 0)

		di, ok := diseaseIdx[diseaseID]
		if !ok {
			continue
		}
		medIdx[m.ID] = [2]int{di, len(p.Diseases[di].Medications)}
		p.Diseases[di].Medications = append(p.Diseases[di].Medications, m)
	}
	if err := medRows.Err(); err != nil {
		return err
	}

	slotRows, err := q.QueryContext(ctx, `
		SELECT t.id, t.medication_id, t.slot, t.status
		FROM timing_slots t
		JOIN medications m ON m.id = t.medication_id
		JOIN diseases d ON d.id = m.disease_id
		WHERE d.patient_id = $1
		ORDER BY d.position ASC, m.position ASC, t.position ASC
	`, p.ID)
	if err != nil {
		return err
	}
	defer slotRows.Close()

	for slotRows.Next() {
		var t patients.TimingSlot
		var medicationID, slot, status string
		if err := slotRows.Scan(&t.ID, &medicationID, &slot, &status); err != nil {
			return err
		}
		t.Slot = patients.SlotName(slot)
		t.Status = patients.SlotStatus(status)

		idx, ok := medIdx[medicationID]
		if !ok {
			continue
		}
		med := &p.Diseases[idx[0]].Medications[idx[1]]
		med.Timing = append(med.Timing, t)
	}
	return slotRows.Err()
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
