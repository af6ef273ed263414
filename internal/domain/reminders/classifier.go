package reminders

import (
	"errors"
	"sort"
	"time"

	"chronic-care-tracker/internal/domain/patients"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// Reminder lleva todo lo necesario para actuar sin volver a recorrer el árbol.
type Reminder struct {
	DiseaseID   string
	DiseaseName string

	MedicationID   string
	MedicationName string
	Dose           string

	SlotID string
	Slot   patients.SlotName
}

// Classification es el resultado de particionar los slots pendientes de un
// paciente en current (la ventana contiene a "now") y upcoming (la ventana
// todavía no empezó hoy). Lo que ya pasó hoy queda afuera hasta el próximo
// reset.
type Classification struct {
	Current  []Reminder
	Upcoming []Reminder
}

// EffectiveStatus deriva el estado visible de la medicación:
// paused/discontinued a nivel enfermedad pisa cualquier estado propio; en
// una enfermedad ongoing vale el estado de la medicación. Es informativo:
// la clasificación filtra por estado de la enfermedad y del slot, no por
// el estado propio de la medicación.
func EffectiveStatus(d patients.Disease, m patients.Medication) patients.MedicationStatus {
	switch d.Status {
	case patients.DiseasePaused:
		return patients.MedicationPaused
	case patients.DiseaseDiscontinued:
		return patients.MedicationDiscontinued
	}
	return m.Status
}

// Classify es una función pura sobre datos ya cargados: no hace I/O.
// Enfermedades pausadas o discontinuadas no aportan ningún recordatorio,
// sin importar el estado individual de sus slots. El estado propio de la
// medicación no se consulta: solo cuentan la enfermedad y el slot. Los
// campos opcionales (doctor asignado, próximo turno) nunca afectan la
// clasificación.
func Classify(now time.Time, p patients.Patient) (Classification, error) {
	if now.IsZero() {
		return Classification{}, ErrInvalidInput
	}
	if p.ID == "" && p.Email == "" {
		return Classification{}, ErrInvalidInput
	}

	// El hueco 23:00–06:00 no pertenece a ningún slot y se trata como
	// "antes de Morning": nada es current y todo pendiente queda upcoming.
	// Para 00–05 eso ya sale solo de la comparación h < end; a las 23 hay
	// que normalizar, porque Night termina justo ahí.
	h := now.Hour()
	if h >= 23 {
		h = -1
	}

	out := Classification{
		Current:  []Reminder{},
		Upcoming: []Reminder{},
	}

	for _, d := range p.Diseases {
		if d.Status == patients.DiseasePaused || d.Status == patients.DiseaseDiscontinued {
			continue
		}

		for _, m := range d.Medications {
			for _, t := range m.Timing {
				if t.Status != patients.SlotPending {
					continue
				}

				hr, ok := HourRangeFor(t.Slot)
				if !ok {
					// nombre fuera del conjunto cerrado: árbol malformado
					return Classification{}, ErrInvalidInput
				}

				entry := Reminder{
					DiseaseID:      d.ID,
					DiseaseName:    d.Name,
					MedicationID:   m.ID,
					MedicationName: m.Name,
					Dose:           m.Dose,
					SlotID:         t.ID,
					Slot:           t.Slot,
				}

				switch {
				case h >= hr.Start && h < hr.End:
					out.Current = append(out.Current, entry)
				case h < hr.End:
					// la ventana aún no empezó hoy; cubre también el hueco
					// 23:00–06:00, que se comporta como "antes de Morning"
					out.Upcoming = append(out.Upcoming, entry)
				}
				// ventana ya pasada: excluido hasta el próximo reset
			}
		}
	}

	// Upcoming en orden natural de slots; current conserva el orden de
	// recorrido (varias medicaciones pueden compartir el slot current).
	sort.SliceStable(out.Upcoming, func(i, j int) bool {
		return slotIndex(out.Upcoming[i].Slot) < slotIndex(out.Upcoming[j].Slot)
	})

	return out, nil
}
