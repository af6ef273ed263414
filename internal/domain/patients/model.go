package patients

import "time"

// DiseaseStatus define los estados de una enfermedad crónica.
// @Enum ongoing, paused, discontinued
type DiseaseStatus string

const (
	DiseaseOngoing      DiseaseStatus = "ongoing"
	DiseasePaused       DiseaseStatus = "paused"
	DiseaseDiscontinued DiseaseStatus = "discontinued"
)

// MedicationStatus es informativo: no decide la visibilidad de recordatorios
// (eso lo gobierna DiseaseStatus + el estado de cada slot).
// @Enum pending, done, paused, discontinued
type MedicationStatus string

const (
	MedicationPending      MedicationStatus = "pending"
	MedicationDone         MedicationStatus = "done"
	MedicationPaused       MedicationStatus = "paused"
	MedicationDiscontinued MedicationStatus = "discontinued"
)

// SlotStatus es la unidad de verdad para el scheduling diario.
// @Enum pending, done
type SlotStatus string

const (
	SlotPending SlotStatus = "pending"
	SlotDone    SlotStatus = "done"
)

// SlotName es un conjunto cerrado: cada nombre mapea a un rango horario fijo.
// @Enum Morning, Afternoon, Evening, Night
type SlotName string

const (
	SlotMorning   SlotName = "Morning"
	SlotAfternoon SlotName = "Afternoon"
	SlotEvening   SlotName = "Evening"
	SlotNight     SlotName = "Night"
)

// TimingSlot conserva su ID a través del reset diario: el reset solo
// muta Status, nunca recrea el slot.
type TimingSlot struct {
	ID     string
	Slot   SlotName
	Status SlotStatus
}

type Medication struct {
	ID       string
	Name     string
	Dose     string
	Duration string
	Status   MedicationStatus
	Timing   []TimingSlot
}

type Disease struct {
	ID      string
	Name    string
	Summary string
	Status  DiseaseStatus

	// Opcionales: nunca afectan la clasificación de recordatorios.
	AssignedDoctor  string
	NextAppointment *time.Time

	Medications []Medication
}

// Patient es el documento completo: dueño exclusivo de sus enfermedades.
// La identidad es el email (ya verificado por el colaborador de auth).
type Patient struct {
	ID    string
	Email string

	Name   string
	Age    int
	Gender string

	Diseases []Disease

	CreatedAt time.Time
	UpdatedAt time.Time
}

func ValidDiseaseStatus(s DiseaseStatus) bool {
	switch s {
	case DiseaseOngoing, DiseasePaused, DiseaseDiscontinued:
		return true
	}
	return false
}

func ValidSlotName(s SlotName) bool {
	switch s {
	case SlotMorning, SlotAfternoon, SlotEvening, SlotNight:
		return true
	}
	return false
}
