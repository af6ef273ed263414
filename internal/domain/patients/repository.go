package patients

import (
	"context"
	"errors"
)

// ErrUnchanged puede devolverlo el fn de Mutate para abortar sin escribir:
// Mutate lo trata como éxito y devuelve el documento tal como se leyó.
var ErrUnchanged = errors.New("unchanged")

// Repository persiste el documento completo del paciente.
// Mutate es el read-modify-write del árbol entero como una única unidad
// atómica respecto de otras mutaciones sobre el mismo paciente: carga el
// documento, aplica fn y persiste el resultado solo si fn devuelve nil.
// Cualquier otro error de fn aborta sin escribir y se propaga tal cual.
// Pacientes distintos son independientes.
// ResetAllSlots es la operación bulk del reset diario: pone cada TimingSlot
// de cada paciente en pending, sin consultar el estado de la enfermedad.
type Repository interface {
	Create(ctx context.Context, p Patient) error
	GetByEmail(ctx context.Context, email string) (Patient, error)
	Mutate(ctx context.Context, email string, fn func(*Patient) error) (Patient, error)
	ResetAllSlots(ctx context.Context) error
}
