package reminders

import "chronic-care-tracker/internal/domain/patients"

// HourRange es un intervalo semiabierto [Start, End) en horas del día.
type HourRange struct {
	Start int
	End   int
}

// Catálogo fijo de slots. Los intervalos son disjuntos y no cubren
// 23:00–06:00: ese hueco se trata como "antes de Morning" (nada es
// current y Morning es el próximo upcoming).
var hourRanges = map[patients.SlotName]HourRange{
	patients.SlotMorning:   {Start: 6, End: 12},
	patients.SlotAfternoon: {Start: 12, End: 17},
	patients.SlotEvening:   {Start: 17, End: 20},
	patients.SlotNight:     {Start: 20, End: 23},
}

// Orden natural: Morning < Afternoon < Evening < Night.
var slotOrder = []patients.SlotName{
	patients.SlotMorning,
	patients.SlotAfternoon,
	patients.SlotEvening,
	patients.SlotNight,
}

// HourRangeFor devuelve el rango horario del slot; ok=false si el nombre
// no pertenece al conjunto cerrado.
func HourRangeFor(slot patients.SlotName) (HourRange, bool) {
	hr, ok := hourRanges[slot]
	return hr, ok
}

// slotIndex devuelve la posición del slot en el orden natural (-1 si no existe).
func slotIndex(slot patients.SlotName) int {
	for i, s := range slotOrder {
		if s == slot {
			return i
		}
	}
	return -1
}
