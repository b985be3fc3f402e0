package entity

import "time"

// MovementKind tipo de movimiento de stock.
type MovementKind string

// Tipos de movimiento.
const (
	MovementEntrada  MovementKind = "ENTRADA"  // entrada a una ubicación
	MovementTraslado MovementKind = "TRASLADO" // traslado entre ubicaciones
	MovementSalida   MovementKind = "SALIDA"   // salida desde una ubicación
)

// MovementKinds todos los tipos en orden de presentación.
var MovementKinds = []MovementKind{MovementEntrada, MovementTraslado, MovementSalida}

// Valid indica si el tipo es uno de los conocidos.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementEntrada, MovementTraslado, MovementSalida:
		return true
	}
	return false
}

// Label nombre legible del tipo.
func (k MovementKind) Label() string {
	switch k {
	case MovementEntrada:
		return "Entrada"
	case MovementTraslado:
		return "Traslado"
	case MovementSalida:
		return "Salida"
	}
	return string(k)
}

// Movement registro inmutable de auditoría. Se crea una sola vez por solicitud aceptada.
// Origin es nil en ENTRADA; Destination es nil en SALIDA.
type Movement struct {
	ID             string
	Kind           MovementKind
	Quantity       int64
	Origin         *string
	Destination    *string
	Actor          string
	Note           *string
	PhotoURL       *string
	ProductID      string
	IdempotencyKey *string
	CreatedAt      time.Time
}

// MovementDraft datos de un movimiento antes de persistirse (sin ID ni fecha).
type MovementDraft struct {
	Kind           MovementKind
	Quantity       int64
	Origin         *string
	Destination    *string
	Actor          string
	Note           *string
	PhotoURL       *string
	ProductID      string
	IdempotencyKey *string
}
