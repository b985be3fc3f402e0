// Package inventory contiene las reglas puras del libro de movimientos:
// validación estructural por tipo y efectos sobre los saldos.
package inventory

import (
	"strings"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// Effect cambio sobre el saldo de una ubicación. Delta negativo = decremento.
type Effect struct {
	Location string
	Delta    int64
}

// IsDecrement indica si el efecto resta stock.
func (e Effect) IsDecrement() bool { return e.Delta < 0 }

// Units cantidad absoluta del efecto.
func (e Effect) Units() int64 {
	if e.Delta < 0 {
		return -e.Delta
	}
	return e.Delta
}

// Shape forma estructural de un movimiento (sin producto).
type Shape struct {
	Kind        entity.MovementKind
	Quantity    int64
	Origin      string
	Destination string
	Actor       string
}

// Validate aplica las reglas por tipo antes de tocar el almacenamiento:
//
//	ENTRADA:  sin origen, destino requerido
//	TRASLADO: origen y destino requeridos y distintos
//	SALIDA:   origen requerido, sin destino
func Validate(s Shape, locations entity.LocationSet) error {
	if !s.Kind.Valid() {
		return domain.NewValidationError("tipo", "debe ser ENTRADA, TRASLADO o SALIDA")
	}
	if err := CheckUnits(s.Quantity); err != nil {
		return err
	}
	if strings.TrimSpace(s.Actor) == "" {
		return domain.NewValidationError("vendedor", "es requerido")
	}
	switch s.Kind {
	case entity.MovementEntrada:
		if s.Destination == "" {
			return domain.NewValidationError("ubicacion_destino", "es requerida para ENTRADA")
		}
		if s.Origin != "" {
			return domain.NewValidationError("ubicacion_origen", "no aplica para ENTRADA")
		}
	case entity.MovementTraslado:
		if s.Origin == "" || s.Destination == "" {
			return domain.NewValidationError("ubicacion", "origen y destino son requeridos para TRASLADO")
		}
		if s.Origin == s.Destination {
			return domain.NewValidationError("ubicacion_destino", "debe ser distinta del origen")
		}
	case entity.MovementSalida:
		if s.Origin == "" {
			return domain.NewValidationError("ubicacion_origen", "es requerida para SALIDA")
		}
		if s.Destination != "" {
			return domain.NewValidationError("ubicacion_destino", "no aplica para SALIDA")
		}
	}
	if s.Origin != "" && !locations.Contains(s.Origin) {
		return domain.NewValidationError("ubicacion_origen", "ubicación desconocida: "+s.Origin)
	}
	if s.Destination != "" && !locations.Contains(s.Destination) {
		return domain.NewValidationError("ubicacion_destino", "ubicación desconocida: "+s.Destination)
	}
	return nil
}

// Effects devuelve los cambios de saldo de un movimiento ya validado, decrementos primero.
func Effects(s Shape) []Effect {
	switch s.Kind {
	case entity.MovementEntrada:
		return []Effect{{Location: s.Destination, Delta: s.Quantity}}
	case entity.MovementTraslado:
		return []Effect{
			{Location: s.Origin, Delta: -s.Quantity},
			{Location: s.Destination, Delta: s.Quantity},
		}
	case entity.MovementSalida:
		return []Effect{{Location: s.Origin, Delta: -s.Quantity}}
	}
	return nil
}

// Apply acumula los efectos de un movimiento persistido sobre balances (producto -> ubicación -> cantidad).
// Sirve para recalcular saldos desde el registro y verificar el saldo materializado.
func Apply(balances map[string]map[string]int64, m *entity.Movement) {
	s := Shape{Kind: m.Kind, Quantity: m.Quantity}
	if m.Origin != nil {
		s.Origin = *m.Origin
	}
	if m.Destination != nil {
		s.Destination = *m.Destination
	}
	perLocation, ok := balances[m.ProductID]
	if !ok {
		perLocation = make(map[string]int64)
		balances[m.ProductID] = perLocation
	}
	for _, e := range Effects(s) {
		perLocation[e.Location] += e.Delta
	}
}

// CheckUnits rechaza cantidades no positivas. Los saldos solo cambian por unidades enteras > 0.
func CheckUnits(qty int64) error {
	if qty <= 0 {
		return domain.NewValidationError("cantidad", "debe ser un entero positivo")
	}
	return nil
}
