package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: si fn devuelve error se hace Rollback completo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockLedger,
		productRepo repository.ProductRepository,
	) error) error
}

// Metrics recibe el resultado de cada solicitud de movimiento.
type Metrics interface {
	ObserveMovement(kind, outcome string, elapsed time.Duration)
	AddUnits(kind string, units int64)
}

// NopMetrics descarta las métricas.
type NopMetrics struct{}

func (NopMetrics) ObserveMovement(string, string, time.Duration) {}
func (NopMetrics) AddUnits(string, int64)                        {}
