package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// Rollup agregado de movimientos por una clave (vendedor o tipo).
type Rollup struct {
	Key     string
	Records int
	Units   int64
}

// StockRow producto con sus saldos por ubicación (solo las ubicaciones con fila).
type StockRow struct {
	Product  entity.Product
	Balances map[string]int64
}

// ReportRepository define las consultas de lectura para reportes.
// Las implementaciones son read-only (no modifican datos) y corren fuera de transacciones de escritura.
type ReportRepository interface {
	CountProducts(ctx context.Context) (int, error)
	// UnitsByLocation suma los saldos agrupados por ubicación.
	UnitsByLocation(ctx context.Context) (map[string]int64, error)
	CountMovements(ctx context.Context, from, to time.Time) (int, error)
	MovementsByActor(ctx context.Context, from, to time.Time) ([]Rollup, error)
	MovementsByKind(ctx context.Context, from, to time.Time) ([]Rollup, error)
	// StockRows devuelve productos (filtrados por search en código/descripción) con sus saldos, más recientes primero.
	StockRows(ctx context.Context, search string) ([]StockRow, error)
}
