package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// MovementFilter filtros para consultar el registro de movimientos. Resultados del más nuevo al más viejo.
type MovementFilter struct {
	Kind      entity.MovementKind
	ProductID string
	Actor     string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// MovementRepository define el puerto del registro append-only de movimientos.
type MovementRepository interface {
	// Append persiste el movimiento con ID y fecha asignados por el servidor. No valida reglas de negocio.
	Append(ctx context.Context, draft entity.MovementDraft) (*entity.Movement, error)
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Movement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	ExistsForProduct(ctx context.Context, productID string) (bool, error)
}
