package repository

import (
	"context"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// StockLedger define el puerto sobre la tabla de saldos por (producto, ubicación).
// Las implementaciones transaccionales nunca abren su propia transacción: operan sobre la del TxRunner.
type StockLedger interface {
	// GetBalance devuelve 0 si no hay fila (ausencia = cero).
	GetBalance(ctx context.Context, productID, location string) (int64, error)
	// Lock bloquea las filas existentes de las ubicaciones dadas (SELECT FOR UPDATE), en orden por ubicación.
	Lock(ctx context.Context, productID string, locations ...string) error
	// Increment suma qty (> 0), creando la fila si no existe.
	Increment(ctx context.Context, productID, location string, qty int64) error
	// Decrement resta qty (> 0) y devuelve el nuevo saldo.
	// Devuelve *domain.InsufficientStockError si el saldo es menor a qty.
	Decrement(ctx context.Context, productID, location string, qty int64) (int64, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockBalance, error)
}
