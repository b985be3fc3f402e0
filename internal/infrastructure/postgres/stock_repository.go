package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	rules "github.com/jhoicas/inventario-movimientos/internal/domain/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var _ repository.StockLedger = (*StockRepo)(nil)

// StockRepo saldos por (producto, ubicación) sobre PostgreSQL. Dentro de Run recibe la tx.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetBalance devuelve el saldo actual; 0 si no hay fila.
func (r *StockRepo) GetBalance(ctx context.Context, productID, location string) (int64, error) {
	if !validUUID(productID) {
		return 0, nil
	}
	var qty int64
	err := r.q.QueryRow(ctx,
		`SELECT quantity FROM stock_balances WHERE product_id = $1 AND location = $2`,
		productID, location,
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return qty, nil
}

// Lock bloquea con FOR UPDATE las filas existentes. El orden por ubicación evita deadlocks
// entre traslados opuestos del mismo producto.
func (r *StockRepo) Lock(ctx context.Context, productID string, locations ...string) error {
	if len(locations) == 0 {
		return nil
	}
	sorted := append([]string(nil), locations...)
	sort.Strings(sorted)
	rows, err := r.q.Query(ctx, `
		SELECT location FROM stock_balances
		WHERE product_id = $1 AND location = ANY($2)
		ORDER BY location
		FOR UPDATE`, productID, sorted)
	if err != nil {
		return fmt.Errorf("lock balances: %w", err)
	}
	rows.Close()
	return rows.Err()
}

// Increment suma qty creando la fila si no existe.
func (r *StockRepo) Increment(ctx context.Context, productID, location string, qty int64) error {
	if err := rules.CheckUnits(qty); err != nil {
		return err
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_balances (product_id, location, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location)
		DO UPDATE SET quantity = stock_balances.quantity + EXCLUDED.quantity, updated_at = now()`,
		productID, location, qty,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.NotFoundError{Resource: "producto", ID: productID}
		}
		return fmt.Errorf("increment balance: %w", err)
	}
	return nil
}

// Decrement resta qty solo si alcanza; nunca deja saldo negativo (además lo garantiza el CHECK).
func (r *StockRepo) Decrement(ctx context.Context, productID, location string, qty int64) (int64, error) {
	if err := rules.CheckUnits(qty); err != nil {
		return 0, err
	}
	var remaining int64
	err := r.q.QueryRow(ctx, `
		UPDATE stock_balances SET quantity = quantity - $3, updated_at = now()
		WHERE product_id = $1 AND location = $2 AND quantity >= $3
		RETURNING quantity`,
		productID, location, qty,
	).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if isCheckViolation(err) {
		// la tx quedó abortada: no se puede releer el saldo
		return 0, &domain.InsufficientStockError{Location: location, Requested: qty, AvailableUnknown: true}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		available, balErr := r.GetBalance(ctx, productID, location)
		if balErr != nil {
			return 0, balErr
		}
		return 0, &domain.InsufficientStockError{Location: location, Available: available, Requested: qty}
	}
	return 0, fmt.Errorf("decrement balance: %w", err)
}

// ListByProduct devuelve las filas de saldo del producto ordenadas por ubicación.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockBalance, error) {
	if !validUUID(productID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT product_id, location, quantity, updated_at
		FROM stock_balances WHERE product_id = $1
		ORDER BY location`, productID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.ProductID, &b.Location, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
