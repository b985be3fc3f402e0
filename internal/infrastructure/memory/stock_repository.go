package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	rules "github.com/jhoicas/inventario-movimientos/internal/domain/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var _ repository.StockLedger = (*StockRepo)(nil)

// StockRepo saldos en memoria.
type StockRepo struct {
	s  *Store
	tx bool
}

func (r *StockRepo) GetBalance(ctx context.Context, productID, location string) (int64, error) {
	var qty int64
	err := r.s.read(r.tx, func(st *state) error {
		if b, ok := st.balances[balanceKey{productID, location}]; ok {
			qty = b.Quantity
		}
		return nil
	})
	return qty, err
}

// Lock no hace nada: Run ya tiene acceso exclusivo al estado.
func (r *StockRepo) Lock(ctx context.Context, productID string, locations ...string) error {
	return ctx.Err()
}

func (r *StockRepo) Increment(ctx context.Context, productID, location string, qty int64) error {
	if err := rules.CheckUnits(qty); err != nil {
		return err
	}
	return r.s.write(r.tx, func(st *state) error {
		if _, ok := st.products[productID]; !ok {
			return &domain.NotFoundError{Resource: "producto", ID: productID}
		}
		k := balanceKey{productID, location}
		b, ok := st.balances[k]
		if !ok {
			b = &entity.StockBalance{ProductID: productID, Location: location}
			st.balances[k] = b
		}
		b.Quantity += qty
		b.UpdatedAt = r.s.now().UTC()
		return nil
	})
}

func (r *StockRepo) Decrement(ctx context.Context, productID, location string, qty int64) (int64, error) {
	if err := rules.CheckUnits(qty); err != nil {
		return 0, err
	}
	var remaining int64
	err := r.s.write(r.tx, func(st *state) error {
		b, ok := st.balances[balanceKey{productID, location}]
		var available int64
		if ok {
			available = b.Quantity
		}
		if !ok || available < qty {
			return &domain.InsufficientStockError{Location: location, Available: available, Requested: qty}
		}
		b.Quantity -= qty
		b.UpdatedAt = r.s.now().UTC()
		remaining = b.Quantity
		return nil
	})
	return remaining, err
}

func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockBalance, error) {
	var out []*entity.StockBalance
	err := r.s.read(r.tx, func(st *state) error {
		for k, b := range st.balances {
			if k.productID == productID {
				cb := *b
				out = append(out, &cb)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out, err
}
