package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de reportes sobre el estado en memoria.
type ReportRepo struct {
	s *Store
}

func (r *ReportRepo) CountProducts(ctx context.Context) (int, error) {
	var n int
	err := r.s.read(false, func(st *state) error {
		n = len(st.products)
		return nil
	})
	return n, err
}

func (r *ReportRepo) UnitsByLocation(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	err := r.s.read(false, func(st *state) error {
		for k, b := range st.balances {
			out[k.location] += b.Quantity
		}
		return nil
	})
	return out, err
}

func (r *ReportRepo) CountMovements(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.s.read(false, func(st *state) error {
		for _, m := range st.movements {
			if inRange(m, from, to) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ReportRepo) MovementsByActor(ctx context.Context, from, to time.Time) ([]repository.Rollup, error) {
	return r.rollup(from, to, func(m *entity.Movement) string { return m.Actor })
}

func (r *ReportRepo) MovementsByKind(ctx context.Context, from, to time.Time) ([]repository.Rollup, error) {
	return r.rollup(from, to, func(m *entity.Movement) string { return string(m.Kind) })
}

// rollup agrupa por clave; orden por cantidad de registros descendente y luego clave.
func (r *ReportRepo) rollup(from, to time.Time, key func(*entity.Movement) string) ([]repository.Rollup, error) {
	acc := make(map[string]*repository.Rollup)
	err := r.s.read(false, func(st *state) error {
		for _, m := range st.movements {
			if !inRange(m, from, to) {
				continue
			}
			k := key(m)
			ru, ok := acc[k]
			if !ok {
				ru = &repository.Rollup{Key: k}
				acc[k] = ru
			}
			ru.Records++
			ru.Units += m.Quantity
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]repository.Rollup, 0, len(acc))
	for _, ru := range acc {
		out = append(out, *ru)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Records != out[j].Records {
			return out[i].Records > out[j].Records
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

func (r *ReportRepo) StockRows(ctx context.Context, search string) ([]repository.StockRow, error) {
	var out []repository.StockRow
	err := r.s.read(false, func(st *state) error {
		for _, p := range sortedProducts(st) {
			if !matches(p, search) {
				continue
			}
			row := repository.StockRow{Product: *p, Balances: make(map[string]int64)}
			for k, b := range st.balances {
				if k.productID == p.ID {
					row.Balances[k.location] = b.Quantity
				}
			}
			out = append(out, row)
		}
		return nil
	})
	return out, err
}

// inRange intervalo semiabierto [from, to).
func inRange(m *entity.Movement, from, to time.Time) bool {
	return !m.CreatedAt.Before(from) && m.CreatedAt.Before(to)
}
