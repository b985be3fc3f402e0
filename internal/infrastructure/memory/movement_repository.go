package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo registro append-only en memoria.
type MovementRepo struct {
	s  *Store
	tx bool
}

func (r *MovementRepo) Append(ctx context.Context, draft entity.MovementDraft) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.s.write(r.tx, func(st *state) error {
		if _, ok := st.products[draft.ProductID]; !ok {
			return &domain.NotFoundError{Resource: "producto", ID: draft.ProductID}
		}
		if draft.IdempotencyKey != nil {
			if _, taken := st.byKey[*draft.IdempotencyKey]; taken {
				return domain.ErrIdempotencyKeyTaken
			}
		}
		m := &entity.Movement{
			ID:             uuid.New().String(),
			Kind:           draft.Kind,
			Quantity:       draft.Quantity,
			Origin:         draft.Origin,
			Destination:    draft.Destination,
			Actor:          draft.Actor,
			Note:           draft.Note,
			PhotoURL:       draft.PhotoURL,
			ProductID:      draft.ProductID,
			IdempotencyKey: draft.IdempotencyKey,
			CreatedAt:      r.s.timestamp(),
		}
		st.movements = append(st.movements, m)
		if m.IdempotencyKey != nil {
			st.byKey[*m.IdempotencyKey] = m
		}
		cp := *m
		out = &cp
		return nil
	})
	return out, err
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.s.read(r.tx, func(st *state) error {
		for _, m := range st.movements {
			if m.ID == id {
				cp := *m
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.s.read(r.tx, func(st *state) error {
		if m, ok := st.byKey[key]; ok {
			cp := *m
			out = &cp
		}
		return nil
	})
	return out, err
}

// List recorre el registro desde el final: del más nuevo al más viejo.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.s.read(r.tx, func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if filter.Kind != "" && m.Kind != filter.Kind {
				continue
			}
			if filter.ProductID != "" && m.ProductID != filter.ProductID {
				continue
			}
			if filter.Actor != "" && m.Actor != filter.Actor {
				continue
			}
			if filter.From != nil && m.CreatedAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && m.CreatedAt.After(*filter.To) {
				continue
			}
			cp := *m
			out = append(out, &cp)
		}
		return nil
	})
	return page(out, filter.Limit, filter.Offset), err
}

func (r *MovementRepo) ExistsForProduct(ctx context.Context, productID string) (bool, error) {
	exists := false
	err := r.s.read(r.tx, func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID == productID {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, err
}

// All devuelve una copia del registro completo en orden de confirmación.
func (r *MovementRepo) All() []*entity.Movement {
	var out []*entity.Movement
	_ = r.s.read(r.tx, func(st *state) error {
		for _, m := range st.movements {
			cp := *m
			out = append(out, &cp)
		}
		return nil
	})
	return out
}
