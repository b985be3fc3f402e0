package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, kind, quantity, origin, destination, actor, note, photo_url, product_id, idempotency_key, created_at`

// MovementRepo registro append-only de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta el movimiento. La fecha la fija la BD con clock_timestamp() para que
// el orden del registro siga el orden real de confirmación dentro de la tx.
func (r *MovementRepo) Append(ctx context.Context, draft entity.MovementDraft) (*entity.Movement, error) {
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
	}
	query := `
		INSERT INTO movements (id, kind, quantity, origin, destination, actor, note, photo_url, product_id, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, clock_timestamp())
		RETURNING created_at`
	err := r.q.QueryRow(ctx, query,
		m.ID, string(m.Kind), m.Quantity, m.Origin, m.Destination, m.Actor,
		m.Note, m.PhotoURL, m.ProductID, m.IdempotencyKey,
	).Scan(&m.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err, constraintIdempotencyKey):
			return nil, domain.ErrIdempotencyKeyTaken
		case isForeignKeyViolation(err):
			return nil, &domain.NotFoundError{Resource: "producto", ID: m.ProductID}
		}
		return nil, fmt.Errorf("append movement: %w", err)
	}
	return m, nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.scanOne(ctx, "get movement", `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id)
}

// GetByIdempotencyKey obtiene el movimiento confirmado con esa clave.
func (r *MovementRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Movement, error) {
	return r.scanOne(ctx, "get movement by key", `SELECT `+movementColumns+` FROM movements WHERE idempotency_key = $1`, key)
}

// List lista movimientos filtrados del más nuevo al más viejo.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.ProductID != "" && !validUUID(filter.ProductID) {
		return nil, nil
	}
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, string(filter.Kind))
		pos++
	}
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.Actor != "" {
		query += fmt.Sprintf(" AND actor = $%d", pos)
		args = append(args, filter.Actor)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ExistsForProduct indica si el producto tiene al menos un movimiento.
func (r *MovementRepo) ExistsForProduct(ctx context.Context, productID string) (bool, error) {
	if !validUUID(productID) {
		return false, nil
	}
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movements WHERE product_id = $1)`, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists movement: %w", err)
	}
	return exists, nil
}

func (r *MovementRepo) scanOne(ctx context.Context, op, query string, args ...any) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var kind string
	if err := row.Scan(&m.ID, &kind, &m.Quantity, &m.Origin, &m.Destination, &m.Actor,
		&m.Note, &m.PhotoURL, &m.ProductID, &m.IdempotencyKey, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	return &m, nil
}
