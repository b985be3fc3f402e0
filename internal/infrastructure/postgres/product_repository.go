package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, description, photo_url, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Code, product.Description, product.PhotoURL, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, constraintProductCode) {
			return &domain.ConflictError{Reason: "ya existe un producto con código " + product.Code}
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// CreateIfAbsent inserta salvo que el código ya exista (carrera entre dos altas del mismo código).
func (r *ProductRepo) CreateIfAbsent(ctx context.Context, product *entity.Product) (bool, error) {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		product.ID, product.Code, product.Description, product.PhotoURL, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert product if absent: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(ctx, "get product", query, id)
}

// GetByIDs obtiene los productos de ids en una sola consulta.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validUUID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1::uuid[])`, valid)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// GetByCode obtiene un producto por su código exacto.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE code = $1`
	return r.scanOne(ctx, "get product by code", query, code)
}

// Update actualiza descripción, foto y updated_at.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET description = $2, photo_url = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, product.ID, product.Description, product.PhotoURL, product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "producto", ID: product.ID}
	}
	return nil
}

// Delete elimina un producto. La FK de movements/stock_balances impide borrar uno con historial.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if !validUUID(id) {
		return &domain.NotFoundError{Resource: "producto", ID: id}
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ConflictError{Reason: "el producto tiene movimientos o saldos registrados"}
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "producto", ID: id}
	}
	return nil
}

// Search busca por subcadena (ILIKE) en código o descripción, opcionalmente con saldo > 0 en una ubicación.
func (r *ProductRepo) Search(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Query != "" {
		query += fmt.Sprintf(" AND (p.code ILIKE $%d OR p.description ILIKE $%d)", pos, pos)
		args = append(args, likePattern(filter.Query))
		pos++
	}
	if filter.Location != "" {
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM stock_balances sb
			WHERE sb.product_id = p.id AND sb.location = $%d AND sb.quantity > 0)`, pos)
		args = append(args, filter.Location)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY p.created_at DESC, p.code LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) scanOne(ctx context.Context, op, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Code, &p.Description, &p.PhotoURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
