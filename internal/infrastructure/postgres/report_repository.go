package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para estadísticas y resumen de stock.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// CountProducts total de productos del catálogo.
func (r *ReportRepo) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("report.CountProducts: %w", err)
	}
	return n, nil
}

// UnitsByLocation suma de saldos por ubicación.
func (r *ReportRepo) UnitsByLocation(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT location, COALESCE(SUM(quantity), 0)
		FROM stock_balances
		GROUP BY location`)
	if err != nil {
		return nil, fmt.Errorf("report.UnitsByLocation: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var loc string
		var units int64
		if err := rows.Scan(&loc, &units); err != nil {
			return nil, fmt.Errorf("report.UnitsByLocation scan: %w", err)
		}
		out[loc] = units
	}
	return out, rows.Err()
}

// CountMovements movimientos con created_at en [from, to).
func (r *ReportRepo) CountMovements(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM movements WHERE created_at >= $1 AND created_at < $2`, from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("report.CountMovements: %w", err)
	}
	return n, nil
}

// MovementsByActor cantidad de registros y unidades por vendedor en [from, to).
func (r *ReportRepo) MovementsByActor(ctx context.Context, from, to time.Time) ([]repository.Rollup, error) {
	return r.rollup(ctx, "actor", from, to)
}

// MovementsByKind cantidad de registros y unidades por tipo en [from, to).
func (r *ReportRepo) MovementsByKind(ctx context.Context, from, to time.Time) ([]repository.Rollup, error) {
	return r.rollup(ctx, "kind", from, to)
}

// rollup column solo recibe nombres internos (actor|kind), nunca entrada del usuario.
func (r *ReportRepo) rollup(ctx context.Context, column string, from, to time.Time) ([]repository.Rollup, error) {
	query := fmt.Sprintf(`
	SELECT %[1]s, COUNT(*), COALESCE(SUM(quantity), 0)
	FROM movements
	WHERE created_at >= $1 AND created_at < $2
	GROUP BY %[1]s
	ORDER BY COUNT(*) DESC, %[1]s`, column)

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("report.rollup(%s): %w", column, err)
	}
	defer rows.Close()
	var results []repository.Rollup
	for rows.Next() {
		var row repository.Rollup
		if err := rows.Scan(&row.Key, &row.Records, &row.Units); err != nil {
			return nil, fmt.Errorf("report.rollup(%s) scan: %w", column, err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// StockRows productos con sus saldos. Un LEFT JOIN por fila de saldo; se agrupa en memoria.
func (r *ReportRepo) StockRows(ctx context.Context, search string) ([]repository.StockRow, error) {
	query := `
	SELECT p.id, p.code, p.description, p.photo_url, p.created_at, p.updated_at,
	       sb.location, sb.quantity
	FROM products p
	LEFT JOIN stock_balances sb ON sb.product_id = p.id
	WHERE ($1 = '' OR p.code ILIKE $2 OR p.description ILIKE $2)
	ORDER BY p.created_at DESC, p.code, sb.location`

	rows, err := r.pool.Query(ctx, query, search, likePattern(search))
	if err != nil {
		return nil, fmt.Errorf("report.StockRows: %w", err)
	}
	defer rows.Close()

	var results []repository.StockRow
	index := make(map[string]int)
	for rows.Next() {
		var row repository.StockRow
		var location *string
		var qty *int64
		p := &row.Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Description, &p.PhotoURL, &p.CreatedAt, &p.UpdatedAt, &location, &qty); err != nil {
			return nil, fmt.Errorf("report.StockRows scan: %w", err)
		}
		i, ok := index[p.ID]
		if !ok {
			row.Balances = make(map[string]int64)
			results = append(results, row)
			i = len(results) - 1
			index[p.ID] = i
		}
		if location != nil && qty != nil {
			results[i].Balances[*location] = *qty
		}
	}
	return results, rows.Err()
}
