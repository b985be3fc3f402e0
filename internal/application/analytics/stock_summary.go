package analytics

import (
	"context"
	"strings"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
)

// StockSummary devuelve el stock consolidado por producto con totales generales.
// Cada item trae todas las ubicaciones configuradas (0 si no hay fila).
// Location deja los productos con saldo > 0 en esa ubicación; si no, OnlyEmpty deja los de total 0.
func (uc *StatsUseCase) StockSummary(ctx context.Context, req dto.StockSummaryRequest) (*dto.StockSummaryResponse, error) {
	location := strings.TrimSpace(req.Location)
	if location != "" && !uc.locations.Contains(location) {
		return nil, domain.NewValidationError("location", "ubicación desconocida: "+location)
	}
	rows, err := uc.reportRepo.StockRows(ctx, strings.TrimSpace(req.Search))
	if err != nil {
		return nil, &domain.TransientError{Op: "resumen de stock", Err: err}
	}

	items := make([]dto.StockSummaryItem, 0, len(rows))
	totals := dto.StockTotals{UnitsPerLocation: uc.zeroLocations()}
	for _, row := range rows {
		balances := uc.zeroLocations()
		var total int64
		for loc, qty := range row.Balances {
			balances[loc] = qty
			total += qty
		}
		switch {
		case location != "":
			if balances[location] <= 0 {
				continue
			}
		case req.OnlyEmpty:
			if total != 0 {
				continue
			}
		}
		p := row.Product
		items = append(items, dto.StockSummaryItem{
			Product:  dto.ProductSummary{ID: p.ID, Code: p.Code, Description: p.Description, PhotoURL: p.PhotoURL},
			Balances: balances,
			Total:    total,
		})
		for loc, qty := range balances {
			totals.UnitsPerLocation[loc] += qty
		}
		totals.Units += total
	}
	totals.Products = len(items)
	return &dto.StockSummaryResponse{Items: items, Totals: totals}, nil
}
