package inventory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición de una ubicación desde otra.
// Solo sugiere: los traslados se registran después como movimientos normales.
type ReplenishmentUseCase struct {
	reportRepo    repository.ReportRepository
	locations     entity.LocationSet
	defaultTarget int64
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
// defaultTarget es el stock mínimo deseado cuando la solicitud no trae target.
func NewReplenishmentUseCase(
	reportRepo repository.ReportRepository,
	locations entity.LocationSet,
	defaultTarget int64,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		reportRepo:    reportRepo,
		locations:     locations,
		defaultTarget: defaultTarget,
	}
}

// GenerateReplenishmentList devuelve los productos con saldo bajo target en location
// y stock disponible en source, con la cantidad sugerida de TRASLADO.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, req dto.ReplenishmentRequest) (*dto.ReplenishmentResponse, error) {
	location := strings.TrimSpace(req.Location)
	source := strings.TrimSpace(req.Source)
	target := req.Target
	if target <= 0 {
		target = uc.defaultTarget
	}

	// 1. Validación
	if !uc.locations.Contains(location) {
		return nil, domain.NewValidationError("location", "ubicación desconocida: "+location)
	}
	if !uc.locations.Contains(source) {
		return nil, domain.NewValidationError("source", "ubicación desconocida: "+source)
	}
	if source == location {
		return nil, domain.NewValidationError("source", "debe ser distinta de location")
	}
	if target <= 0 {
		return nil, domain.NewValidationError("target", "debe ser mayor a 0")
	}

	// 2. Saldos de todos los productos
	rows, err := uc.reportRepo.StockRows(ctx, "")
	if err != nil {
		return nil, &domain.TransientError{Op: "saldos para reposición", Err: err}
	}

	// 3. Sugerencias: déficit cubierto hasta donde alcance el origen
	suggestions := make([]dto.ReplenishmentSuggestion, 0)
	for _, row := range rows {
		current := row.Balances[location]
		available := row.Balances[source]
		if current >= target || available <= 0 {
			continue
		}
		qty := target - current
		if qty > available {
			qty = available
		}
		p := row.Product
		suggestions = append(suggestions, dto.ReplenishmentSuggestion{
			Product:      *ToProductSummary(&p),
			CurrentStock: current,
			SourceStock:  available,
			SuggestedQty: qty,
		})
	}

	// 4. Ordenar: mayor déficit primero, luego más stock en origen, luego código
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.CurrentStock != b.CurrentStock {
			return a.CurrentStock < b.CurrentStock
		}
		if a.SourceStock != b.SourceStock {
			return a.SourceStock > b.SourceStock
		}
		return a.Product.Code < b.Product.Code
	})

	// 5. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}

	return &dto.ReplenishmentResponse{
		Location: location,
		Source:   source,
		Target:   target,
		Items:    suggestions,
	}, nil
}
