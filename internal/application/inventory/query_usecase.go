package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

const (
	defaultMovementLimit = 50
	maxMovementLimit     = 500
	dateLayout           = "2006-01-02"
)

// StockQueryUseCase lecturas del libro: saldo puntual y consulta del registro de movimientos.
// Corre fuera de transacciones de escritura.
type StockQueryUseCase struct {
	ledger      repository.StockLedger
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
	locations   entity.LocationSet
	tz          *time.Location
}

// NewStockQueryUseCase construye el caso de uso. tz define los límites de día de los filtros por fecha.
func NewStockQueryUseCase(
	ledger repository.StockLedger,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	locations entity.LocationSet,
	tz *time.Location,
) *StockQueryUseCase {
	if tz == nil {
		tz = time.UTC
	}
	return &StockQueryUseCase{ledger: ledger, movRepo: movRepo, productRepo: productRepo, locations: locations, tz: tz}
}

// Balance devuelve el saldo de un producto en una ubicación (0 si nunca tuvo movimientos allí).
func (uc *StockQueryUseCase) Balance(ctx context.Context, productID, location string) (*dto.BalanceResponse, error) {
	productID = strings.TrimSpace(productID)
	location = strings.TrimSpace(location)
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "es requerido")
	}
	if !uc.locations.Contains(location) {
		return nil, domain.NewValidationError("location", "ubicación desconocida: "+location)
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, &domain.TransientError{Op: "obtener producto", Err: err}
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "producto", ID: productID}
	}
	qty, err := uc.ledger.GetBalance(ctx, productID, location)
	if err != nil {
		return nil, &domain.TransientError{Op: "obtener saldo", Err: err}
	}
	return &dto.BalanceResponse{ProductID: productID, Location: location, Quantity: qty}, nil
}

// GetMovement obtiene un movimiento por ID con su producto.
func (uc *StockQueryUseCase) GetMovement(ctx context.Context, id string) (*dto.MovementResponse, error) {
	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, &domain.TransientError{Op: "obtener movimiento", Err: err}
	}
	if m == nil {
		return nil, &domain.NotFoundError{Resource: "movimiento", ID: id}
	}
	product, err := uc.productRepo.GetByID(ctx, m.ProductID)
	if err != nil {
		return nil, &domain.TransientError{Op: "obtener producto", Err: err}
	}
	out := ToMovementResponse(m, product)
	return &out, nil
}

// ListMovements lista movimientos filtrados, del más nuevo al más viejo.
func (uc *StockQueryUseCase) ListMovements(ctx context.Context, req dto.ListMovementsRequest) (*dto.MovementListResponse, error) {
	req.Normalize(defaultMovementLimit, maxMovementLimit)
	filter := repository.MovementFilter{
		ProductID: strings.TrimSpace(req.ProductID),
		Actor:     strings.TrimSpace(req.Actor),
		Limit:     req.Limit,
		Offset:    req.Offset,
	}
	if req.Kind != "" {
		kind := entity.MovementKind(strings.ToUpper(strings.TrimSpace(req.Kind)))
		if !kind.Valid() {
			return nil, domain.NewValidationError("kind", "debe ser ENTRADA, TRASLADO o SALIDA")
		}
		filter.Kind = kind
	}
	if req.From != "" {
		from, err := time.ParseInLocation(dateLayout, req.From, uc.tz)
		if err != nil {
			return nil, domain.NewValidationError("from", "formato esperado YYYY-MM-DD")
		}
		filter.From = &from
	}
	if req.To != "" {
		day, err := time.ParseInLocation(dateLayout, req.To, uc.tz)
		if err != nil {
			return nil, domain.NewValidationError("to", "formato esperado YYYY-MM-DD")
		}
		// Hasta incluye el día completo
		to := day.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.NewValidationError("to", "debe ser posterior a from")
	}

	list, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, &domain.TransientError{Op: "listar movimientos", Err: err}
	}
	ids := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, m := range list {
		if _, ok := seen[m.ProductID]; !ok {
			seen[m.ProductID] = struct{}{}
			ids = append(ids, m.ProductID)
		}
	}
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, &domain.TransientError{Op: "obtener productos", Err: err}
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m, products[m.ProductID]))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: req.Limit, Offset: req.Offset},
	}, nil
}
