package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/catalog"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	rules "github.com/jhoicas/inventario-movimientos/internal/domain/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// Resultados de una solicitud, usados como etiqueta de métricas.
const (
	OutcomeCommitted         = "committed"
	OutcomeReplayed          = "replayed"
	OutcomeValidation        = "rejected_validation"
	OutcomeNotFound          = "rejected_not_found"
	OutcomeInsufficientStock = "rejected_insufficient_stock"
	OutcomeConflict          = "rejected_conflict"
	OutcomeTransient         = "transient"
)

// RegisterMovementUseCase registra movimientos de stock de forma transaccional
// (ENTRADA, TRASLADO, SALIDA) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// Es el único punto que traduce errores de almacenamiento a la taxonomía de dominio.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
	locations   entity.LocationSet
	metrics     Metrics
	log         *logger.Logger
	tracer      trace.Tracer
}

// NewRegisterMovementUseCase construye el caso de uso. movRepo y productRepo operan fuera de la tx
// (lecturas de reintento idempotente); metrics y log pueden ser nil.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	locations entity.LocationSet,
	metrics Metrics,
	log *logger.Logger,
) *RegisterMovementUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		movRepo:     movRepo,
		productRepo: productRepo,
		locations:   locations,
		metrics:     metrics,
		log:         log.Component("movements"),
		tracer:      otel.Tracer("github.com/jhoicas/inventario-movimientos/inventory"),
	}
}

// MovementInput entrada del orquestador. Product es Existing(id) o New(code, description).
// Origin/Destination vacíos = ausentes.
type MovementInput struct {
	Kind           entity.MovementKind
	Product        catalog.ProductRef
	Quantity       int64
	Origin         string
	Destination    string
	Actor          string
	Note           *string
	PhotoURL       *string
	IdempotencyKey string
}

// MovementResult movimiento confirmado y el producto resuelto.
// Replayed indica que la clave de idempotencia ya tenía un movimiento y no se aplicó nada nuevo.
type MovementResult struct {
	Movement       *entity.Movement
	Product        *entity.Product
	ProductCreated bool
	Replayed       bool
}

// Locations devuelve las ubicaciones configuradas.
func (uc *RegisterMovementUseCase) Locations() entity.LocationSet { return uc.locations }

// RegisterMovement valida la solicitud y ejecuta, en una sola transacción:
// resolver/crear producto, bloquear saldos, pre-chequeo de stock, aplicar efectos y registrar el movimiento.
// Cualquier falla revierte todo: ni saldos parciales ni movimientos huérfanos.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	start := time.Now()
	input = normalizeInput(input)

	ctx, span := uc.tracer.Start(ctx, "inventory.RegisterMovement", trace.WithAttributes(
		attribute.String("movement.kind", string(input.Kind)),
		attribute.Int64("movement.quantity", input.Quantity),
		attribute.String("movement.origin", input.Origin),
		attribute.String("movement.destination", input.Destination),
	))
	defer span.End()

	res, err := uc.register(ctx, input)
	outcome := outcomeOf(res, err)
	uc.metrics.ObserveMovement(string(input.Kind), outcome, time.Since(start))
	span.SetAttributes(attribute.String("movement.outcome", outcome))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if outcome == OutcomeTransient {
			uc.log.Error().Err(err).Str("kind", string(input.Kind)).Str("actor", input.Actor).Msg("movimiento no registrado")
		} else {
			uc.log.Debug().Err(err).Str("kind", string(input.Kind)).Str("outcome", outcome).Msg("movimiento rechazado")
		}
		return nil, err
	}

	if !res.Replayed {
		uc.metrics.AddUnits(string(res.Movement.Kind), res.Movement.Quantity)
	}
	uc.log.Info().
		Str("movement_id", res.Movement.ID).
		Str("kind", string(res.Movement.Kind)).
		Str("product", res.Product.Code).
		Int64("quantity", res.Movement.Quantity).
		Str("actor", res.Movement.Actor).
		Bool("replayed", res.Replayed).
		Msg("movimiento registrado")
	return res, nil
}

func (uc *RegisterMovementUseCase) register(ctx context.Context, input MovementInput) (*MovementResult, error) {
	shape := rules.Shape{
		Kind:        input.Kind,
		Quantity:    input.Quantity,
		Origin:      input.Origin,
		Destination: input.Destination,
		Actor:       input.Actor,
	}
	// Validación estructural antes de abrir la transacción: sin efectos si falla
	if err := rules.Validate(shape, uc.locations); err != nil {
		return nil, err
	}
	if err := input.Product.Validate(); err != nil {
		return nil, err
	}
	effects := rules.Effects(shape)

	var result *MovementResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockLedger,
		productRepo repository.ProductRepository,
	) error {
		if input.IdempotencyKey != "" {
			prev, err := replay(ctx, movRepo, productRepo, input.IdempotencyKey)
			if err != nil {
				return err
			}
			if prev != nil {
				result = prev
				return nil
			}
		}

		// 1. Obtener o crear producto
		product, created, err := catalog.Resolve(ctx, productRepo, input.Product)
		if err != nil {
			return err
		}

		// 2. Bloquear los saldos afectados en orden determinista (evita deadlocks en traslados cruzados)
		if err := stockRepo.Lock(ctx, product.ID, touchedLocations(effects)...); err != nil {
			return err
		}

		// 3. Pre-chequeo de stock disponible; la verificación autoritativa es el Decrement
		for _, e := range effects {
			if !e.IsDecrement() {
				continue
			}
			available, err := stockRepo.GetBalance(ctx, product.ID, e.Location)
			if err != nil {
				return err
			}
			if available < e.Units() {
				return &domain.InsufficientStockError{Location: e.Location, Available: available, Requested: e.Units()}
			}
		}

		// 4. Aplicar efectos sobre los saldos
		for _, e := range effects {
			if e.IsDecrement() {
				if _, err := stockRepo.Decrement(ctx, product.ID, e.Location, e.Units()); err != nil {
					return err
				}
				continue
			}
			if err := stockRepo.Increment(ctx, product.ID, e.Location, e.Units()); err != nil {
				return err
			}
		}

		// 5. Registrar movimiento
		mov, err := movRepo.Append(ctx, draftFrom(input, product.ID))
		if err != nil {
			return err
		}
		result = &MovementResult{Movement: mov, Product: product, ProductCreated: created}
		return nil
	})
	if err == nil {
		return result, nil
	}

	// Otra solicitud con la misma clave confirmó primero: devolver su movimiento
	if input.IdempotencyKey != "" && errors.Is(err, domain.ErrIdempotencyKeyTaken) {
		prev, lookupErr := replay(ctx, uc.movRepo, uc.productRepo, input.IdempotencyKey)
		if lookupErr == nil && prev != nil {
			return prev, nil
		}
		if lookupErr != nil {
			return nil, &domain.TransientError{Op: "releer movimiento idempotente", Err: lookupErr}
		}
	}
	if domain.IsRejection(err) {
		return nil, err
	}
	return nil, &domain.TransientError{Op: "registrar movimiento", Err: err}
}

func replay(ctx context.Context, movRepo repository.MovementRepository, productRepo repository.ProductRepository, key string) (*MovementResult, error) {
	prev, err := movRepo.GetByIdempotencyKey(ctx, key)
	if err != nil || prev == nil {
		return nil, err
	}
	product, err := productRepo.GetByID(ctx, prev.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "producto", ID: prev.ProductID}
	}
	return &MovementResult{Movement: prev, Product: product, Replayed: true}, nil
}

func touchedLocations(effects []rules.Effect) []string {
	out := make([]string, 0, len(effects))
	for _, e := range effects {
		out = append(out, e.Location)
	}
	return out
}

func draftFrom(input MovementInput, productID string) entity.MovementDraft {
	d := entity.MovementDraft{
		Kind:      input.Kind,
		Quantity:  input.Quantity,
		Actor:     input.Actor,
		Note:      catalog.NormalizeOptional(input.Note),
		PhotoURL:  catalog.NormalizeOptional(input.PhotoURL),
		ProductID: productID,
	}
	if input.Origin != "" {
		origin := input.Origin
		d.Origin = &origin
	}
	if input.Destination != "" {
		dest := input.Destination
		d.Destination = &dest
	}
	if input.IdempotencyKey != "" {
		key := input.IdempotencyKey
		d.IdempotencyKey = &key
	}
	return d
}

func normalizeInput(in MovementInput) MovementInput {
	in.Kind = entity.MovementKind(strings.ToUpper(strings.TrimSpace(string(in.Kind))))
	in.Origin = strings.TrimSpace(in.Origin)
	in.Destination = strings.TrimSpace(in.Destination)
	in.Actor = strings.TrimSpace(in.Actor)
	in.IdempotencyKey = strings.TrimSpace(in.IdempotencyKey)
	return in
}

func outcomeOf(res *MovementResult, err error) string {
	switch {
	case err == nil && res != nil && res.Replayed:
		return OutcomeReplayed
	case err == nil:
		return OutcomeCommitted
	case errors.Is(err, domain.ErrValidation):
		return OutcomeValidation
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return OutcomeInsufficientStock
	case errors.Is(err, domain.ErrConflict):
		return OutcomeConflict
	default:
		return OutcomeTransient
	}
}
