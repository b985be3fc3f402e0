package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/catalog"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	rules "github.com/jhoicas/inventario-movimientos/internal/domain/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var testLocations = entity.NewLocationSet([]string{"Deposito", "Local"})

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
	units    map[string]int64
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{outcomes: map[string]int{}, units: map[string]int64{}}
}

func (m *recordingMetrics) ObserveMovement(kind, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

func (m *recordingMetrics) AddUnits(kind string, units int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units[kind] += units
}

func newUseCase(store *memory.Store, runner inventory.TxRunner, metrics inventory.Metrics) *inventory.RegisterMovementUseCase {
	if runner == nil {
		runner = store
	}
	return inventory.NewRegisterMovementUseCase(runner, store.Movements(), store.Products(), testLocations, metrics, nil)
}

func balance(t *testing.T, store *memory.Store, productID, location string) int64 {
	t.Helper()
	qty, err := store.Stock().GetBalance(context.Background(), productID, location)
	require.NoError(t, err)
	return qty
}

func entrada(ref catalog.ProductRef, qty int64, dest string) inventory.MovementInput {
	return inventory.MovementInput{Kind: entity.MovementEntrada, Product: ref, Quantity: qty, Destination: dest, Actor: "Ana"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaTrasladoSalida(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store, nil, nil)

	// Entrada de 10 unidades a Deposito sobre un libro vacío
	res, err := uc.RegisterMovement(ctx, entrada(catalog.New("ALT-001", "Alternador", nil), 10, "Deposito"))
	require.NoError(t, err)
	assert.True(t, res.ProductCreated)
	assert.False(t, res.Replayed)
	productID := res.Product.ID
	assert.Equal(t, int64(10), balance(t, store, productID, "Deposito"))
	assert.Len(t, store.Movements().All(), 1)
	assert.Nil(t, res.Movement.Origin)
	require.NotNil(t, res.Movement.Destination)
	assert.Equal(t, "Deposito", *res.Movement.Destination)

	// Traslado de 4 unidades Deposito -> Local
	_, err = uc.RegisterMovement(ctx, inventory.MovementInput{
		Kind: entity.MovementTraslado, Product: catalog.Existing(productID), Quantity: 4,
		Origin: "Deposito", Destination: "Local", Actor: "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), balance(t, store, productID, "Deposito"))
	assert.Equal(t, int64(4), balance(t, store, productID, "Local"))

	// Salida de 10 con saldo 6: rechazada, saldo intacto
	_, err = uc.RegisterMovement(ctx, inventory.MovementInput{
		Kind: entity.MovementSalida, Product: catalog.Existing(productID), Quantity: 10,
		Origin: "Deposito", Actor: "Ana",
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(6), insufficient.Available)
	assert.Equal(t, int64(10), insufficient.Requested)
	assert.Equal(t, "Deposito", insufficient.Location)
	assert.Equal(t, int64(6), balance(t, store, productID, "Deposito"))
	assert.Len(t, store.Movements().All(), 2)
}

func TestRegisterMovement_CreaProductoNuevo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store, nil, nil)

	res, err := uc.RegisterMovement(ctx, entrada(catalog.New("NEW-007", "Test part", nil), 3, "Local"))
	require.NoError(t, err)
	assert.True(t, res.ProductCreated)

	p, err := store.Products().GetByCode(ctx, "NEW-007")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Test part", p.Description)
	assert.Equal(t, p.ID, res.Movement.ProductID)

	// Mismo código: se reutiliza el producto
	res2, err := uc.RegisterMovement(ctx, entrada(catalog.New("NEW-007", "Otra", nil), 1, "Local"))
	require.NoError(t, err)
	assert.False(t, res2.ProductCreated)
	assert.Equal(t, p.ID, res2.Product.ID)
	assert.Equal(t, int64(4), balance(t, store, p.ID, "Local"))
}

func TestRegisterMovement_RechazoNoDejaEfectos(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store, nil, nil)

	cases := []struct {
		name  string
		input inventory.MovementInput
		is    error
	}{
		{"cantidad cero", entrada(catalog.New("X-1", "Equis", nil), 0, "Local"), domain.ErrValidation},
		{"ubicación desconocida", entrada(catalog.New("X-1", "Equis", nil), 1, "Galpon"), domain.ErrValidation},
		{"producto sin descripción", entrada(catalog.New("X-1", "", nil), 1, "Local"), domain.ErrValidation},
		{"producto inexistente", entrada(catalog.Existing("00000000-0000-0000-0000-000000000000"), 1, "Local"), domain.ErrNotFound},
		{"salida sin stock", inventory.MovementInput{
			Kind: entity.MovementSalida, Product: catalog.New("X-1", "Equis", nil), Quantity: 1, Origin: "Local", Actor: "Ana",
		}, domain.ErrInsufficientStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RegisterMovement(ctx, tc.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.is), err.Error())
		})
	}

	assert.Empty(t, store.Movements().All())
	// La salida sin stock creó el producto dentro de la tx y se revirtió
	p, err := store.Products().GetByCode(ctx, "X-1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestRegisterMovement_NormalizaEntrada(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, nil, nil)
	res, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		Kind: " entrada ", Product: catalog.New("N-1", "Nota", nil), Quantity: 2,
		Destination: " Local ", Actor: " Ana ",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementEntrada, res.Movement.Kind)
	assert.Equal(t, "Ana", res.Movement.Actor)
	assert.Equal(t, "Local", *res.Movement.Destination)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariante: saldo materializado == suma de efectos del registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_SaldoCoincideConRegistro(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store, nil, nil)

	a, err := uc.RegisterMovement(ctx, entrada(catalog.New("A", "Alfa", nil), 20, "Deposito"))
	require.NoError(t, err)
	b, err := uc.RegisterMovement(ctx, entrada(catalog.New("B", "Beta", nil), 5, "Local"))
	require.NoError(t, err)

	steps := []inventory.MovementInput{
		{Kind: entity.MovementTraslado, Product: catalog.Existing(a.Product.ID), Quantity: 7, Origin: "Deposito", Destination: "Local", Actor: "Ana"},
		{Kind: entity.MovementSalida, Product: catalog.Existing(a.Product.ID), Quantity: 3, Origin: "Local", Actor: "Luis"},
		{Kind: entity.MovementSalida, Product: catalog.Existing(b.Product.ID), Quantity: 9, Origin: "Local", Actor: "Luis"}, // rechazada
		{Kind: entity.MovementTraslado, Product: catalog.Existing(b.Product.ID), Quantity: 5, Origin: "Local", Destination: "Deposito", Actor: "Ana"},
		{Kind: entity.MovementEntrada, Product: catalog.Existing(a.Product.ID), Quantity: 1, Destination: "Local", Actor: "Ana"},
	}
	for _, in := range steps {
		_, _ = uc.RegisterMovement(ctx, in)
	}

	replayed := make(map[string]map[string]int64)
	for _, m := range store.Movements().All() {
		rules.Apply(replayed, m)
	}
	for _, p := range []string{a.Product.ID, b.Product.ID} {
		for _, loc := range testLocations.Names() {
			got := balance(t, store, p, loc)
			assert.Equal(t, replayed[p][loc], got, "producto %s en %s", p, loc)
			assert.GreaterOrEqual(t, got, int64(0))
		}
	}
	assert.Equal(t, int64(13), balance(t, store, a.Product.ID, "Deposito"))
	assert.Equal(t, int64(5), balance(t, store, a.Product.ID, "Local"))
	assert.Equal(t, int64(5), balance(t, store, b.Product.ID, "Deposito"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_SalidasConcurrentes(t *testing.T) {
	const (
		initial  = 10
		qty      = 3
		requests = 12
	)
	ctx := context.Background()
	store := memory.NewStore()
	metrics := newRecordingMetrics()
	uc := newUseCase(store, nil, metrics)

	res, err := uc.RegisterMovement(ctx, entrada(catalog.New("C-1", "Concurrente", nil), initial, "Local"))
	require.NoError(t, err)
	productID := res.Product.ID

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RegisterMovement(ctx, inventory.MovementInput{
				Kind: entity.MovementSalida, Product: catalog.Existing(productID), Quantity: qty, Origin: "Local", Actor: "Ana",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, initial/qty, ok)
	assert.Equal(t, requests-initial/qty, rejected)
	assert.Equal(t, int64(initial-(initial/qty)*qty), balance(t, store, productID, "Local"))
	assert.Equal(t, initial/qty, metrics.outcomes[inventory.OutcomeCommitted]-1)
	assert.Equal(t, rejected, metrics.outcomes[inventory.OutcomeInsufficientStock])
	assert.Equal(t, int64(initial/qty*qty), metrics.units[string(entity.MovementSalida)])
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotencia
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_ClaveIdempotente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	metrics := newRecordingMetrics()
	uc := newUseCase(store, nil, metrics)

	in := entrada(catalog.New("I-1", "Idem", nil), 5, "Deposito")
	in.IdempotencyKey = "req-1"

	first, err := uc.RegisterMovement(ctx, in)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := uc.RegisterMovement(ctx, in)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Movement.ID, second.Movement.ID)
	assert.Equal(t, first.Product.ID, second.Product.ID)

	assert.Equal(t, int64(5), balance(t, store, first.Product.ID, "Deposito"))
	assert.Len(t, store.Movements().All(), 1)
	assert.Equal(t, 1, metrics.outcomes[inventory.OutcomeReplayed])
	assert.Equal(t, int64(5), metrics.units[string(entity.MovementEntrada)])
}

func TestRegisterMovement_ClaveIdempotenteConcurrente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store, nil, nil)

	in := entrada(catalog.New("I-2", "Idem concurrente", nil), 2, "Local")
	in.IdempotencyKey = "req-concurrente"

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := uc.RegisterMovement(ctx, in)
			if assert.NoError(t, err) {
				ids[i] = res.Movement.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Len(t, store.Movements().All(), 1)
}

// keyTakenRunner simula que otra transacción confirmó la misma clave entre la lectura y el insert.
type keyTakenRunner struct {
	store *memory.Store
}

func (r keyTakenRunner) Run(ctx context.Context, fn func(repository.MovementRepository, repository.StockLedger, repository.ProductRepository) error) error {
	return r.store.Run(ctx, func(movRepo repository.MovementRepository, stockRepo repository.StockLedger, productRepo repository.ProductRepository) error {
		return fn(keyTakenMovements{movRepo}, stockRepo, productRepo)
	})
}

type keyTakenMovements struct {
	repository.MovementRepository
}

func (keyTakenMovements) GetByIdempotencyKey(context.Context, string) (*entity.Movement, error) {
	return nil, nil
}

func (keyTakenMovements) Append(context.Context, entity.MovementDraft) (*entity.Movement, error) {
	return nil, domain.ErrIdempotencyKeyTaken
}

func TestRegisterMovement_ClaveTomadaReleeGanador(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	winner := newUseCase(store, nil, nil)

	in := entrada(catalog.New("I-3", "Carrera", nil), 4, "Local")
	in.IdempotencyKey = "req-carrera"
	first, err := winner.RegisterMovement(ctx, in)
	require.NoError(t, err)

	loser := newUseCase(store, keyTakenRunner{store: store}, nil)
	res, err := loser.RegisterMovement(ctx, in)
	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.Equal(t, first.Movement.ID, res.Movement.ID)
	assert.Equal(t, int64(4), balance(t, store, first.Product.ID, "Local"), "el intento perdedor se revirtió")
}

// staleRunner entrega un ledger cuyo GetBalance devuelve un saldo viejo y mayor al real:
// el pre-chequeo pasa y el Decrement atómico es quien rechaza.
type staleRunner struct {
	store *memory.Store
	stale int64
}

func (r staleRunner) Run(ctx context.Context, fn func(repository.MovementRepository, repository.StockLedger, repository.ProductRepository) error) error {
	return r.store.Run(ctx, func(movRepo repository.MovementRepository, stockRepo repository.StockLedger, productRepo repository.ProductRepository) error {
		return fn(movRepo, staleLedger{stockRepo, r.stale}, productRepo)
	})
}

type staleLedger struct {
	repository.StockLedger
	stale int64
}

func (l staleLedger) GetBalance(context.Context, string, string) (int64, error) {
	return l.stale, nil
}

func TestRegisterMovement_PrechequeoViejoLoRechazaElDecrement(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed := newUseCase(store, nil, nil)
	res, err := seed.RegisterMovement(ctx, entrada(catalog.New("V-1", "Vincha", nil), 3, "Deposito"))
	require.NoError(t, err)
	productID := res.Product.ID
	require.NoError(t, store.Stock().Increment(ctx, productID, "Local", 2))

	uc := newUseCase(store, staleRunner{store: store, stale: 100}, nil)
	_, err = uc.RegisterMovement(ctx, inventory.MovementInput{
		Kind: entity.MovementTraslado, Product: catalog.Existing(productID), Quantity: 5,
		Origin: "Deposito", Destination: "Local", Actor: "Ana",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(3), insufficient.Available)
	assert.Equal(t, int64(5), insufficient.Requested)

	assert.Equal(t, int64(3), balance(t, store, productID, "Deposito"))
	assert.Equal(t, int64(2), balance(t, store, productID, "Local"))
	assert.Len(t, store.Movements().All(), 1, "solo la ENTRADA inicial")
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores de almacenamiento -> Transient con rollback completo
// ──────────────────────────────────────────────────────────────────────────────

type failingRunner struct {
	store *memory.Store
	err   error
}

func (r failingRunner) Run(ctx context.Context, fn func(repository.MovementRepository, repository.StockLedger, repository.ProductRepository) error) error {
	return r.store.Run(ctx, func(movRepo repository.MovementRepository, stockRepo repository.StockLedger, productRepo repository.ProductRepository) error {
		return fn(failingMovements{movRepo, r.err}, stockRepo, productRepo)
	})
}

type failingMovements struct {
	repository.MovementRepository
	err error
}

func (f failingMovements) Append(context.Context, entity.MovementDraft) (*entity.Movement, error) {
	return nil, f.err
}

func TestRegisterMovement_FallaDeAlmacenamientoEsTransitoria(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	metrics := newRecordingMetrics()
	uc := newUseCase(store, failingRunner{store: store, err: errors.New("conexión perdida")}, metrics)

	_, err := uc.RegisterMovement(ctx, entrada(catalog.New("T-1", "Transitorio", nil), 3, "Local"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransient))
	assert.False(t, domain.IsRejection(err))

	p, err := store.Products().GetByCode(ctx, "T-1")
	require.NoError(t, err)
	assert.Nil(t, p, "el producto creado en la tx se revirtió")
	assert.Empty(t, store.Movements().All())
	assert.Equal(t, 1, metrics.outcomes[inventory.OutcomeTransient])
}

// ──────────────────────────────────────────────────────────────────────────────
// Adaptador de request
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovementFromRequest(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := newUseCase(store, nil, nil)
	note := "llegó con la caja dañada"

	out, err := uc.RegisterMovementFromRequest(ctx, dto.RegisterMovementRequest{
		Kind: "ENTRADA", Code: "R-1", Description: "Remera", Quantity: 6,
		Destination: "Deposito", Actor: "Ana", Note: &note,
	})
	require.NoError(t, err)
	assert.True(t, out.ProductCreated)
	assert.Equal(t, "ENTRADA", out.Movement.Kind)
	require.NotNil(t, out.Movement.Product)
	assert.Equal(t, "R-1", out.Movement.Product.Code)
	assert.Equal(t, note, *out.Movement.Note)

	// product_id tiene prioridad sobre code
	out2, err := uc.RegisterMovementFromRequest(ctx, dto.RegisterMovementRequest{
		Kind: "SALIDA", ProductID: out.Movement.ProductID, Code: "IGNORADO", Quantity: 2,
		Origin: "Deposito", Actor: "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, out.Movement.ProductID, out2.Movement.ProductID)
	assert.False(t, out2.ProductCreated)
}
