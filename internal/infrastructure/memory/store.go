// Package memory implementa los puertos de persistencia en memoria (STORAGE_DRIVER=memory y tests).
// Un único mutex serializa las transacciones; Run restaura una copia del estado si fn falla.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type balanceKey struct {
	productID string
	location  string
}

type state struct {
	products  map[string]*entity.Product
	byCode    map[string]string
	balances  map[balanceKey]*entity.StockBalance
	movements []*entity.Movement // orden de confirmación
	byKey     map[string]*entity.Movement
}

func newState() *state {
	return &state{
		products: make(map[string]*entity.Product),
		byCode:   make(map[string]string),
		balances: make(map[balanceKey]*entity.StockBalance),
		byKey:    make(map[string]*entity.Movement),
	}
}

// clone copia los mapas y las entidades mutables. Los movimientos son inmutables y se comparten.
func (s *state) clone() *state {
	c := newState()
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for code, id := range s.byCode {
		c.byCode[code] = id
	}
	for k, b := range s.balances {
		cb := *b
		c.balances[k] = &cb
	}
	c.movements = append([]*entity.Movement(nil), s.movements...)
	for k, m := range s.byKey {
		c.byKey[k] = m
	}
	return c
}

// Store almacenamiento en memoria con semántica transaccional.
type Store struct {
	mu    sync.RWMutex
	st    *state
	now   func() time.Time
	last  time.Time
	clock sync.Mutex
}

// Option configura el Store.
type Option func(*Store)

// WithClock reemplaza el reloj (tests con fechas fijas).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore crea un Store vacío.
func NewStore(opts ...Option) *Store {
	s := &Store{st: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run ejecuta fn con acceso exclusivo. Si fn devuelve error o entra en panic el estado vuelve al previo.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockLedger,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	committed := false
	defer func() {
		if !committed {
			s.st = snapshot
		}
	}()
	if err := fn(&MovementRepo{s: s, tx: true}, &StockRepo{s: s, tx: true}, &ProductRepo{s: s, tx: true}); err != nil {
		return err
	}
	committed = true
	return nil
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Stock saldos fuera de transacción.
func (s *Store) Stock() *StockRepo { return &StockRepo{s: s} }

// Movements registro fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Reports consultas de reportes.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{s: s} }

// read ejecuta fn con el estado; dentro de Run el lock ya está tomado.
func (s *Store) read(tx bool, fn func(st *state) error) error {
	if !tx {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn(s.st)
}

func (s *Store) write(tx bool, fn func(st *state) error) error {
	if !tx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

// timestamp devuelve una hora estrictamente creciente, como clock_timestamp() en PostgreSQL.
func (s *Store) timestamp() time.Time {
	s.clock.Lock()
	defer s.clock.Unlock()
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}
