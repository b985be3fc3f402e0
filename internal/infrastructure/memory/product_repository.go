package memory

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo en memoria.
type ProductRepo struct {
	s  *Store
	tx bool
}

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.s.write(r.tx, func(st *state) error {
		if _, ok := st.byCode[product.Code]; ok {
			return &domain.ConflictError{Reason: "ya existe un producto con código " + product.Code}
		}
		insertProduct(st, product)
		return nil
	})
}

func (r *ProductRepo) CreateIfAbsent(ctx context.Context, product *entity.Product) (bool, error) {
	created := false
	err := r.s.write(r.tx, func(st *state) error {
		if _, ok := st.byCode[product.Code]; ok {
			return nil
		}
		insertProduct(st, product)
		created = true
		return nil
	})
	return created, err
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.read(r.tx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	err := r.s.read(r.tx, func(st *state) error {
		for _, id := range ids {
			if p, ok := st.products[id]; ok {
				cp := *p
				out[id] = &cp
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.read(r.tx, func(st *state) error {
		if id, ok := st.byCode[code]; ok {
			cp := *st.products[id]
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	return r.s.write(r.tx, func(st *state) error {
		p, ok := st.products[product.ID]
		if !ok {
			return &domain.NotFoundError{Resource: "producto", ID: product.ID}
		}
		p.Description = product.Description
		p.PhotoURL = product.PhotoURL
		p.UpdatedAt = product.UpdatedAt
		return nil
	})
}

// Delete falla con ConflictError si hay movimientos o saldos, igual que la FK en PostgreSQL.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(r.tx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return &domain.NotFoundError{Resource: "producto", ID: id}
		}
		for _, m := range st.movements {
			if m.ProductID == id {
				return &domain.ConflictError{Reason: "el producto tiene movimientos o saldos registrados"}
			}
		}
		for k := range st.balances {
			if k.productID == id {
				return &domain.ConflictError{Reason: "el producto tiene movimientos o saldos registrados"}
			}
		}
		delete(st.byCode, p.Code)
		delete(st.products, id)
		return nil
	})
}

// Search compara sin distinguir mayúsculas (case folding Unicode).
func (r *ProductRepo) Search(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.s.read(r.tx, func(st *state) error {
		for _, p := range sortedProducts(st) {
			if !matches(p, filter.Query) {
				continue
			}
			if filter.Location != "" {
				b, ok := st.balances[balanceKey{p.ID, filter.Location}]
				if !ok || b.Quantity <= 0 {
					continue
				}
			}
			cp := *p
			out = append(out, &cp)
		}
		return nil
	})
	return page(out, filter.Limit, filter.Offset), err
}

func insertProduct(st *state, product *entity.Product) {
	cp := *product
	st.products[cp.ID] = &cp
	st.byCode[cp.Code] = cp.ID
}

// sortedProducts más recientes primero, desempate por código.
func sortedProducts(st *state) []*entity.Product {
	list := make([]*entity.Product, 0, len(st.products))
	for _, p := range st.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].Code < list[j].Code
	})
	return list
}

func matches(p *entity.Product, query string) bool {
	if query == "" {
		return true
	}
	fold := cases.Fold()
	q := fold.String(query)
	return strings.Contains(fold.String(p.Code), q) || strings.Contains(fold.String(p.Description), q)
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
