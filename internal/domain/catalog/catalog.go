// Package catalog resuelve la identidad de productos: por ID existente o por código nuevo.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

// ProductRef unión de dos ramas: producto existente (ID) o producto nuevo (Code + Description).
// Construir con Existing o New.
type ProductRef struct {
	id          string
	code        string
	description string
	photoURL    *string
}

// Existing referencia un producto por ID.
func Existing(id string) ProductRef {
	return ProductRef{id: strings.TrimSpace(id)}
}

// New referencia un producto por código; se crea si no existe.
func New(code, description string, photoURL *string) ProductRef {
	return ProductRef{code: code, description: description, photoURL: photoURL}
}

// IsExisting indica si la referencia es por ID.
func (r ProductRef) IsExisting() bool { return r.id != "" }

// ID devuelve el ID (vacío en la rama New).
func (r ProductRef) ID() string { return r.id }

// Code devuelve el código (vacío en la rama Existing).
func (r ProductRef) Code() string { return r.code }

// Validate comprueba que la referencia esté bien formada sin tocar el almacenamiento.
func (r ProductRef) Validate() error {
	if r.IsExisting() {
		return nil
	}
	if strings.TrimSpace(r.code) == "" && strings.TrimSpace(r.description) == "" {
		return domain.NewValidationError("producto", "debe proporcionar producto_id o codigo+descripcion")
	}
	return validateNew(r.code, r.description)
}

func validateNew(code, description string) error {
	if strings.TrimSpace(code) == "" {
		return domain.NewValidationError("codigo", "es requerido")
	}
	if strings.TrimSpace(description) == "" {
		return domain.NewValidationError("descripcion", "es requerida")
	}
	return nil
}

// Resolve obtiene el producto de la referencia. Existing inexistente -> *domain.NotFoundError.
func Resolve(ctx context.Context, repo repository.ProductRepository, ref ProductRef) (*entity.Product, bool, error) {
	if ref.IsExisting() {
		p, err := repo.GetByID(ctx, ref.id)
		if err != nil {
			return nil, false, err
		}
		if p == nil {
			return nil, false, &domain.NotFoundError{Resource: "producto", ID: ref.id}
		}
		return p, false, nil
	}
	return ResolveOrCreate(ctx, repo, ref.code, ref.description, ref.photoURL)
}

// ResolveOrCreate busca por código y, si no existe, lo crea con la descripción y foto dadas.
// Idempotente por código: si otra transacción gana la carrera de creación, se relee por código.
// created indica si esta llamada insertó el producto.
func ResolveOrCreate(ctx context.Context, repo repository.ProductRepository, code, description string, photoURL *string) (*entity.Product, bool, error) {
	code = strings.TrimSpace(code)
	description = strings.TrimSpace(description)
	if err := validateNew(code, description); err != nil {
		return nil, false, err
	}
	existing, err := repo.GetByCode(ctx, code)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	now := time.Now().UTC()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Code:        code,
		Description: description,
		PhotoURL:    NormalizeOptional(photoURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := repo.CreateIfAbsent(ctx, p)
	if err != nil {
		return nil, false, err
	}
	if created {
		return p, true, nil
	}
	winner, err := repo.GetByCode(ctx, code)
	if err != nil {
		return nil, false, err
	}
	if winner == nil {
		return nil, false, &domain.ConflictError{Reason: "el código " + code + " no pudo resolverse"}
	}
	return winner, false, nil
}

// NormalizeOptional recorta el texto y devuelve nil si queda vacío.
func NormalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
