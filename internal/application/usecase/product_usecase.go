package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/domain/catalog"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
)

const (
	defaultProductLimit = 50
	maxProductLimit     = 200
)

// ProductUseCase casos de uso CRUD del catálogo. El stock se maneja solo vía movimientos.
type ProductUseCase struct {
	repo      repository.ProductRepository
	movRepo   repository.MovementRepository
	locations entity.LocationSet
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, movRepo repository.MovementRepository, locations entity.LocationSet) *ProductUseCase {
	return &ProductUseCase{repo: repo, movRepo: movRepo, locations: locations}
}

// Create crea un producto explícitamente. Código duplicado -> ConflictError.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	description := strings.TrimSpace(in.Description)
	if code == "" {
		return nil, domain.NewValidationError("code", "es requerido")
	}
	if description == "" {
		return nil, domain.NewValidationError("description", "es requerida")
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Code:        code,
		Description: description,
		PhotoURL:    catalog.NormalizeOptional(in.PhotoURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, storageErr("crear producto", err)
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza descripción y foto. El código es inmutable; foto vacía la elimina.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, domain.NewValidationError("description", "no puede quedar vacía")
		}
		product.Description = description
	}
	if in.PhotoURL != nil {
		product.PhotoURL = catalog.NormalizeOptional(in.PhotoURL)
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, storageErr("actualizar producto", err)
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto sin historial. Con movimientos -> ConflictError (no se borra en cascada).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	referenced, err := uc.movRepo.ExistsForProduct(ctx, product.ID)
	if err != nil {
		return storageErr("verificar movimientos", err)
	}
	if referenced {
		return &domain.ConflictError{Reason: "el producto " + product.Code + " tiene movimientos registrados y no puede eliminarse"}
	}
	if err := uc.repo.Delete(ctx, product.ID); err != nil {
		return storageErr("eliminar producto", err)
	}
	return nil
}

// Search busca por subcadena en código o descripción; location filtra por saldo > 0.
func (uc *ProductUseCase) Search(ctx context.Context, in dto.SearchProductsRequest) (*dto.ProductListResponse, error) {
	in.Normalize(defaultProductLimit, maxProductLimit)
	location := strings.TrimSpace(in.Location)
	if location != "" && !uc.locations.Contains(location) {
		return nil, domain.NewValidationError("location", "ubicación desconocida: "+location)
	}
	list, err := uc.repo.Search(ctx, repository.ProductFilter{
		Query:    strings.TrimSpace(in.Query),
		Location: location,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return nil, storageErr("buscar productos", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("id", "es requerido")
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("obtener producto", err)
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "producto", ID: id}
	}
	return product, nil
}

// storageErr deja pasar los errores de dominio y envuelve el resto como transitorio.
func storageErr(op string, err error) error {
	if domain.IsRejection(err) {
		return err
	}
	return &domain.TransientError{Op: op, Err: err}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Description: p.Description,
		PhotoURL:    p.PhotoURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
