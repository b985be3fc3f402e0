package repository

import (
	"context"

	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// ProductFilter criterios de búsqueda en el catálogo.
// Query busca por subcadena en código o descripción sin distinguir mayúsculas.
// Location deja solo productos con saldo > 0 en esa ubicación.
type ProductFilter struct {
	Query    string
	Location string
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetByCode devuelven (nil, nil) si no existe.
type ProductRepository interface {
	// Create inserta un producto nuevo; domain.ErrConflict si el código ya existe.
	Create(ctx context.Context, product *entity.Product) error
	// CreateIfAbsent inserta el producto salvo que el código ya exista; created=false si otro lo creó antes.
	CreateIfAbsent(ctx context.Context, product *entity.Product) (created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetByIDs obtiene varios productos en una sola consulta; los inexistentes no aparecen en el mapa.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error)
	// Update modifica descripción y foto. No permite cambiar el código.
	Update(ctx context.Context, product *entity.Product) error
	// Delete elimina el producto; domain.ErrConflict si tiene movimientos.
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
}
