package inventory

import (
	"context"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/domain/catalog"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInput).
// product_id tiene prioridad; sin él se usa code + description (rama New de ProductRef).
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, in dto.RegisterMovementRequest) (*dto.RegisterMovementResponse, error) {
	ref := catalog.New(in.Code, in.Description, in.PhotoURL)
	if in.ProductID != "" {
		ref = catalog.Existing(in.ProductID)
	}
	res, err := uc.RegisterMovement(ctx, MovementInput{
		Kind:           entity.MovementKind(in.Kind),
		Product:        ref,
		Quantity:       in.Quantity,
		Origin:         in.Origin,
		Destination:    in.Destination,
		Actor:          in.Actor,
		Note:           in.Note,
		PhotoURL:       in.PhotoURL,
		IdempotencyKey: in.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}
	return &dto.RegisterMovementResponse{
		Movement:       ToMovementResponse(res.Movement, res.Product),
		ProductCreated: res.ProductCreated,
		Replayed:       res.Replayed,
	}, nil
}

// ToMovementResponse convierte la entidad al DTO; product puede ser nil.
func ToMovementResponse(m *entity.Movement, product *entity.Product) dto.MovementResponse {
	out := dto.MovementResponse{
		ID:          m.ID,
		Kind:        string(m.Kind),
		Quantity:    m.Quantity,
		Origin:      m.Origin,
		Destination: m.Destination,
		Actor:       m.Actor,
		Note:        m.Note,
		PhotoURL:    m.PhotoURL,
		ProductID:   m.ProductID,
		CreatedAt:   m.CreatedAt,
	}
	if product != nil {
		out.Product = ToProductSummary(product)
	}
	return out
}

// ToProductSummary vista reducida del producto.
func ToProductSummary(p *entity.Product) *dto.ProductSummary {
	return &dto.ProductSummary{ID: p.ID, Code: p.Code, Description: p.Description, PhotoURL: p.PhotoURL}
}
