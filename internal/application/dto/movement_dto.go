package dto

import "time"

// RegisterMovementRequest body para POST /api/movements.
// Producto: product_id (existente) o code + description (se crea si no existe).
type RegisterMovementRequest struct {
	Kind           string  `json:"kind"`
	ProductID      string  `json:"product_id,omitempty"`
	Code           string  `json:"code,omitempty"`
	Description    string  `json:"description,omitempty"`
	Quantity       int64   `json:"quantity"`
	Origin         string  `json:"origin,omitempty"`
	Destination    string  `json:"destination,omitempty"`
	Actor          string  `json:"actor"`
	Note           *string `json:"note,omitempty"`
	PhotoURL       *string `json:"photo_url,omitempty"`
	IdempotencyKey string  `json:"idempotency_key,omitempty"`
}

// MovementResponse salida de un movimiento con el resumen del producto.
type MovementResponse struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Quantity    int64           `json:"quantity"`
	Origin      *string         `json:"origin"`
	Destination *string         `json:"destination"`
	Actor       string          `json:"actor"`
	Note        *string         `json:"note"`
	PhotoURL    *string         `json:"photo_url"`
	ProductID   string          `json:"product_id"`
	Product     *ProductSummary `json:"product,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RegisterMovementResponse resultado de POST /api/movements.
type RegisterMovementResponse struct {
	Movement       MovementResponse `json:"movement"`
	ProductCreated bool             `json:"product_created"`
	Replayed       bool             `json:"replayed"`
}

// ListMovementsRequest filtros de GET /api/movements. From/To en formato YYYY-MM-DD; To incluye el día completo.
type ListMovementsRequest struct {
	Kind      string `query:"kind"`
	ProductID string `query:"product_id"`
	Actor     string `query:"actor"`
	From      string `query:"from"`
	To        string `query:"to"`
	PageRequest
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BalanceResponse saldo de un producto en una ubicación.
type BalanceResponse struct {
	ProductID string `json:"product_id"`
	Location  string `json:"location"`
	Quantity  int64  `json:"quantity"`
}
