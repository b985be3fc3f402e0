package dto

import "time"

// CreateProductRequest entrada para crear un producto explícitamente.
type CreateProductRequest struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	PhotoURL    *string `json:"photo_url"`
}

// UpdateProductRequest entrada para actualizar un producto (el código es inmutable).
type UpdateProductRequest struct {
	Description *string `json:"description"`
	PhotoURL    *string `json:"photo_url"`
}

// SearchProductsRequest filtros de GET /api/products.
type SearchProductsRequest struct {
	Query    string `query:"search"`
	Location string `query:"location"`
	PageRequest
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	PhotoURL    *string   `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductSummary vista reducida del producto embebida en movimientos y stock.
type ProductSummary struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	PhotoURL    *string `json:"photo_url"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
