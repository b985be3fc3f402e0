package entity

import "time"

// Product representa un artículo del catálogo. Code es la clave de negocio inmutable.
// PhotoURL es una referencia opaca producida por el almacén de blobs externo.
type Product struct {
	ID          string
	Code        string
	Description string
	PhotoURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
