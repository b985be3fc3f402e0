package entity

import "time"

// StockBalance representa el saldo actual de un producto en una ubicación (tabla materializada).
// Quantity nunca es negativa; un saldo en cero es un estado válido, no una ausencia.
type StockBalance struct {
	ProductID string
	Location  string
	Quantity  int64
	UpdatedAt time.Time
}
