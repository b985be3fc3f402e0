package dto

// StockSummaryRequest filtros de GET /api/stock.
// Location deja las filas con saldo > 0 en esa ubicación; OnlyEmpty las de total 0.
type StockSummaryRequest struct {
	Search    string `query:"search"`
	Location  string `query:"location"`
	OnlyEmpty bool   `query:"only_empty"`
}

// StockSummaryItem saldo consolidado de un producto.
type StockSummaryItem struct {
	Product  ProductSummary   `json:"product"`
	Balances map[string]int64 `json:"balances"`
	Total    int64            `json:"total"`
}

// StockTotals totales generales del resumen.
type StockTotals struct {
	Products         int              `json:"products"`
	UnitsPerLocation map[string]int64 `json:"units_per_location"`
	Units            int64            `json:"units"`
}

// StockSummaryResponse resultado de GET /api/stock.
type StockSummaryResponse struct {
	Items  []StockSummaryItem `json:"items"`
	Totals StockTotals        `json:"totals"`
}

// RollupDTO registros y unidades agrupados por una clave.
type RollupDTO struct {
	Key     string `json:"key"`
	Records int    `json:"records"`
	Units   int64  `json:"units"`
}

// DailyStatsResponse resultado de GET /api/stats para un día.
type DailyStatsResponse struct {
	Date             string           `json:"date"`
	TotalProducts    int              `json:"total_products"`
	TotalUnits       int64            `json:"total_units"`
	UnitsPerLocation map[string]int64 `json:"units_per_location"`
	MovementsOfDay   int              `json:"movements_of_day"`
	ByActor          []RollupDTO      `json:"by_actor"`
	ByKind           []RollupDTO      `json:"by_kind"`
}

// ReplenishmentRequest filtros de GET /api/stock/replenishment. Target <= 0 usa el valor configurado.
type ReplenishmentRequest struct {
	Location string `query:"location"`
	Source   string `query:"source"`
	Target   int64  `query:"target"`
}

// ReplenishmentSuggestion traslado sugerido para un producto.
type ReplenishmentSuggestion struct {
	Product      ProductSummary `json:"product"`
	CurrentStock int64          `json:"current_stock"`
	SourceStock  int64          `json:"source_stock"`
	SuggestedQty int64          `json:"suggested_qty"`
	Priority     int            `json:"priority"`
}

// ReplenishmentResponse lista de reposición ordenada por prioridad.
type ReplenishmentResponse struct {
	Location string                    `json:"location"`
	Source   string                    `json:"source"`
	Target   int64                     `json:"target"`
	Items    []ReplenishmentSuggestion `json:"items"`
}
