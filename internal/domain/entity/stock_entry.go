package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una entrada de stock.
const (
	StockAvailable = "DISPONIBLE"
	StockBlocked   = "BLOQUEADO"
)

// StockEntry saldo de un producto en una ubicación concreta de la bodega.
// La unicidad por (producto, ubicación) es lógica: Add fusiona sobre la
// entrada existente antes de crear una nueva. La cantidad nunca es negativa.
type StockEntry struct {
	ID             string
	ProductID      string
	Location       string
	Quantity       decimal.Decimal
	Status         string // DISPONIBLE | BLOQUEADO
	InboundLineID  string // línea de ingreso que lo originó (lote/vencimiento)
	LastMovementAt time.Time
}

// StockCandidate entrada de stock candidata para sugerencia de ubicación,
// con el vencimiento de la línea de ingreso que la originó ya resuelto.
type StockCandidate struct {
	Entry     *StockEntry
	ExpiresAt *time.Time // nil = sin vencimiento, ordena al final en FEFO
}
