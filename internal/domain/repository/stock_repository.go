package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jcastano/Bodega-api/internal/domain/entity"
)

// StockRepository define el puerto de persistencia del libro de stock.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	GetByID(id string) (*entity.StockEntry, error)
	GetByProductAndLocation(productID, location string) (*entity.StockEntry, error)
	// GetByProductAndLocationForUpdate bloquea la fila (SELECT FOR UPDATE)
	// para el merge-on-write de Add dentro de una transacción.
	GetByProductAndLocationForUpdate(productID, location string) (*entity.StockEntry, error)
	Create(e *entity.StockEntry) error
	Update(e *entity.StockEntry) error
	ListByProduct(productID string) ([]*entity.StockEntry, error)
	// ListCandidates devuelve entradas DISPONIBLES del producto con cantidad
	// suficiente, junto con el vencimiento de su línea de ingreso origen.
	// El orden FEFO/FIFO lo aplica el libro, no el repositorio.
	ListCandidates(productID string, required decimal.Decimal) ([]*entity.StockCandidate, error)
}
