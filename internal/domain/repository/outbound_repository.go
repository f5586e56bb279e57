package repository

import "github.com/jcastano/Bodega-api/internal/domain/entity"

// OutboundOrderRepository define el puerto de persistencia para órdenes de
// salida y sus líneas de picking.
type OutboundOrderRepository interface {
	Create(order *entity.OutboundOrder) error
	GetByID(id string) (*entity.OutboundOrder, error)
	GetByDocument(documentNumber string) (*entity.OutboundOrder, error)
	Update(order *entity.OutboundOrder) error

	GetLineByID(id string) (*entity.OutboundLine, error)
	UpdateLine(line *entity.OutboundLine) error
	ListLines(orderID string) ([]*entity.OutboundLine, error)
}
