package repository

import "github.com/jcastano/Bodega-api/internal/domain/entity"

// InboundOrderRepository define el puerto de persistencia para notas de
// ingreso y sus líneas. La nota y sus líneas se crean juntas (atómico).
type InboundOrderRepository interface {
	Create(order *entity.InboundOrder) error
	GetByID(id string) (*entity.InboundOrder, error)
	GetByDocument(documentNumber string) (*entity.InboundOrder, error)
	Update(order *entity.InboundOrder) error

	GetLineByID(id string) (*entity.InboundLine, error)
	// FindLineByCode busca una línea por código de producto o código de
	// barras, prefiriendo las que están en el estado indicado (flujo de
	// escaneo: validar prefiere PENDIENTE, almacenar prefiere VALIDADA).
	FindLineByCode(code string, prefer entity.InboundLineStatus) (*entity.InboundLine, error)
	UpdateLine(line *entity.InboundLine) error
	ListLines(orderID string) ([]*entity.InboundLine, error)
}
