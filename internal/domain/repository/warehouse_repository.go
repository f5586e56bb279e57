package repository

import "github.com/jcastano/Bodega-api/internal/domain/entity"

// WarehouseRepository puerto de consulta del maestro de bodegas.
type WarehouseRepository interface {
	GetByCode(code string) (*entity.Warehouse, error)
}
