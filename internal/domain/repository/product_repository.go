package repository

import "github.com/jcastano/Bodega-api/internal/domain/entity"

// ProductRepository puerto de consulta del maestro de productos.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	// GetByCode resuelve por código interno o código de barras.
	GetByCode(code string) (*entity.Product, error)
}
