package repository

import "github.com/jcastano/Bodega-api/internal/domain/entity"

// TransitionRepository define el puerto del historial de estados.
// Solo inserta y lista: las filas jamás se actualizan ni se borran.
type TransitionRepository interface {
	Create(t *entity.StateTransition) error
	ListByOrder(orderID string) ([]*entity.StateTransition, error)
}
