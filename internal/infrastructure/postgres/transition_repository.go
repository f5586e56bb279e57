package postgres

import (
	"context"
	"fmt"

	"github.com/jcastano/Bodega-api/internal/domain/entity"
	"github.com/jcastano/Bodega-api/internal/domain/repository"
)

var _ repository.TransitionRepository = (*TransitionRepo)(nil)

// TransitionRepo implementación append-only del historial de estados.
type TransitionRepo struct {
	q Querier
}

func NewTransitionRepository(q Querier) *TransitionRepo {
	return &TransitionRepo{q: q}
}

const transitionColumns = `
	id, order_type, order_id, previous_status, new_status, actor, reason, created_at`

// Create inserta una fila del historial. Nunca hay UPDATE ni DELETE.
func (r *TransitionRepo) Create(t *entity.StateTransition) error {
	query := `
		INSERT INTO state_transitions (` + transitionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.OrderType, t.OrderID, t.PreviousStatus, t.NewStatus,
		t.Actor, t.Reason, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert state transition: %w", err)
	}
	return nil
}

// ListByOrder lista el historial de una orden en orden cronológico.
func (r *TransitionRepo) ListByOrder(orderID string) ([]*entity.StateTransition, error) {
	query := `SELECT ` + transitionColumns + ` FROM state_transitions WHERE order_id = $1 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list state transitions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StateTransition
	for rows.Next() {
		var t entity.StateTransition
		err := rows.Scan(
			&t.ID, &t.OrderType, &t.OrderID, &t.PreviousStatus, &t.NewStatus,
			&t.Actor, &t.Reason, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan state transition: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
