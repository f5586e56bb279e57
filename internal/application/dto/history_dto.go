package dto

import (
	"time"

	"github.com/jcastano/Bodega-api/internal/domain/entity"
)

// StateTransitionResponse fila del historial de estados.
type StateTransitionResponse struct {
	ID             string    `json:"id"`
	OrderType      string    `json:"order_type"`
	OrderID        string    `json:"order_id"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	NewStatus      string    `json:"new_status"`
	Actor          string    `json:"actor,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToStateTransitionResponses mapea el historial a sus DTOs.
func ToStateTransitionResponses(list []*entity.StateTransition) []StateTransitionResponse {
	out := make([]StateTransitionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, StateTransitionResponse{
			ID:             t.ID,
			OrderType:      t.OrderType,
			OrderID:        t.OrderID,
			PreviousStatus: t.PreviousStatus,
			NewStatus:      t.NewStatus,
			Actor:          t.Actor,
			Reason:         t.Reason,
			CreatedAt:      t.CreatedAt,
		})
	}
	return out
}
