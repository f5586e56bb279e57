package history

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jcastano/Bodega-api/internal/domain/entity"
	"github.com/jcastano/Bodega-api/internal/domain/repository"
)

// Recorder escribe el historial de estados. El historial es best-effort: un
// fallo al insertar se registra como warning y no aborta la transición que
// lo originó.
type Recorder struct {
	repo repository.TransitionRepository
	log  zerolog.Logger
}

// NewRecorder construye el recorder con el repo de pool (para listados) y el
// logger de la aplicación.
func NewRecorder(repo repository.TransitionRepository, log zerolog.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record inserta una fila de historial usando el repo indicado (pool o tx).
func (r *Recorder) Record(repo repository.TransitionRepository, orderType, orderID, prev, next, actor, reason string, now time.Time) {
	t := &entity.StateTransition{
		ID:             uuid.New().String(),
		OrderType:      orderType,
		OrderID:        orderID,
		PreviousStatus: prev,
		NewStatus:      next,
		Actor:          actor,
		Reason:         reason,
		CreatedAt:      now,
	}
	if err := repo.Create(t); err != nil {
		r.log.Warn().
			Err(err).
			Str("order_type", orderType).
			Str("order_id", orderID).
			Str("previous", prev).
			Str("new", next).
			Msg("no se pudo escribir el historial de estados")
	}
}

// HistoryFor lista el historial de una orden, más antiguo primero.
func (r *Recorder) HistoryFor(orderID string) ([]*entity.StateTransition, error) {
	return r.repo.ListByOrder(orderID)
}
