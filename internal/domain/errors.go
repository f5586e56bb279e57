package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicateDocument = errors.New("número de documento duplicado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrAlreadyProcessed  = errors.New("la línea ya fue procesada")
	ErrAlreadyPicked     = errors.New("la línea ya fue pickeada")
	ErrSameStatus        = errors.New("el estado destino es igual al actual")
)

// InvalidTransitionError indica un intento de transición no permitida por la
// tabla de estados. Incluye el estado actual y el solicitado para diagnóstico.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transición de estado no permitida: %s -> %s", e.From, e.To)
}

// NewInvalidTransitionError construye el error con los nombres de ambos estados.
func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

// IncompletePickingError indica que se intentó completar una orden de salida
// con líneas aún pendientes de picking.
type IncompletePickingError struct {
	Pending int
}

func (e *IncompletePickingError) Error() string {
	return fmt.Sprintf("picking incompleto: %d línea(s) pendiente(s)", e.Pending)
}
