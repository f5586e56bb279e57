package entity

import "time"

// Tipos de orden dueña de una transición de estado.
const (
	OrderTypeInbound  = "INGRESO"
	OrderTypeOutbound = "SALIDA"
)

// StateTransition fila del historial de estados: quién movió qué orden, de
// qué estado a cuál y por qué. Append-only; nunca se actualiza ni se borra.
type StateTransition struct {
	ID             string
	OrderType      string // INGRESO | SALIDA
	OrderID        string
	PreviousStatus string
	NewStatus      string
	Actor          string
	Reason         string
	CreatedAt      time.Time
}
