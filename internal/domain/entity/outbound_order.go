package entity

import "time"

// OutboundStatus estado global de una orden de salida.
type OutboundStatus int

const (
	OutboundPending    OutboundStatus = 0 // creada, picking sin iniciar
	OutboundPicking    OutboundStatus = 1 // picking en curso
	OutboundCompleted  OutboundStatus = 2 // picking terminado
	OutboundDispatched OutboundStatus = 3 // despachada (terminal)
	OutboundVoided     OutboundStatus = 4 // anulada (terminal)
)

// String devuelve el nombre legible del estado.
func (s OutboundStatus) String() string {
	switch s {
	case OutboundPending:
		return "PENDIENTE"
	case OutboundPicking:
		return "EN_PICKING"
	case OutboundCompleted:
		return "COMPLETADA"
	case OutboundDispatched:
		return "DESPACHADA"
	case OutboundVoided:
		return "ANULADA"
	}
	return "DESCONOCIDO"
}

// outboundTransitions tabla de transiciones permitidas. ANULADA es alcanzable
// desde cualquier estado no terminal; el sistema original no lo restringía y
// la operación lo mantiene así.
var outboundTransitions = map[OutboundStatus][]OutboundStatus{
	OutboundPending:    {OutboundPicking, OutboundVoided},
	OutboundPicking:    {OutboundCompleted, OutboundVoided},
	OutboundCompleted:  {OutboundDispatched, OutboundVoided},
	OutboundDispatched: {},
	OutboundVoided:     {},
}

// CanTransitionTo indica si la tabla permite pasar del estado actual a target.
func (s OutboundStatus) CanTransitionTo(target OutboundStatus) bool {
	for _, t := range outboundTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal indica si el estado es un sumidero.
func (s OutboundStatus) IsTerminal() bool {
	return s == OutboundDispatched || s == OutboundVoided
}

// Orígenes de una orden de salida.
const (
	OutboundSourceManual = "manual"
	OutboundSourceERP    = "erp"
)

// OutboundOrder representa una orden de salida: el documento que ampara el
// despacho de mercadería mediante picking.
type OutboundOrder struct {
	ID               string
	DocumentNumber   string // número externo, único
	Client           string
	Destination      string
	Priority         int    // 1 = alta .. 3 = baja
	Source           string // manual | erp
	Status           OutboundStatus
	WarehouseID      string // puede quedar vacío si el código no resolvió
	CreatedBy        string
	CreatedAt        time.Time
	PickerName       string
	PickingStartedAt *time.Time
	PickingEndedAt   *time.Time
	DispatchedBy     string
	DispatchedAt     *time.Time
	Lines            []*OutboundLine
}

// AggregateOutboundStatus recalcula el estado global del picking:
// todas pendientes -> PENDIENTE, todas pickeadas -> COMPLETADA,
// cualquier mezcla -> EN_PICKING.
func AggregateOutboundStatus(lines []*OutboundLine) OutboundStatus {
	if len(lines) == 0 {
		return OutboundPending
	}
	pending, picked := 0, 0
	for _, l := range lines {
		switch l.Status {
		case OutboundLinePending:
			pending++
		case OutboundLinePicked:
			picked++
		}
	}
	switch len(lines) {
	case pending:
		return OutboundPending
	case picked:
		return OutboundCompleted
	}
	return OutboundPicking
}
