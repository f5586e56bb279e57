package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcastano/Bodega-api/internal/domain/entity"
)

// La tabla de transiciones explícitas de notas de ingreso es cerrada:
// cualquier salto no listado debe rechazarse.
func TestInboundStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		name    string
		from    entity.InboundStatus
		to      entity.InboundStatus
		allowed bool
	}{
		{"paletizada a validada", entity.InboundPalletized, entity.InboundValidated, true},
		{"paletizada a anulada", entity.InboundPalletized, entity.InboundVoided, true},
		{"paletizada a almacenada (salto)", entity.InboundPalletized, entity.InboundStored, false},
		{"validada a almacenada", entity.InboundValidated, entity.InboundStored, true},
		{"validada a anulada", entity.InboundValidated, entity.InboundVoided, true},
		{"validada a paletizada (regresión)", entity.InboundValidated, entity.InboundPalletized, false},
		{"almacenada es terminal", entity.InboundStored, entity.InboundVoided, false},
		{"anulada es terminal", entity.InboundVoided, entity.InboundValidated, false},
		{"parcial no transiciona explícitamente", entity.InboundPartial, entity.InboundValidated, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestInboundStatus_IsTerminal(t *testing.T) {
	assert.True(t, entity.InboundStored.IsTerminal())
	assert.True(t, entity.InboundVoided.IsTerminal())
	assert.False(t, entity.InboundPalletized.IsTerminal())
	assert.False(t, entity.InboundValidated.IsTerminal())
	assert.False(t, entity.InboundPartial.IsTerminal())
}

func TestInboundStatus_String(t *testing.T) {
	assert.Equal(t, "PALETIZADA", entity.InboundPalletized.String())
	assert.Equal(t, "VALIDADA", entity.InboundValidated.String())
	assert.Equal(t, "ALMACENADA", entity.InboundStored.String())
	assert.Equal(t, "ANULADA", entity.InboundVoided.String())
	assert.Equal(t, "PARCIAL", entity.InboundPartial.String())
	assert.Equal(t, "DESCONOCIDO", entity.InboundStatus(99).String())
}

// La agregación deriva el estado global desde las líneas: homogéneo gana el
// estado de todas; cualquier mezcla produce PARCIAL.
func TestAggregateInboundStatus(t *testing.T) {
	line := func(s entity.InboundLineStatus) *entity.InboundLine {
		return &entity.InboundLine{Status: s}
	}
	cases := []struct {
		name  string
		lines []*entity.InboundLine
		want  entity.InboundStatus
	}{
		{"sin líneas", nil, entity.InboundPalletized},
		{"todas pendientes", []*entity.InboundLine{line(entity.InboundLinePending), line(entity.InboundLinePending)}, entity.InboundPalletized},
		{"todas validadas", []*entity.InboundLine{line(entity.InboundLineValidated), line(entity.InboundLineValidated)}, entity.InboundValidated},
		{"todas almacenadas", []*entity.InboundLine{line(entity.InboundLineStored), line(entity.InboundLineStored)}, entity.InboundStored},
		{"mezcla pendiente/validada", []*entity.InboundLine{line(entity.InboundLinePending), line(entity.InboundLineValidated)}, entity.InboundPartial},
		{"mezcla validada/almacenada", []*entity.InboundLine{line(entity.InboundLineValidated), line(entity.InboundLineStored)}, entity.InboundPartial},
		{"mezcla pendiente/almacenada", []*entity.InboundLine{line(entity.InboundLinePending), line(entity.InboundLineStored)}, entity.InboundPartial},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, entity.AggregateInboundStatus(tc.lines))
		})
	}
}
