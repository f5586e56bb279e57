package inbound

import (
	"context"

	"github.com/jcastano/Bodega-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la mutación de la nota, sus
// líneas, el libro de stock y el historial ocurran como una sola unidad.
type TxRunner interface {
	RunInbound(ctx context.Context, fn func(
		orders repository.InboundOrderRepository,
		stockRepo repository.StockRepository,
		histRepo repository.TransitionRepository,
	) error) error
}
