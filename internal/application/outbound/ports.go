package outbound

import (
	"context"

	"github.com/jcastano/Bodega-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la orden, sus líneas, la
// rebaja del libro de stock y el historial muten como una sola unidad.
type TxRunner interface {
	RunOutbound(ctx context.Context, fn func(
		orders repository.OutboundOrderRepository,
		stockRepo repository.StockRepository,
		histRepo repository.TransitionRepository,
	) error) error
}

// VoucherPDFGenerator genera la representación imprimible del vale de picking.
type VoucherPDFGenerator interface {
	GenerateVoucherPDF(ctx context.Context, v *Voucher) ([]byte, error)
}
