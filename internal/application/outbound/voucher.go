package outbound

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastano/Bodega-api/internal/domain/entity"
	"github.com/jcastano/Bodega-api/internal/domain/repository"
)

// Voucher vale de picking: proyección de solo lectura que se emite al
// completar una orden de salida. No se persiste; se reconstruye a demanda.
type Voucher struct {
	DocumentNumber string
	Client         string
	Destination    string
	WarehouseID    string
	Picker         string
	StartedAt      *time.Time
	CompletedAt    *time.Time
	Elapsed        string // HH:MM:SS entre inicio y fin del picking
	Lines          []VoucherLine
	TotalLines     int
	TotalPicked    decimal.Decimal
}

// VoucherLine fila del vale: una línea pickeada.
type VoucherLine struct {
	ProductCode  string
	Description  string
	RequestedQty decimal.Decimal
	PickedQty    decimal.Decimal
	Location     string
	Elapsed      string
}

// buildVoucher arma el vale desde la orden completada. Las descripciones se
// resuelven contra el maestro de productos; un código sin maestro queda con
// descripción vacía en vez de abortar la emisión.
func buildVoucher(order *entity.OutboundOrder, products repository.ProductRepository) (*Voucher, error) {
	v := &Voucher{
		DocumentNumber: order.DocumentNumber,
		Client:         order.Client,
		Destination:    order.Destination,
		WarehouseID:    order.WarehouseID,
		Picker:         order.PickerName,
		StartedAt:      order.PickingStartedAt,
		CompletedAt:    order.PickingEndedAt,
		TotalLines:     len(order.Lines),
		TotalPicked:    decimal.Zero,
	}
	if order.PickingStartedAt != nil && order.PickingEndedAt != nil {
		v.Elapsed = formatElapsed(order.PickingEndedAt.Sub(*order.PickingStartedAt))
	}
	for _, l := range order.Lines {
		desc := ""
		product, err := products.GetByCode(l.ProductCode)
		if err != nil {
			return nil, err
		}
		if product != nil {
			desc = product.Description
		}
		v.Lines = append(v.Lines, VoucherLine{
			ProductCode:  l.ProductCode,
			Description:  desc,
			RequestedQty: l.RequestedQty,
			PickedQty:    l.PickedQty,
			Location:     l.SuggestedLocation,
			Elapsed:      formatElapsed(time.Duration(l.PickingSeconds) * time.Second),
		})
		v.TotalPicked = v.TotalPicked.Add(l.PickedQty)
	}
	return v, nil
}

// formatElapsed formatea una duración como HH:MM:SS.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
