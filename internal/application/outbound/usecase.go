package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jcastano/Bodega-api/internal/application/history"
	"github.com/jcastano/Bodega-api/internal/application/stock"
	"github.com/jcastano/Bodega-api/internal/domain"
	"github.com/jcastano/Bodega-api/internal/domain/entity"
	"github.com/jcastano/Bodega-api/internal/domain/repository"
	"github.com/jcastano/Bodega-api/internal/pkg/keyedmutex"
)

// UseCase máquina de estados de órdenes de salida y picking: crea la orden
// con ubicación sugerida por línea (FEFO/FIFO), avanza el picking línea a
// línea rebajando el libro de stock y emite el vale al completar. Igual que
// en ingreso, cada orden muta bajo su propio mutex.
type UseCase struct {
	txRunner   TxRunner
	orders     repository.OutboundOrderRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	ledger     *stock.Ledger
	recorder   *history.Recorder
	pdfGen     VoucherPDFGenerator
	locks      *keyedmutex.KeyedMutex
	log        zerolog.Logger
}

// NewUseCase construye el caso de uso. pdfGen puede ser nil si el despliegue
// no expone el vale imprimible.
func NewUseCase(
	txRunner TxRunner,
	orders repository.OutboundOrderRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	ledger *stock.Ledger,
	recorder *history.Recorder,
	pdfGen VoucherPDFGenerator,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		orders:     orders,
		products:   products,
		warehouses: warehouses,
		ledger:     ledger,
		recorder:   recorder,
		pdfGen:     pdfGen,
		locks:      keyedmutex.New(),
		log:        log,
	}
}

// CreateOrderLine par (producto, cantidad) solicitado.
type CreateOrderLine struct {
	ProductCode string
	Qty         decimal.Decimal
}

// CreateOrderInput entrada para crear una orden de salida.
type CreateOrderInput struct {
	DocumentNumber string
	Client         string
	Destination    string
	Priority       int    // 1 = alta .. 3 = baja; 0 asume 3
	Source         string // manual | erp; vacío asume manual
	WarehouseCode  string
	Actor          string
	Lines          []CreateOrderLine
}

// CreateOrder valida la unicidad del documento, resuelve la bodega por
// código (su ausencia se tolera) y pide al libro una ubicación sugerida por
// línea; la orden y sus líneas se persisten juntas.
func (uc *UseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.OutboundOrder, error) {
	if in.DocumentNumber == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Priority == 0 {
		in.Priority = 3
	}
	if in.Priority < 1 || in.Priority > 3 {
		return nil, domain.ErrInvalidInput
	}
	if in.Source == "" {
		in.Source = entity.OutboundSourceManual
	}
	if in.Source != entity.OutboundSourceManual && in.Source != entity.OutboundSourceERP {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.orders.GetByDocument(in.DocumentNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateDocument
	}

	warehouseID := ""
	if in.WarehouseCode != "" {
		wh, err := uc.warehouses.GetByCode(in.WarehouseCode)
		if err != nil {
			return nil, err
		}
		if wh != nil {
			warehouseID = wh.ID
		}
	}

	now := time.Now()
	order := &entity.OutboundOrder{
		ID:             uuid.New().String(),
		DocumentNumber: in.DocumentNumber,
		Client:         in.Client,
		Destination:    in.Destination,
		Priority:       in.Priority,
		Source:         in.Source,
		Status:         entity.OutboundPending,
		WarehouseID:    warehouseID,
		CreatedBy:      in.Actor,
		CreatedAt:      now,
	}
	for _, l := range in.Lines {
		if l.ProductCode == "" || l.Qty.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.products.GetByCode(l.ProductCode)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		location := ""
		suggested, err := uc.ledger.Suggest(product.ID, l.Qty)
		if err != nil {
			return nil, err
		}
		if suggested != nil {
			location = suggested.Location
		}
		order.Lines = append(order.Lines, &entity.OutboundLine{
			ID:                uuid.New().String(),
			OrderID:           order.ID,
			ProductCode:       l.ProductCode,
			RequestedQty:      l.Qty,
			PickedQty:         decimal.Zero,
			SuggestedLocation: location,
			Status:            entity.OutboundLinePending,
		})
	}

	err = uc.txRunner.RunOutbound(ctx, func(
		orders repository.OutboundOrderRepository,
		_ repository.StockRepository,
		histRepo repository.TransitionRepository,
	) error {
		if err := orders.Create(order); err != nil {
			return err
		}
		uc.recorder.Record(histRepo, entity.OrderTypeOutbound, order.ID,
			"", order.Status.String(), in.Actor, "creación de orden de salida", now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// StartPicking arranca el picking de una orden PENDIENTE. Reentrante: si la
// orden ya está EN_PICKING no falla ni escribe otra fila de historial.
func (uc *UseCase) StartPicking(ctx context.Context, orderID, actor string) (*entity.OutboundOrder, error) {
	uc.locks.Lock(orderID)
	defer uc.locks.Unlock(orderID)

	order, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status == entity.OutboundPicking {
		return order, nil
	}
	if order.Status != entity.OutboundPending {
		return nil, domain.NewInvalidTransitionError(order.Status.String(), entity.OutboundPicking.String())
	}

	now := time.Now()
	prev := order.Status
	order.Status = entity.OutboundPicking
	order.PickerName = actor
	order.PickingStartedAt = &now

	err = uc.txRunner.RunOutbound(ctx, func(
		orders repository.OutboundOrderRepository,
		_ repository.StockRepository,
		histRepo repository.TransitionRepository,
	) error {
		if err := orders.Update(order); err != nil {
			return err
		}
		uc.recorder.Record(histRepo, entity.OrderTypeOutbound, order.ID,
			prev.String(), order.Status.String(), actor, "inicio de picking", now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// StartLinePick marca el inicio del pick de una línea para la métrica de
// tiempo. No cambia el estado ni genera historial.
func (uc *UseCase) StartLinePick(ctx context.Context, lineID string) error {
	line, err := uc.orders.GetLineByID(lineID)
	if err != nil {
		return err
	}
	if line == nil {
		return domain.ErrNotFound
	}
	uc.locks.Lock(line.OrderID)
	defer uc.locks.Unlock(line.OrderID)

	line, err = uc.orders.GetLineByID(lineID)
	if err != nil {
		return err
	}
	if line == nil {
		return domain.ErrNotFound
	}
	if line.Status == entity.OutboundLinePicked {
		return domain.ErrAlreadyPicked
	}
	now := time.Now()
	line.PickStartedAt = &now
	return uc.orders.UpdateLine(line)
}

// PickLineInput entrada de la confirmación de un pick.
type PickLineInput struct {
	LineID    string
	PickedQty decimal.Decimal
	Actor     string
}

// PickLine confirma el pick de una línea: registra la cantidad pickeada,
// rebaja el libro (ubicación sugerida primero, recorte a cero) y recalcula
// el estado global de la orden.
func (uc *UseCase) PickLine(ctx context.Context, in PickLineInput) (*entity.OutboundOrder, *entity.OutboundLine, error) {
	if in.PickedQty.LessThan(decimal.Zero) {
		return nil, nil, domain.ErrInvalidInput
	}
	line, err := uc.orders.GetLineByID(in.LineID)
	if err != nil {
		return nil, nil, err
	}
	if line == nil {
		return nil, nil, domain.ErrNotFound
	}
	uc.locks.Lock(line.OrderID)
	defer uc.locks.Unlock(line.OrderID)

	line, err = uc.orders.GetLineByID(in.LineID)
	if err != nil {
		return nil, nil, err
	}
	if line == nil {
		return nil, nil, domain.ErrNotFound
	}
	if line.Status == entity.OutboundLinePicked {
		return nil, nil, domain.ErrAlreadyPicked
	}

	product, err := uc.products.GetByCode(line.ProductCode)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}

	now := time.Now()
	line.PickedQty = in.PickedQty
	line.Status = entity.OutboundLinePicked
	line.PickedBy = in.Actor
	line.PickedAt = &now
	if line.PickStartedAt != nil {
		line.PickingSeconds = int64(now.Sub(*line.PickStartedAt).Seconds())
	}

	var order *entity.OutboundOrder
	err = uc.txRunner.RunOutbound(ctx, func(
		orders repository.OutboundOrderRepository,
		stockRepo repository.StockRepository,
		histRepo repository.TransitionRepository,
	) error {
		if err := orders.UpdateLine(line); err != nil {
			return err
		}
		if err := uc.ledger.ReduceForPicking(stockRepo, product.ID, line.SuggestedLocation, in.PickedQty, now); err != nil {
			return err
		}
		order, err = uc.aggregate(orders, histRepo, line.OrderID, in.Actor, now)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return order, line, nil
}

// Complete cierra el picking de la orden. Rechaza con IncompletePickingError
// si quedan líneas pendientes; devuelve el vale de picking.
func (uc *UseCase) Complete(ctx context.Context, orderID, actor string) (*Voucher, error) {
	uc.locks.Lock(orderID)
	defer uc.locks.Unlock(orderID)

	order, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status.IsTerminal() {
		return nil, domain.NewInvalidTransitionError(order.Status.String(), entity.OutboundCompleted.String())
	}

	pending := 0
	for _, l := range order.Lines {
		if l.Status == entity.OutboundLinePending {
			pending++
		}
	}
	if pending > 0 {
		return nil, &domain.IncompletePickingError{Pending: pending}
	}

	now := time.Now()
	if order.Status != entity.OutboundCompleted {
		prev := order.Status
		order.Status = entity.OutboundCompleted
		if order.PickingEndedAt == nil {
			order.PickingEndedAt = &now
		}
		err = uc.txRunner.RunOutbound(ctx, func(
			orders repository.OutboundOrderRepository,
			_ repository.StockRepository,
			histRepo repository.TransitionRepository,
		) error {
			if err := orders.Update(order); err != nil {
				return err
			}
			uc.recorder.Record(histRepo, entity.OrderTypeOutbound, order.ID,
				prev.String(), order.Status.String(), actor, "picking completado", now)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return buildVoucher(order, uc.products)
}

// Voucher reconstruye el vale de una orden ya completada o despachada
// (reimpresión).
func (uc *UseCase) Voucher(ctx context.Context, orderID string) (*Voucher, error) {
	order, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status != entity.OutboundCompleted && order.Status != entity.OutboundDispatched {
		return nil, domain.NewInvalidTransitionError(order.Status.String(), entity.OutboundCompleted.String())
	}
	return buildVoucher(order, uc.products)
}

// VoucherPDF genera el vale imprimible de una orden completada.
func (uc *UseCase) VoucherPDF(ctx context.Context, orderID string) ([]byte, error) {
	if uc.pdfGen == nil {
		return nil, domain.ErrNotFound
	}
	v, err := uc.Voucher(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateVoucherPDF(ctx, v)
}

// Dispatch despacha una orden completada.
func (uc *UseCase) Dispatch(ctx context.Context, orderID, actor string) (*entity.OutboundOrder, error) {
	uc.locks.Lock(orderID)
	defer uc.locks.Unlock(orderID)

	order, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !order.Status.CanTransitionTo(entity.OutboundDispatched) {
		return nil, domain.NewInvalidTransitionError(order.Status.String(), entity.OutboundDispatched.String())
	}

	now := time.Now()
	prev := order.Status
	order.Status = entity.OutboundDispatched
	order.DispatchedBy = actor
	order.DispatchedAt = &now

	err = uc.txRunner.RunOutbound(ctx, func(
		orders repository.OutboundOrderRepository,
		_ repository.StockRepository,
		histRepo repository.TransitionRepository,
	) error {
		if err := orders.Update(order); err != nil {
			return err
		}
		uc.recorder.Record(histRepo, entity.OrderTypeOutbound, order.ID,
			prev.String(), order.Status.String(), actor, "despacho", now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Void anula la orden desde cualquier estado no terminal.
func (uc *UseCase) Void(ctx context.Context, orderID, actor, reason string) (*entity.OutboundOrder, error) {
	uc.locks.Lock(orderID)
	defer uc.locks.Unlock(orderID)

	order, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status.IsTerminal() {
		return nil, domain.NewInvalidTransitionError(order.Status.String(), entity.OutboundVoided.String())
	}

	now := time.Now()
	prev := order.Status
	order.Status = entity.OutboundVoided

	err = uc.txRunner.RunOutbound(ctx, func(
		orders repository.OutboundOrderRepository,
		_ repository.StockRepository,
		histRepo repository.TransitionRepository,
	) error {
		if err := orders.Update(order); err != nil {
			return err
		}
		uc.recorder.Record(histRepo, entity.OrderTypeOutbound, order.ID,
			prev.String(), order.Status.String(), actor, reason, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder devuelve la orden con sus líneas.
func (uc *UseCase) GetOrder(ctx context.Context, orderID string) (*entity.OutboundOrder, error) {
	order, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// aggregate recalcula el estado global del picking desde las líneas y solo
// persiste y registra historial si cambió.
func (uc *UseCase) aggregate(
	orders repository.OutboundOrderRepository,
	histRepo repository.TransitionRepository,
	orderID, actor string,
	now time.Time,
) (*entity.OutboundOrder, error) {
	order, err := orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := orders.ListLines(orderID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	next := entity.AggregateOutboundStatus(lines)
	if next == order.Status {
		return order, nil
	}
	prev := order.Status
	order.Status = next
	if next == entity.OutboundCompleted {
		order.PickingEndedAt = &now
	}
	if err := orders.Update(order); err != nil {
		return nil, err
	}
	uc.recorder.Record(histRepo, entity.OrderTypeOutbound, order.ID,
		prev.String(), next.String(), actor, "agregación de líneas", now)
	return order, nil
}
