package inbound

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

// UseCase máquina de estados de notas de ingreso: crea la nota con sus
// líneas, valida y almacena línea a línea desde el flujo de escaneo, agrega
// el estado global a partir de las líneas y empuja cantidades al libro de
// stock al almacenar. Toda mutación de una misma nota se serializa con un
// mutex por id de orden; notas distintas avanzan en paralelo.
type UseCase struct {
	txRunner   TxRunner
	orders     repository.InboundOrderRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	ledger     *stock.Ledger
	recorder   *history.Recorder
	locks      *keyedmutex.KeyedMutex
	log        zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	orders repository.InboundOrderRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	ledger *stock.Ledger,
	recorder *history.Recorder,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		orders:     orders,
		products:   products,
		warehouses: warehouses,
		ledger:     ledger,
		recorder:   recorder,
		locks:      keyedmutex.New(),
		log:        log,
	}
}

// CreateOrderLine línea solicitada al crear una nota de ingreso.
type CreateOrderLine struct {
	ProductCode       string
	ExpectedQty       decimal.Decimal
	LotCode           string
	ExpiresAt         *time.Time
	SuggestedLocation string
}

// CreateOrderInput entrada para crear una nota de ingreso con sus líneas.
type CreateOrderInput struct {
	DocumentNumber string
	Origin         string
	WarehouseCode  string
	Actor          string
	Lines          []CreateOrderLine
}

// CreateOrder crea la nota y todas sus líneas en PENDIENTE, validando la
// unicidad del número de documento.
func (uc *UseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.InboundOrder, error) {
	if in.DocumentNumber == "" || len(in.Lines) == 0 {
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
	order := &entity.InboundOrder{
		ID:             uuid.New().String(),
		DocumentNumber: in.DocumentNumber,
		Origin:         in.Origin,
		WarehouseID:    warehouseID,
		Status:         entity.InboundPalletized,
		CreatedBy:      in.Actor,
		CreatedAt:      now,
	}
	for _, l := range in.Lines {
		if l.ProductCode == "" || l.ExpectedQty.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		order.Lines = append(order.Lines, &entity.InboundLine{
			ID:                uuid.New().String(),
			OrderID:           order.ID,
			ProductCode:       l.ProductCode,
			ExpectedQty:       l.ExpectedQty,
			LotCode:           l.LotCode,
			ExpiresAt:         l.ExpiresAt,
			SuggestedLocation: l.SuggestedLocation,
			Status:            entity.InboundLinePending,
		})
	}

	err = uc.txRunner.RunInbound(ctx, func(
		orders repository.InboundOrderRepository,
		_ repository.StockRepository,
		histRepo repository.TransitionRepository,
	) error {
		if err := orders.Create(order); err != nil {
			return err
		}
		uc.recorder.Record(histRepo, entity.OrderTypeInbound, order.ID,
			"", order.Status.String(), in.Actor, "creación de nota de ingreso", now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// StartLineValidation marca el inicio de validación de una línea para la
// métrica de tiempo transcurrido. No cambia el estado ni genera historial.
func (uc *UseCase) StartLineValidation(ctx context.Context, lineID, actor string) error {
	return uc.startLineTimer(ctx, lineID, func(line *entity.InboundLine, now time.Time) error {
		if line.Status != entity.InboundLinePending {
			return domain.ErrAlreadyProcessed
		}
		line.ValidationStartedAt = &now
		return nil
	})
}

// StartLineStorage marca el inicio de almacenaje de una línea.
func (uc *UseCase) StartLineStorage(ctx context.Context, lineID, actor string) error {
	return uc.startLineTimer(ctx, lineID, func(line *entity.InboundLine, now time.Time) error {
		if line.Status != entity.InboundLineValidated {
			return domain.ErrAlreadyProcessed
		}
		line.StorageStartedAt = &now
		return nil
	})
}

func (uc *UseCase) startLineTimer(ctx context.Context, lineID string, set func(*entity.InboundLine, time.Time) error) error {
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
	if err := set(line, time.Now()); err != nil {
		return err
	}
	return uc.orders.UpdateLine(line)
}

// ValidateLineInput entrada del escaneo de validación.
type ValidateLineInput struct {
	Code        string // código de producto o código de barras
	ReceivedQty decimal.Decimal
	Actor       string
}

// ValidateLine confirma la cantidad recibida de una línea escaneada y la
// pasa a VALIDADA. Rechaza con ErrAlreadyProcessed si la línea ya avanzó.
// Si la cantidad recibida viene en cero se asume la esperada.
func (uc *UseCase) ValidateLine(ctx context.Context, in ValidateLineInput) (*entity.InboundOrder, *entity.InboundLine, error) {
	line, err := uc.orders.FindLineByCode(in.Code, entity.InboundLinePending)
	if err != nil {
		return nil, nil, err
	}
	if line == nil {
		return nil, nil, domain.ErrNotFound
	}
	uc.locks.Lock(line.OrderID)
	defer uc.locks.Unlock(line.OrderID)

	line, err = uc.orders.GetLineByID(line.ID)
	if err != nil {
		return nil, nil, err
	}
	if line == nil {
		return nil, nil, domain.ErrNotFound
	}
	if line.Status != entity.InboundLinePending {
		return nil, nil, domain.ErrAlreadyProcessed
	}

	now := time.Now()
	qty := in.ReceivedQty
	if qty.IsZero() {
		qty = line.ExpectedQty
	}
	if qty.LessThan(decimal.Zero) {
		return nil, nil, domain.ErrInvalidInput
	}
	line.ReceivedQty = qty
	line.Status = entity.InboundLineValidated
	line.ValidatedBy = in.Actor
	line.ValidatedAt = &now
	if line.ValidationStartedAt != nil {
		line.ValidationSeconds = int64(now.Sub(*line.ValidationStartedAt).Seconds())
	}

	var order *entity.InboundOrder
	err = uc.txRunner.RunInbound(ctx, func(
		orders repository.InboundOrderRepository,
		_ repository.StockRepository,
		histRepo repository.TransitionRepository,
	) error {
		if err := orders.UpdateLine(line); err != nil {
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

// StoreLineInput entrada del escaneo de almacenaje.
type StoreLineInput struct {
	Code     string
	Location string
	Actor    string
}

// StoreLine fija la ubicación definitiva de una línea validada, la pasa a
// ALMACENADA y empuja la cantidad confirmada al libro de stock.
func (uc *UseCase) StoreLine(ctx context.Context, in StoreLineInput) (*entity.InboundOrder, *entity.InboundLine, error) {
	if in.Location == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	line, err := uc.orders.FindLineByCode(in.Code, entity.InboundLineValidated)
	if err != nil {
		return nil, nil, err
	}
	if line == nil {
		return nil, nil, domain.ErrNotFound
	}
	uc.locks.Lock(line.OrderID)
	defer uc.locks.Unlock(line.OrderID)

	line, err = uc.orders.GetLineByID(line.ID)
	if err != nil {
		return nil, nil, err
	}
	if line == nil {
		return nil, nil, domain.ErrNotFound
	}
	switch line.Status {
	case entity.InboundLineStored:
		return nil, nil, domain.ErrAlreadyProcessed
	case entity.InboundLinePending:
		return nil, nil, domain.NewInvalidTransitionError(line.Status.String(), entity.InboundLineStored.String())
	}

	product, err := uc.products.GetByCode(line.ProductCode)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}

	now := time.Now()
	line.FinalLocation = in.Location
	line.Status = entity.InboundLineStored
	line.StoredBy = in.Actor
	line.StoredAt = &now
	if line.StorageStartedAt != nil {
		line.StorageSeconds = int64(now.Sub(*line.StorageStartedAt).Seconds())
	}
	qty := line.ReceivedQty
	if qty.IsZero() {
		qty = line.ExpectedQty
	}

	var order *entity.InboundOrder
	err = uc.txRunner.RunInbound(ctx, func(
		orders repository.InboundOrderRepository,
		stockRepo repository.StockRepository,
		histRepo repository.TransitionRepository,
	) error {
		if err := orders.UpdateLine(line); err != nil {
			return err
		}
		if err := uc.ledger.Add(stockRepo, product.ID, in.Location, qty, line.ID, now); err != nil {
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

// ConfirmLine tripleta (línea, cantidad recibida, ubicación) del cierre masivo.
type ConfirmLine struct {
	LineID      string
	ReceivedQty decimal.Decimal
	Location    string
}

// ConfirmOrderInput entrada del cierre masivo ("finalizar" del terminal móvil).
type ConfirmOrderInput struct {
	OrderID string
	Lines   []ConfirmLine
	Note    string
	Actor   string
}

// ConfirmOrder cierra la nota completa de una vez: fija cantidad y ubicación
// por línea, empuja al libro las cantidades mayores a cero y fuerza la nota
// a ALMACENADA con una sola fila de historial, sin pasar por la agregación.
// Solo es válido desde PALETIZADA o VALIDADA.
func (uc *UseCase) ConfirmOrder(ctx context.Context, in ConfirmOrderInput) (*entity.InboundOrder, error) {
	uc.locks.Lock(in.OrderID)
	defer uc.locks.Unlock(in.OrderID)

	order, err := uc.orders.GetByID(in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status != entity.InboundPalletized && order.Status != entity.InboundValidated {
		return nil, domain.NewInvalidTransitionError(order.Status.String(), entity.InboundStored.String())
	}

	now := time.Now()
	prev := order.Status

	err = uc.txRunner.RunInbound(ctx, func(
		orders repository.InboundOrderRepository,
		stockRepo repository.StockRepository,
		histRepo repository.TransitionRepository,
	) error {
		for _, cl := range in.Lines {
			line, err := orders.GetLineByID(cl.LineID)
			if err != nil {
				return err
			}
			if line == nil || line.OrderID != order.ID {
				return domain.ErrNotFound
			}
			line.ReceivedQty = cl.ReceivedQty
			line.FinalLocation = cl.Location
			line.Status = entity.InboundLineStored
			line.StoredBy = in.Actor
			line.StoredAt = &now
			if err := orders.UpdateLine(line); err != nil {
				return err
			}
			if cl.ReceivedQty.GreaterThan(decimal.Zero) {
				product, err := uc.products.GetByCode(line.ProductCode)
				if err != nil {
					return err
				}
				if product == nil {
					return domain.ErrNotFound
				}
				if err := uc.ledger.Add(stockRepo, product.ID, cl.Location, cl.ReceivedQty, line.ID, now); err != nil {
					return err
				}
			}
		}
		order.Status = entity.InboundStored
		order.StoredBy = in.Actor
		order.StoredAt = &now
		if err := orders.Update(order); err != nil {
			return err
		}
		uc.recorder.Record(histRepo, entity.OrderTypeInbound, order.ID,
			prev.String(), order.Status.String(), in.Actor, in.Note, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus transición explícita de la nota según la tabla de estados.
// Rechaza el no-op (destino igual al actual) y cualquier salto fuera de la
// tabla; fija actor y timestamp según el destino.
func (uc *UseCase) UpdateStatus(ctx context.Context, orderID string, target entity.InboundStatus, actor, reason string) (*entity.InboundOrder, error) {
	uc.locks.Lock(orderID)
	defer uc.locks.Unlock(orderID)

	order, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status == target {
		return nil, domain.ErrSameStatus
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, domain.NewInvalidTransitionError(order.Status.String(), target.String())
	}

	now := time.Now()
	prev := order.Status
	order.Status = target
	switch target {
	case entity.InboundValidated:
		order.ValidatedBy = actor
		order.ValidatedAt = &now
	case entity.InboundStored:
		order.StoredBy = actor
		order.StoredAt = &now
	}

	err = uc.txRunner.RunInbound(ctx, func(
		orders repository.InboundOrderRepository,
		_ repository.StockRepository,
		histRepo repository.TransitionRepository,
	) error {
		if err := orders.Update(order); err != nil {
			return err
		}
		uc.recorder.Record(histRepo, entity.OrderTypeInbound, order.ID,
			prev.String(), target.String(), actor, reason, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder devuelve la nota con sus líneas.
func (uc *UseCase) GetOrder(ctx context.Context, orderID string) (*entity.InboundOrder, error) {
	order, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// aggregate recalcula el estado global desde las líneas y solo persiste y
// registra historial si el estado derivado difiere del almacenado.
func (uc *UseCase) aggregate(
	orders repository.InboundOrderRepository,
	histRepo repository.TransitionRepository,
	orderID, actor string,
	now time.Time,
) (*entity.InboundOrder, error) {
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

	next := entity.AggregateInboundStatus(lines)
	if next == order.Status {
		return order, nil
	}
	prev := order.Status
	order.Status = next
	switch next {
	case entity.InboundValidated:
		order.ValidatedBy = actor
		order.ValidatedAt = &now
	case entity.InboundStored:
		order.StoredBy = actor
		order.StoredAt = &now
	}
	if err := orders.Update(order); err != nil {
		return nil, err
	}
	uc.recorder.Record(histRepo, entity.OrderTypeInbound, order.ID,
		prev.String(), next.String(), actor, "agregación de líneas", now)
	return order, nil
}
