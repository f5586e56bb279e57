// Package testutil provee repositorios en memoria que implementan los
// puertos de persistencia del dominio, para probar los casos de uso sin
// PostgreSQL. Devuelven copias para imitar a la BD: una mutación sin Update
// no se vuelve visible.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastano/Bodega-api/internal/domain/entity"
	"github.com/jcastano/Bodega-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Notas de ingreso
// ──────────────────────────────────────────────────────────────────────────────

// InboundRepo repositorio en memoria de notas de ingreso.
type InboundRepo struct {
	mu     sync.Mutex
	orders map[string]*entity.InboundOrder
	lines  map[string]*entity.InboundLine
	seq    []string // ids de línea en orden de inserción (determinismo)
}

// NewInboundRepo construye el repo vacío.
func NewInboundRepo() *InboundRepo {
	return &InboundRepo{
		orders: make(map[string]*entity.InboundOrder),
		lines:  make(map[string]*entity.InboundLine),
	}
}

var _ repository.InboundOrderRepository = (*InboundRepo)(nil)

func copyInboundOrder(o *entity.InboundOrder) *entity.InboundOrder {
	c := *o
	c.Lines = nil
	return &c
}

func copyInboundLine(l *entity.InboundLine) *entity.InboundLine {
	c := *l
	return &c
}

func (r *InboundRepo) Create(order *entity.InboundOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = copyInboundOrder(order)
	for _, l := range order.Lines {
		r.lines[l.ID] = copyInboundLine(l)
		r.seq = append(r.seq, l.ID)
	}
	return nil
}

func (r *InboundRepo) GetByID(id string) (*entity.InboundOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	c := copyInboundOrder(o)
	for _, lid := range r.seq {
		if l := r.lines[lid]; l.OrderID == id {
			c.Lines = append(c.Lines, copyInboundLine(l))
		}
	}
	return c, nil
}

func (r *InboundRepo) GetByDocument(documentNumber string) (*entity.InboundOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.DocumentNumber == documentNumber {
			return copyInboundOrder(o), nil
		}
	}
	return nil, nil
}

func (r *InboundRepo) Update(order *entity.InboundOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = copyInboundOrder(order)
	return nil
}

func (r *InboundRepo) GetLineByID(id string) (*entity.InboundLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lines[id]
	if !ok {
		return nil, nil
	}
	return copyInboundLine(l), nil
}

func (r *InboundRepo) FindLineByCode(code string, prefer entity.InboundLineStatus) (*entity.InboundLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var fallback *entity.InboundLine
	for _, lid := range r.seq {
		l := r.lines[lid]
		if l.ProductCode != code {
			continue
		}
		if l.Status == prefer {
			return copyInboundLine(l), nil
		}
		if fallback == nil {
			fallback = l
		}
	}
	if fallback == nil {
		return nil, nil
	}
	return copyInboundLine(fallback), nil
}

func (r *InboundRepo) UpdateLine(line *entity.InboundLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[line.ID] = copyInboundLine(line)
	return nil
}

func (r *InboundRepo) ListLines(orderID string) ([]*entity.InboundLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.InboundLine
	for _, lid := range r.seq {
		if l := r.lines[lid]; l.OrderID == orderID {
			out = append(out, copyInboundLine(l))
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes de salida
// ──────────────────────────────────────────────────────────────────────────────

// OutboundRepo repositorio en memoria de órdenes de salida.
type OutboundRepo struct {
	mu     sync.Mutex
	orders map[string]*entity.OutboundOrder
	lines  map[string]*entity.OutboundLine
	seq    []string
}

// NewOutboundRepo construye el repo vacío.
func NewOutboundRepo() *OutboundRepo {
	return &OutboundRepo{
		orders: make(map[string]*entity.OutboundOrder),
		lines:  make(map[string]*entity.OutboundLine),
	}
}

var _ repository.OutboundOrderRepository = (*OutboundRepo)(nil)

func copyOutboundOrder(o *entity.OutboundOrder) *entity.OutboundOrder {
	c := *o
	c.Lines = nil
	return &c
}

func copyOutboundLine(l *entity.OutboundLine) *entity.OutboundLine {
	c := *l
	return &c
}

func (r *OutboundRepo) Create(order *entity.OutboundOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = copyOutboundOrder(order)
	for _, l := range order.Lines {
		r.lines[l.ID] = copyOutboundLine(l)
		r.seq = append(r.seq, l.ID)
	}
	return nil
}

func (r *OutboundRepo) GetByID(id string) (*entity.OutboundOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	c := copyOutboundOrder(o)
	for _, lid := range r.seq {
		if l := r.lines[lid]; l.OrderID == id {
			c.Lines = append(c.Lines, copyOutboundLine(l))
		}
	}
	return c, nil
}

func (r *OutboundRepo) GetByDocument(documentNumber string) (*entity.OutboundOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.DocumentNumber == documentNumber {
			return copyOutboundOrder(o), nil
		}
	}
	return nil, nil
}

func (r *OutboundRepo) Update(order *entity.OutboundOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = copyOutboundOrder(order)
	return nil
}

func (r *OutboundRepo) GetLineByID(id string) (*entity.OutboundLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lines[id]
	if !ok {
		return nil, nil
	}
	return copyOutboundLine(l), nil
}

func (r *OutboundRepo) UpdateLine(line *entity.OutboundLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[line.ID] = copyOutboundLine(line)
	return nil
}

func (r *OutboundRepo) ListLines(orderID string) ([]*entity.OutboundLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.OutboundLine
	for _, lid := range r.seq {
		if l := r.lines[lid]; l.OrderID == orderID {
			out = append(out, copyOutboundLine(l))
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro de stock
// ──────────────────────────────────────────────────────────────────────────────

// StockRepo repositorio en memoria del libro de stock. Expiries asocia ids de
// línea de ingreso con su vencimiento, imitando el join con detalle_ingreso
// que hace la consulta de candidatos en PostgreSQL.
type StockRepo struct {
	mu       sync.Mutex
	entries  map[string]*entity.StockEntry
	seq      []string
	Expiries map[string]*time.Time
}

// NewStockRepo construye el repo vacío.
func NewStockRepo() *StockRepo {
	return &StockRepo{
		entries:  make(map[string]*entity.StockEntry),
		Expiries: make(map[string]*time.Time),
	}
}

var _ repository.StockRepository = (*StockRepo)(nil)

func copyStockEntry(e *entity.StockEntry) *entity.StockEntry {
	c := *e
	return &c
}

func (r *StockRepo) GetByID(id string) (*entity.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	return copyStockEntry(e), nil
}

func (r *StockRepo) GetByProductAndLocation(productID, location string) (*entity.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.seq {
		e := r.entries[id]
		if e.ProductID == productID && e.Location == location {
			return copyStockEntry(e), nil
		}
	}
	return nil, nil
}

func (r *StockRepo) GetByProductAndLocationForUpdate(productID, location string) (*entity.StockEntry, error) {
	return r.GetByProductAndLocation(productID, location)
}

func (r *StockRepo) Create(e *entity.StockEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.ID] = copyStockEntry(e)
	r.seq = append(r.seq, e.ID)
	return nil
}

func (r *StockRepo) Update(e *entity.StockEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.ID] = copyStockEntry(e)
	return nil
}

func (r *StockRepo) ListByProduct(productID string) ([]*entity.StockEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockEntry
	for _, id := range r.seq {
		if e := r.entries[id]; e.ProductID == productID {
			out = append(out, copyStockEntry(e))
		}
	}
	return out, nil
}

func (r *StockRepo) ListCandidates(productID string, required decimal.Decimal) ([]*entity.StockCandidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockCandidate
	for _, id := range r.seq {
		e := r.entries[id]
		if e.ProductID != productID || e.Status != entity.StockAvailable {
			continue
		}
		if e.Quantity.LessThan(required) {
			continue
		}
		out = append(out, &entity.StockCandidate{
			Entry:     copyStockEntry(e),
			ExpiresAt: r.Expiries[e.InboundLineID],
		})
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial, maestros y TxRunner
// ──────────────────────────────────────────────────────────────────────────────

// TransitionRepo repositorio en memoria del historial de estados. FailNext
// fuerza el fallo de la próxima inserción para probar el historial
// best-effort.
type TransitionRepo struct {
	mu       sync.Mutex
	rows     []*entity.StateTransition
	FailNext error
}

// NewTransitionRepo construye el repo vacío.
func NewTransitionRepo() *TransitionRepo {
	return &TransitionRepo{}
}

var _ repository.TransitionRepository = (*TransitionRepo)(nil)

func (r *TransitionRepo) Create(t *entity.StateTransition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailNext != nil {
		err := r.FailNext
		r.FailNext = nil
		return err
	}
	c := *t
	r.rows = append(r.rows, &c)
	return nil
}

func (r *TransitionRepo) ListByOrder(orderID string) ([]*entity.StateTransition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StateTransition
	for _, t := range r.rows {
		if t.OrderID == orderID {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

// ProductRepo maestro de productos en memoria, indexado por código y barras.
type ProductRepo struct {
	mu       sync.Mutex
	products []*entity.Product
}

// NewProductRepo construye el maestro con los productos dados.
func NewProductRepo(products ...*entity.Product) *ProductRepo {
	return &ProductRepo{products: products}
}

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.ID == id {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) GetByCode(code string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Code == code || (p.Barcode != "" && p.Barcode == code) {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

// WarehouseRepo maestro de bodegas en memoria.
type WarehouseRepo struct {
	mu         sync.Mutex
	warehouses []*entity.Warehouse
}

// NewWarehouseRepo construye el maestro con las bodegas dadas.
func NewWarehouseRepo(warehouses ...*entity.Warehouse) *WarehouseRepo {
	return &WarehouseRepo{warehouses: warehouses}
}

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

func (r *WarehouseRepo) GetByCode(code string) (*entity.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.warehouses {
		if w.Code == code {
			c := *w
			return &c, nil
		}
	}
	return nil, nil
}

// TxRunner pasa los repos en memoria tal cual: sin transacción real, la
// atomicidad en tests la da el mutex por orden de los casos de uso.
type TxRunner struct {
	Inbound  *InboundRepo
	Outbound *OutboundRepo
	Stock    *StockRepo
	History  *TransitionRepo
}

// RunInbound ejecuta fn con los repos en memoria.
func (r *TxRunner) RunInbound(ctx context.Context, fn func(
	orders repository.InboundOrderRepository,
	stockRepo repository.StockRepository,
	histRepo repository.TransitionRepository,
) error) error {
	return fn(r.Inbound, r.Stock, r.History)
}

// RunOutbound ejecuta fn con los repos en memoria.
func (r *TxRunner) RunOutbound(ctx context.Context, fn func(
	orders repository.OutboundOrderRepository,
	stockRepo repository.StockRepository,
	histRepo repository.TransitionRepository,
) error) error {
	return fn(r.Outbound, r.Stock, r.History)
}
