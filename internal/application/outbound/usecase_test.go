package outbound_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastano/Bodega-api/internal/application/history"
	"github.com/jcastano/Bodega-api/internal/application/outbound"
	"github.com/jcastano/Bodega-api/internal/application/stock"
	"github.com/jcastano/Bodega-api/internal/domain"
	"github.com/jcastano/Bodega-api/internal/domain/entity"
	"github.com/jcastano/Bodega-api/internal/testutil"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// fakePDFGen implementación mínima del generador de PDF para tests.
type fakePDFGen struct{ calls int }

func (g *fakePDFGen) GenerateVoucherPDF(_ context.Context, _ *outbound.Voucher) ([]byte, error) {
	g.calls++
	return []byte("%PDF-fake"), nil
}

type fixture struct {
	uc      *outbound.UseCase
	orders  *testutil.OutboundRepo
	stock   *testutil.StockRepo
	history *testutil.TransitionRepo
	pdf     *fakePDFGen
}

func newFixture() *fixture {
	orders := testutil.NewOutboundRepo()
	stockRepo := testutil.NewStockRepo()
	histRepo := testutil.NewTransitionRepo()
	products := testutil.NewProductRepo(
		&entity.Product{ID: "prod-1", Code: "P1", Barcode: "7701111", Description: "Aceite 1L"},
		&entity.Product{ID: "prod-2", Code: "P2", Barcode: "7702222", Description: "Harina 500g"},
	)
	warehouses := testutil.NewWarehouseRepo(
		&entity.Warehouse{ID: "wh-1", Code: "BOD-01", Name: "Bodega Central"},
	)
	txRunner := &testutil.TxRunner{Outbound: orders, Stock: stockRepo, History: histRepo}
	ledger := stock.NewLedger(stockRepo)
	recorder := history.NewRecorder(histRepo, zerolog.Nop())
	pdfGen := &fakePDFGen{}
	uc := outbound.NewUseCase(txRunner, orders, products, warehouses, ledger, recorder, pdfGen, zerolog.Nop())
	return &fixture{uc: uc, orders: orders, stock: stockRepo, history: histRepo, pdf: pdfGen}
}

func seedStock(t *testing.T, f *fixture, id, productID, location, qty string, lineID string, moved time.Time) {
	t.Helper()
	require.NoError(t, f.stock.Create(&entity.StockEntry{
		ID:             id,
		ProductID:      productID,
		Location:       location,
		Quantity:       d(qty),
		Status:         entity.StockAvailable,
		InboundLineID:  lineID,
		LastMovementAt: moved,
	}))
}

func createOrder(t *testing.T, f *fixture, doc string, lines ...outbound.CreateOrderLine) *entity.OutboundOrder {
	t.Helper()
	order, err := f.uc.CreateOrder(context.Background(), outbound.CreateOrderInput{
		DocumentNumber: doc,
		Client:         "Distribuidora Sur",
		Destination:    "Cali",
		WarehouseCode:  "BOD-01",
		Actor:          "laura",
		Lines:          lines,
	})
	require.NoError(t, err)
	return order
}

// Al crear la orden cada línea recibe la ubicación sugerida FEFO: gana el
// lote de vencimiento más próximo.
func TestCreateOrder_SugerenciaFEFO(t *testing.T) {
	f := newFixture()
	now := time.Now()
	soon := now.Add(48 * time.Hour)
	later := now.Add(60 * 24 * time.Hour)
	seedStock(t, f, "e1", "prod-1", "A-01", "50", "l1", now.Add(-3*time.Hour))
	seedStock(t, f, "e2", "prod-1", "B-02", "50", "l2", now.Add(-1*time.Hour))
	f.stock.Expiries["l1"] = &later
	f.stock.Expiries["l2"] = &soon

	order := createOrder(t, f, "OS-001", outbound.CreateOrderLine{ProductCode: "P1", Qty: d("10")})

	require.Len(t, order.Lines, 1)
	assert.Equal(t, "B-02", order.Lines[0].SuggestedLocation)
	assert.Equal(t, entity.OutboundPending, order.Status)
	assert.Equal(t, 3, order.Priority, "prioridad cero asume la más baja")
	assert.Equal(t, entity.OutboundSourceManual, order.Source)
}

// Sin stock que alcance, la sugerencia queda vacía pero la orden se crea.
func TestCreateOrder_SinStockSugerenciaVacia(t *testing.T) {
	f := newFixture()
	seedStock(t, f, "e1", "prod-1", "A-01", "2", "", time.Now())

	order := createOrder(t, f, "OS-002", outbound.CreateOrderLine{ProductCode: "P1", Qty: d("10")})

	assert.Equal(t, "", order.Lines[0].SuggestedLocation)
}

func TestCreateOrder_Validaciones(t *testing.T) {
	f := newFixture()

	_, err := f.uc.CreateOrder(context.Background(), outbound.CreateOrderInput{
		DocumentNumber: "OS-003",
		Priority:       7,
		Actor:          "laura",
		Lines:          []outbound.CreateOrderLine{{ProductCode: "P1", Qty: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "prioridad fuera de 1..3")

	_, err = f.uc.CreateOrder(context.Background(), outbound.CreateOrderInput{
		DocumentNumber: "OS-004",
		Source:         "fax",
		Actor:          "laura",
		Lines:          []outbound.CreateOrderLine{{ProductCode: "P1", Qty: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "origen desconocido")

	_, err = f.uc.CreateOrder(context.Background(), outbound.CreateOrderInput{
		DocumentNumber: "OS-005",
		Actor:          "laura",
		Lines:          []outbound.CreateOrderLine{{ProductCode: "NO-EXISTE", Qty: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "producto sin maestro")
}

func TestCreateOrder_DocumentoDuplicado(t *testing.T) {
	f := newFixture()
	createOrder(t, f, "OS-006", outbound.CreateOrderLine{ProductCode: "P1", Qty: d("1")})

	_, err := f.uc.CreateOrder(context.Background(), outbound.CreateOrderInput{
		DocumentNumber: "OS-006",
		Actor:          "laura",
		Lines:          []outbound.CreateOrderLine{{ProductCode: "P1", Qty: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateDocument)
}

// StartPicking es reentrante: la segunda llamada no falla ni duplica
// historial.
func TestStartPicking_Idempotente(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f, "OS-010", outbound.CreateOrderLine{ProductCode: "P1", Qty: d("5")})

	started, err := f.uc.StartPicking(context.Background(), order.ID, "carlos")
	require.NoError(t, err)
	assert.Equal(t, entity.OutboundPicking, started.Status)
	assert.Equal(t, "carlos", started.PickerName)
	require.NotNil(t, started.PickingStartedAt)

	again, err := f.uc.StartPicking(context.Background(), order.ID, "otro")
	require.NoError(t, err)
	assert.Equal(t, entity.OutboundPicking, again.Status)
	assert.Equal(t, "carlos", again.PickerName, "el segundo inicio no roba la asignación")

	rows, _ := f.history.ListByOrder(order.ID)
	require.Len(t, rows, 2, "creación + un solo inicio de picking")
}

// Picking completo de dos líneas: la última confirma la orden COMPLETADA y
// el libro queda rebajado en las ubicaciones sugeridas.
func TestPickLine_FlujoCompleto(t *testing.T) {
	f := newFixture()
	now := time.Now()
	seedStock(t, f, "e1", "prod-1", "A-01", "50", "", now.Add(-2*time.Hour))
	seedStock(t, f, "e2", "prod-2", "B-02", "30", "", now.Add(-1*time.Hour))

	order := createOrder(t, f, "OS-020",
		outbound.CreateOrderLine{ProductCode: "P1", Qty: d("10")},
		outbound.CreateOrderLine{ProductCode: "P2", Qty: d("6")},
	)
	_, err := f.uc.StartPicking(context.Background(), order.ID, "carlos")
	require.NoError(t, err)

	updated, line, err := f.uc.PickLine(context.Background(), outbound.PickLineInput{
		LineID:    order.Lines[0].ID,
		PickedQty: d("10"),
		Actor:     "carlos",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OutboundLinePicked, line.Status)
	assert.Equal(t, entity.OutboundPicking, updated.Status, "con una línea pendiente sigue en picking")

	updated, _, err = f.uc.PickLine(context.Background(), outbound.PickLineInput{
		LineID:    order.Lines[1].ID,
		PickedQty: d("6"),
		Actor:     "carlos",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OutboundCompleted, updated.Status, "la última línea completa la orden")
	require.NotNil(t, updated.PickingEndedAt)

	e1, _ := f.stock.GetByID("e1")
	e2, _ := f.stock.GetByID("e2")
	assert.True(t, e1.Quantity.Equal(d("40")))
	assert.True(t, e2.Quantity.Equal(d("24")))
}

func TestPickLine_Repetido(t *testing.T) {
	f := newFixture()
	seedStock(t, f, "e1", "prod-1", "A-01", "50", "", time.Now())
	order := createOrder(t, f, "OS-021", outbound.CreateOrderLine{ProductCode: "P1", Qty: d("5")})
	_, err := f.uc.StartPicking(context.Background(), order.ID, "carlos")
	require.NoError(t, err)

	_, _, err = f.uc.PickLine(context.Background(), outbound.PickLineInput{
		LineID: order.Lines[0].ID, PickedQty: d("5"), Actor: "carlos",
	})
	require.NoError(t, err)

	_, _, err = f.uc.PickLine(context.Background(), outbound.PickLineInput{
		LineID: order.Lines[0].ID, PickedQty: d("5"), Actor: "carlos",
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyPicked)
}

// Pickear más de lo que el libro registra no falla: recorta a cero.
func TestPickLine_RecorteACero(t *testing.T) {
	f := newFixture()
	seedStock(t, f, "e1", "prod-1", "A-01", "3", "", time.Now())
	order := createOrder(t, f, "OS-022", outbound.CreateOrderLine{ProductCode: "P1", Qty: d("3")})
	_, err := f.uc.StartPicking(context.Background(), order.ID, "carlos")
	require.NoError(t, err)

	_, _, err = f.uc.PickLine(context.Background(), outbound.PickLineInput{
		LineID: order.Lines[0].ID, PickedQty: d("10"), Actor: "carlos",
	})
	require.NoError(t, err)

	e1, _ := f.stock.GetByID("e1")
	assert.True(t, e1.Quantity.Equal(decimal.Zero))
}

func TestComplete_PickingIncompleto(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f, "OS-030",
		outbound.CreateOrderLine{ProductCode: "P1", Qty: d("5")},
		outbound.CreateOrderLine{ProductCode: "P2", Qty: d("2")},
	)
	_, err := f.uc.StartPicking(context.Background(), order.ID, "carlos")
	require.NoError(t, err)

	_, err = f.uc.Complete(context.Background(), order.ID, "carlos")
	var incomplete *domain.IncompletePickingError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 2, incomplete.Pending)
}

// Completar emite el vale con totales y tiempos.
func TestComplete_EmiteVale(t *testing.T) {
	f := newFixture()
	seedStock(t, f, "e1", "prod-1", "A-01", "50", "", time.Now())
	order := createOrder(t, f, "OS-031", outbound.CreateOrderLine{ProductCode: "P1", Qty: d("10")})
	_, err := f.uc.StartPicking(context.Background(), order.ID, "carlos")
	require.NoError(t, err)
	_, _, err = f.uc.PickLine(context.Background(), outbound.PickLineInput{
		LineID: order.Lines[0].ID, PickedQty: d("9"), Actor: "carlos",
	})
	require.NoError(t, err)

	voucher, err := f.uc.Complete(context.Background(), order.ID, "carlos")
	require.NoError(t, err)
	assert.Equal(t, "OS-031", voucher.DocumentNumber)
	assert.Equal(t, "carlos", voucher.Picker)
	assert.Equal(t, 1, voucher.TotalLines)
	assert.True(t, voucher.TotalPicked.Equal(d("9")))
	require.Len(t, voucher.Lines, 1)
	assert.Equal(t, "Aceite 1L", voucher.Lines[0].Description)
	assert.Regexp(t, regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`), voucher.Elapsed)
}

func TestVoucher_SoloCompletadaODespachada(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f, "OS-032", outbound.CreateOrderLine{ProductCode: "P1", Qty: d("5")})

	_, err := f.uc.Voucher(context.Background(), order.ID)
	var transition *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &transition)
}

func TestVoucherPDF(t *testing.T) {
	f := newFixture()
	seedStock(t, f, "e1", "prod-1", "A-01", "50", "", time.Now())
	order := createOrder(t, f, "OS-033", outbound.CreateOrderLine{ProductCode: "P1", Qty: d("5")})
	_, err := f.uc.StartPicking(context.Background(), order.ID, "carlos")
	require.NoError(t, err)
	_, _, err = f.uc.PickLine(context.Background(), outbound.PickLineInput{
		LineID: order.Lines[0].ID, PickedQty: d("5"), Actor: "carlos",
	})
	require.NoError(t, err)
	_, err = f.uc.Complete(context.Background(), order.ID, "carlos")
	require.NoError(t, err)

	pdfBytes, err := f.uc.VoucherPDF(context.Background(), order.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)
	assert.Equal(t, 1, f.pdf.calls)
}

func TestDispatch(t *testing.T) {
	f := newFixture()
	seedStock(t, f, "e1", "prod-1", "A-01", "50", "", time.Now())
	order := createOrder(t, f, "OS-040", outbound.CreateOrderLine{ProductCode: "P1", Qty: d("5")})

	t.Run("pendiente no se despacha", func(t *testing.T) {
		_, err := f.uc.Dispatch(context.Background(), order.ID, "sofia")
		var transition *domain.InvalidTransitionError
		assert.ErrorAs(t, err, &transition)
	})

	_, err := f.uc.StartPicking(context.Background(), order.ID, "carlos")
	require.NoError(t, err)
	_, _, err = f.uc.PickLine(context.Background(), outbound.PickLineInput{
		LineID: order.Lines[0].ID, PickedQty: d("5"), Actor: "carlos",
	})
	require.NoError(t, err)
	_, err = f.uc.Complete(context.Background(), order.ID, "carlos")
	require.NoError(t, err)

	t.Run("completada se despacha", func(t *testing.T) {
		dispatched, err := f.uc.Dispatch(context.Background(), order.ID, "sofia")
		require.NoError(t, err)
		assert.Equal(t, entity.OutboundDispatched, dispatched.Status)
		assert.Equal(t, "sofia", dispatched.DispatchedBy)
		require.NotNil(t, dispatched.DispatchedAt)
	})

	t.Run("despachada es terminal", func(t *testing.T) {
		_, err := f.uc.Void(context.Background(), order.ID, "sofia", "error")
		var transition *domain.InvalidTransitionError
		assert.ErrorAs(t, err, &transition)
	})
}

func TestVoid_DesdeCualquierEstadoNoTerminal(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f, "OS-050", outbound.CreateOrderLine{ProductCode: "P1", Qty: d("5")})
	_, err := f.uc.StartPicking(context.Background(), order.ID, "carlos")
	require.NoError(t, err)

	voided, err := f.uc.Void(context.Background(), order.ID, "sofia", "cliente canceló")
	require.NoError(t, err)
	assert.Equal(t, entity.OutboundVoided, voided.Status)

	rows, _ := f.history.ListByOrder(order.ID)
	last := rows[len(rows)-1]
	assert.Equal(t, "EN_PICKING", last.PreviousStatus)
	assert.Equal(t, "ANULADA", last.NewStatus)
	assert.Equal(t, "cliente canceló", last.Reason)
}
