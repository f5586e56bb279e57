package inbound_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastano/Bodega-api/internal/application/history"
	"github.com/jcastano/Bodega-api/internal/application/inbound"
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

type fixture struct {
	uc      *inbound.UseCase
	orders  *testutil.InboundRepo
	stock   *testutil.StockRepo
	history *testutil.TransitionRepo
}

func newFixture() *fixture {
	orders := testutil.NewInboundRepo()
	stockRepo := testutil.NewStockRepo()
	histRepo := testutil.NewTransitionRepo()
	products := testutil.NewProductRepo(
		&entity.Product{ID: "prod-1", Code: "P1", Barcode: "7701111", Description: "Aceite 1L"},
		&entity.Product{ID: "prod-2", Code: "P2", Barcode: "7702222", Description: "Harina 500g"},
	)
	warehouses := testutil.NewWarehouseRepo(
		&entity.Warehouse{ID: "wh-1", Code: "BOD-01", Name: "Bodega Central"},
	)
	txRunner := &testutil.TxRunner{Inbound: orders, Stock: stockRepo, History: histRepo}
	ledger := stock.NewLedger(stockRepo)
	recorder := history.NewRecorder(histRepo, zerolog.Nop())
	uc := inbound.NewUseCase(txRunner, orders, products, warehouses, ledger, recorder, zerolog.Nop())
	return &fixture{uc: uc, orders: orders, stock: stockRepo, history: histRepo}
}

func createOrder(t *testing.T, f *fixture, doc string, lines ...inbound.CreateOrderLine) *entity.InboundOrder {
	t.Helper()
	order, err := f.uc.CreateOrder(context.Background(), inbound.CreateOrderInput{
		DocumentNumber: doc,
		Origin:         "Planta Norte",
		WarehouseCode:  "BOD-01",
		Actor:          "laura",
		Lines:          lines,
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrder(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f, "NI-001",
		inbound.CreateOrderLine{ProductCode: "P1", ExpectedQty: d("10")},
		inbound.CreateOrderLine{ProductCode: "P2", ExpectedQty: d("4")},
	)

	assert.Equal(t, entity.InboundPalletized, order.Status)
	assert.Equal(t, "wh-1", order.WarehouseID)
	require.Len(t, order.Lines, 2)
	for _, l := range order.Lines {
		assert.Equal(t, entity.InboundLinePending, l.Status)
	}

	rows, err := f.history.ListByOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1, "la creación deja una sola fila de historial")
	assert.Equal(t, "", rows[0].PreviousStatus)
	assert.Equal(t, "PALETIZADA", rows[0].NewStatus)
	assert.Equal(t, entity.OrderTypeInbound, rows[0].OrderType)
}

func TestCreateOrder_DocumentoDuplicado(t *testing.T) {
	f := newFixture()
	createOrder(t, f, "NI-001", inbound.CreateOrderLine{ProductCode: "P1", ExpectedQty: d("10")})

	_, err := f.uc.CreateOrder(context.Background(), inbound.CreateOrderInput{
		DocumentNumber: "NI-001",
		Actor:          "laura",
		Lines:          []inbound.CreateOrderLine{{ProductCode: "P2", ExpectedQty: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateDocument)
}

func TestCreateOrder_EntradaInvalida(t *testing.T) {
	f := newFixture()

	_, err := f.uc.CreateOrder(context.Background(), inbound.CreateOrderInput{
		DocumentNumber: "NI-002",
		Actor:          "laura",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas no hay nota")

	_, err = f.uc.CreateOrder(context.Background(), inbound.CreateOrderInput{
		DocumentNumber: "NI-003",
		Actor:          "laura",
		Lines:          []inbound.CreateOrderLine{{ProductCode: "P1", ExpectedQty: d("0")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad esperada cero es inválida")
}

// Flujo completo de recepción línea a línea: validar y almacenar por escaneo
// hasta que la nota queda ALMACENADA y el stock en el libro.
func TestValidateLineYStoreLine_FlujoCompleto(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f, "NI-010",
		inbound.CreateOrderLine{ProductCode: "P1", ExpectedQty: d("10")},
	)

	// Validar por código de barras; cantidad cero asume la esperada.
	updated, line, err := f.uc.ValidateLine(context.Background(), inbound.ValidateLineInput{
		Code:  "P1",
		Actor: "pedro",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InboundLineValidated, line.Status)
	assert.True(t, line.ReceivedQty.Equal(d("10")), "cantidad cero asume la esperada")
	assert.Equal(t, "pedro", line.ValidatedBy)
	assert.Equal(t, entity.InboundValidated, updated.Status, "una sola línea validada agrega a VALIDADA")

	// Almacenar fija la ubicación y empuja al libro.
	updated, line, err = f.uc.StoreLine(context.Background(), inbound.StoreLineInput{
		Code:     "P1",
		Location: "A-01",
		Actor:    "pedro",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InboundLineStored, line.Status)
	assert.Equal(t, "A-01", line.FinalLocation)
	assert.Equal(t, entity.InboundStored, updated.Status)

	entry, err := f.stock.GetByProductAndLocation("prod-1", "A-01")
	require.NoError(t, err)
	require.NotNil(t, entry, "almacenar debe crear la entrada de stock")
	assert.True(t, entry.Quantity.Equal(d("10")))
	assert.Equal(t, line.ID, entry.InboundLineID)

	rows, _ := f.history.ListByOrder(order.ID)
	require.Len(t, rows, 3, "creación + dos agregaciones")
	assert.Equal(t, "VALIDADA", rows[1].NewStatus)
	assert.Equal(t, "ALMACENADA", rows[2].NewStatus)
}

// Escanear dos veces la misma línea: el segundo escaneo no pisa al primero.
func TestValidateLine_SegundoEscaneoRechazado(t *testing.T) {
	f := newFixture()
	createOrder(t, f, "NI-011", inbound.CreateOrderLine{ProductCode: "P1", ExpectedQty: d("10")})

	_, _, err := f.uc.ValidateLine(context.Background(), inbound.ValidateLineInput{Code: "P1", Actor: "pedro"})
	require.NoError(t, err)

	_, _, err = f.uc.ValidateLine(context.Background(), inbound.ValidateLineInput{Code: "P1", Actor: "maria"})
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
}

func TestValidateLine_CodigoDesconocido(t *testing.T) {
	f := newFixture()
	createOrder(t, f, "NI-012", inbound.CreateOrderLine{ProductCode: "P1", ExpectedQty: d("10")})

	_, _, err := f.uc.ValidateLine(context.Background(), inbound.ValidateLineInput{Code: "NO-EXISTE", Actor: "pedro"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Almacenar sin validar es un salto de estado de línea.
func TestStoreLine_SinValidarRechazada(t *testing.T) {
	f := newFixture()
	createOrder(t, f, "NI-013", inbound.CreateOrderLine{ProductCode: "P1", ExpectedQty: d("10")})

	_, _, err := f.uc.StoreLine(context.Background(), inbound.StoreLineInput{
		Code:     "P1",
		Location: "A-01",
		Actor:    "pedro",
	})
	var transition *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &transition)
}

// Con dos líneas y solo una validada la nota queda PARCIAL.
func TestValidateLine_AgregacionParcial(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f, "NI-014",
		inbound.CreateOrderLine{ProductCode: "P1", ExpectedQty: d("10")},
		inbound.CreateOrderLine{ProductCode: "P2", ExpectedQty: d("4")},
	)

	updated, _, err := f.uc.ValidateLine(context.Background(), inbound.ValidateLineInput{Code: "P1", Actor: "pedro"})
	require.NoError(t, err)
	assert.Equal(t, entity.InboundPartial, updated.Status)

	rows, _ := f.history.ListByOrder(order.ID)
	require.Len(t, rows, 2)
	assert.Equal(t, "PARCIAL", rows[1].NewStatus)
	assert.Equal(t, "agregación de líneas", rows[1].Reason)
}

// Cierre masivo: fija cantidades y ubicaciones, empuja al libro solo lo
// mayor a cero y deja una sola fila de historial.
func TestConfirmOrder(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f, "NI-020",
		inbound.CreateOrderLine{ProductCode: "P1", ExpectedQty: d("10")},
		inbound.CreateOrderLine{ProductCode: "P2", ExpectedQty: d("4")},
	)

	confirmed, err := f.uc.ConfirmOrder(context.Background(), inbound.ConfirmOrderInput{
		OrderID: order.ID,
		Lines: []inbound.ConfirmLine{
			{LineID: order.Lines[0].ID, ReceivedQty: d("8"), Location: "A-01"},
			{LineID: order.Lines[1].ID, ReceivedQty: d("0"), Location: "B-02"},
		},
		Note:  "cierre de turno",
		Actor: "pedro",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InboundStored, confirmed.Status)

	entry, _ := f.stock.GetByProductAndLocation("prod-1", "A-01")
	require.NotNil(t, entry)
	assert.True(t, entry.Quantity.Equal(d("8")))

	entry, _ = f.stock.GetByProductAndLocation("prod-2", "B-02")
	assert.Nil(t, entry, "cantidad cero no empuja stock")

	rows, _ := f.history.ListByOrder(order.ID)
	require.Len(t, rows, 2, "creación + cierre, sin filas por línea")
	assert.Equal(t, "ALMACENADA", rows[1].NewStatus)
	assert.Equal(t, "cierre de turno", rows[1].Reason)
}

func TestConfirmOrder_DesdeEstadoTerminal(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f, "NI-021", inbound.CreateOrderLine{ProductCode: "P1", ExpectedQty: d("10")})

	_, err := f.uc.ConfirmOrder(context.Background(), inbound.ConfirmOrderInput{
		OrderID: order.ID,
		Lines:   []inbound.ConfirmLine{{LineID: order.Lines[0].ID, ReceivedQty: d("10"), Location: "A-01"}},
		Actor:   "pedro",
	})
	require.NoError(t, err)

	_, err = f.uc.ConfirmOrder(context.Background(), inbound.ConfirmOrderInput{
		OrderID: order.ID,
		Lines:   []inbound.ConfirmLine{{LineID: order.Lines[0].ID, ReceivedQty: d("10"), Location: "A-01"}},
		Actor:   "pedro",
	})
	var transition *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &transition, "la nota ya almacenada no admite otro cierre")
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f, "NI-030", inbound.CreateOrderLine{ProductCode: "P1", ExpectedQty: d("10")})

	t.Run("no-op rechazado", func(t *testing.T) {
		_, err := f.uc.UpdateStatus(context.Background(), order.ID, entity.InboundPalletized, "laura", "")
		assert.ErrorIs(t, err, domain.ErrSameStatus)
	})

	t.Run("salto fuera de tabla rechazado", func(t *testing.T) {
		_, err := f.uc.UpdateStatus(context.Background(), order.ID, entity.InboundStored, "laura", "")
		var transition *domain.InvalidTransitionError
		assert.ErrorAs(t, err, &transition)
	})

	t.Run("anulación permitida", func(t *testing.T) {
		updated, err := f.uc.UpdateStatus(context.Background(), order.ID, entity.InboundVoided, "laura", "mercadería rechazada")
		require.NoError(t, err)
		assert.Equal(t, entity.InboundVoided, updated.Status)

		rows, _ := f.history.ListByOrder(order.ID)
		last := rows[len(rows)-1]
		assert.Equal(t, "PALETIZADA", last.PreviousStatus)
		assert.Equal(t, "ANULADA", last.NewStatus)
		assert.Equal(t, "mercadería rechazada", last.Reason)
	})
}

// El historial es best-effort: si la inserción falla la transición igual
// se aplica.
func TestValidateLine_HistorialBestEffort(t *testing.T) {
	f := newFixture()
	createOrder(t, f, "NI-040", inbound.CreateOrderLine{ProductCode: "P1", ExpectedQty: d("10")})

	f.history.FailNext = errors.New("tabla de historial caída")

	updated, line, err := f.uc.ValidateLine(context.Background(), inbound.ValidateLineInput{Code: "P1", Actor: "pedro"})
	require.NoError(t, err, "el fallo del historial no debe abortar la validación")
	assert.Equal(t, entity.InboundLineValidated, line.Status)
	assert.Equal(t, entity.InboundValidated, updated.Status)
}

func TestStartLineValidation_SoloPendiente(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f, "NI-050", inbound.CreateOrderLine{ProductCode: "P1", ExpectedQty: d("10")})
	lineID := order.Lines[0].ID

	require.NoError(t, f.uc.StartLineValidation(context.Background(), lineID, "pedro"))

	_, _, err := f.uc.ValidateLine(context.Background(), inbound.ValidateLineInput{Code: "P1", Actor: "pedro"})
	require.NoError(t, err)

	err = f.uc.StartLineValidation(context.Background(), lineID, "pedro")
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
}
