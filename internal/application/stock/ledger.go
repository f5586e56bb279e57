package stock

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcastano/Bodega-api/internal/domain"
	"github.com/jcastano/Bodega-api/internal/domain/entity"
	"github.com/jcastano/Bodega-api/internal/domain/repository"
	"github.com/jcastano/Bodega-api/internal/pkg/keyedmutex"
)

// Ledger implementa las políticas del libro de stock: fusión por
// (producto, ubicación) al ingresar, dos políticas de rebaja distintas según
// el caller, bloqueo/desbloqueo y la sugerencia de ubicación FEFO/FIFO.
//
// Los métodos que reciben un repository.StockRepository como argumento
// operan sobre repos atados a la transacción del caller (patrón TxRunner);
// los demás usan el repo de pool propio. En ambos casos la escritura por
// (producto, ubicación) se serializa con un mutex por clave.
type Ledger struct {
	repo repository.StockRepository
	keys *keyedmutex.KeyedMutex
}

// NewLedger construye el libro de stock sobre el repo de pool.
func NewLedger(repo repository.StockRepository) *Ledger {
	return &Ledger{repo: repo, keys: keyedmutex.New()}
}

func stockKey(productID, location string) string {
	return productID + "|" + location
}

// Add ingresa cantidad en una ubicación con fusión sobre la entrada
// existente: si ya hay una fila para (producto, ubicación) se incrementa y se
// refresca el último movimiento; si no, se crea DISPONIBLE. Esta fusión es la
// única defensa contra filas duplicadas por ubicación.
func (l *Ledger) Add(repo repository.StockRepository, productID, location string, qty decimal.Decimal, sourceLineID string, now time.Time) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	key := stockKey(productID, location)
	l.keys.Lock(key)
	defer l.keys.Unlock(key)

	existing, err := repo.GetByProductAndLocationForUpdate(productID, location)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Quantity = existing.Quantity.Add(qty)
		existing.LastMovementAt = now
		return repo.Update(existing)
	}
	return repo.Create(&entity.StockEntry{
		ID:             uuid.New().String(),
		ProductID:      productID,
		Location:       location,
		Quantity:       qty,
		Status:         entity.StockAvailable,
		InboundLineID:  sourceLineID,
		LastMovementAt: now,
	})
}

// Reduce rebaja cantidad de una entrada concreta, rechazando con
// ErrInsufficientStock si se pide más de lo que hay. Es la ruta directa
// (ajustes manuales); el picking usa ReduceForPicking, que recorta a cero.
func (l *Ledger) Reduce(id string, qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	entry, err := l.repo.GetByID(id)
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrNotFound
	}
	key := stockKey(entry.ProductID, entry.Location)
	l.keys.Lock(key)
	defer l.keys.Unlock(key)

	// Releer bajo el candado: otra rebaja pudo ganar entre el Get y el Lock.
	entry, err = l.repo.GetByID(id)
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrNotFound
	}
	if entry.Quantity.LessThan(qty) {
		return domain.ErrInsufficientStock
	}
	entry.Quantity = entry.Quantity.Sub(qty)
	entry.LastMovementAt = time.Now()
	return l.repo.Update(entry)
}

// ReduceForPicking rebaja stock al confirmar un pick. Prefiere la entrada de
// la ubicación sugerida; si no existe cae a la entrada del producto con mayor
// cantidad (minimiza fragmentación). La cantidad pickeada es verdad
// confirmada por el operario, no una solicitud a validar: se recorta a cero
// en vez de fallar, y si el libro no tiene ninguna entrada no hay nada que
// rebajar.
func (l *Ledger) ReduceForPicking(repo repository.StockRepository, productID, preferredLocation string, qty decimal.Decimal, now time.Time) error {
	if qty.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	var entry *entity.StockEntry
	var err error
	if preferredLocation != "" {
		entry, err = repo.GetByProductAndLocation(productID, preferredLocation)
		if err != nil {
			return err
		}
	}
	if entry == nil {
		entries, err := repo.ListByProduct(productID)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if entry == nil || e.Quantity.GreaterThan(entry.Quantity) {
				entry = e
			}
		}
	}
	if entry == nil {
		return nil
	}

	key := stockKey(entry.ProductID, entry.Location)
	l.keys.Lock(key)
	defer l.keys.Unlock(key)

	entry, err = repo.GetByProductAndLocationForUpdate(entry.ProductID, entry.Location)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}
	newQty := entry.Quantity.Sub(qty)
	if newQty.LessThan(decimal.Zero) {
		newQty = decimal.Zero
	}
	entry.Quantity = newQty
	entry.LastMovementAt = now
	return repo.Update(entry)
}

// Block marca una entrada como BLOQUEADA: queda fuera de la sugerencia
// FEFO/FIFO y de los listados de disponible, pero sigue contando en totales.
func (l *Ledger) Block(id string) error {
	return l.setStatus(id, entity.StockBlocked)
}

// Unblock devuelve una entrada a DISPONIBLE.
func (l *Ledger) Unblock(id string) error {
	return l.setStatus(id, entity.StockAvailable)
}

func (l *Ledger) setStatus(id, status string) error {
	entry, err := l.repo.GetByID(id)
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrNotFound
	}
	key := stockKey(entry.ProductID, entry.Location)
	l.keys.Lock(key)
	defer l.keys.Unlock(key)

	entry, err = l.repo.GetByID(id)
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrNotFound
	}
	entry.Status = status
	return l.repo.Update(entry)
}

// Suggest devuelve la entrada candidata para surtir la cantidad requerida
// según FEFO con desempate FIFO: entre las entradas DISPONIBLES con cantidad
// suficiente gana la de vencimiento más próximo (sin vencimiento ordena al
// final) y, a igual vencimiento, la de último movimiento más antiguo.
// Devuelve nil si ningún candidato alcanza la cantidad.
func (l *Ledger) Suggest(productID string, required decimal.Decimal) (*entity.StockEntry, error) {
	candidates, err := l.repo.ListCandidates(productID, required)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		switch {
		case a.ExpiresAt == nil && b.ExpiresAt == nil:
			// ambos no perecederos: FIFO puro
		case a.ExpiresAt == nil:
			return false
		case b.ExpiresAt == nil:
			return true
		case !a.ExpiresAt.Equal(*b.ExpiresAt):
			return a.ExpiresAt.Before(*b.ExpiresAt)
		}
		return a.Entry.LastMovementAt.Before(b.Entry.LastMovementAt)
	})
	return candidates[0].Entry, nil
}

// Availability lista las entradas DISPONIBLES de un producto junto con los
// totales crudos (lo bloqueado no aparece en el listado pero sí suma).
func (l *Ledger) Availability(productID string) ([]*entity.StockEntry, decimal.Decimal, error) {
	entries, err := l.repo.ListByProduct(productID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	total := decimal.Zero
	available := make([]*entity.StockEntry, 0, len(entries))
	for _, e := range entries {
		total = total.Add(e.Quantity)
		if e.Status == entity.StockAvailable {
			available = append(available, e)
		}
	}
	return available, total, nil
}
