package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jcastano/Bodega-api/internal/domain/entity"
	"github.com/jcastano/Bodega-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL.
type StockRepo struct {
	q Querier
}

func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `
	id, product_id, location, quantity, status, inbound_line_id, last_movement_at`

func scanStockEntry(row pgx.Row) (*entity.StockEntry, error) {
	var e entity.StockEntry
	err := row.Scan(
		&e.ID, &e.ProductID, &e.Location, &e.Quantity,
		&e.Status, &e.InboundLineID, &e.LastMovementAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByID obtiene una entrada por id.
func (r *StockRepo) GetByID(id string) (*entity.StockEntry, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_entries WHERE id = $1`
	e, err := scanStockEntry(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry: %w", err)
	}
	return e, nil
}

// GetByProductAndLocation obtiene el saldo de un producto en una ubicación.
func (r *StockRepo) GetByProductAndLocation(productID, location string) (*entity.StockEntry, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_entries WHERE product_id = $1 AND location = $2`
	e, err := scanStockEntry(r.q.QueryRow(context.Background(), query, productID, location))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry by product/location: %w", err)
	}
	return e, nil
}

// GetByProductAndLocationForUpdate igual que GetByProductAndLocation pero
// bloqueando la fila. Solo tiene sentido dentro de una transacción.
func (r *StockRepo) GetByProductAndLocationForUpdate(productID, location string) (*entity.StockEntry, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_entries WHERE product_id = $1 AND location = $2 FOR UPDATE`
	e, err := scanStockEntry(r.q.QueryRow(context.Background(), query, productID, location))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock stock entry: %w", err)
	}
	return e, nil
}

// Create inserta una nueva entrada de stock.
func (r *StockRepo) Create(e *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.ProductID, e.Location, e.Quantity,
		e.Status, e.InboundLineID, e.LastMovementAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock entry: %w", err)
	}
	return nil
}

// Update actualiza cantidad, estado y último movimiento.
func (r *StockRepo) Update(e *entity.StockEntry) error {
	query := `
		UPDATE stock_entries SET
			quantity = $2, status = $3, inbound_line_id = $4, last_movement_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.Quantity, e.Status, e.InboundLineID, e.LastMovementAt,
	)
	if err != nil {
		return fmt.Errorf("update stock entry: %w", err)
	}
	return nil
}

// ListByProduct lista todas las entradas de un producto.
func (r *StockRepo) ListByProduct(productID string) ([]*entity.StockEntry, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_entries WHERE product_id = $1 ORDER BY location`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockEntry
	for rows.Next() {
		e, err := scanStockEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// ListCandidates devuelve entradas DISPONIBLES con cantidad suficiente,
// con el vencimiento de la línea de ingreso origen resuelto vía join.
// El orden definitivo (FEFO, luego FIFO) lo decide el libro de stock.
func (r *StockRepo) ListCandidates(productID string, required decimal.Decimal) ([]*entity.StockCandidate, error) {
	query := `
		SELECT ` + qualify("e", stockColumns) + `, l.expires_at
		FROM stock_entries e
		LEFT JOIN inbound_lines l ON l.id = e.inbound_line_id
		WHERE e.product_id = $1 AND e.status = $2 AND e.quantity >= $3
		ORDER BY l.expires_at ASC NULLS LAST, e.last_movement_at ASC`
	rows, err := r.q.Query(context.Background(), query, productID, entity.StockAvailable, required)
	if err != nil {
		return nil, fmt.Errorf("list stock candidates: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockCandidate
	for rows.Next() {
		var e entity.StockEntry
		var c entity.StockCandidate
		err := rows.Scan(
			&e.ID, &e.ProductID, &e.Location, &e.Quantity,
			&e.Status, &e.InboundLineID, &e.LastMovementAt,
			&c.ExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan stock candidate: %w", err)
		}
		c.Entry = &e
		list = append(list, &c)
	}
	return list, rows.Err()
}
