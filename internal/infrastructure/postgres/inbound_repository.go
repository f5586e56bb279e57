package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jcastano/Bodega-api/internal/domain"
	"github.com/jcastano/Bodega-api/internal/domain/entity"
	"github.com/jcastano/Bodega-api/internal/domain/repository"
)

var _ repository.InboundOrderRepository = (*InboundRepo)(nil)

// InboundRepo implementación de InboundOrderRepository sobre PostgreSQL
// (usable con pool o tx).
type InboundRepo struct {
	q Querier
}

// NewInboundRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInboundRepository(q Querier) *InboundRepo {
	return &InboundRepo{q: q}
}

const inboundOrderColumns = `
	id, document_number, origin, warehouse_id, status,
	created_by, validated_by, stored_by, created_at, validated_at, stored_at`

const inboundLineColumns = `
	id, order_id, product_code, expected_qty, received_qty, lot_code,
	expires_at, suggested_location, final_location, status,
	validated_by, stored_by, validation_started_at, validated_at,
	storage_started_at, stored_at, validation_seconds, storage_seconds`

// Create persiste la nota y todas sus líneas en la misma operación.
func (r *InboundRepo) Create(order *entity.InboundOrder) error {
	query := `
		INSERT INTO inbound_orders (` + inboundOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.DocumentNumber, order.Origin, order.WarehouseID, int(order.Status),
		order.CreatedBy, order.ValidatedBy, order.StoredBy,
		order.CreatedAt, order.ValidatedAt, order.StoredAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateDocument
		}
		return fmt.Errorf("insert inbound order: %w", err)
	}
	for _, l := range order.Lines {
		if err := r.insertLine(l); err != nil {
			return err
		}
	}
	return nil
}

func (r *InboundRepo) insertLine(l *entity.InboundLine) error {
	query := `
		INSERT INTO inbound_lines (` + inboundLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.OrderID, l.ProductCode, l.ExpectedQty, l.ReceivedQty, l.LotCode,
		l.ExpiresAt, l.SuggestedLocation, l.FinalLocation, int(l.Status),
		l.ValidatedBy, l.StoredBy, l.ValidationStartedAt, l.ValidatedAt,
		l.StorageStartedAt, l.StoredAt, l.ValidationSeconds, l.StorageSeconds,
	)
	if err != nil {
		return fmt.Errorf("insert inbound line: %w", err)
	}
	return nil
}

func scanInboundOrder(row pgx.Row) (*entity.InboundOrder, error) {
	var o entity.InboundOrder
	var status int
	err := row.Scan(
		&o.ID, &o.DocumentNumber, &o.Origin, &o.WarehouseID, &status,
		&o.CreatedBy, &o.ValidatedBy, &o.StoredBy,
		&o.CreatedAt, &o.ValidatedAt, &o.StoredAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = entity.InboundStatus(status)
	return &o, nil
}

func scanInboundLine(row pgx.Row) (*entity.InboundLine, error) {
	var l entity.InboundLine
	var status int
	err := row.Scan(
		&l.ID, &l.OrderID, &l.ProductCode, &l.ExpectedQty, &l.ReceivedQty, &l.LotCode,
		&l.ExpiresAt, &l.SuggestedLocation, &l.FinalLocation, &status,
		&l.ValidatedBy, &l.StoredBy, &l.ValidationStartedAt, &l.ValidatedAt,
		&l.StorageStartedAt, &l.StoredAt, &l.ValidationSeconds, &l.StorageSeconds,
	)
	if err != nil {
		return nil, err
	}
	l.Status = entity.InboundLineStatus(status)
	return &l, nil
}

// GetByID obtiene la nota con sus líneas.
func (r *InboundRepo) GetByID(id string) (*entity.InboundOrder, error) {
	query := `SELECT ` + inboundOrderColumns + ` FROM inbound_orders WHERE id = $1`
	order, err := scanInboundOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inbound order: %w", err)
	}
	order.Lines, err = r.ListLines(order.ID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetByDocument obtiene la nota por número de documento (sin líneas).
func (r *InboundRepo) GetByDocument(documentNumber string) (*entity.InboundOrder, error) {
	query := `SELECT ` + inboundOrderColumns + ` FROM inbound_orders WHERE document_number = $1`
	order, err := scanInboundOrder(r.q.QueryRow(context.Background(), query, documentNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inbound order by document: %w", err)
	}
	return order, nil
}

// Update actualiza la cabecera de la nota.
func (r *InboundRepo) Update(order *entity.InboundOrder) error {
	query := `
		UPDATE inbound_orders SET
			status = $2, validated_by = $3, stored_by = $4,
			validated_at = $5, stored_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, int(order.Status), order.ValidatedBy, order.StoredBy,
		order.ValidatedAt, order.StoredAt,
	)
	if err != nil {
		return fmt.Errorf("update inbound order: %w", err)
	}
	return nil
}

// GetLineByID obtiene una línea por id.
func (r *InboundRepo) GetLineByID(id string) (*entity.InboundLine, error) {
	query := `SELECT ` + inboundLineColumns + ` FROM inbound_lines WHERE id = $1`
	line, err := scanInboundLine(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inbound line: %w", err)
	}
	return line, nil
}

// FindLineByCode busca una línea por código de producto o código de barras
// (join con el maestro), prefiriendo las del estado indicado.
func (r *InboundRepo) FindLineByCode(code string, prefer entity.InboundLineStatus) (*entity.InboundLine, error) {
	query := `
		SELECT ` + qualify("l", inboundLineColumns) + `
		FROM inbound_lines l
		JOIN products p ON p.code = l.product_code
		WHERE p.code = $1 OR p.barcode = $1
		ORDER BY (l.status = $2) DESC, l.id
		LIMIT 1`
	line, err := scanInboundLine(r.q.QueryRow(context.Background(), query, code, int(prefer)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find inbound line by code: %w", err)
	}
	return line, nil
}

// UpdateLine actualiza una línea.
func (r *InboundRepo) UpdateLine(line *entity.InboundLine) error {
	query := `
		UPDATE inbound_lines SET
			received_qty = $2, final_location = $3, status = $4,
			validated_by = $5, stored_by = $6,
			validation_started_at = $7, validated_at = $8,
			storage_started_at = $9, stored_at = $10,
			validation_seconds = $11, storage_seconds = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.ReceivedQty, line.FinalLocation, int(line.Status),
		line.ValidatedBy, line.StoredBy,
		line.ValidationStartedAt, line.ValidatedAt,
		line.StorageStartedAt, line.StoredAt,
		line.ValidationSeconds, line.StorageSeconds,
	)
	if err != nil {
		return fmt.Errorf("update inbound line: %w", err)
	}
	return nil
}

// ListLines lista las líneas de una nota en orden estable.
func (r *InboundRepo) ListLines(orderID string) ([]*entity.InboundLine, error) {
	query := `SELECT ` + inboundLineColumns + ` FROM inbound_lines WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list inbound lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InboundLine
	for rows.Next() {
		line, err := scanInboundLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inbound line: %w", err)
		}
		list = append(list, line)
	}
	return list, rows.Err()
}
