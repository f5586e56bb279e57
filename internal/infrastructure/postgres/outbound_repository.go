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

var _ repository.OutboundOrderRepository = (*OutboundRepo)(nil)

// OutboundRepo implementación de OutboundOrderRepository sobre PostgreSQL.
type OutboundRepo struct {
	q Querier
}

func NewOutboundRepository(q Querier) *OutboundRepo {
	return &OutboundRepo{q: q}
}

const outboundOrderColumns = `
	id, document_number, client, destination, priority, source, warehouse_id,
	status, created_by, created_at, picker_name,
	picking_started_at, picking_ended_at, dispatched_by, dispatched_at`

const outboundLineColumns = `
	id, order_id, product_code, requested_qty, picked_qty,
	suggested_location, status, picked_by,
	pick_started_at, picked_at, picking_seconds`

// Create persiste la orden y todas sus líneas.
func (r *OutboundRepo) Create(order *entity.OutboundOrder) error {
	query := `
		INSERT INTO outbound_orders (` + outboundOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.DocumentNumber, order.Client, order.Destination,
		order.Priority, order.Source, order.WarehouseID,
		int(order.Status), order.CreatedBy, order.CreatedAt, order.PickerName,
		order.PickingStartedAt, order.PickingEndedAt, order.DispatchedBy, order.DispatchedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateDocument
		}
		return fmt.Errorf("insert outbound order: %w", err)
	}
	for _, l := range order.Lines {
		if err := r.insertLine(l); err != nil {
			return err
		}
	}
	return nil
}

func (r *OutboundRepo) insertLine(l *entity.OutboundLine) error {
	query := `
		INSERT INTO outbound_lines (` + outboundLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.OrderID, l.ProductCode, l.RequestedQty, l.PickedQty,
		l.SuggestedLocation, int(l.Status), l.PickedBy,
		l.PickStartedAt, l.PickedAt, l.PickingSeconds,
	)
	if err != nil {
		return fmt.Errorf("insert outbound line: %w", err)
	}
	return nil
}

func scanOutboundOrder(row pgx.Row) (*entity.OutboundOrder, error) {
	var o entity.OutboundOrder
	var status int
	err := row.Scan(
		&o.ID, &o.DocumentNumber, &o.Client, &o.Destination,
		&o.Priority, &o.Source, &o.WarehouseID,
		&status, &o.CreatedBy, &o.CreatedAt, &o.PickerName,
		&o.PickingStartedAt, &o.PickingEndedAt, &o.DispatchedBy, &o.DispatchedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = entity.OutboundStatus(status)
	return &o, nil
}

func scanOutboundLine(row pgx.Row) (*entity.OutboundLine, error) {
	var l entity.OutboundLine
	var status int
	err := row.Scan(
		&l.ID, &l.OrderID, &l.ProductCode, &l.RequestedQty, &l.PickedQty,
		&l.SuggestedLocation, &status, &l.PickedBy,
		&l.PickStartedAt, &l.PickedAt, &l.PickingSeconds,
	)
	if err != nil {
		return nil, err
	}
	l.Status = entity.OutboundLineStatus(status)
	return &l, nil
}

// GetByID obtiene la orden con sus líneas.
func (r *OutboundRepo) GetByID(id string) (*entity.OutboundOrder, error) {
	query := `SELECT ` + outboundOrderColumns + ` FROM outbound_orders WHERE id = $1`
	order, err := scanOutboundOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outbound order: %w", err)
	}
	order.Lines, err = r.ListLines(order.ID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetByDocument obtiene la orden por número de documento (sin líneas).
func (r *OutboundRepo) GetByDocument(documentNumber string) (*entity.OutboundOrder, error) {
	query := `SELECT ` + outboundOrderColumns + ` FROM outbound_orders WHERE document_number = $1`
	order, err := scanOutboundOrder(r.q.QueryRow(context.Background(), query, documentNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outbound order by document: %w", err)
	}
	return order, nil
}

// Update actualiza la cabecera de la orden.
func (r *OutboundRepo) Update(order *entity.OutboundOrder) error {
	query := `
		UPDATE outbound_orders SET
			status = $2, picker_name = $3,
			picking_started_at = $4, picking_ended_at = $5,
			dispatched_by = $6, dispatched_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, int(order.Status), order.PickerName,
		order.PickingStartedAt, order.PickingEndedAt,
		order.DispatchedBy, order.DispatchedAt,
	)
	if err != nil {
		return fmt.Errorf("update outbound order: %w", err)
	}
	return nil
}

// GetLineByID obtiene una línea por id.
func (r *OutboundRepo) GetLineByID(id string) (*entity.OutboundLine, error) {
	query := `SELECT ` + outboundLineColumns + ` FROM outbound_lines WHERE id = $1`
	line, err := scanOutboundLine(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outbound line: %w", err)
	}
	return line, nil
}

// UpdateLine actualiza una línea.
func (r *OutboundRepo) UpdateLine(line *entity.OutboundLine) error {
	query := `
		UPDATE outbound_lines SET
			picked_qty = $2, status = $3, picked_by = $4,
			pick_started_at = $5, picked_at = $6, picking_seconds = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.PickedQty, int(line.Status), line.PickedBy,
		line.PickStartedAt, line.PickedAt, line.PickingSeconds,
	)
	if err != nil {
		return fmt.Errorf("update outbound line: %w", err)
	}
	return nil
}

// ListLines lista las líneas de una orden en orden estable.
func (r *OutboundRepo) ListLines(orderID string) ([]*entity.OutboundLine, error) {
	query := `SELECT ` + outboundLineColumns + ` FROM outbound_lines WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list outbound lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.OutboundLine
	for rows.Next() {
		line, err := scanOutboundLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outbound line: %w", err)
		}
		list = append(list, line)
	}
	return list, rows.Err()
}
