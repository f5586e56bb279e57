package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jcastano/Bodega-api/internal/application/inbound"
	"github.com/jcastano/Bodega-api/internal/application/outbound"
	"github.com/jcastano/Bodega-api/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos transaccionales de ambos flujos.
var _ inbound.TxRunner = (*TxRunner)(nil)
var _ outbound.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, de modo
// que la orden, sus líneas, el libro de stock y el historial muten como una
// sola unidad (Commit) o ninguna (Rollback).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInbound inicia una transacción con los repos del flujo de ingreso.
func (r *TxRunner) RunInbound(ctx context.Context, fn func(
	orders repository.InboundOrderRepository,
	stockRepo repository.StockRepository,
	histRepo repository.TransitionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInboundRepository(tx), NewStockRepository(tx), NewTransitionRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunOutbound inicia una transacción con los repos del flujo de salida.
func (r *TxRunner) RunOutbound(ctx context.Context, fn func(
	orders repository.OutboundOrderRepository,
	stockRepo repository.StockRepository,
	histRepo repository.TransitionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewOutboundRepository(tx), NewStockRepository(tx), NewTransitionRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
