package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastano/Bodega-api/internal/application/history"
	"github.com/jcastano/Bodega-api/internal/application/inbound"
	"github.com/jcastano/Bodega-api/internal/application/outbound"
	"github.com/jcastano/Bodega-api/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InboundUC  *inbound.UseCase
	OutboundUC *outbound.UseCase
	Ledger     *stock.Ledger
	Recorder   *history.Recorder
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Notas de ingreso (protegido)
	inboundHandler := NewInboundHandler(deps.InboundUC, deps.Recorder)
	inboundGroup := protected.Group("/inbound")
	inboundGroup.Post("/", inboundHandler.Create)
	inboundGroup.Get("/:id", inboundHandler.GetByID)
	inboundGroup.Get("/:id/history", inboundHandler.History)
	inboundGroup.Post("/:id/confirm", inboundHandler.Confirm)
	inboundGroup.Patch("/:id/status", inboundHandler.UpdateStatus)
	inboundGroup.Post("/lines/validate", inboundHandler.ValidateLine)
	inboundGroup.Post("/lines/store", inboundHandler.StoreLine)
	inboundGroup.Post("/lines/:lineId/validation/start", inboundHandler.StartLineValidation)
	inboundGroup.Post("/lines/:lineId/storage/start", inboundHandler.StartLineStorage)

	// Órdenes de salida (protegido)
	outboundHandler := NewOutboundHandler(deps.OutboundUC, deps.Recorder)
	outboundGroup := protected.Group("/outbound")
	outboundGroup.Post("/", outboundHandler.Create)
	outboundGroup.Get("/:id", outboundHandler.GetByID)
	outboundGroup.Get("/:id/history", outboundHandler.History)
	outboundGroup.Get("/:id/voucher", outboundHandler.Voucher)
	outboundGroup.Get("/:id/voucher/pdf", outboundHandler.VoucherPDF)
	outboundGroup.Post("/:id/picking/start", outboundHandler.StartPicking)
	outboundGroup.Post("/:id/complete", outboundHandler.Complete)
	outboundGroup.Post("/:id/dispatch", RequireRole("admin", "supervisor"), outboundHandler.Dispatch)
	outboundGroup.Post("/:id/void", RequireRole("admin", "supervisor"), outboundHandler.Void)
	outboundGroup.Post("/lines/:lineId/pick/start", outboundHandler.StartLinePick)
	outboundGroup.Post("/lines/:lineId/pick", outboundHandler.PickLine)

	// Libro de stock (protegido)
	stockHandler := NewStockHandler(deps.Ledger)
	stockGroup := protected.Group("/stock")
	stockGroup.Get("/:productId", stockHandler.Availability)
	stockGroup.Get("/:productId/suggestion", stockHandler.Suggest)
	stockGroup.Post("/entries/:id/reduce", RequireRole("admin", "supervisor"), stockHandler.Reduce)
	stockGroup.Post("/entries/:id/block", RequireRole("admin", "supervisor"), stockHandler.Block)
	stockGroup.Post("/entries/:id/unblock", RequireRole("admin", "supervisor"), stockHandler.Unblock)
}
