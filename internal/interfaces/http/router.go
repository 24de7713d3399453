package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/kardex-pro/internal/application/auth"
	"github.com/tu-usuario/kardex-pro/internal/application/cashsession"
	"github.com/tu-usuario/kardex-pro/internal/application/ledger"
	"github.com/tu-usuario/kardex-pro/internal/application/pos"
	"github.com/tu-usuario/kardex-pro/internal/application/purchasing"
	"github.com/tu-usuario/kardex-pro/internal/application/returns"
	"github.com/tu-usuario/kardex-pro/internal/application/sales"
	"github.com/tu-usuario/kardex-pro/internal/application/stocktake"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	RegisterMovement *ledger.RegisterMovementUseCase
	StockQuery       *ledger.StockQueryUseCase
	OrderUC          *sales.OrderUseCase
	CheckoutUC       *pos.CheckoutUseCase
	PurchaseUC       *purchasing.PurchaseUseCase
	ReturnUC         *returns.ReturnUseCase
	StockTakeUC      *stocktake.StockTakeUseCase
	SessionUC        *cashsession.SessionUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Kardex y stock (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.StockQuery)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/stock", inventoryHandler.GetStock)

	// Pedidos de venta (protegido)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/confirm", orderHandler.Confirm)
	orders.Post("/:id/cancel", orderHandler.Cancel)

	// Punto de venta (protegido)
	posGroup := protected.Group("/pos")
	posHandler := NewPOSHandler(deps.CheckoutUC)
	posGroup.Post("/checkout", posHandler.Checkout)
	posGroup.Get("/sales/:id", posHandler.GetByID)
	posGroup.Post("/sales/:id/void", posHandler.Void)

	// Compras (protegido)
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/:id/receive", purchaseHandler.Receive)

	// Devoluciones (protegido)
	returnsGroup := protected.Group("/returns")
	returnHandler := NewReturnHandler(deps.ReturnUC)
	returnsGroup.Post("/", returnHandler.Create)
	returnsGroup.Get("/:id", returnHandler.GetByID)
	returnsGroup.Post("/:id/approve", returnHandler.Approve)
	returnsGroup.Post("/:id/reject", returnHandler.Reject)

	// Tomas de inventario (protegido)
	takes := protected.Group("/stock-takes")
	stockTakeHandler := NewStockTakeHandler(deps.StockTakeUC)
	takes.Post("/", stockTakeHandler.Create)
	takes.Get("/:id", stockTakeHandler.GetByID)
	takes.Put("/:id/counts", stockTakeHandler.UpdateCounts)
	takes.Post("/:id/apply", stockTakeHandler.Apply)
	takes.Post("/:id/cancel", stockTakeHandler.Cancel)

	// Sesiones de caja (protegido)
	sessions := protected.Group("/cash-sessions")
	sessionHandler := NewSessionHandler(deps.SessionUC)
	sessions.Post("/", sessionHandler.Open)
	sessions.Get("/:id", sessionHandler.GetByID)
	sessions.Get("/:id/expected", sessionHandler.Expected)
	sessions.Post("/:id/close", sessionHandler.Close)
	sessions.Post("/:id/reopen", sessionHandler.Reopen)
}
