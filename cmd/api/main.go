package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/kardex-pro/internal/application/auth"
	"github.com/tu-usuario/kardex-pro/internal/application/cashsession"
	"github.com/tu-usuario/kardex-pro/internal/application/ledger"
	"github.com/tu-usuario/kardex-pro/internal/application/pos"
	"github.com/tu-usuario/kardex-pro/internal/application/purchasing"
	"github.com/tu-usuario/kardex-pro/internal/application/returns"
	"github.com/tu-usuario/kardex-pro/internal/application/sales"
	"github.com/tu-usuario/kardex-pro/internal/application/stocktake"
	"github.com/tu-usuario/kardex-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/kardex-pro/internal/interfaces/http"
	"github.com/tu-usuario/kardex-pro/pkg/config"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	stockRepo := postgres.NewStockUnitRepository(pool)
	orderRepo := postgres.NewSalesOrderRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseOrderRepository(pool)
	returnRepo := postgres.NewSalesReturnRepository(pool)
	takeRepo := postgres.NewStockTakeRepository(pool)
	sessionRepo := postgres.NewCashSessionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	registerMovementUC := ledger.NewRegisterMovementUseCase(txRunner, productRepo, branchRepo)
	stockQueryUC := ledger.NewStockQueryUseCase(stockRepo, movementRepo)
	orderUC := sales.NewOrderUseCase(txRunner, orderRepo, productRepo, branchRepo)
	checkoutUC := pos.NewCheckoutUseCase(txRunner, productRepo, branchRepo, sessionRepo, saleRepo)
	purchaseUC := purchasing.NewPurchaseUseCase(txRunner, purchaseRepo, productRepo, branchRepo)
	returnUC := returns.NewReturnUseCase(txRunner, returnRepo, saleRepo, productRepo)
	stockTakeUC := stocktake.NewStockTakeUseCase(txRunner, takeRepo, stockRepo, branchRepo)
	sessionUC := cashsession.NewSessionUseCase(txRunner, sessionRepo, saleRepo, branchRepo, cashsession.Policy{
		SingleOpenPerBranch: cfg.POS.SingleOpenSessionPerBranch,
	})
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		RegisterMovement: registerMovementUC,
		StockQuery:       stockQueryUC,
		OrderUC:          orderUC,
		CheckoutUC:       checkoutUC,
		PurchaseUC:       purchaseUC,
		ReturnUC:         returnUC,
		StockTakeUC:      stockTakeUC,
		SessionUC:        sessionUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
