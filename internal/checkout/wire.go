package checkout

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"petsy/internal/catalog"
	"petsy/internal/checkout/controller"
	"petsy/internal/checkout/repository"
	"petsy/internal/checkout/service"
	"petsy/internal/config"
	"petsy/internal/events"
	"petsy/internal/metrics"
	"petsy/internal/session"
)

func NewModule(
	db *sql.DB,
	cfg *config.Config,
	cat *catalog.Catalog,
	sessions session.Store,
	publisher events.Publisher,
	logger *zap.Logger,
) *controller.CheckoutController {
	orderRepo := repository.NewMySQLOrderRepository(db)
	orderItemRepo := repository.NewMySQLOrderItemRepository(db)
	stockRepo := repository.NewMySQLStockRepository(db)

	checkoutSvc := service.NewCheckoutService(
		db,
		orderRepo,
		orderItemRepo,
		stockRepo,
		cat,
		publisher,
		metrics.New(prometheus.DefaultRegisterer),
		logger,
		cfg.Checkout.TxTimeout,
		cfg.Checkout.MaxRetryAttempts,
	)

	return controller.NewCheckoutController(checkoutSvc, sessions, logger)
}

// NewStockRepository exposes the ledger's read side for the catalog module.
func NewStockRepository(db *sql.DB) *repository.MySQLStockRepository {
	return repository.NewMySQLStockRepository(db)
}
