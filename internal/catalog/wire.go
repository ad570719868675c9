package catalog

import (
	"database/sql"

	"go.uber.org/zap"

	"petsy/internal/catalog/repository"
)

func NewModule(db *sql.DB, stock StockChecker, logger *zap.Logger) (*Catalog, *Controller) {
	productRepo := repository.NewMySQLProductRepository(db)
	cat := New(productRepo)
	return cat, NewController(cat, stock, logger)
}
