package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"petsy/internal/dto"
	apperrors "petsy/internal/errors"
)

// StockChecker is the read side of the inventory ledger.
type StockChecker interface {
	Available(ctx context.Context, productID int) (int, error)
}

type Controller struct {
	catalog *Catalog
	stock   StockChecker
	logger  *zap.Logger
}

func NewController(catalog *Catalog, stock StockChecker, logger *zap.Logger) *Controller {
	return &Controller{catalog: catalog, stock: stock, logger: logger}
}

func (c *Controller) GetProduct(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	productID, ok := c.productID(w, r, traceID, logger)
	if !ok {
		return
	}

	product, err := c.catalog.Get(r.Context(), productID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.ProductResponse{
		ProductID:   product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		Status:      product.Status,
	})
}

// CheckAvailability reports whether the requested quantity is currently in
// stock. Advisory only: placement re-checks under lock.
func (c *Controller) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	productID, ok := c.productID(w, r, traceID, logger)
	if !ok {
		return
	}

	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	available, err := c.stock.Available(r.Context(), productID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]interface{}{
		"traceId":    traceID,
		"product_id": productID,
		"quantity":   quantity,
		"available":  available >= quantity,
	})
}

func (c *Controller) productID(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (int, bool) {
	productIDStr := chi.URLParam(r, "productId")
	productID, err := strconv.Atoi(productIDStr)
	if err != nil {
		logger.Warn("invalid productId in path", zap.Error(err))
		c.writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			TraceID:   traceID,
			Status:    http.StatusBadRequest,
			Code:      "VALIDATION_ERROR",
			Message:   "productId must be an integer",
			Timestamp: time.Now().UTC(),
		})
		return 0, false
	}
	return productID, true
}

func (c *Controller) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if nf, ok := apperrors.IsNotFoundError(err); ok {
		c.writeJSON(w, http.StatusNotFound, dto.ErrorResponse{
			TraceID:   traceID,
			Status:    http.StatusNotFound,
			Code:      "NOT_FOUND",
			Message:   nf.Message,
			Timestamp: time.Now().UTC(),
		})
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    http.StatusInternalServerError,
		Code:      "INTERNAL_ERROR",
		Message:   "an unexpected error occurred",
		Timestamp: time.Now().UTC(),
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
