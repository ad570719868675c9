package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"petsy/internal/domain"
	"petsy/internal/dto"
	apperrors "petsy/internal/errors"
	"petsy/internal/identity"
	"petsy/internal/session"
)

type CheckoutUseCase interface {
	StartOrder(ctx context.Context, sess session.Binding, productID int, quantity int) (*domain.Order, error)
	ViewForEdit(ctx context.Context, sess session.Binding, orderID uint) (*dto.OrderView, error)
	ViewForFinalize(ctx context.Context, sess session.Binding, orderID uint) (*dto.OrderView, error)
	UpdateDetails(ctx context.Context, sess session.Binding, orderID uint, details domain.OrderDetails) (*domain.Order, error)
	PlaceOrder(ctx context.Context, sess session.Binding, orderID uint) (*dto.PlacementResult, error)
	CancelOrder(ctx context.Context, sess session.Binding, orderID uint) error
	Confirm(ctx context.Context, orderID uint) (*dto.OrderView, error)
}

type CheckoutController struct {
	useCase  CheckoutUseCase
	sessions session.Store
	logger   *zap.Logger
}

func NewCheckoutController(useCase CheckoutUseCase, sessions session.Store, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{
		useCase:  useCase,
		sessions: sessions,
		logger:   logger,
	}
}

func (c *CheckoutController) StartOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.requestLogger(r, traceID)

	sess, ok := c.binding(w, r, traceID, logger)
	if !ok {
		return
	}

	var req dto.StartOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	order, err := c.useCase.StartOrder(r.Context(), sess, req.ProductID, req.Quantity)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.OrderResponse{
		TraceID:    traceID,
		OrderID:    order.ID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		Timestamp:  time.Now().UTC(),
	})
}

func (c *CheckoutController) ViewForEdit(w http.ResponseWriter, r *http.Request) {
	c.viewOrder(w, r, c.useCase.ViewForEdit)
}

func (c *CheckoutController) ViewForFinalize(w http.ResponseWriter, r *http.Request) {
	c.viewOrder(w, r, c.useCase.ViewForFinalize)
}

func (c *CheckoutController) viewOrder(
	w http.ResponseWriter,
	r *http.Request,
	load func(ctx context.Context, sess session.Binding, orderID uint) (*dto.OrderView, error),
) {
	traceID := uuid.New().String()
	logger := c.requestLogger(r, traceID)

	sess, ok := c.binding(w, r, traceID, logger)
	if !ok {
		return
	}

	orderID, ok := c.orderID(w, r, traceID, logger)
	if !ok {
		return
	}

	view, err := load(r.Context(), sess, orderID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeOrderView(w, traceID, view)
}

func (c *CheckoutController) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.requestLogger(r, traceID)

	sess, ok := c.binding(w, r, traceID, logger)
	if !ok {
		return
	}

	orderID, ok := c.orderID(w, r, traceID, logger)
	if !ok {
		return
	}

	var req dto.UpdateDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	details := domain.OrderDetails{
		EmailAddress:         req.EmailAddress,
		MailingAddress:       req.MailingAddress,
		NameOnCreditCard:     req.NameOnCreditCard,
		CreditCardNumber:     req.CreditCardNumber,
		CreditCardExpiration: req.CreditCardExpiration,
		CreditCardCVV:        req.CreditCardCVV,
		BillingZipCode:       req.BillingZipCode,
	}

	order, err := c.useCase.UpdateDetails(r.Context(), sess, orderID, details)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderResponse{
		TraceID:        traceID,
		OrderID:        order.ID,
		Status:         order.Status,
		EmailAddress:   order.Details.EmailAddress,
		MailingAddress: order.Details.MailingAddress,
		TotalPrice:     order.TotalPrice,
		Timestamp:      time.Now().UTC(),
	})
}

func (c *CheckoutController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.requestLogger(r, traceID)

	sess, ok := c.binding(w, r, traceID, logger)
	if !ok {
		return
	}

	orderID, ok := c.orderID(w, r, traceID, logger)
	if !ok {
		return
	}

	result, err := c.useCase.PlaceOrder(r.Context(), sess, orderID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	shortages := make([]dto.ShortageResponse, len(result.Shortages))
	for i, s := range result.Shortages {
		shortages[i] = dto.ShortageResponse{
			ProductID: s.ProductID,
			Requested: s.Requested,
			Available: s.Available,
		}
	}

	statusCode := http.StatusOK
	if !result.Placed() {
		statusCode = http.StatusConflict
	}

	c.writeJSON(w, statusCode, dto.PlacementResponse{
		TraceID:    traceID,
		OrderID:    result.OrderID,
		Status:     string(result.Status),
		TotalPrice: result.TotalPrice,
		Shortages:  shortages,
		Timestamp:  time.Now().UTC(),
	})
}

func (c *CheckoutController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.requestLogger(r, traceID)

	sess, ok := c.binding(w, r, traceID, logger)
	if !ok {
		return
	}

	orderID, ok := c.orderID(w, r, traceID, logger)
	if !ok {
		return
	}

	if err := c.useCase.CancelOrder(r.Context(), sess, orderID); err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderResponse{
		TraceID:   traceID,
		OrderID:   orderID,
		Status:    domain.OrderStatusCancelled,
		Timestamp: time.Now().UTC(),
	})
}

func (c *CheckoutController) Confirm(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.requestLogger(r, traceID)

	orderID, ok := c.orderID(w, r, traceID, logger)
	if !ok {
		return
	}

	view, err := c.useCase.Confirm(r.Context(), orderID)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeOrderView(w, traceID, view)
}

// requestLogger tags every log line with the trace id and, for signed-in
// shoppers, the resolved user id.
func (c *CheckoutController) requestLogger(r *http.Request, traceID string) *zap.Logger {
	logger := c.logger.With(zap.String("traceId", traceID))
	if userID, ok := identity.UserID(r.Context()); ok {
		logger = logger.With(zap.Uint64("userId", userID))
	}
	return logger
}

func (c *CheckoutController) binding(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (session.Binding, bool) {
	sessionID, ok := identity.SessionID(r.Context())
	if !ok {
		logger.Error("request without session id")
		c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
		return nil, false
	}
	return c.sessions.Binding(sessionID), true
}

func (c *CheckoutController) orderID(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (uint, bool) {
	orderIDStr := chi.URLParam(r, "orderId")
	orderID, err := strconv.ParseUint(orderIDStr, 10, 64)
	if err != nil {
		logger.Warn("invalid orderId in path", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a positive integer",
		})
		return 0, false
	}
	return uint(orderID), true
}

func (c *CheckoutController) writeOrderView(w http.ResponseWriter, traceID string, view *dto.OrderView) {
	items := make([]dto.OrderItemResponse, len(view.Items))
	for i, item := range view.Items {
		items[i] = dto.OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		}
	}

	c.writeJSON(w, http.StatusOK, dto.OrderResponse{
		TraceID:        traceID,
		OrderID:        view.Order.ID,
		Status:         view.Order.Status,
		EmailAddress:   view.Order.Details.EmailAddress,
		MailingAddress: view.Order.Details.MailingAddress,
		Items:          items,
		TotalPrice:     view.Order.TotalPrice,
		Timestamp:      time.Now().UTC(),
	})
}

func (c *CheckoutController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if nf, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", nf.Message)
		return
	}

	if fe, ok := apperrors.IsForbiddenError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusForbidden, "FORBIDDEN", fe.Message)
		return
	}

	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "CONFLICT", ce.Message)
		return
	}

	if oe, ok := apperrors.IsOutOfStockError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "INSUFFICIENT_STOCK", oe.Message)
		return
	}

	if de, ok := apperrors.IsDeadlockError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "DEADLOCK", de.Message)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *CheckoutController) writeErrorResponse(w http.ResponseWriter, traceID string, statusCode int, code string, message string) {
	c.writeJSON(w, statusCode, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    statusCode,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *CheckoutController) writeValidationError(w http.ResponseWriter, traceID string, message string, details ...apperrors.ValidationDetail) {
	response := validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}

	c.writeJSON(w, http.StatusBadRequest, response)
}

func (c *CheckoutController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
