package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"petsy/internal/domain"
	"petsy/internal/dto"
	apperrors "petsy/internal/errors"
	"petsy/internal/events"
	"petsy/internal/metrics"
	"petsy/internal/session"
)

const msgOrderNotFound = "Order does not exist"

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error)
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	UpdateDetails(ctx context.Context, id uint, details domain.OrderDetails) error
	TransitionFromPending(ctx context.Context, tx *sql.Tx, id uint, status string) error
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (uint, error)
	ListByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
}

// StockRepository is the inventory ledger seen by checkout.
type StockRepository interface {
	FindForUpdate(ctx context.Context, tx *sql.Tx, productID int) (*domain.Product, error)
	Decrement(ctx context.Context, tx *sql.Tx, productID int, quantity int) error
}

type ProductCatalog interface {
	Exists(ctx context.Context, productID int) (bool, error)
	GetUnitPrice(ctx context.Context, productID int) (float64, error)
}

// CheckoutService drives the order lifecycle: pending orders move to paid
// through PlaceOrder when every line item clears stock, or to cancelled
// through CancelOrder. Both paid and cancelled are terminal.
type CheckoutService struct {
	db               TransactionManager
	orders           OrderRepository
	items            OrderItemRepository
	stock            StockRepository
	catalog          ProductCatalog
	publisher        events.Publisher
	metrics          *metrics.CheckoutMetrics
	logger           *zap.Logger
	txTimeout        time.Duration
	maxRetryAttempts int
}

func NewCheckoutService(
	db TransactionManager,
	orders OrderRepository,
	items OrderItemRepository,
	stock StockRepository,
	catalog ProductCatalog,
	publisher events.Publisher,
	m *metrics.CheckoutMetrics,
	logger *zap.Logger,
	txTimeout time.Duration,
	maxRetryAttempts int,
) *CheckoutService {
	return &CheckoutService{
		db:               db,
		orders:           orders,
		items:            items,
		stock:            stock,
		catalog:          catalog,
		publisher:        publisher,
		metrics:          m,
		logger:           logger,
		txTimeout:        txTimeout,
		maxRetryAttempts: maxRetryAttempts,
	}
}

// StartOrder creates a pending order with a single line item priced at the
// product's current unit price, and binds it to the session. Stock is not
// checked here; availability only gates placement.
func (s *CheckoutService) StartOrder(ctx context.Context, sess session.Binding, productID int, quantity int) (*domain.Order, error) {
	if quantity < 1 {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "must be a positive integer",
		})
	}

	exists, err := s.catalog.Exists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("Product does not exist")
	}

	price, err := s.catalog.GetUnitPrice(ctx, productID)
	if err != nil {
		return nil, err
	}

	order := domain.Order{
		Status:     domain.OrderStatusPending,
		TotalPrice: price * float64(quantity),
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	orderID, err := s.orders.Insert(txCtx, tx, order)
	if err != nil {
		return nil, err
	}

	item := domain.OrderItem{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: price,
	}

	if _, err := s.items.Insert(txCtx, tx, item); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("orderId", orderID), zap.Error(err))
		return nil, err
	}

	if err := sess.Set(ctx, orderID); err != nil {
		return nil, err
	}

	s.metrics.OrdersStarted.Inc()
	s.logger.Info("order started",
		zap.Uint("orderId", orderID),
		zap.Int("productId", productID),
		zap.Int("quantity", quantity),
	)

	order.ID = orderID
	return &order, nil
}

// ViewForEdit loads the session's current order for the edit page.
func (s *CheckoutService) ViewForEdit(ctx context.Context, sess session.Binding, orderID uint) (*dto.OrderView, error) {
	return s.view(ctx, sess, orderID, "edit")
}

// ViewForFinalize loads the session's current order for the finalize page.
func (s *CheckoutService) ViewForFinalize(ctx context.Context, sess session.Binding, orderID uint) (*dto.OrderView, error) {
	return s.view(ctx, sess, orderID, "finalize")
}

func (s *CheckoutService) view(ctx context.Context, sess session.Binding, orderID uint, action string) (*dto.OrderView, error) {
	order, err := s.currentOrder(ctx, sess, orderID, action)
	if err != nil {
		return nil, err
	}

	items, err := s.items.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &dto.OrderView{Order: order, Items: items}, nil
}

// UpdateDetails replaces the shopper-supplied fields on the session's
// current order. Presence validation happens before any write; a blank
// required field leaves storage untouched.
func (s *CheckoutService) UpdateDetails(ctx context.Context, sess session.Binding, orderID uint, details domain.OrderDetails) (*domain.Order, error) {
	order, err := s.currentOrder(ctx, sess, orderID, "edit")
	if err != nil {
		return nil, err
	}

	if order.IsTerminal() {
		return nil, apperrors.NewConflictError(fmt.Sprintf("order with id %d is no longer pending", orderID))
	}

	if problems := details.ValidateDetails(); len(problems) > 0 {
		return nil, apperrors.NewValidationError("validation failed", problems...)
	}

	if err := s.orders.UpdateDetails(ctx, orderID, details); err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewNotFoundError(msgOrderNotFound)
		}
		return nil, err
	}

	s.logger.Info("order details updated", zap.Uint("orderId", orderID))

	order.Details = details
	return order, nil
}

// PlaceOrder attempts the pending -> paid transition. Every line item's
// product row is locked in ascending product-id order, quantities are
// checked, and only if all pass is stock decremented. A shortfall rolls the
// whole transaction back: no stock moves, the order stays pending, and the
// session binding is retained so the shopper can retry after restock.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sess session.Binding, orderID uint) (*dto.PlacementResult, error) {
	started := time.Now()

	order, err := s.currentOrder(ctx, sess, orderID, "place")
	if err != nil {
		s.metrics.Placements.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}

	if order.IsTerminal() {
		s.metrics.Placements.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, apperrors.NewConflictError(fmt.Sprintf("order with id %d is no longer pending", orderID))
	}

	items, err := s.items.ListByOrderID(ctx, orderID)
	if err != nil {
		s.metrics.Placements.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}

	result, err := s.placeWithRetry(ctx, orderID, items)
	if err != nil {
		return nil, err
	}

	s.metrics.PlaceDuration.Observe(float64(time.Since(started).Milliseconds()))

	if !result.Placed() {
		// Binding stays: this is the one failure that keeps session state.
		s.metrics.Placements.WithLabelValues(metrics.OutcomeOutOfStock).Inc()
		s.logger.Warn("placement failed, insufficient stock",
			zap.Uint("orderId", orderID),
			zap.Int("shortageCount", len(result.Shortages)),
		)
		return result, nil
	}

	if err := sess.Clear(ctx); err != nil {
		return nil, err
	}

	s.metrics.Placements.WithLabelValues(metrics.OutcomePlaced).Inc()
	s.publisher.PublishOrderEvent(ctx, events.OrderEvent{
		Type:       events.TypeOrderPlaced,
		OrderID:    orderID,
		TotalPrice: order.TotalPrice,
		OccurredAt: time.Now().UTC(),
	})

	s.logger.Info("order placed",
		zap.Uint("orderId", orderID),
		zap.Float64("totalPrice", order.TotalPrice),
	)

	result.TotalPrice = order.TotalPrice
	return result, nil
}

func (s *CheckoutService) placeWithRetry(ctx context.Context, orderID uint, items []domain.OrderItem) (*dto.PlacementResult, error) {
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= s.maxRetryAttempts; attempt++ {
		result, err := s.placeOnce(ctx, orderID, items)
		if err == nil {
			return result, nil
		}

		if isDeadlockError(err) {
			if attempt < s.maxRetryAttempts {
				base := backoffs[len(backoffs)-1]
				if attempt-1 < len(backoffs) {
					base = backoffs[attempt-1]
				}
				jitter := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
				time.Sleep(jitter)
				s.logger.Warn("deadlock detected, retrying",
					zap.Int("attempt", attempt),
					zap.Int("maxAttempts", s.maxRetryAttempts),
					zap.Uint("orderId", orderID),
				)
				continue
			}
			break
		}

		return nil, err
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}

func (s *CheckoutService) placeOnce(ctx context.Context, orderID uint, items []domain.OrderItem) (*dto.PlacementResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// Rollback on any exit path. MySQL ignores it once committed.
	defer tx.Rollback()

	// Lock product rows in ascending id order so concurrent placements
	// never acquire them in conflicting order.
	sorted := make([]domain.OrderItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	var shortages []dto.Shortage
	for _, item := range sorted {
		product, err := s.stock.FindForUpdate(txCtx, tx, item.ProductID)
		if err != nil {
			return nil, err
		}

		if product.Stock < item.Quantity {
			shortages = append(shortages, dto.Shortage{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: product.Stock,
			})
		}
	}

	if len(shortages) > 0 {
		return &dto.PlacementResult{
			Status:    dto.PlacementOutOfStock,
			OrderID:   orderID,
			Shortages: shortages,
		}, nil
	}

	for _, item := range sorted {
		if err := s.stock.Decrement(txCtx, tx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.orders.TransitionFromPending(txCtx, tx, orderID, domain.OrderStatusPaid); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("orderId", orderID), zap.Error(err))
		return nil, err
	}

	return &dto.PlacementResult{
		Status:  dto.PlacementPlaced,
		OrderID: orderID,
	}, nil
}

// CancelOrder moves a pending order to cancelled and clears the session
// binding. Ownership is enforced the same way as every other gated
// operation.
func (s *CheckoutService) CancelOrder(ctx context.Context, sess session.Binding, orderID uint) error {
	order, err := s.currentOrder(ctx, sess, orderID, "cancel")
	if err != nil {
		return err
	}

	if order.IsTerminal() {
		return apperrors.NewConflictError(fmt.Sprintf("order with id %d is no longer pending", orderID))
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.orders.TransitionFromPending(txCtx, tx, orderID, domain.OrderStatusCancelled); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("orderId", orderID), zap.Error(err))
		return err
	}

	if err := sess.Clear(ctx); err != nil {
		return err
	}

	s.publisher.PublishOrderEvent(ctx, events.OrderEvent{
		Type:       events.TypeOrderCancelled,
		OrderID:    orderID,
		TotalPrice: order.TotalPrice,
		OccurredAt: time.Now().UTC(),
	})

	s.logger.Info("order cancelled", zap.Uint("orderId", orderID))
	return nil
}

// Confirm fetches any order by id for the confirmation page. The session
// binding is cleared by then, so there is no ownership gate here.
func (s *CheckoutService) Confirm(ctx context.Context, orderID uint) (*dto.OrderView, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewNotFoundError(msgOrderNotFound)
		}
		return nil, err
	}

	items, err := s.items.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &dto.OrderView{Order: order, Items: items}, nil
}

// currentOrder resolves the session's bound order and checks that orderID is
// actually this session's. "No current order" and "not your order" are
// distinct, user-visible outcomes.
func (s *CheckoutService) currentOrder(ctx context.Context, sess session.Binding, orderID uint, action string) (*domain.Order, error) {
	boundID, err := sess.Get(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoBinding) {
			return nil, apperrors.NewNotFoundError(msgOrderNotFound)
		}
		return nil, err
	}

	if boundID != orderID {
		return nil, apperrors.NewForbiddenError(fmt.Sprintf("You can't %s an order that isn't yours", action))
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewNotFoundError(msgOrderNotFound)
		}
		return nil, err
	}

	return order, nil
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
