package repository

import (
	"context"
	"database/sql"
	"fmt"

	"petsy/internal/domain"
	"petsy/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error) {
	query := `
		INSERT INTO Orders (status, emailAddress, mailingAddress, nameOnCreditCard,
		                    creditCardNumber, creditCardExpiration, creditCardCVV,
		                    billingZipCode, totalPrice)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		order.Status,
		order.Details.EmailAddress, order.Details.MailingAddress,
		order.Details.NameOnCreditCard, order.Details.CreditCardNumber,
		order.Details.CreditCardExpiration, order.Details.CreditCardCVV,
		order.Details.BillingZipCode, order.TotalPrice,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `
		SELECT id, status, emailAddress, mailingAddress, nameOnCreditCard,
		       creditCardNumber, creditCardExpiration, creditCardCVV,
		       billingZipCode, totalPrice, createdAt, updatedAt
		FROM Orders
		WHERE id = ?
	`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.Status,
		&order.Details.EmailAddress, &order.Details.MailingAddress,
		&order.Details.NameOnCreditCard, &order.Details.CreditCardNumber,
		&order.Details.CreditCardExpiration, &order.Details.CreditCardCVV,
		&order.Details.BillingZipCode, &order.TotalPrice,
		&order.CreatedAt, &order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return &order, nil
}

// UpdateDetails replaces all shopper-supplied fields in one statement, so a
// partial write is not possible.
func (r *MySQLOrderRepository) UpdateDetails(ctx context.Context, id uint, details domain.OrderDetails) error {
	query := `
		UPDATE Orders
		SET emailAddress = ?, mailingAddress = ?, nameOnCreditCard = ?,
		    creditCardNumber = ?, creditCardExpiration = ?, creditCardCVV = ?,
		    billingZipCode = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		details.EmailAddress, details.MailingAddress, details.NameOnCreditCard,
		details.CreditCardNumber, details.CreditCardExpiration, details.CreditCardCVV,
		details.BillingZipCode, id,
	)
	if err != nil {
		return fmt.Errorf("updating order details: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}

// TransitionFromPending moves the order into a terminal status. The status
// guard in the WHERE clause makes repeated transitions fail instead of
// silently rewriting a terminal order.
func (r *MySQLOrderRepository) TransitionFromPending(ctx context.Context, tx *sql.Tx, id uint, status string) error {
	query := `UPDATE Orders SET status = ? WHERE id = ? AND status = ?`

	result, err := tx.ExecContext(ctx, query, status, id, domain.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewConflictError(fmt.Sprintf("order with id %d is not pending", id))
	}

	return nil
}
