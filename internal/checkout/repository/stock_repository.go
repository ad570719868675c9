package repository

import (
	"context"
	"database/sql"
	"fmt"

	"petsy/internal/domain"
	"petsy/internal/errors"
)

// MySQLStockRepository is the inventory ledger over the Products table.
type MySQLStockRepository struct {
	db *sql.DB
}

func NewMySQLStockRepository(db *sql.DB) *MySQLStockRepository {
	return &MySQLStockRepository{db: db}
}

// FindForUpdate loads a product row under an exclusive row lock, holding it
// until the surrounding transaction ends.
func (r *MySQLStockRepository) FindForUpdate(ctx context.Context, tx *sql.Tx, productID int) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price, stock, status, createdAt, updatedAt
		FROM Products
		WHERE id = ?
		FOR UPDATE
	`

	var product domain.Product
	err := tx.QueryRowContext(ctx, query, productID).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price,
		&product.Stock, &product.Status, &product.CreatedAt, &product.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product for update: %w", err)
	}

	return &product, nil
}

// Available reads current stock without locking.
func (r *MySQLStockRepository) Available(ctx context.Context, productID int) (int, error) {
	query := `SELECT stock FROM Products WHERE id = ?`

	var stock int
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&stock)
	if err == sql.ErrNoRows {
		return 0, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}
	if err != nil {
		return 0, fmt.Errorf("querying product stock: %w", err)
	}

	return stock, nil
}

// Decrement reduces stock by quantity. The stock >= quantity guard keeps the
// ledger non-negative even if the caller skipped the locked pre-check.
func (r *MySQLStockRepository) Decrement(ctx context.Context, tx *sql.Tx, productID int, quantity int) error {
	query := `UPDATE Products SET stock = stock - ? WHERE id = ? AND stock >= ?`

	result, err := tx.ExecContext(ctx, query, quantity, productID, quantity)
	if err != nil {
		return fmt.Errorf("decrementing stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewOutOfStockError(
			fmt.Sprintf("insufficient stock for product %d", productID),
			errors.StockShortage{ProductID: productID, Requested: quantity},
		)
	}

	return nil
}
