// Package catalog exposes the read side of the product catalog consumed by
// checkout. Catalog management lives elsewhere.
package catalog

import (
	"context"

	"petsy/internal/domain"
	"petsy/internal/errors"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
}

type Catalog struct {
	products ProductRepository
}

func New(products ProductRepository) *Catalog {
	return &Catalog{products: products}
}

func (c *Catalog) Exists(ctx context.Context, productID int) (bool, error) {
	_, err := c.products.FindByID(ctx, productID)
	if err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetUnitPrice returns the product's current price, snapshotted onto order
// items at order creation.
func (c *Catalog) GetUnitPrice(ctx context.Context, productID int) (float64, error) {
	product, err := c.products.FindByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	return product.Price, nil
}

func (c *Catalog) Get(ctx context.Context, productID int) (*domain.Product, error) {
	return c.products.FindByID(ctx, productID)
}
