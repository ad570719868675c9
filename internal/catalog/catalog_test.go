package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"petsy/internal/domain"
	"petsy/internal/errors"
)

type mockProductRepository struct {
	FindByIDFunc func(ctx context.Context, id int) (*domain.Product, error)
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	return m.FindByIDFunc(ctx, id)
}

func TestCatalog_Exists(t *testing.T) {
	c := New(&mockProductRepository{
		FindByIDFunc: func(ctx context.Context, id int) (*domain.Product, error) {
			return &domain.Product{ID: id, Price: 14.99}, nil
		},
	})

	ok, err := c.Exists(context.Background(), 5)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestCatalog_Exists_NotFound(t *testing.T) {
	c := New(&mockProductRepository{
		FindByIDFunc: func(ctx context.Context, id int) (*domain.Product, error) {
			return nil, errors.NewNotFoundError("product with id 5 not found")
		},
	})

	ok, err := c.Exists(context.Background(), 5)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalog_GetUnitPrice(t *testing.T) {
	c := New(&mockProductRepository{
		FindByIDFunc: func(ctx context.Context, id int) (*domain.Product, error) {
			return &domain.Product{ID: id, Price: 14.99}, nil
		},
	})

	price, err := c.GetUnitPrice(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, 14.99, price)
}

func TestCatalog_GetUnitPrice_NotFound(t *testing.T) {
	c := New(&mockProductRepository{
		FindByIDFunc: func(ctx context.Context, id int) (*domain.Product, error) {
			return nil, errors.NewNotFoundError("product with id 5 not found")
		},
	})

	_, err := c.GetUnitPrice(context.Background(), 5)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}
