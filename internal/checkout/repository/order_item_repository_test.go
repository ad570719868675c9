package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petsy/internal/domain"
	"petsy/internal/testutil"
)

// Unit Tests

func TestNewMySQLOrderItemRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderItemRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func TestOrderItemRepository_Insert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderItemRepository(db)
	orderID := insertPendingOrder(t, db)

	tx, err := db.Begin()
	require.NoError(t, err)

	item := domain.OrderItem{
		OrderID:   orderID,
		ProductID: 7,
		Quantity:  2,
		UnitPrice: 14.99,
	}

	id, err := repo.Insert(context.Background(), tx, item)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.Greater(t, id, uint(0))

	items, err := repo.ListByOrderID(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 14.99, items[0].UnitPrice)
}

func TestOrderItemRepository_ListByOrderID_OrdersByInsertion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderItemRepository(db)
	orderID := insertPendingOrder(t, db)

	tx, err := db.Begin()
	require.NoError(t, err)
	_, err = repo.Insert(context.Background(), tx, domain.OrderItem{OrderID: orderID, ProductID: 9, Quantity: 1, UnitPrice: 5.00})
	require.NoError(t, err)
	_, err = repo.Insert(context.Background(), tx, domain.OrderItem{OrderID: orderID, ProductID: 3, Quantity: 4, UnitPrice: 2.50})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	items, err := repo.ListByOrderID(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 9, items[0].ProductID)
	assert.Equal(t, 3, items[1].ProductID)
}

func TestOrderItemRepository_ListByOrderID_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderItemRepository(db)
	orderID := insertPendingOrder(t, db)

	items, err := repo.ListByOrderID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
