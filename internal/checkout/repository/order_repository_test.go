package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petsy/internal/domain"
	"petsy/internal/errors"
	"petsy/internal/testutil"
)

// Unit Tests

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func insertPendingOrder(t *testing.T, db *sql.DB) uint {
	t.Helper()

	result, err := db.Exec(`
		INSERT INTO Orders (status, emailAddress, mailingAddress, nameOnCreditCard,
		                    creditCardNumber, creditCardExpiration, creditCardCVV,
		                    billingZipCode, totalPrice)
		VALUES ('pending', 'louie@hotmail.com', '52 Center St.', 'Louie',
		        '4321432143214321', '03/22', '321', '12321', 14.99)
	`)
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)

	return uint(id)
}

func TestOrderRepository_FindByID_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	id := insertPendingOrder(t, db)

	order, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, id, order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "louie@hotmail.com", order.Details.EmailAddress)
	assert.Equal(t, "52 Center St.", order.Details.MailingAddress)
	assert.Equal(t, "4321432143214321", order.Details.CreditCardNumber)
	assert.Equal(t, 14.99, order.TotalPrice)
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	order, err := repo.FindByID(context.Background(), uint(9999))
	assert.Error(t, err)
	assert.Nil(t, order)

	nfe, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, nfe)
}

func TestOrderRepository_Insert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	tx, err := db.Begin()
	require.NoError(t, err)

	order := domain.Order{
		Status:     domain.OrderStatusPending,
		TotalPrice: 29.98,
	}

	id, err := repo.Insert(context.Background(), tx, order)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.Greater(t, id, uint(0))

	found, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, found.Status)
	assert.Equal(t, "", found.Details.EmailAddress)
}

func TestOrderRepository_UpdateDetails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	id := insertPendingOrder(t, db)

	details := domain.OrderDetails{
		EmailAddress:         "new@example.com",
		MailingAddress:       "1 Elm St.",
		NameOnCreditCard:     "Louise",
		CreditCardNumber:     "1111222233334444",
		CreditCardExpiration: "05/24",
		CreditCardCVV:        "111",
		BillingZipCode:       "54321",
	}

	err := repo.UpdateDetails(context.Background(), id, details)
	require.NoError(t, err)

	order, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", order.Details.EmailAddress)
	assert.Equal(t, "1 Elm St.", order.Details.MailingAddress)
	assert.Equal(t, "1111222233334444", order.Details.CreditCardNumber)
	assert.Equal(t, "05/24", order.Details.CreditCardExpiration)
	// Status is not touched by a details update.
	assert.Equal(t, domain.OrderStatusPending, order.Status)
}

func TestOrderRepository_UpdateDetails_UnchangedValues(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	id := insertPendingOrder(t, db)

	// Same values the row already holds, as when a shopper resubmits the
	// edit form without changing anything.
	details := domain.OrderDetails{
		EmailAddress:         "louie@hotmail.com",
		MailingAddress:       "52 Center St.",
		NameOnCreditCard:     "Louie",
		CreditCardNumber:     "4321432143214321",
		CreditCardExpiration: "03/22",
		CreditCardCVV:        "321",
		BillingZipCode:       "12321",
	}

	require.NoError(t, repo.UpdateDetails(context.Background(), id, details))
	require.NoError(t, repo.UpdateDetails(context.Background(), id, details))

	order, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "louie@hotmail.com", order.Details.EmailAddress)
}

func TestOrderRepository_UpdateDetails_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	err := repo.UpdateDetails(context.Background(), uint(9999), domain.OrderDetails{})
	assert.Error(t, err)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_TransitionFromPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	id := insertPendingOrder(t, db)

	tx, err := db.Begin()
	require.NoError(t, err)

	err = repo.TransitionFromPending(context.Background(), tx, id, domain.OrderStatusPaid)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	order, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
}

func TestOrderRepository_TransitionFromPending_TerminalOrderConflicts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)
	id := insertPendingOrder(t, db)

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.TransitionFromPending(context.Background(), tx, id, domain.OrderStatusCancelled))
	require.NoError(t, tx.Commit())

	// A second transition must fail, not silently rewrite the status.
	tx, err = db.Begin()
	require.NoError(t, err)
	err = repo.TransitionFromPending(context.Background(), tx, id, domain.OrderStatusPaid)
	tx.Rollback()

	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)

	order, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, order.Status)
}
