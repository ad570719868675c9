package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestForbiddenError_Creation(t *testing.T) {
	err := NewForbiddenError("You can't edit an order that isn't yours")

	assert.Equal(t, "You can't edit an order that isn't yours", err.Error())

	fe, ok := IsForbiddenError(err)
	assert.True(t, ok)
	assert.Equal(t, err, fe)
}

func TestForbiddenError_IsForbiddenError_WithOtherError(t *testing.T) {
	_, ok := IsForbiddenError(NewNotFoundError("nope"))
	assert.False(t, ok)
}

func TestConflictError_Creation(t *testing.T) {
	err := NewConflictError("order is no longer pending")

	assert.Equal(t, "order is no longer pending", err.Error())

	ce, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, "order is no longer pending", ce.Message)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "email_address", Message: "is required"},
		{Field: "credit_card_number", Message: "is required"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestOutOfStockError_CarriesShortages(t *testing.T) {
	err := NewOutOfStockError("insufficient stock",
		StockShortage{ProductID: 5, Requested: 3, Available: 1},
	)

	oe, ok := IsOutOfStockError(err)
	assert.True(t, ok)
	assert.Len(t, oe.Shortages, 1)
	assert.Equal(t, 5, oe.Shortages[0].ProductID)
	assert.Equal(t, 3, oe.Shortages[0].Requested)
	assert.Equal(t, 1, oe.Shortages[0].Available)
}

func TestDeadlockError_Creation(t *testing.T) {
	err := NewDeadlockError("max retries exceeded")

	de, ok := IsDeadlockError(err)
	assert.True(t, ok)
	assert.Equal(t, "max retries exceeded", de.Message)
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
