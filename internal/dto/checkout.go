package dto

import "petsy/internal/domain"

// OrderView is an order together with its line items, as returned by the
// read-side operations.
type OrderView struct {
	Order *domain.Order
	Items []domain.OrderItem
}

type PlacementStatus string

const (
	PlacementPlaced     PlacementStatus = "PLACED"
	PlacementOutOfStock PlacementStatus = "OUT_OF_STOCK"
)

// PlacementResult reports which branch a placement took. An out-of-stock
// placement is an expected outcome, not an error: the order stays pending
// and the session keeps its binding so the shopper can retry.
type PlacementResult struct {
	Status     PlacementStatus
	OrderID    uint
	TotalPrice float64
	Shortages  []Shortage
}

type Shortage struct {
	ProductID int
	Requested int
	Available int
}

func (r PlacementResult) Placed() bool {
	return r.Status == PlacementPlaced
}
