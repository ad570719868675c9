package domain

type OrderItem struct {
	ID        uint
	OrderID   uint
	ProductID int
	Quantity  int
	// UnitPrice is the product's price snapshotted when the order was
	// created; later catalog price changes do not affect it.
	UnitPrice float64
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}
