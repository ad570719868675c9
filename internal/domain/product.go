package domain

import "time"

type Product struct {
	ID          int
	Name        string
	Description string
	Price       float64
	Stock       int
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	ProductStatusActive  = "active"
	ProductStatusRetired = "retired"
)

// ApplyDefaults fills zero-value fields on a freshly built product.
func (p *Product) ApplyDefaults() {
	if p.Status == "" {
		p.Status = ProductStatusActive
	}
}
