package dto

import "time"

type StartOrderRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// UpdateDetailsRequest carries the checkout form. Field names are the
// contract with the surrounding application.
type UpdateDetailsRequest struct {
	EmailAddress         string `json:"email_address"`
	MailingAddress       string `json:"mailing_address"`
	NameOnCreditCard     string `json:"name_on_credit_card"`
	CreditCardNumber     string `json:"credit_card_number"`
	CreditCardExpiration string `json:"credit_card_expiration"`
	CreditCardCVV        string `json:"credit_card_CVV"`
	BillingZipCode       string `json:"billing_zip_code"`
}

type OrderItemResponse struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

type OrderResponse struct {
	TraceID        string              `json:"traceId"`
	OrderID        uint                `json:"order_id"`
	Status         string              `json:"status"`
	EmailAddress   string              `json:"email_address"`
	MailingAddress string              `json:"mailing_address"`
	Items          []OrderItemResponse `json:"items"`
	TotalPrice     float64             `json:"total_price"`
	Timestamp      time.Time           `json:"timestamp"`
}

type ShortageResponse struct {
	ProductID int `json:"product_id"`
	Requested int `json:"requested"`
	Available int `json:"available"`
}

type PlacementResponse struct {
	TraceID    string             `json:"traceId"`
	OrderID    uint               `json:"order_id"`
	Status     string             `json:"status"`
	TotalPrice float64            `json:"total_price"`
	Shortages  []ShortageResponse `json:"shortages,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}

type ProductResponse struct {
	ProductID   int     `json:"product_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Status      string  `json:"status"`
}

type ErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
