package domain

import (
	"strings"
	"time"

	"petsy/internal/errors"
)

type Order struct {
	ID         uint
	Status     string
	Details    OrderDetails
	TotalPrice float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderDetails holds the shopper-supplied checkout fields. Card fields are
// stored opaquely; nothing here talks to a payment processor.
type OrderDetails struct {
	EmailAddress         string
	MailingAddress       string
	NameOnCreditCard     string
	CreditCardNumber     string
	CreditCardExpiration string
	CreditCardCVV        string
	BillingZipCode       string
}

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

// IsTerminal reports whether the order can no longer transition.
// Only pending orders may move; paid and cancelled are final.
func (o Order) IsTerminal() bool {
	return o.Status == OrderStatusPaid || o.Status == OrderStatusCancelled
}

// ValidateDetails checks presence of every required checkout field and
// returns one detail per blank field. Format and checksum validation are
// deliberately not performed here.
func (d OrderDetails) ValidateDetails() []errors.ValidationDetail {
	required := []struct {
		field string
		value string
	}{
		{"email_address", d.EmailAddress},
		{"mailing_address", d.MailingAddress},
		{"name_on_credit_card", d.NameOnCreditCard},
		{"credit_card_number", d.CreditCardNumber},
		{"credit_card_expiration", d.CreditCardExpiration},
		{"credit_card_CVV", d.CreditCardCVV},
		{"billing_zip_code", d.BillingZipCode},
	}

	var details []errors.ValidationDetail
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			details = append(details, errors.ValidationDetail{
				Field:   r.field,
				Message: "is required",
			})
		}
	}

	return details
}
