package domain

import "time"

// PlatformFeeRate is the platform's share of every gross paid booking.
// Flat 5% is a business assumption inherited from the product team, not
// derived from configuration. TODO: make configurable per deployment once
// the pricing model is settled with product.
const PlatformFeeRate = 0.05

// PaymentStatus is the settlement state of a payment record.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment is a money-movement record tied to a gateway transaction. Once
// completed it is an immutable financial record; nothing updates it.
type Payment struct {
	ID        string
	BookingID string
	// GatewayIntentID is the gateway's payment-intent id. It is unique
	// across payments and serves as the idempotency key for confirmation.
	GatewayIntentID string
	PayerID         string
	PayeeID         string
	Amount          int64
	PlatformFee     int64
	Method          string
	Status          PaymentStatus
	CreatedAt       time.Time
}

// Fee computes the platform's cut of a gross amount in minor units.
func Fee(amount int64) int64 {
	return int64(float64(amount) * PlatformFeeRate)
}

// InvoiceStatus is the billing state of an invoice.
type InvoiceStatus string

const (
	InvoiceDue  InvoiceStatus = "due"
	InvoicePaid InvoiceStatus = "paid"
	InvoiceVoid InvoiceStatus = "void"
)

// LineItem is a single charge on an invoice.
type LineItem struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

// Invoice summarizes a payment's line items. Exactly one invoice is
// created per successful payment confirmation.
type Invoice struct {
	ID         string
	Number     string
	PaymentID  string
	TenantID   string
	ProviderID string
	LineItems  []LineItem
	Total      int64
	Status     InvoiceStatus
	IssuedAt   time.Time
}

// IntentStatus is the gateway-reported state of a payment intent.
type IntentStatus string

const (
	IntentRequiresPayment IntentStatus = "requires_payment_method"
	IntentProcessing      IntentStatus = "processing"
	IntentSucceeded       IntentStatus = "succeeded"
	IntentCanceled        IntentStatus = "canceled"
)

// PaymentIntent is the gateway's view of an in-flight payment. The
// gateway is the sole source of truth for whether money moved.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       IntentStatus
	Amount       int64
	Currency     string
}
