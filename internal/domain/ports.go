package domain

import "context"

// BookingRepository defines the persistence contract for bookings.
// Update only ever writes the mutable fields (status, payment state,
// intent id); the financial and applicant snapshots are append-only.
type BookingRepository interface {
	Create(ctx context.Context, b Booking) error
	GetByID(ctx context.Context, id string) (Booking, error)
	GetByIntentID(ctx context.Context, intentID string) (Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]Booking, error)
	Update(ctx context.Context, b Booking) error
}

// BookingFilter holds optional criteria for listing bookings.
type BookingFilter struct {
	Status     *BookingStatus
	ListingID  string
	SeekerID   string
	ProviderID string
	Limit      int
	Offset     int
}

// TenantRepository defines the persistence contract for tenants.
type TenantRepository interface {
	Create(ctx context.Context, t Tenant) error
	GetByID(ctx context.Context, id string) (Tenant, error)
	// FindOccupant returns the non-terminal (pending or active) tenant for
	// the given listing, provider and applicant email, or ErrTenantNotFound.
	// This is the single lookup both tenant-creation paths go through.
	FindOccupant(ctx context.Context, listingID, providerID, email string) (Tenant, error)
	List(ctx context.Context, filter TenantFilter) ([]Tenant, error)
	Update(ctx context.Context, t Tenant) error
}

// TenantFilter holds optional criteria for listing tenants.
type TenantFilter struct {
	Status    *TenantStatus
	ListingID string
	Limit     int
	Offset    int
}

// ListingRepository defines the persistence contract for listings and
// their rooms. The bed-count mutations are conditional single-statement
// updates so that concurrent confirmations cannot double-book a bed.
type ListingRepository interface {
	Create(ctx context.Context, l Listing) error
	GetByID(ctx context.Context, id string) (Listing, error)
	GetRoom(ctx context.Context, listingID, roomID string) (Room, error)
	List(ctx context.Context, filter ListingFilter) ([]Listing, error)
	// DecrementBeds atomically takes one bed, guarded by available_beds > 0.
	// Returns ErrNoBedsAvailable when the room is already full.
	DecrementBeds(ctx context.Context, listingID, roomID string) (Room, error)
	// IncrementBeds atomically frees one bed, clamped at capacity. Freeing
	// a bed in an already-empty room is a no-op, not an error.
	IncrementBeds(ctx context.Context, listingID, roomID string) (Room, error)
}

// ListingFilter holds optional criteria for listing listings.
type ListingFilter struct {
	ProviderID string
	Limit      int
	Offset     int
}

// PaymentRepository defines the persistence contract for payments.
type PaymentRepository interface {
	// Create inserts a payment. A second insert with the same gateway
	// intent id fails with ErrDuplicatePayment.
	Create(ctx context.Context, p Payment) error
	GetByIntentID(ctx context.Context, intentID string) (Payment, error)
}

// InvoiceRepository defines the persistence contract for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, inv Invoice) error
	GetByPaymentID(ctx context.Context, paymentID string) (Invoice, error)
}

// UnitOfWork groups the entity repositories behind one consistency
// boundary.
type UnitOfWork interface {
	Bookings() BookingRepository
	Tenants() TenantRepository
	Listings() ListingRepository
	Payments() PaymentRepository
	Invoices() InvoiceRepository
}

// Store is the storage port. Direct repository access reads and writes
// with auto-commit; InTx runs fn inside a single transaction and rolls
// everything back if fn returns an error.
type Store interface {
	UnitOfWork
	InTx(ctx context.Context, fn func(UnitOfWork) error) error
}

// TransitionValidator checks lifecycle transitions against a transition
// table and returns the destination state.
type TransitionValidator interface {
	Apply(ctx context.Context, current, event string) (string, error)
}

// PaymentGateway is the payment collaborator. It is the sole source of
// truth for "did money move": confirmation always re-verifies the intent
// status here and never trusts a client-reported outcome.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (PaymentIntent, error)
	RetrieveIntent(ctx context.Context, id string) (PaymentIntent, error)
}

// Notification is a fire-and-forget message to a user's inbox.
type Notification struct {
	RecipientID string            `json:"recipient_id"`
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Data        map[string]string `json:"data,omitempty"`
}

// Email is a templated message to one or more addresses.
type Email struct {
	To       []string          `json:"to"`
	Template string            `json:"template"`
	Subject  string            `json:"subject"`
	Data     map[string]string `json:"data,omitempty"`
}

// Dispatcher hands side effects to the async queue. Enqueue failures are
// the caller's to log; they must never fail the primary operation.
type Dispatcher interface {
	Notify(ctx context.Context, n Notification) error
	Email(ctx context.Context, e Email) error
}

// Notifier delivers notifications. Implemented by the (out-of-scope)
// notification subsystem; consumed by the queue workers.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// EmailSender delivers emails. Implemented by the (out-of-scope) email
// subsystem; consumed by the queue workers.
type EmailSender interface {
	Send(ctx context.Context, e Email) error
}
