package domain

import "time"

// TenantStatus is the lifecycle state of an occupancy record.
type TenantStatus string

const (
	TenantPending  TenantStatus = "pending"
	TenantActive   TenantStatus = "active"
	TenantMovedOut TenantStatus = "moved_out"
	TenantEvicted  TenantStatus = "evicted"
)

// TenantEvent is an action that triggers a tenant state transition.
type TenantEvent string

const (
	TenantEventActivate TenantEvent = "activate"
	TenantEventMoveOut  TenantEvent = "move_out"
	TenantEventEvict    TenantEvent = "evict"
)

// TenantTransitions defines all valid tenant state changes. Moved out and
// evicted are terminal: tenants are never deleted, only closed.
var TenantTransitions = []Transition{
	{Event: string(TenantEventActivate), Src: string(TenantPending), Dst: string(TenantActive)},
	{Event: string(TenantEventMoveOut), Src: string(TenantActive), Dst: string(TenantMovedOut)},
	{Event: string(TenantEventEvict), Src: string(TenantActive), Dst: string(TenantEvicted)},
}

// Tenant records a person's occupancy of a room. It is created pending
// when a booking is accepted and activated when payment is confirmed; a
// pending tenant does NOT imply any money has moved. Consumers must
// always check Status.
type Tenant struct {
	ID         string
	ListingID  string
	RoomID     string
	ProviderID string
	BookingID  string

	// Contact snapshot copied from the booking's applicant. Email is the
	// loose link back to the seeker; there is no hard foreign key.
	Name  string
	Email string
	Phone string

	Status TenantStatus

	// Financial snapshot, in minor currency units.
	RentAmount    int64
	DepositAmount int64

	MovedInAt  *time.Time
	MovedOutAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTenant creates a tenant in the initial "pending" state from an
// accepted booking's snapshot.
func NewTenant(id string, b Booking) Tenant {
	now := time.Now().UTC()
	return Tenant{
		ID:            id,
		ListingID:     b.ListingID,
		RoomID:        b.RoomID,
		ProviderID:    b.ProviderID,
		BookingID:     b.ID,
		Name:          b.Applicant.Name,
		Email:         b.Applicant.Email,
		Phone:         b.Applicant.Phone,
		Status:        TenantPending,
		RentAmount:    b.AgreedMonthRent,
		DepositAmount: b.AgreedDeposit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Terminal reports whether the tenant has left the room for good.
func (t Tenant) Terminal() bool {
	return t.Status == TenantMovedOut || t.Status == TenantEvicted
}
