package domain

import "time"

// BookingStatus is the lifecycle state of a booking. This is the single
// canonical status set; every component shares it.
type BookingStatus string

const (
	BookingPending        BookingStatus = "pending"
	BookingPendingPayment BookingStatus = "pending_payment"
	BookingRejected       BookingStatus = "rejected"
	BookingConfirmed      BookingStatus = "confirmed"
	BookingCancelled      BookingStatus = "cancelled"
)

// PaymentState tracks whether the booking has been paid for.
type PaymentState string

const (
	PaymentUnpaid   PaymentState = "unpaid"
	PaymentPaid     PaymentState = "paid"
	PaymentRefunded PaymentState = "refunded"
)

// BookingEvent is an action that triggers a booking state transition.
type BookingEvent string

const (
	BookingEventAccept         BookingEvent = "accept"
	BookingEventReject         BookingEvent = "reject"
	BookingEventPaymentConfirm BookingEvent = "payment_confirmed"
	BookingEventCancel         BookingEvent = "cancel"
)

// BookingTransitions defines all valid booking state changes.
// This is domain knowledge consumed by the FSM adapter. Confirmed,
// rejected and cancelled are terminal: nothing transitions out of them.
var BookingTransitions = []Transition{
	{Event: string(BookingEventAccept), Src: string(BookingPending), Dst: string(BookingPendingPayment)},
	{Event: string(BookingEventReject), Src: string(BookingPending), Dst: string(BookingRejected)},
	{Event: string(BookingEventPaymentConfirm), Src: string(BookingPendingPayment), Dst: string(BookingConfirmed)},
	{Event: string(BookingEventCancel), Src: string(BookingPending), Dst: string(BookingCancelled)},
	{Event: string(BookingEventCancel), Src: string(BookingPendingPayment), Dst: string(BookingCancelled)},
}

// Applicant is the seeker's submitted profile, snapshotted onto the
// booking at creation and never updated afterwards.
type Applicant struct {
	Name       string
	Email      string
	Phone      string
	Gender     string
	Occupation string
}

// Booking is a seeker's request to rent a room. The financial terms are
// frozen at creation: they are never recomputed from the listing, even if
// the provider later changes the room price.
type Booking struct {
	ID         string
	ListingID  string
	RoomID     string
	SeekerID   string
	ProviderID string

	Status       BookingStatus
	PaymentState PaymentState

	// Frozen at creation, in minor currency units.
	AgreedMonthRent int64
	AgreedDeposit   int64
	TotalAmount     int64

	Applicant Applicant

	// Set when the seeker initiates payment; the gateway's intent id is
	// also the idempotency key for payment confirmation.
	PaymentIntentID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBooking creates a booking in the initial "pending" state with the
// financial snapshot taken from the given room terms.
func NewBooking(id string, listing Listing, room Room, seekerID string, applicant Applicant) Booking {
	now := time.Now().UTC()
	return Booking{
		ID:              id,
		ListingID:       listing.ID,
		RoomID:          room.ID,
		SeekerID:        seekerID,
		ProviderID:      listing.ProviderID,
		Status:          BookingPending,
		PaymentState:    PaymentUnpaid,
		AgreedMonthRent: room.MonthRent,
		AgreedDeposit:   room.Deposit,
		TotalAmount:     room.MonthRent + room.Deposit,
		Applicant:       applicant,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
