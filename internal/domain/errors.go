package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrListingNotFound = errors.New("listing not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrNoBedsAvailable means a conditional bed decrement found the room
	// already full. The losing side of a last-bed race sees this.
	ErrNoBedsAvailable = errors.New("no beds available")

	// ErrDuplicatePayment means a payment with the same gateway intent id
	// was inserted concurrently. The caller should re-read and replay.
	ErrDuplicatePayment = errors.New("payment already recorded for intent")
)

// ForbiddenError is returned when the actor does not own the entity it
// is trying to mutate.
type ForbiddenError struct {
	ActorID  string
	Resource string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("actor %q does not own %s", e.ActorID, e.Resource)
}

// TransitionError is returned when a state transition is not allowed.
type TransitionError struct {
	Event   string
	Current string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not valid from state %q", e.Event, e.Current)
}

// ValidationError is returned when input fails a domain rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PaymentNotSettledError is returned when the gateway reports the intent
// in any state other than succeeded. No local state is mutated.
type PaymentNotSettledError struct {
	IntentID string
	Status   IntentStatus
}

func (e *PaymentNotSettledError) Error() string {
	return fmt.Sprintf("payment intent %q is %q, not succeeded", e.IntentID, e.Status)
}

// GatewayError wraps a failed or ambiguous gateway call. Local state is
// untouched and the operation is safe to retry.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }
