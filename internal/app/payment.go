package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/neomorfeo/roomstay/internal/domain"
)

// Confirmation is the full outcome of a payment confirmation: the
// entities a successful confirmation produced (or, on replay, the ones
// produced by the first call).
type Confirmation struct {
	Booking domain.Booking
	Tenant  domain.Tenant
	Payment domain.Payment
	Invoice domain.Invoice
}

// CreatePaymentIntent asks the gateway for a payment intent covering the
// booking's frozen total. The intent id is stored on the booking and
// doubles as the confirmation idempotency key. Calling again for the
// same booking returns the existing intent rather than creating a second
// charge.
func (s *BookingService) CreatePaymentIntent(ctx context.Context, bookingID, seekerID string) (domain.PaymentIntent, error) {
	booking, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return domain.PaymentIntent{}, err
	}
	if booking.SeekerID != seekerID {
		return domain.PaymentIntent{}, &domain.ForbiddenError{ActorID: seekerID, Resource: "booking " + bookingID}
	}
	if booking.Status != domain.BookingPendingPayment {
		return domain.PaymentIntent{}, &domain.TransitionError{
			Event:   "create_payment_intent",
			Current: string(booking.Status),
		}
	}

	if booking.PaymentIntentID != "" {
		intent, err := s.gateway.RetrieveIntent(ctx, booking.PaymentIntentID)
		if err != nil {
			return domain.PaymentIntent{}, &domain.GatewayError{Op: "retrieve intent", Err: err}
		}
		return intent, nil
	}

	intent, err := s.gateway.CreateIntent(ctx, booking.TotalAmount, s.currency, map[string]string{
		"booking_id": booking.ID,
	})
	if err != nil {
		return domain.PaymentIntent{}, &domain.GatewayError{Op: "create intent", Err: err}
	}

	booking.PaymentIntentID = intent.ID
	if err := s.store.Bookings().Update(ctx, booking); err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("storing intent id: %w", err)
	}

	return intent, nil
}

// ConfirmPayment settles a booking after the gateway reports its intent
// as succeeded. One call produces, atomically: the confirmed booking, a
// completed payment, an active tenant, one bed taken, and one invoice.
//
// The operation is idempotent keyed by the gateway intent id: a repeat
// call (double click, webhook retry) returns the stored outcome without
// repeating any side effect. The gateway is always queried directly; a
// client-reported "it succeeded" is never trusted.
func (s *BookingService) ConfirmPayment(ctx context.Context, intentID string) (Confirmation, error) {
	// Idempotency guard first: if this intent already settled, replay the
	// stored outcome.
	if existing, err := s.store.Payments().GetByIntentID(ctx, intentID); err == nil {
		return s.replay(ctx, existing)
	} else if !errors.Is(err, domain.ErrPaymentNotFound) {
		return Confirmation{}, err
	}

	intent, err := s.gateway.RetrieveIntent(ctx, intentID)
	if err != nil {
		return Confirmation{}, &domain.GatewayError{Op: "retrieve intent", Err: err}
	}
	if intent.Status != domain.IntentSucceeded {
		return Confirmation{}, &domain.PaymentNotSettledError{IntentID: intentID, Status: intent.Status}
	}

	booking, err := s.store.Bookings().GetByIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			// Money moved but no booking references the intent. Fatal and
			// non-retryable; needs manual reconciliation.
			slog.ErrorContext(ctx, "settled intent has no booking",
				"intent_id", intentID,
				"amount", intent.Amount,
			)
		}
		return Confirmation{}, err
	}

	if intent.Amount != booking.TotalAmount {
		return Confirmation{}, &domain.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("intent settled %d, booking total is %d", intent.Amount, booking.TotalAmount),
		}
	}

	next, err := s.bookingFSM.Apply(ctx, string(booking.Status), string(domain.BookingEventPaymentConfirm))
	if err != nil {
		return Confirmation{}, err
	}
	booking.Status = domain.BookingStatus(next)
	booking.PaymentState = domain.PaymentPaid

	paymentID, err := generateID()
	if err != nil {
		return Confirmation{}, fmt.Errorf("generating payment id: %w", err)
	}
	invoiceID, err := generateID()
	if err != nil {
		return Confirmation{}, fmt.Errorf("generating invoice id: %w", err)
	}
	tenantID, err := generateID()
	if err != nil {
		return Confirmation{}, fmt.Errorf("generating tenant id: %w", err)
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		ID:              paymentID,
		BookingID:       booking.ID,
		GatewayIntentID: intentID,
		PayerID:         booking.SeekerID,
		PayeeID:         booking.ProviderID,
		Amount:          intent.Amount,
		PlatformFee:     domain.Fee(intent.Amount),
		Method:          "card",
		Status:          domain.PaymentStatusCompleted,
		CreatedAt:       now,
	}

	var tenant domain.Tenant
	var invoice domain.Invoice

	err = s.store.InTx(ctx, func(uow domain.UnitOfWork) error {
		if err := uow.Bookings().Update(ctx, booking); err != nil {
			return err
		}

		// The UNIQUE index on the intent id makes this the backstop
		// against two confirmations racing past the guard above.
		if err := uow.Payments().Create(ctx, payment); err != nil {
			return err
		}

		tenant, err = s.activateTenant(ctx, uow, tenantID, booking, now)
		if err != nil {
			return err
		}

		if booking.RoomID != "" {
			if _, err := uow.Listings().DecrementBeds(ctx, booking.ListingID, booking.RoomID); err != nil {
				return err
			}
		}

		invoice = domain.Invoice{
			ID:         invoiceID,
			Number:     "INV-" + uuid.NewString()[:8],
			PaymentID:  payment.ID,
			TenantID:   tenant.ID,
			ProviderID: booking.ProviderID,
			LineItems: []domain.LineItem{
				{Description: "First month rent", Amount: booking.AgreedMonthRent},
				{Description: "Security deposit", Amount: booking.AgreedDeposit},
			},
			Total:    payment.Amount,
			Status:   domain.InvoicePaid,
			IssuedAt: now,
		}
		return uow.Invoices().Create(ctx, invoice)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicatePayment) {
			// A concurrent confirmation won the insert. Its outcome is ours.
			winner, getErr := s.store.Payments().GetByIntentID(ctx, intentID)
			if getErr != nil {
				return Confirmation{}, getErr
			}
			return s.replay(ctx, winner)
		}
		return Confirmation{}, fmt.Errorf("confirming payment: %w", err)
	}

	s.email(ctx, domain.Email{
		To:       []string{booking.Applicant.Email},
		Template: "invoice",
		Subject:  "Payment received: invoice " + invoice.Number,
		Data: map[string]string{
			"invoice_number": invoice.Number,
			"total_amount":   fmt.Sprintf("%d", invoice.Total),
		},
	})
	s.email(ctx, domain.Email{
		To:       []string{booking.ProviderID},
		Template: "invoice_provider",
		Subject:  "Booking paid: invoice " + invoice.Number,
		Data: map[string]string{
			"invoice_number": invoice.Number,
			"booking_id":     booking.ID,
		},
	})
	s.notify(ctx, domain.Notification{
		RecipientID: booking.SeekerID,
		Type:        "payment_confirmed",
		Title:       "Payment confirmed",
		Message:     "Your payment was received. Welcome home!",
		Data:        map[string]string{"booking_id": booking.ID, "invoice": invoice.Number},
	})
	s.notify(ctx, domain.Notification{
		RecipientID: booking.ProviderID,
		Type:        "payment_confirmed",
		Title:       "Booking paid",
		Message:     booking.Applicant.Name + " completed their payment.",
		Data:        map[string]string{"booking_id": booking.ID, "invoice": invoice.Number},
	})

	return Confirmation{Booking: booking, Tenant: tenant, Payment: payment, Invoice: invoice}, nil
}

// activateTenant is the single tenant-creation path for payment
// confirmation. It reuses and activates the pending record provisioned
// at acceptance; only when none exists does it create a fresh active
// tenant. Either way there is exactly one live tenant per
// (listing, provider, email).
func (s *BookingService) activateTenant(ctx context.Context, uow domain.UnitOfWork, tenantID string, booking domain.Booking, now time.Time) (domain.Tenant, error) {
	tenant, err := uow.Tenants().FindOccupant(ctx, booking.ListingID, booking.ProviderID, booking.Applicant.Email)
	switch {
	case err == nil:
		if tenant.Status == domain.TenantActive {
			return tenant, nil
		}
		next, err := s.tenantFSM.Apply(ctx, string(tenant.Status), string(domain.TenantEventActivate))
		if err != nil {
			return domain.Tenant{}, err
		}
		tenant.Status = domain.TenantStatus(next)
		tenant.RoomID = booking.RoomID
		tenant.BookingID = booking.ID
		tenant.RentAmount = booking.AgreedMonthRent
		tenant.DepositAmount = booking.AgreedDeposit
		tenant.MovedInAt = &now
		if err := uow.Tenants().Update(ctx, tenant); err != nil {
			return domain.Tenant{}, err
		}
		return tenant, nil

	case errors.Is(err, domain.ErrTenantNotFound):
		tenant = domain.NewTenant(tenantID, booking)
		tenant.Status = domain.TenantActive
		tenant.MovedInAt = &now
		if err := uow.Tenants().Create(ctx, tenant); err != nil {
			return domain.Tenant{}, err
		}
		return tenant, nil

	default:
		return domain.Tenant{}, err
	}
}

// replay reconstructs the original confirmation outcome from storage.
func (s *BookingService) replay(ctx context.Context, payment domain.Payment) (Confirmation, error) {
	booking, err := s.store.Bookings().GetByID(ctx, payment.BookingID)
	if err != nil {
		return Confirmation{}, err
	}
	invoice, err := s.store.Invoices().GetByPaymentID(ctx, payment.ID)
	if err != nil {
		return Confirmation{}, err
	}
	tenant, err := s.store.Tenants().GetByID(ctx, invoice.TenantID)
	if err != nil {
		return Confirmation{}, err
	}
	return Confirmation{Booking: booking, Tenant: tenant, Payment: payment, Invoice: invoice}, nil
}
