package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/neomorfeo/roomstay/internal/domain"
)

// BookingService orchestrates the booking lifecycle: request, provider
// decision, payment and confirmation. It owns the only code paths that
// mutate bookings, payments and bed counts.
type BookingService struct {
	store      domain.Store
	gateway    domain.PaymentGateway
	dispatcher domain.Dispatcher
	bookingFSM domain.TransitionValidator
	tenantFSM  domain.TransitionValidator
	currency   string
}

// NewBookingService creates a service with the given adapters. Currency
// is the ISO code passed to the payment gateway for every intent.
func NewBookingService(
	store domain.Store,
	gateway domain.PaymentGateway,
	dispatcher domain.Dispatcher,
	bookingFSM domain.TransitionValidator,
	tenantFSM domain.TransitionValidator,
	currency string,
) *BookingService {
	return &BookingService{
		store:      store,
		gateway:    gateway,
		dispatcher: dispatcher,
		bookingFSM: bookingFSM,
		tenantFSM:  tenantFSM,
		currency:   currency,
	}
}

// Create validates a seeker's application and persists a pending booking
// with the financial terms frozen from the room's current prices.
func (s *BookingService) Create(ctx context.Context, listingID, roomID, seekerID string, applicant domain.Applicant) (domain.Booking, error) {
	if applicant.Name == "" {
		return domain.Booking{}, &domain.ValidationError{Field: "applicant.name", Reason: "required"}
	}
	if applicant.Email == "" {
		return domain.Booking{}, &domain.ValidationError{Field: "applicant.email", Reason: "required"}
	}
	if applicant.Phone == "" {
		return domain.Booking{}, &domain.ValidationError{Field: "applicant.phone", Reason: "required"}
	}

	listing, err := s.store.Listings().GetByID(ctx, listingID)
	if err != nil {
		return domain.Booking{}, err
	}

	if !listing.Accepts(applicant.Gender) {
		return domain.Booking{}, &domain.ValidationError{
			Field:  "applicant.gender",
			Reason: fmt.Sprintf("listing policy is %q", listing.GenderPolicy),
		}
	}

	room, ok := listing.FindRoom(roomID)
	if !ok {
		return domain.Booking{}, domain.ErrRoomNotFound
	}
	if room.Status == domain.RoomMaintenance {
		return domain.Booking{}, &domain.ValidationError{Field: "room", Reason: "under maintenance"}
	}
	if room.AvailableBeds == 0 {
		return domain.Booking{}, domain.ErrNoBedsAvailable
	}

	id, err := generateID()
	if err != nil {
		return domain.Booking{}, fmt.Errorf("generating booking id: %w", err)
	}

	booking := domain.NewBooking(id, listing, room, seekerID, applicant)

	if err := s.store.Bookings().Create(ctx, booking); err != nil {
		return domain.Booking{}, fmt.Errorf("creating booking: %w", err)
	}

	s.notify(ctx, domain.Notification{
		RecipientID: booking.ProviderID,
		Type:        "booking_requested",
		Title:       "New booking request",
		Message:     fmt.Sprintf("%s applied for %s", applicant.Name, room.Name),
		Data:        map[string]string{"booking_id": booking.ID},
	})

	return booking, nil
}

// GetByID returns a booking by its unique identifier.
func (s *BookingService) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	return s.store.Bookings().GetByID(ctx, id)
}

// List returns bookings matching the given filter.
func (s *BookingService) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	return s.store.Bookings().List(ctx, filter)
}

// Accept records the provider's decision to take the applicant. It moves
// the booking to pending_payment and provisions a pending tenant record
// so the provider sees the placeholder immediately. A pending tenant does
// not mean any money has moved.
//
// Accepting an already-accepted booking is an idempotent no-op: the
// booking is returned unchanged and no side effects fire again.
func (s *BookingService) Accept(ctx context.Context, bookingID, providerID string) (domain.Booking, error) {
	booking, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking.ProviderID != providerID {
		return domain.Booking{}, &domain.ForbiddenError{ActorID: providerID, Resource: "booking " + bookingID}
	}
	if booking.Status == domain.BookingPendingPayment {
		return booking, nil
	}

	next, err := s.bookingFSM.Apply(ctx, string(booking.Status), string(domain.BookingEventAccept))
	if err != nil {
		return domain.Booking{}, err
	}
	booking.Status = domain.BookingStatus(next)

	tenantID, err := generateID()
	if err != nil {
		return domain.Booking{}, fmt.Errorf("generating tenant id: %w", err)
	}

	err = s.store.InTx(ctx, func(uow domain.UnitOfWork) error {
		if err := uow.Bookings().Update(ctx, booking); err != nil {
			return err
		}
		// Single creation path: reuse any live tenant record instead of
		// inserting a duplicate.
		_, err := uow.Tenants().FindOccupant(ctx, booking.ListingID, booking.ProviderID, booking.Applicant.Email)
		if errors.Is(err, domain.ErrTenantNotFound) {
			return uow.Tenants().Create(ctx, domain.NewTenant(tenantID, booking))
		}
		return err
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("accepting booking: %w", err)
	}

	s.notify(ctx, domain.Notification{
		RecipientID: booking.SeekerID,
		Type:        "booking_accepted",
		Title:       "Booking accepted",
		Message:     "Your booking was accepted. Complete the payment to move in.",
		Data:        map[string]string{"booking_id": booking.ID},
	})
	s.email(ctx, domain.Email{
		To:       []string{booking.Applicant.Email},
		Template: "booking_accepted",
		Subject:  "Your booking was accepted",
		Data: map[string]string{
			"booking_id":   booking.ID,
			"total_amount": fmt.Sprintf("%d", booking.TotalAmount),
		},
	})

	return booking, nil
}

// Reject records the provider's decision to decline. No tenant is
// created. Rejecting an already-rejected booking is an idempotent no-op.
func (s *BookingService) Reject(ctx context.Context, bookingID, providerID string) (domain.Booking, error) {
	booking, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking.ProviderID != providerID {
		return domain.Booking{}, &domain.ForbiddenError{ActorID: providerID, Resource: "booking " + bookingID}
	}
	if booking.Status == domain.BookingRejected {
		return booking, nil
	}

	next, err := s.bookingFSM.Apply(ctx, string(booking.Status), string(domain.BookingEventReject))
	if err != nil {
		return domain.Booking{}, err
	}
	booking.Status = domain.BookingStatus(next)

	if err := s.store.Bookings().Update(ctx, booking); err != nil {
		return domain.Booking{}, fmt.Errorf("rejecting booking: %w", err)
	}

	s.notify(ctx, domain.Notification{
		RecipientID: booking.SeekerID,
		Type:        "booking_rejected",
		Title:       "Booking declined",
		Message:     "Your booking request was declined by the provider.",
		Data:        map[string]string{"booking_id": booking.ID},
	})

	return booking, nil
}

// Cancel lets the seeker withdraw a booking before it is confirmed. No
// bed is held before payment, so nothing is freed.
func (s *BookingService) Cancel(ctx context.Context, bookingID, seekerID string) (domain.Booking, error) {
	booking, err := s.store.Bookings().GetByID(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking.SeekerID != seekerID {
		return domain.Booking{}, &domain.ForbiddenError{ActorID: seekerID, Resource: "booking " + bookingID}
	}
	if booking.Status == domain.BookingCancelled {
		return booking, nil
	}

	next, err := s.bookingFSM.Apply(ctx, string(booking.Status), string(domain.BookingEventCancel))
	if err != nil {
		return domain.Booking{}, err
	}
	booking.Status = domain.BookingStatus(next)

	if err := s.store.Bookings().Update(ctx, booking); err != nil {
		return domain.Booking{}, fmt.Errorf("cancelling booking: %w", err)
	}

	s.notify(ctx, domain.Notification{
		RecipientID: booking.ProviderID,
		Type:        "booking_cancelled",
		Title:       "Booking cancelled",
		Message:     "The seeker withdrew their booking request.",
		Data:        map[string]string{"booking_id": booking.ID},
	})

	return booking, nil
}

// notify enqueues a notification. Side-effect failures are logged and
// never surfaced: the primary operation already committed.
func (s *BookingService) notify(ctx context.Context, n domain.Notification) {
	if err := s.dispatcher.Notify(ctx, n); err != nil {
		slog.ErrorContext(ctx, "enqueuing notification failed",
			"type", n.Type,
			"recipient_id", n.RecipientID,
			"error", err,
		)
	}
}

// email enqueues an email, logging failures like notify.
func (s *BookingService) email(ctx context.Context, e domain.Email) {
	if err := s.dispatcher.Email(ctx, e); err != nil {
		slog.ErrorContext(ctx, "enqueuing email failed",
			"template", e.Template,
			"error", err,
		)
	}
}
