// Package http exposes the booking, listing and tenant services as a
// versioned JSON API.
package http

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/roomstay/internal/app"
	"github.com/neomorfeo/roomstay/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// Register adds all API routes to the Huma API.
func Register(api huma.API, bookings *app.BookingService, tenants *app.TenantService, listings *app.ListingService) {
	registerListings(api, listings)
	registerBookings(api, bookings)
	registerTenants(api, tenants)
}

// toHumaError translates domain errors to Huma HTTP errors. Replayed
// idempotent calls never reach here; they return 200 with the stored
// outcome.
func toHumaError(err error) error {
	switch {
	case errors.Is(err, domain.ErrBookingNotFound):
		return huma.Error404NotFound("booking not found")
	case errors.Is(err, domain.ErrListingNotFound):
		return huma.Error404NotFound("listing not found")
	case errors.Is(err, domain.ErrRoomNotFound):
		return huma.Error404NotFound("room not found")
	case errors.Is(err, domain.ErrTenantNotFound):
		return huma.Error404NotFound("tenant not found")
	case errors.Is(err, domain.ErrPaymentNotFound):
		return huma.Error404NotFound("payment not found")
	case errors.Is(err, domain.ErrNoBedsAvailable):
		return huma.Error409Conflict("no beds available in this room")
	case errors.Is(err, domain.ErrDuplicatePayment):
		return huma.Error409Conflict("payment already recorded for this intent")
	}

	var forbidden *domain.ForbiddenError
	if errors.As(err, &forbidden) {
		return huma.Error403Forbidden(forbidden.Error())
	}

	var transition *domain.TransitionError
	if errors.As(err, &transition) {
		return huma.Error409Conflict(transition.Error())
	}

	var notSettled *domain.PaymentNotSettledError
	if errors.As(err, &notSettled) {
		return huma.Error409Conflict(notSettled.Error())
	}

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return huma.Error422UnprocessableEntity(validation.Error())
	}

	var gateway *domain.GatewayError
	if errors.As(err, &gateway) {
		return huma.Error502BadGateway(gateway.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
