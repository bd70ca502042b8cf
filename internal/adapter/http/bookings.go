package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/roomstay/internal/app"
	"github.com/neomorfeo/roomstay/internal/domain"
)

// BookingResponse is the API representation of a booking.
type BookingResponse struct {
	ID              string `json:"id" doc:"Unique identifier"`
	ListingID       string `json:"listing_id" doc:"Listing applied to"`
	RoomID          string `json:"room_id" doc:"Room applied to"`
	SeekerID        string `json:"seeker_id" doc:"Applying seeker"`
	ProviderID      string `json:"provider_id" doc:"Listing's provider"`
	Status          string `json:"status" doc:"Lifecycle state" enum:"pending,pending_payment,rejected,confirmed,cancelled"`
	PaymentState    string `json:"payment_state" doc:"Payment progress" enum:"unpaid,paid,refunded"`
	AgreedMonthRent int64  `json:"agreed_month_rent" doc:"Rent frozen at application time, minor units"`
	AgreedDeposit   int64  `json:"agreed_deposit" doc:"Deposit frozen at application time, minor units"`
	TotalAmount     int64  `json:"total_amount" doc:"Rent plus deposit, minor units"`
	ApplicantName   string `json:"applicant_name" doc:"Applicant display name"`
	CreatedAt       string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt       string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toBookingResponse(b domain.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		ListingID:       b.ListingID,
		RoomID:          b.RoomID,
		SeekerID:        b.SeekerID,
		ProviderID:      b.ProviderID,
		Status:          string(b.Status),
		PaymentState:    string(b.PaymentState),
		AgreedMonthRent: b.AgreedMonthRent,
		AgreedDeposit:   b.AgreedDeposit,
		TotalAmount:     b.TotalAmount,
		ApplicantName:   b.Applicant.Name,
		CreatedAt:       b.CreatedAt.Format(timeFormat),
		UpdatedAt:       b.UpdatedAt.Format(timeFormat),
	}
}

type CreateBookingInput struct {
	Body struct {
		ListingID string `json:"listing_id" minLength:"1" doc:"Listing to apply to"`
		RoomID    string `json:"room_id" minLength:"1" doc:"Room to apply to"`
		SeekerID  string `json:"seeker_id" minLength:"1" doc:"Applying seeker"`
		Applicant struct {
			Name   string `json:"name" minLength:"1" maxLength:"255" doc:"Full name"`
			Email  string `json:"email" format:"email" doc:"Contact email"`
			Phone  string `json:"phone" minLength:"1" maxLength:"32" doc:"Contact phone"`
			Gender string `json:"gender,omitempty" doc:"Used against the listing's occupancy policy"`
		} `json:"applicant" doc:"Applicant contact details"`
	}
}

type CreateBookingOutput struct {
	Body BookingResponse
}

type GetBookingInput struct {
	ID string `path:"id" doc:"Booking ID"`
}

type GetBookingOutput struct {
	Body BookingResponse
}

type ListBookingsInput struct {
	Status     string `query:"status" required:"false" doc:"Filter by status"`
	ListingID  string `query:"listing_id" required:"false" doc:"Filter by listing"`
	SeekerID   string `query:"seeker_id" required:"false" doc:"Filter by seeker"`
	ProviderID string `query:"provider_id" required:"false" doc:"Filter by provider"`
	Limit      int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset     int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListBookingsOutput struct {
	Body []BookingResponse
}

// DecisionInput identifies the acting party for accept/reject/cancel.
type DecisionInput struct {
	ID   string `path:"id" doc:"Booking ID"`
	Body struct {
		ActorID string `json:"actor_id" minLength:"1" doc:"Acting provider or seeker"`
	}
}

type DecisionOutput struct {
	Body BookingResponse
}

// PaymentIntentResponse carries what the frontend needs to collect the
// payment.
type PaymentIntentResponse struct {
	IntentID     string `json:"intent_id" doc:"Gateway payment-intent id"`
	ClientSecret string `json:"client_secret" doc:"Client-side confirmation secret"`
	Amount       int64  `json:"amount" doc:"Amount to collect, minor units"`
	Currency     string `json:"currency" doc:"ISO currency code"`
	Status       string `json:"status" doc:"Gateway-reported intent state"`
}

type CreateIntentInput struct {
	ID   string `path:"id" doc:"Booking ID"`
	Body struct {
		SeekerID string `json:"seeker_id" minLength:"1" doc:"Paying seeker"`
	}
}

type CreateIntentOutput struct {
	Body PaymentIntentResponse
}

type ConfirmPaymentInput struct {
	Body struct {
		IntentID string `json:"intent_id" minLength:"1" doc:"Gateway payment-intent id to verify and settle"`
	}
}

// ConfirmationResponse is the full outcome of a settled payment.
type ConfirmationResponse struct {
	Booking       BookingResponse `json:"booking"`
	TenantID      string          `json:"tenant_id" doc:"Activated tenant"`
	PaymentID     string          `json:"payment_id" doc:"Recorded payment"`
	InvoiceNumber string          `json:"invoice_number" doc:"Issued invoice number"`
	InvoiceTotal  int64           `json:"invoice_total" doc:"Invoice total, minor units"`
}

type ConfirmPaymentOutput struct {
	Body ConfirmationResponse
}

func registerBookings(api huma.API, svc *app.BookingService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-booking",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings",
		Summary:     "Apply for a room",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *CreateBookingInput) (*CreateBookingOutput, error) {
		booking, err := svc.Create(ctx, input.Body.ListingID, input.Body.RoomID, input.Body.SeekerID, domain.Applicant{
			Name:   input.Body.Applicant.Name,
			Email:  input.Body.Applicant.Email,
			Phone:  input.Body.Applicant.Phone,
			Gender: input.Body.Applicant.Gender,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateBookingOutput{Body: toBookingResponse(booking)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-booking",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookings/{id}",
		Summary:     "Get a booking by ID",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *GetBookingInput) (*GetBookingOutput, error) {
		booking, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetBookingOutput{Body: toBookingResponse(booking)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-bookings",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookings",
		Summary:     "List bookings",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *ListBookingsInput) (*ListBookingsOutput, error) {
		filter := domain.BookingFilter{
			ListingID:  input.ListingID,
			SeekerID:   input.SeekerID,
			ProviderID: input.ProviderID,
			Limit:      input.Limit,
			Offset:     input.Offset,
		}
		if input.Status != "" {
			s := domain.BookingStatus(input.Status)
			filter.Status = &s
		}

		bookings, err := svc.List(ctx, filter)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]BookingResponse, len(bookings))
		for i, b := range bookings {
			resp[i] = toBookingResponse(b)
		}
		return &ListBookingsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "accept-booking",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings/{id}/accept",
		Summary:     "Accept a booking request",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *DecisionInput) (*DecisionOutput, error) {
		booking, err := svc.Accept(ctx, input.ID, input.Body.ActorID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &DecisionOutput{Body: toBookingResponse(booking)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reject-booking",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings/{id}/reject",
		Summary:     "Reject a booking request",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *DecisionInput) (*DecisionOutput, error) {
		booking, err := svc.Reject(ctx, input.ID, input.Body.ActorID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &DecisionOutput{Body: toBookingResponse(booking)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "cancel-booking",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings/{id}/cancel",
		Summary:     "Withdraw a booking request",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *DecisionInput) (*DecisionOutput, error) {
		booking, err := svc.Cancel(ctx, input.ID, input.Body.ActorID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &DecisionOutput{Body: toBookingResponse(booking)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-payment-intent",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings/{id}/payment-intent",
		Summary:     "Create or reuse a payment intent for an accepted booking",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *CreateIntentInput) (*CreateIntentOutput, error) {
		intent, err := svc.CreatePaymentIntent(ctx, input.ID, input.Body.SeekerID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateIntentOutput{Body: PaymentIntentResponse{
			IntentID:     intent.ID,
			ClientSecret: intent.ClientSecret,
			Amount:       intent.Amount,
			Currency:     intent.Currency,
			Status:       string(intent.Status),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "confirm-payment",
		Method:      http.MethodPost,
		Path:        "/api/v1/payments/confirm",
		Summary:     "Verify a payment intent with the gateway and settle the booking",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *ConfirmPaymentInput) (*ConfirmPaymentOutput, error) {
		conf, err := svc.ConfirmPayment(ctx, input.Body.IntentID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ConfirmPaymentOutput{Body: ConfirmationResponse{
			Booking:       toBookingResponse(conf.Booking),
			TenantID:      conf.Tenant.ID,
			PaymentID:     conf.Payment.ID,
			InvoiceNumber: conf.Invoice.Number,
			InvoiceTotal:  conf.Invoice.Total,
		}}, nil
	})
}
