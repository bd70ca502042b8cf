package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/roomstay/internal/app"
	"github.com/neomorfeo/roomstay/internal/domain"
)

// TenantResponse is the API representation of a tenant.
type TenantResponse struct {
	ID            string `json:"id" doc:"Unique identifier"`
	ListingID     string `json:"listing_id" doc:"Listing lived in"`
	RoomID        string `json:"room_id,omitempty" doc:"Occupied room"`
	ProviderID    string `json:"provider_id" doc:"Landlord"`
	BookingID     string `json:"booking_id,omitempty" doc:"Originating booking"`
	Name          string `json:"name" doc:"Tenant display name"`
	Email         string `json:"email" doc:"Contact email"`
	Status        string `json:"status" doc:"Lifecycle state" enum:"pending,active,moved_out,evicted"`
	RentAmount    int64  `json:"rent_amount" doc:"Monthly rent, minor units"`
	DepositAmount int64  `json:"deposit_amount" doc:"Deposit held, minor units"`
	MovedInAt     string `json:"moved_in_at,omitempty" doc:"Move-in timestamp (ISO 8601)"`
	MovedOutAt    string `json:"moved_out_at,omitempty" doc:"Move-out timestamp (ISO 8601)"`
	CreatedAt     string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
}

func toTenantResponse(t domain.Tenant) TenantResponse {
	resp := TenantResponse{
		ID:            t.ID,
		ListingID:     t.ListingID,
		RoomID:        t.RoomID,
		ProviderID:    t.ProviderID,
		BookingID:     t.BookingID,
		Name:          t.Name,
		Email:         t.Email,
		Status:        string(t.Status),
		RentAmount:    t.RentAmount,
		DepositAmount: t.DepositAmount,
		CreatedAt:     t.CreatedAt.Format(timeFormat),
	}
	if t.MovedInAt != nil {
		resp.MovedInAt = t.MovedInAt.Format(timeFormat)
	}
	if t.MovedOutAt != nil {
		resp.MovedOutAt = t.MovedOutAt.Format(timeFormat)
	}
	return resp
}

type GetTenantInput struct {
	ID string `path:"id" doc:"Tenant ID"`
}

type GetTenantOutput struct {
	Body TenantResponse
}

type ListTenantsInput struct {
	Status    string `query:"status" required:"false" doc:"Filter by status"`
	ListingID string `query:"listing_id" required:"false" doc:"Filter by listing"`
	Limit     int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset    int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListTenantsOutput struct {
	Body []TenantResponse
}

// CloseTenancyInput identifies the provider and the effective date for a
// move-out or eviction.
type CloseTenancyInput struct {
	ID   string `path:"id" doc:"Tenant ID"`
	Body struct {
		ProviderID string `json:"provider_id" minLength:"1" doc:"Acting provider"`
		Date       string `json:"date,omitempty" format:"date-time" doc:"Effective date; defaults to now"`
	}
}

type CloseTenancyOutput struct {
	Body TenantResponse
}

func registerTenants(api huma.API, svc *app.TenantService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-tenant",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenants/{id}",
		Summary:     "Get a tenant by ID",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *GetTenantInput) (*GetTenantOutput, error) {
		tenant, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetTenantOutput{Body: toTenantResponse(tenant)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tenants",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenants",
		Summary:     "List tenants",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *ListTenantsInput) (*ListTenantsOutput, error) {
		filter := domain.TenantFilter{
			ListingID: input.ListingID,
			Limit:     input.Limit,
			Offset:    input.Offset,
		}
		if input.Status != "" {
			s := domain.TenantStatus(input.Status)
			filter.Status = &s
		}

		tenants, err := svc.List(ctx, filter)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]TenantResponse, len(tenants))
		for i, t := range tenants {
			resp[i] = toTenantResponse(t)
		}
		return &ListTenantsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-out-tenant",
		Method:      http.MethodPost,
		Path:        "/api/v1/tenants/{id}/move-out",
		Summary:     "Close an active tenancy and free the bed",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *CloseTenancyInput) (*CloseTenancyOutput, error) {
		when, err := parseDate(input.Body.Date)
		if err != nil {
			return nil, toHumaError(err)
		}
		tenant, err := svc.MoveOut(ctx, input.ID, input.Body.ProviderID, when)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CloseTenancyOutput{Body: toTenantResponse(tenant)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "evict-tenant",
		Method:      http.MethodPost,
		Path:        "/api/v1/tenants/{id}/evict",
		Summary:     "Evict an active tenant and free the bed",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *CloseTenancyInput) (*CloseTenancyOutput, error) {
		when, err := parseDate(input.Body.Date)
		if err != nil {
			return nil, toHumaError(err)
		}
		tenant, err := svc.Evict(ctx, input.ID, input.Body.ProviderID, when)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CloseTenancyOutput{Body: toTenantResponse(tenant)}, nil
	})
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	when, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: "date", Reason: "must be RFC 3339"}
	}
	return when, nil
}
