package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/roomstay/internal/app"
	"github.com/neomorfeo/roomstay/internal/domain"
)

// RoomResponse is the API representation of a room.
type RoomResponse struct {
	ID            string `json:"id" doc:"Unique identifier"`
	Name          string `json:"name" doc:"Display name"`
	Capacity      int    `json:"capacity" doc:"Total beds in the room"`
	AvailableBeds int    `json:"available_beds" doc:"Beds not currently occupied"`
	MonthRent     int64  `json:"month_rent" doc:"Monthly rent in minor currency units"`
	Deposit       int64  `json:"deposit" doc:"Security deposit in minor currency units"`
	Status        string `json:"status" doc:"Room state" enum:"available,full,maintenance"`
}

// ListingResponse is the API representation of a listing.
type ListingResponse struct {
	ID           string         `json:"id" doc:"Unique identifier"`
	ProviderID   string         `json:"provider_id" doc:"Owning provider"`
	Title        string         `json:"title" doc:"Display title"`
	Address      string         `json:"address" doc:"Street address"`
	GenderPolicy string         `json:"gender_policy" doc:"Occupancy policy" enum:"any,male_only,female_only"`
	Rooms        []RoomResponse `json:"rooms" doc:"Rooms in this listing"`
	CreatedAt    string         `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt    string         `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toRoomResponse(r domain.Room) RoomResponse {
	return RoomResponse{
		ID:            r.ID,
		Name:          r.Name,
		Capacity:      r.Capacity,
		AvailableBeds: r.AvailableBeds,
		MonthRent:     r.MonthRent,
		Deposit:       r.Deposit,
		Status:        string(r.Status),
	}
}

func toListingResponse(l domain.Listing) ListingResponse {
	rooms := make([]RoomResponse, len(l.Rooms))
	for i, r := range l.Rooms {
		rooms[i] = toRoomResponse(r)
	}
	return ListingResponse{
		ID:           l.ID,
		ProviderID:   l.ProviderID,
		Title:        l.Title,
		Address:      l.Address,
		GenderPolicy: string(l.GenderPolicy),
		Rooms:        rooms,
		CreatedAt:    l.CreatedAt.Format(timeFormat),
		UpdatedAt:    l.UpdatedAt.Format(timeFormat),
	}
}

type CreateListingInput struct {
	Body struct {
		ProviderID   string `json:"provider_id" minLength:"1" doc:"Owning provider"`
		Title        string `json:"title" minLength:"1" maxLength:"255" doc:"Display title"`
		Address      string `json:"address,omitempty" maxLength:"500" doc:"Street address"`
		GenderPolicy string `json:"gender_policy,omitempty" enum:"any,male_only,female_only" doc:"Occupancy policy"`
		Rooms        []struct {
			Name          string `json:"name" minLength:"1" maxLength:"100" doc:"Display name"`
			Capacity      int    `json:"capacity" minimum:"1" doc:"Total beds"`
			AvailableBeds int    `json:"available_beds" minimum:"0" doc:"Beds open for booking"`
			MonthRent     int64  `json:"month_rent" minimum:"1" doc:"Monthly rent in minor currency units"`
			Deposit       int64  `json:"deposit" minimum:"0" doc:"Security deposit in minor currency units"`
		} `json:"rooms" minItems:"1" doc:"Rooms to create with the listing"`
	}
}

type CreateListingOutput struct {
	Body ListingResponse
}

type GetListingInput struct {
	ID string `path:"id" doc:"Listing ID"`
}

type GetListingOutput struct {
	Body ListingResponse
}

type ListListingsInput struct {
	ProviderID string `query:"provider_id" required:"false" doc:"Filter by provider"`
	Limit      int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset     int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListListingsOutput struct {
	Body []ListingResponse
}

type GetRoomInput struct {
	ID     string `path:"id" doc:"Listing ID"`
	RoomID string `path:"roomId" doc:"Room ID"`
}

type GetRoomOutput struct {
	Body RoomResponse
}

func registerListings(api huma.API, svc *app.ListingService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-listing",
		Method:      http.MethodPost,
		Path:        "/api/v1/listings",
		Summary:     "Create a listing with its rooms",
		Tags:        []string{"Listings"},
	}, func(ctx context.Context, input *CreateListingInput) (*CreateListingOutput, error) {
		listing := domain.Listing{
			ProviderID:   input.Body.ProviderID,
			Title:        input.Body.Title,
			Address:      input.Body.Address,
			GenderPolicy: domain.GenderPolicy(input.Body.GenderPolicy),
		}
		for _, r := range input.Body.Rooms {
			listing.Rooms = append(listing.Rooms, domain.Room{
				Name:          r.Name,
				Capacity:      r.Capacity,
				AvailableBeds: r.AvailableBeds,
				MonthRent:     r.MonthRent,
				Deposit:       r.Deposit,
			})
		}

		created, err := svc.Create(ctx, listing)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateListingOutput{Body: toListingResponse(created)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-listing",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings/{id}",
		Summary:     "Get a listing by ID",
		Tags:        []string{"Listings"},
	}, func(ctx context.Context, input *GetListingInput) (*GetListingOutput, error) {
		listing, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetListingOutput{Body: toListingResponse(listing)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-listings",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings",
		Summary:     "List listings",
		Tags:        []string{"Listings"},
	}, func(ctx context.Context, input *ListListingsInput) (*ListListingsOutput, error) {
		listings, err := svc.List(ctx, domain.ListingFilter{
			ProviderID: input.ProviderID,
			Limit:      input.Limit,
			Offset:     input.Offset,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]ListingResponse, len(listings))
		for i, l := range listings {
			resp[i] = toListingResponse(l)
		}
		return &ListListingsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-room",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings/{id}/rooms/{roomId}",
		Summary:     "Get current room availability",
		Tags:        []string{"Listings"},
	}, func(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error) {
		listing, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		room, ok := listing.FindRoom(input.RoomID)
		if !ok {
			return nil, toHumaError(domain.ErrRoomNotFound)
		}
		return &GetRoomOutput{Body: toRoomResponse(room)}, nil
	})
}
