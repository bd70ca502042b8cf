package app

import (
	"context"
	"fmt"

	"github.com/neomorfeo/roomstay/internal/domain"
)

// ListingService manages boarding-house listings and their rooms.
type ListingService struct {
	store domain.Store
}

// NewListingService creates a service backed by the given store.
func NewListingService(store domain.Store) *ListingService {
	return &ListingService{store: store}
}

// Create validates and persists a new listing with its rooms. Room and
// listing ids are assigned here; callers supply everything else.
func (s *ListingService) Create(ctx context.Context, listing domain.Listing) (domain.Listing, error) {
	if listing.Title == "" {
		return domain.Listing{}, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if listing.ProviderID == "" {
		return domain.Listing{}, &domain.ValidationError{Field: "provider_id", Reason: "must not be empty"}
	}
	switch listing.GenderPolicy {
	case domain.GenderAny, domain.GenderMaleOnly, domain.GenderFemaleOnly:
	case "":
		listing.GenderPolicy = domain.GenderAny
	default:
		return domain.Listing{}, &domain.ValidationError{Field: "gender_policy", Reason: fmt.Sprintf("unknown policy %q", listing.GenderPolicy)}
	}
	if len(listing.Rooms) == 0 {
		return domain.Listing{}, &domain.ValidationError{Field: "rooms", Reason: "at least one room is required"}
	}
	for i := range listing.Rooms {
		room := &listing.Rooms[i]
		if room.Capacity <= 0 {
			return domain.Listing{}, &domain.ValidationError{Field: "rooms.capacity", Reason: "must be positive"}
		}
		if room.AvailableBeds < 0 || room.AvailableBeds > room.Capacity {
			return domain.Listing{}, &domain.ValidationError{Field: "rooms.available_beds", Reason: "must be between 0 and capacity"}
		}
		if room.MonthRent <= 0 {
			return domain.Listing{}, &domain.ValidationError{Field: "rooms.month_rent", Reason: "must be positive"}
		}
		if room.Deposit < 0 {
			return domain.Listing{}, &domain.ValidationError{Field: "rooms.deposit", Reason: "must not be negative"}
		}
		switch room.Status {
		case domain.RoomAvailable, domain.RoomFull, domain.RoomMaintenance:
		case "":
			if room.AvailableBeds == 0 {
				room.Status = domain.RoomFull
			} else {
				room.Status = domain.RoomAvailable
			}
		default:
			return domain.Listing{}, &domain.ValidationError{Field: "rooms.status", Reason: fmt.Sprintf("unknown status %q", room.Status)}
		}
		rid, err := generateID()
		if err != nil {
			return domain.Listing{}, fmt.Errorf("generating room id: %w", err)
		}
		room.ID = rid
	}

	id, err := generateID()
	if err != nil {
		return domain.Listing{}, fmt.Errorf("generating listing id: %w", err)
	}
	listing.ID = id
	if err := s.store.Listings().Create(ctx, listing); err != nil {
		return domain.Listing{}, fmt.Errorf("creating listing: %w", err)
	}
	return listing, nil
}

// GetByID returns a listing with its rooms.
func (s *ListingService) GetByID(ctx context.Context, id string) (domain.Listing, error) {
	return s.store.Listings().GetByID(ctx, id)
}

// List returns listings matching the filter.
func (s *ListingService) List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	return s.store.Listings().List(ctx, filter)
}
