package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/neomorfeo/roomstay/internal/domain"
)

func validListing() domain.Listing {
	return domain.Listing{
		ProviderID:   "prov-1",
		Title:        "Casa del Sol",
		Address:      "12 Carrer Major",
		GenderPolicy: domain.GenderAny,
		Rooms: []domain.Room{{
			Name:          "Room A",
			Capacity:      3,
			AvailableBeds: 3,
			MonthRent:     35000,
			Deposit:       10000,
		}},
	}
}

func TestListingCreate(t *testing.T) {
	f := newFixture()

	listing, err := f.listings.Create(context.Background(), validListing())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if listing.ID == "" {
		t.Error("listing ID should be assigned")
	}
	if listing.Rooms[0].ID == "" {
		t.Error("room ID should be assigned")
	}
	if listing.Rooms[0].Status != domain.RoomAvailable {
		t.Errorf("room Status = %q, want defaulted %q", listing.Rooms[0].Status, domain.RoomAvailable)
	}

	stored, err := f.store.Listings().GetByID(context.Background(), listing.ID)
	if err != nil {
		t.Fatalf("listing not persisted: %v", err)
	}
	if stored.Title != "Casa del Sol" {
		t.Errorf("stored Title = %q", stored.Title)
	}
}

func TestListingCreate_DefaultsFullStatus(t *testing.T) {
	f := newFixture()
	in := validListing()
	in.Rooms[0].AvailableBeds = 0

	listing, err := f.listings.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing.Rooms[0].Status != domain.RoomFull {
		t.Errorf("Status = %q, want %q for zero beds", listing.Rooms[0].Status, domain.RoomFull)
	}
}

func TestListingCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Listing)
		field  string
	}{
		{"missing title", func(l *domain.Listing) { l.Title = "" }, "title"},
		{"missing provider", func(l *domain.Listing) { l.ProviderID = "" }, "provider_id"},
		{"bad policy", func(l *domain.Listing) { l.GenderPolicy = "couples" }, "gender_policy"},
		{"no rooms", func(l *domain.Listing) { l.Rooms = nil }, "rooms"},
		{"zero capacity", func(l *domain.Listing) { l.Rooms[0].Capacity = 0 }, "rooms.capacity"},
		{"beds above capacity", func(l *domain.Listing) { l.Rooms[0].AvailableBeds = 5 }, "rooms.available_beds"},
		{"negative beds", func(l *domain.Listing) { l.Rooms[0].AvailableBeds = -1 }, "rooms.available_beds"},
		{"zero rent", func(l *domain.Listing) { l.Rooms[0].MonthRent = 0 }, "rooms.month_rent"},
		{"negative deposit", func(l *domain.Listing) { l.Rooms[0].Deposit = -1 }, "rooms.deposit"},
		{"bad room status", func(l *domain.Listing) { l.Rooms[0].Status = "closed" }, "rooms.status"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			in := validListing()
			tc.mutate(&in)

			_, err := f.listings.Create(context.Background(), in)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Errorf("Field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestListingCreate_DefaultsGenderPolicy(t *testing.T) {
	f := newFixture()
	in := validListing()
	in.GenderPolicy = ""

	listing, err := f.listings.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listing.GenderPolicy != domain.GenderAny {
		t.Errorf("GenderPolicy = %q, want defaulted %q", listing.GenderPolicy, domain.GenderAny)
	}
}
