package domain_test

import (
	"testing"

	"github.com/neomorfeo/roomstay/internal/domain"
)

func TestNewTenant_CopiesBookingSnapshot(t *testing.T) {
	listing := testListing()
	room := listing.Rooms[0]
	b := domain.NewBooking("bk-1", listing, room, "seek-1", domain.Applicant{
		Name:  "Ada",
		Email: "ada@example.com",
		Phone: "0700000001",
	})

	tenant := domain.NewTenant("ten-1", b)

	if tenant.Status != domain.TenantPending {
		t.Errorf("Status = %q, want %q", tenant.Status, domain.TenantPending)
	}
	if tenant.ListingID != b.ListingID {
		t.Errorf("ListingID = %q, want %q", tenant.ListingID, b.ListingID)
	}
	if tenant.RoomID != b.RoomID {
		t.Errorf("RoomID = %q, want %q", tenant.RoomID, b.RoomID)
	}
	if tenant.BookingID != "bk-1" {
		t.Errorf("BookingID = %q, want %q", tenant.BookingID, "bk-1")
	}
	if tenant.Email != "ada@example.com" {
		t.Errorf("Email = %q, want %q", tenant.Email, "ada@example.com")
	}
	if tenant.RentAmount != 35000 || tenant.DepositAmount != 10000 {
		t.Errorf("snapshot = %d/%d, want 35000/10000", tenant.RentAmount, tenant.DepositAmount)
	}
	if tenant.MovedInAt != nil {
		t.Error("MovedInAt should be nil before activation")
	}
}

func TestTenantTransitions_ValidPaths(t *testing.T) {
	cases := []struct {
		event domain.TenantEvent
		src   domain.TenantStatus
		dst   domain.TenantStatus
	}{
		{domain.TenantEventActivate, domain.TenantPending, domain.TenantActive},
		{domain.TenantEventMoveOut, domain.TenantActive, domain.TenantMovedOut},
		{domain.TenantEventEvict, domain.TenantActive, domain.TenantEvicted},
	}

	for _, tc := range cases {
		found := false
		for _, tr := range domain.TenantTransitions {
			if tr.Event == string(tc.event) && tr.Src == string(tc.src) && tr.Dst == string(tc.dst) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing transition: %q from %q → %q", tc.event, tc.src, tc.dst)
		}
	}
}

func TestTenantTransitions_InvalidPaths(t *testing.T) {
	// These must NOT exist: moving out a pending tenant, reviving a
	// moved-out or evicted one.
	invalid := []struct {
		event domain.TenantEvent
		src   domain.TenantStatus
	}{
		{domain.TenantEventMoveOut, domain.TenantPending},
		{domain.TenantEventEvict, domain.TenantPending},
		{domain.TenantEventActivate, domain.TenantMovedOut},
		{domain.TenantEventActivate, domain.TenantEvicted},
	}

	for _, tc := range invalid {
		for _, tr := range domain.TenantTransitions {
			if tr.Event == string(tc.event) && tr.Src == string(tc.src) {
				t.Errorf("unexpected transition: %q from %q should not exist", tc.event, tc.src)
			}
		}
	}
}

func TestTenant_Terminal(t *testing.T) {
	cases := []struct {
		status domain.TenantStatus
		want   bool
	}{
		{domain.TenantPending, false},
		{domain.TenantActive, false},
		{domain.TenantMovedOut, true},
		{domain.TenantEvicted, true},
	}

	for _, tc := range cases {
		got := domain.Tenant{Status: tc.status}.Terminal()
		if got != tc.want {
			t.Errorf("Terminal() with status %q = %v, want %v", tc.status, got, tc.want)
		}
	}
}
