package domain_test

import (
	"testing"
	"time"

	"github.com/neomorfeo/roomstay/internal/domain"
)

func testListing() domain.Listing {
	return domain.Listing{
		ID:           "lst-1",
		ProviderID:   "prov-1",
		Title:        "Sunrise Boarding House",
		GenderPolicy: domain.GenderAny,
		Rooms: []domain.Room{
			{
				ID:            "room-1",
				ListingID:     "lst-1",
				Name:          "Room A",
				Capacity:      2,
				AvailableBeds: 2,
				MonthRent:     35000,
				Deposit:       10000,
				Status:        domain.RoomAvailable,
			},
		},
	}
}

func TestNewBooking_FreezesFinancialSnapshot(t *testing.T) {
	listing := testListing()
	room := listing.Rooms[0]
	applicant := domain.Applicant{Name: "Ada", Email: "ada@example.com", Phone: "0700000001"}

	before := time.Now().UTC()
	b := domain.NewBooking("bk-1", listing, room, "seek-1", applicant)
	after := time.Now().UTC()

	if b.Status != domain.BookingPending {
		t.Errorf("Status = %q, want %q", b.Status, domain.BookingPending)
	}
	if b.PaymentState != domain.PaymentUnpaid {
		t.Errorf("PaymentState = %q, want %q", b.PaymentState, domain.PaymentUnpaid)
	}
	if b.AgreedMonthRent != 35000 {
		t.Errorf("AgreedMonthRent = %d, want 35000", b.AgreedMonthRent)
	}
	if b.AgreedDeposit != 10000 {
		t.Errorf("AgreedDeposit = %d, want 10000", b.AgreedDeposit)
	}
	if b.TotalAmount != 45000 {
		t.Errorf("TotalAmount = %d, want 45000", b.TotalAmount)
	}
	if b.ProviderID != "prov-1" {
		t.Errorf("ProviderID = %q, want %q", b.ProviderID, "prov-1")
	}
	if b.CreatedAt.Before(before) || b.CreatedAt.After(after) {
		t.Errorf("CreatedAt = %v, want between %v and %v", b.CreatedAt, before, after)
	}
}

func TestBookingTransitions_ValidPaths(t *testing.T) {
	cases := []struct {
		event domain.BookingEvent
		src   domain.BookingStatus
		dst   domain.BookingStatus
	}{
		{domain.BookingEventAccept, domain.BookingPending, domain.BookingPendingPayment},
		{domain.BookingEventReject, domain.BookingPending, domain.BookingRejected},
		{domain.BookingEventPaymentConfirm, domain.BookingPendingPayment, domain.BookingConfirmed},
		{domain.BookingEventCancel, domain.BookingPending, domain.BookingCancelled},
		{domain.BookingEventCancel, domain.BookingPendingPayment, domain.BookingCancelled},
	}

	for _, tc := range cases {
		found := false
		for _, tr := range domain.BookingTransitions {
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

func TestBookingTransitions_NoBackwardPaths(t *testing.T) {
	// Confirmed, rejected and cancelled are terminal: no transition may
	// leave them, and nothing transitions back to pending.
	terminal := map[string]bool{
		string(domain.BookingConfirmed): true,
		string(domain.BookingRejected):  true,
		string(domain.BookingCancelled): true,
	}

	for _, tr := range domain.BookingTransitions {
		if terminal[tr.Src] {
			t.Errorf("unexpected transition out of terminal state %q", tr.Src)
		}
		if tr.Dst == string(domain.BookingPending) {
			t.Errorf("unexpected transition back to pending via %q", tr.Event)
		}
	}
}
