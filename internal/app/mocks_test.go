package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neomorfeo/roomstay/internal/adapter/fsm"
	"github.com/neomorfeo/roomstay/internal/app"
	"github.com/neomorfeo/roomstay/internal/domain"
)

// --- Mocks ---

// memStore is an in-memory domain.Store. InTx is best-effort: it runs fn
// against the same maps without rollback, which is fine for tests that
// only exercise the happy path or fail before any write.
type memStore struct {
	bookings map[string]domain.Booking
	tenants  map[string]domain.Tenant
	listings map[string]domain.Listing
	payments map[string]domain.Payment // keyed by gateway intent id
	invoices map[string]domain.Invoice
}

func newMemStore() *memStore {
	return &memStore{
		bookings: make(map[string]domain.Booking),
		tenants:  make(map[string]domain.Tenant),
		listings: make(map[string]domain.Listing),
		payments: make(map[string]domain.Payment),
		invoices: make(map[string]domain.Invoice),
	}
}

func (m *memStore) Bookings() domain.BookingRepository { return &memBookings{m} }
func (m *memStore) Tenants() domain.TenantRepository   { return &memTenants{m} }
func (m *memStore) Listings() domain.ListingRepository { return &memListings{m} }
func (m *memStore) Payments() domain.PaymentRepository { return &memPayments{m} }
func (m *memStore) Invoices() domain.InvoiceRepository { return &memInvoices{m} }

func (m *memStore) InTx(_ context.Context, fn func(domain.UnitOfWork) error) error {
	return fn(m)
}

type memBookings struct{ s *memStore }

func (r *memBookings) Create(_ context.Context, b domain.Booking) error {
	r.s.bookings[b.ID] = b
	return nil
}

func (r *memBookings) GetByID(_ context.Context, id string) (domain.Booking, error) {
	b, ok := r.s.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return b, nil
}

func (r *memBookings) GetByIntentID(_ context.Context, intentID string) (domain.Booking, error) {
	if intentID == "" {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	for _, b := range r.s.bookings {
		if b.PaymentIntentID == intentID {
			return b, nil
		}
	}
	return domain.Booking{}, domain.ErrBookingNotFound
}

func (r *memBookings) List(_ context.Context, _ domain.BookingFilter) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0, len(r.s.bookings))
	for _, b := range r.s.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (r *memBookings) Update(_ context.Context, b domain.Booking) error {
	if _, ok := r.s.bookings[b.ID]; !ok {
		return domain.ErrBookingNotFound
	}
	r.s.bookings[b.ID] = b
	return nil
}

type memTenants struct{ s *memStore }

func (r *memTenants) Create(_ context.Context, t domain.Tenant) error {
	r.s.tenants[t.ID] = t
	return nil
}

func (r *memTenants) GetByID(_ context.Context, id string) (domain.Tenant, error) {
	t, ok := r.s.tenants[id]
	if !ok {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	return t, nil
}

func (r *memTenants) FindOccupant(_ context.Context, listingID, providerID, email string) (domain.Tenant, error) {
	for _, t := range r.s.tenants {
		if t.Terminal() {
			continue
		}
		if t.ListingID == listingID && t.ProviderID == providerID && t.Email == email {
			return t, nil
		}
	}
	return domain.Tenant{}, domain.ErrTenantNotFound
}

func (r *memTenants) List(_ context.Context, _ domain.TenantFilter) ([]domain.Tenant, error) {
	out := make([]domain.Tenant, 0, len(r.s.tenants))
	for _, t := range r.s.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (r *memTenants) Update(_ context.Context, t domain.Tenant) error {
	if _, ok := r.s.tenants[t.ID]; !ok {
		return domain.ErrTenantNotFound
	}
	r.s.tenants[t.ID] = t
	return nil
}

type memListings struct{ s *memStore }

func (r *memListings) Create(_ context.Context, l domain.Listing) error {
	r.s.listings[l.ID] = l
	return nil
}

func (r *memListings) GetByID(_ context.Context, id string) (domain.Listing, error) {
	l, ok := r.s.listings[id]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return l, nil
}

func (r *memListings) GetRoom(_ context.Context, listingID, roomID string) (domain.Room, error) {
	l, ok := r.s.listings[listingID]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	room, ok := l.FindRoom(roomID)
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, nil
}

func (r *memListings) List(_ context.Context, _ domain.ListingFilter) ([]domain.Listing, error) {
	out := make([]domain.Listing, 0, len(r.s.listings))
	for _, l := range r.s.listings {
		out = append(out, l)
	}
	return out, nil
}

func (r *memListings) DecrementBeds(_ context.Context, listingID, roomID string) (domain.Room, error) {
	l, ok := r.s.listings[listingID]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	for i := range l.Rooms {
		room := &l.Rooms[i]
		if room.ID != roomID {
			continue
		}
		if room.AvailableBeds == 0 {
			return domain.Room{}, domain.ErrNoBedsAvailable
		}
		room.AvailableBeds--
		if room.AvailableBeds == 0 {
			room.Status = domain.RoomFull
		}
		r.s.listings[listingID] = l
		return *room, nil
	}
	return domain.Room{}, domain.ErrRoomNotFound
}

func (r *memListings) IncrementBeds(_ context.Context, listingID, roomID string) (domain.Room, error) {
	l, ok := r.s.listings[listingID]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	for i := range l.Rooms {
		room := &l.Rooms[i]
		if room.ID != roomID {
			continue
		}
		if room.AvailableBeds < room.Capacity {
			room.AvailableBeds++
			if room.Status == domain.RoomFull {
				room.Status = domain.RoomAvailable
			}
		}
		r.s.listings[listingID] = l
		return *room, nil
	}
	return domain.Room{}, domain.ErrRoomNotFound
}

type memPayments struct{ s *memStore }

func (r *memPayments) Create(_ context.Context, p domain.Payment) error {
	if _, ok := r.s.payments[p.GatewayIntentID]; ok {
		return domain.ErrDuplicatePayment
	}
	r.s.payments[p.GatewayIntentID] = p
	return nil
}

func (r *memPayments) GetByIntentID(_ context.Context, intentID string) (domain.Payment, error) {
	p, ok := r.s.payments[intentID]
	if !ok {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}
	return p, nil
}

type memInvoices struct{ s *memStore }

func (r *memInvoices) Create(_ context.Context, inv domain.Invoice) error {
	r.s.invoices[inv.ID] = inv
	return nil
}

func (r *memInvoices) GetByPaymentID(_ context.Context, paymentID string) (domain.Invoice, error) {
	for _, inv := range r.s.invoices {
		if inv.PaymentID == paymentID {
			return inv, nil
		}
	}
	return domain.Invoice{}, domain.ErrInvoiceNotFound
}

// mockGateway returns canned intents and records calls.
type mockGateway struct {
	intents     map[string]domain.PaymentIntent
	createErr   error
	retrieveErr error
	created     int
}

func newMockGateway() *mockGateway {
	return &mockGateway{intents: make(map[string]domain.PaymentIntent)}
}

func (g *mockGateway) CreateIntent(_ context.Context, amount int64, currency string, _ map[string]string) (domain.PaymentIntent, error) {
	if g.createErr != nil {
		return domain.PaymentIntent{}, g.createErr
	}
	g.created++
	intent := domain.PaymentIntent{
		ID:       "pi_" + currency + "_" + time.Now().Format("150405.000000000"),
		Amount:   amount,
		Currency: currency,
		Status:   domain.IntentRequiresPayment,
	}
	g.intents[intent.ID] = intent
	return intent, nil
}

func (g *mockGateway) RetrieveIntent(_ context.Context, id string) (domain.PaymentIntent, error) {
	if g.retrieveErr != nil {
		return domain.PaymentIntent{}, g.retrieveErr
	}
	intent, ok := g.intents[id]
	if !ok {
		return domain.PaymentIntent{}, errors.New("no such intent")
	}
	return intent, nil
}

// settle marks an intent as succeeded, as the gateway would after the
// cardholder pays.
func (g *mockGateway) settle(id string) {
	intent := g.intents[id]
	intent.Status = domain.IntentSucceeded
	g.intents[id] = intent
}

// mockDispatcher records enqueued side effects.
type mockDispatcher struct {
	notifications []domain.Notification
	emails        []domain.Email
	err           error
}

func (d *mockDispatcher) Notify(_ context.Context, n domain.Notification) error {
	if d.err != nil {
		return d.err
	}
	d.notifications = append(d.notifications, n)
	return nil
}

func (d *mockDispatcher) Email(_ context.Context, e domain.Email) error {
	if d.err != nil {
		return d.err
	}
	d.emails = append(d.emails, e)
	return nil
}

// --- Fixtures ---

type fixture struct {
	store      *memStore
	gateway    *mockGateway
	dispatcher *mockDispatcher
	bookings   *app.BookingService
	tenantSvc  *app.TenantService
	listings   *app.ListingService
}

func newFixture() *fixture {
	store := newMemStore()
	gateway := newMockGateway()
	dispatcher := &mockDispatcher{}
	bookingFSM := fsm.New(domain.BookingTransitions)
	tenantFSM := fsm.New(domain.TenantTransitions)
	return &fixture{
		store:      store,
		gateway:    gateway,
		dispatcher: dispatcher,
		bookings:   app.NewBookingService(store, gateway, dispatcher, bookingFSM, tenantFSM, "eur"),
		tenantSvc:  app.NewTenantService(store, dispatcher, tenantFSM),
		listings:   app.NewListingService(store),
	}
}

// seedListing installs a listing with one room and returns it.
func (f *fixture) seedListing(t *testing.T, beds, capacity int) domain.Listing {
	t.Helper()
	listing := domain.Listing{
		ID:           "lst-1",
		ProviderID:   "prov-1",
		Title:        "Casa del Sol",
		Address:      "12 Carrer Major",
		GenderPolicy: domain.GenderAny,
		Rooms: []domain.Room{{
			ID:            "room-1",
			Name:          "Room A",
			Capacity:      capacity,
			AvailableBeds: beds,
			MonthRent:     35000,
			Deposit:       10000,
			Status:        domain.RoomAvailable,
		}},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if beds == 0 {
		listing.Rooms[0].Status = domain.RoomFull
	}
	if err := f.store.Listings().Create(context.Background(), listing); err != nil {
		t.Fatalf("seeding listing: %v", err)
	}
	return listing
}

func testApplicant() domain.Applicant {
	return domain.Applicant{
		Name:   "Marta Vidal",
		Email:  "marta@example.com",
		Phone:  "+34600111222",
		Gender: "female",
	}
}
