package domain

import "time"

// RoomStatus is the occupancy state of a room. "full" is derived from the
// bed count: it is set when available beds hit zero and cleared when a
// tenant moves out.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomFull        RoomStatus = "full"
	RoomMaintenance RoomStatus = "maintenance"
)

// GenderPolicy restricts who may apply for a listing.
type GenderPolicy string

const (
	GenderAny        GenderPolicy = "any"
	GenderMaleOnly   GenderPolicy = "male_only"
	GenderFemaleOnly GenderPolicy = "female_only"
)

// Room is a rentable unit within a listing. The bed counters here are the
// sole source of availability truth. Invariant: 0 <= AvailableBeds <= Capacity.
type Room struct {
	ID        string
	ListingID string
	Name      string
	Capacity  int
	// AvailableBeds is decremented when a payment confirms and incremented
	// when a tenant moves out, always through conditional updates.
	AvailableBeds int
	// Prices in minor currency units.
	MonthRent int64
	Deposit   int64
	Status    RoomStatus
}

// Listing is a provider's property with its rooms.
type Listing struct {
	ID           string
	ProviderID   string
	Title        string
	Address      string
	GenderPolicy GenderPolicy
	Rooms        []Room
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FindRoom returns the room with the given id, if the listing has one.
func (l Listing) FindRoom(roomID string) (Room, bool) {
	for _, r := range l.Rooms {
		if r.ID == roomID {
			return r, true
		}
	}
	return Room{}, false
}

// Accepts reports whether the listing's gender policy admits the given
// applicant gender. An empty gender is only admitted by an open policy.
func (l Listing) Accepts(gender string) bool {
	switch l.GenderPolicy {
	case GenderMaleOnly:
		return gender == "male"
	case GenderFemaleOnly:
		return gender == "female"
	default:
		return true
	}
}
