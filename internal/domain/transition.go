package domain

// Transition defines a valid state change: an event moves an entity from Src to Dst.
// Statuses and events are kept as strings here so the same validator adapter can
// serve both the booking and tenant machines.
type Transition struct {
	Event string
	Src   string
	Dst   string
}
