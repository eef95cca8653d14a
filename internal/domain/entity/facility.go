package entity

import "time"

// Facility kinds
const (
	FacilityKindArena   = "ARENA"
	FacilityKindPaddock = "PADDOCK"
	FacilityKindHall    = "RIDING_HALL"
	FacilityKindWalker  = "HORSE_WALKER"
)

// Facility is the configuration record for one bookable resource. The booking
// core only consumes MaxCapacity; the rest is informational.
type Facility struct {
	ID          uint
	FacilityID  string
	Name        string
	Kind        string
	MaxCapacity int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
