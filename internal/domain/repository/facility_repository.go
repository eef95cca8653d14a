package repository

import (
	"context"
	"errors"

	"stablebook-service/internal/domain/entity"
)

// ErrFacilityNotFound is returned when no facility configuration record
// exists for the requested facility id.
var ErrFacilityNotFound = errors.New("facility not found")

// FacilityRepository defines access to facility configuration records. The
// booking core never reads these directly; the usecase layer resolves the
// facility and hands maxCapacity to the validator as a plain argument.
type FacilityRepository interface {
	GetByFacilityID(ctx context.Context, facilityID string) (*entity.Facility, error)
	Create(ctx context.Context, facility *entity.Facility) error
	List(ctx context.Context, activeOnly bool) ([]*entity.Facility, error)
}
