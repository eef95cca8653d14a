package repository

import (
	"context"
	"errors"

	"stablebook-service/internal/domain/entity"
	"stablebook-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormFacilityRepository implements the FacilityRepository interface
type GormFacilityRepository struct {
	db *gorm.DB
}

// NewGormFacilityRepository creates a new GORM facility repository
func NewGormFacilityRepository(db *gorm.DB) repository.FacilityRepository {
	return &GormFacilityRepository{
		db: db,
	}
}

// Facilities GORM model for database mapping
type Facilities struct {
	gorm.Model
	FacilityID  string `gorm:"column:facility_id;uniqueIndex"`
	Name        string `gorm:"column:name"`
	Kind        string `gorm:"column:kind"`
	MaxCapacity int    `gorm:"column:max_capacity"`
	Active      bool   `gorm:"column:active;default:true"`
}

// TableName overrides the default table name
func (Facilities) TableName() string {
	return "facilities"
}

func (m Facilities) toEntity() *entity.Facility {
	return &entity.Facility{
		ID:          m.ID,
		FacilityID:  m.FacilityID,
		Name:        m.Name,
		Kind:        m.Kind,
		MaxCapacity: m.MaxCapacity,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// GetByFacilityID finds a facility configuration record by its facility id
func (r *GormFacilityRepository) GetByFacilityID(ctx context.Context, facilityID string) (*entity.Facility, error) {
	var model Facilities
	result := r.db.WithContext(ctx).Where("facility_id = ?", facilityID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFacilityNotFound
		}
		return nil, result.Error
	}
	return model.toEntity(), nil
}

// Create inserts a new facility configuration record
func (r *GormFacilityRepository) Create(ctx context.Context, facility *entity.Facility) error {
	model := Facilities{
		FacilityID:  facility.FacilityID,
		Name:        facility.Name,
		Kind:        facility.Kind,
		MaxCapacity: facility.MaxCapacity,
		Active:      facility.Active,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return result.Error
	}

	// Update the entity with the generated ID
	facility.ID = model.ID
	facility.CreatedAt = model.CreatedAt
	facility.UpdatedAt = model.UpdatedAt

	return nil
}

// List returns facility configuration records, optionally only active ones
func (r *GormFacilityRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Facility, error) {
	var models []Facilities
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	result := q.Order("facility_id").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	facilities := make([]*entity.Facility, 0, len(models))
	for _, m := range models {
		facilities = append(facilities, m.toEntity())
	}
	return facilities, nil
}
