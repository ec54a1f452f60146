package vehicle

import (
	"context"

	"github.com/google/uuid"

	"github.com/ridehub/ridehub-api/internal/domain/driver"
)

// DriverDirectory resolves drivers for assignment checks
type DriverDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*driver.Driver, error)
}

// Service handles vehicle business logic
type Service struct {
	repo    Repository
	drivers DriverDirectory
}

// NewService creates vehicle service
func NewService(repo Repository, drivers DriverDirectory) *Service {
	return &Service{repo: repo, drivers: drivers}
}

// Create registers a vehicle. Plate uniqueness is checked by query
// before insert; the partial unique index backs it up under races.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Vehicle, error) {
	existing, err := s.repo.GetByPlate(ctx, req.PlateNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPlateTaken
	}

	v := &Vehicle{
		ID:          uuid.New(),
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		PlateNumber: req.PlateNumber,
		Category:    req.Category,
		Seats:       req.Seats,
		IsActive:    true,
	}
	if req.DriverID != nil {
		if err := s.checkDriver(ctx, *req.DriverID); err != nil {
			return nil, err
		}
		v.DriverID = uuid.NullUUID{UUID: *req.DriverID, Valid: true}
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	return v, nil
}

// Get returns a vehicle by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVehicleNotFound
	}

	return v, nil
}

// List returns vehicles matching the filter
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Vehicle, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

// Update applies partial changes to a vehicle
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*Vehicle, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVehicleNotFound
	}

	if req.PlateNumber != nil && *req.PlateNumber != v.PlateNumber {
		taken, err := s.repo.GetByPlate(ctx, *req.PlateNumber)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, ErrPlateTaken
		}
		v.PlateNumber = *req.PlateNumber
	}
	if req.DriverID != nil {
		if err := s.checkDriver(ctx, *req.DriverID); err != nil {
			return nil, err
		}
		v.DriverID = uuid.NullUUID{UUID: *req.DriverID, Valid: true}
	}
	if req.Make != nil {
		v.Make = *req.Make
	}
	if req.Model != nil {
		v.Model = *req.Model
	}
	if req.Year != nil {
		v.Year = *req.Year
	}
	if req.Category != nil {
		v.Category = *req.Category
	}
	if req.Seats != nil {
		v.Seats = *req.Seats
	}
	if req.IsActive != nil {
		v.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}

	return v, nil
}

// Delete soft deletes a vehicle
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v == nil {
		return ErrVehicleNotFound
	}

	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) checkDriver(ctx context.Context, driverID uuid.UUID) error {
	d, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return err
	}
	if d == nil {
		return ErrDriverNotFound
	}
	return nil
}
