package review

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ridehub/ridehub-api/internal/domain/ride"
)

// RideDirectory looks up rides being reviewed
type RideDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ride.Ride, error)
}

// Service handles ride review business logic
type Service struct {
	repo  Repository
	rides RideDirectory
}

// NewService creates new review service
func NewService(repo Repository, rides RideDirectory) *Service {
	return &Service{repo: repo, rides: rides}
}

// Create submits a review for the driver's own completed ride.
// Each ride can be reviewed once.
func (s *Service) Create(ctx context.Context, driverID, rideID uuid.UUID, req *CreateRequest) (*Review, error) {
	rd, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if rd == nil {
		return nil, ErrRideNotFound
	}
	if rd.DriverID != driverID {
		return nil, ErrNotRideOwner
	}
	if rd.Status != ride.StatusCompleted {
		return nil, ErrRideNotCompleted
	}

	existing, err := s.repo.GetByRideID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyReviewed
	}

	rev := &Review{
		ID:       uuid.New(),
		RideID:   rideID,
		DriverID: driverID,
		Rating:   req.Rating,
		Comment:  sql.NullString{String: req.Comment, Valid: req.Comment != ""},
	}
	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, err
	}

	return rev, nil
}

// ListOwn returns a driver's submitted reviews
func (s *Service) ListOwn(ctx context.Context, driverID uuid.UUID, limit, offset int) ([]*Review, int, error) {
	return s.repo.ListByDriver(ctx, driverID, limit, offset)
}
