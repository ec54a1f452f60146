package review

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/ridehub/ridehub-api/internal/domain/ride"
)

type fakeRepo struct {
	byRide map[uuid.UUID]*Review
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byRide: make(map[uuid.UUID]*Review)}
}

func (f *fakeRepo) Create(_ context.Context, r *Review) error {
	if _, ok := f.byRide[r.RideID]; ok {
		return ErrAlreadyReviewed
	}
	cp := *r
	f.byRide[r.RideID] = &cp
	return nil
}

func (f *fakeRepo) GetByRideID(_ context.Context, rideID uuid.UUID) (*Review, error) {
	r, ok := f.byRide[rideID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) ListByDriver(_ context.Context, driverID uuid.UUID, limit, offset int) ([]*Review, int, error) {
	out := []*Review{}
	for _, r := range f.byRide {
		if r.DriverID == driverID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

type fakeRides struct {
	rides map[uuid.UUID]*ride.Ride
}

func (f *fakeRides) GetByID(_ context.Context, id uuid.UUID) (*ride.Ride, error) {
	r, ok := f.rides[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func newTestService() (*Service, *fakeRides) {
	rides := &fakeRides{rides: make(map[uuid.UUID]*ride.Ride)}
	return NewService(newFakeRepo(), rides), rides
}

func addRide(rides *fakeRides, driverID uuid.UUID, status ride.Status) uuid.UUID {
	id := uuid.New()
	rides.rides[id] = &ride.Ride{ID: id, DriverID: driverID, Status: status}
	return id
}

func TestCreateReview(t *testing.T) {
	svc, rides := newTestService()
	driverID := uuid.New()
	rideID := addRide(rides, driverID, ride.StatusCompleted)

	rev, err := svc.Create(context.Background(), driverID, rideID, &CreateRequest{Rating: 5, Comment: "Smooth trip"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rev.Rating != 5 {
		t.Errorf("rating = %d, want 5", rev.Rating)
	}
	if !rev.Comment.Valid || rev.Comment.String != "Smooth trip" {
		t.Errorf("comment = %+v, want Smooth trip", rev.Comment)
	}
}

func TestCreateReviewGuards(t *testing.T) {
	svc, rides := newTestService()
	driverID := uuid.New()

	completed := addRide(rides, driverID, ride.StatusCompleted)
	ongoing := addRide(rides, driverID, ride.StatusOngoing)

	tests := []struct {
		name     string
		driverID uuid.UUID
		rideID   uuid.UUID
		wantErr  error
	}{
		{"missing ride", driverID, uuid.New(), ErrRideNotFound},
		{"other driver", uuid.New(), completed, ErrNotRideOwner},
		{"not completed", driverID, ongoing, ErrRideNotCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.driverID, tt.rideID, &CreateRequest{Rating: 4})
			if err != tt.wantErr {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRideReviewedOnce(t *testing.T) {
	svc, rides := newTestService()
	driverID := uuid.New()
	rideID := addRide(rides, driverID, ride.StatusCompleted)

	if _, err := svc.Create(context.Background(), driverID, rideID, &CreateRequest{Rating: 4}); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	if _, err := svc.Create(context.Background(), driverID, rideID, &CreateRequest{Rating: 2}); err != ErrAlreadyReviewed {
		t.Errorf("second Create() error = %v, want ErrAlreadyReviewed", err)
	}
}

func TestListOwn(t *testing.T) {
	svc, rides := newTestService()
	driverID := uuid.New()

	for i := 0; i < 3; i++ {
		rideID := addRide(rides, driverID, ride.StatusCompleted)
		if _, err := svc.Create(context.Background(), driverID, rideID, &CreateRequest{Rating: 3}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	other := uuid.New()
	if _, err := svc.Create(context.Background(), other, addRide(rides, other, ride.StatusCompleted), &CreateRequest{Rating: 5}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	reviews, total, err := svc.ListOwn(context.Background(), driverID, 20, 0)
	if err != nil {
		t.Fatalf("ListOwn() error = %v", err)
	}
	if total != 3 || len(reviews) != 3 {
		t.Errorf("ListOwn() total = %d len = %d, want 3", total, len(reviews))
	}
}
