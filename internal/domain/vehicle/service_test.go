package vehicle

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ridehub/ridehub-api/internal/domain/driver"
)

type fakeRepo struct {
	vehicles map[uuid.UUID]*Vehicle
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{vehicles: make(map[uuid.UUID]*Vehicle)}
}

func (f *fakeRepo) Create(_ context.Context, v *Vehicle) error {
	cp := *v
	f.vehicles[v.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok || v.DeletedAt.Valid {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (f *fakeRepo) GetByPlate(_ context.Context, plate string) (*Vehicle, error) {
	for _, v := range f.vehicles {
		if !v.DeletedAt.Valid && strings.EqualFold(v.PlateNumber, plate) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) List(_ context.Context, filter ListFilter) ([]*Vehicle, int, error) {
	out := []*Vehicle{}
	for _, v := range f.vehicles {
		if v.DeletedAt.Valid {
			continue
		}
		if filter.Category != "" && v.Category != filter.Category {
			continue
		}
		if filter.Active != nil && v.IsActive != *filter.Active {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(_ context.Context, v *Vehicle) error {
	cp := *v
	f.vehicles[v.ID] = &cp
	return nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if v, ok := f.vehicles[id]; ok {
		v.DeletedAt.Valid = true
	}
	return nil
}

type fakeDrivers struct {
	known map[uuid.UUID]bool
}

func (f *fakeDrivers) GetByID(_ context.Context, id uuid.UUID) (*driver.Driver, error) {
	if !f.known[id] {
		return nil, nil
	}
	return &driver.Driver{ID: id}, nil
}

func newTestService() (*Service, *fakeDrivers) {
	drivers := &fakeDrivers{known: make(map[uuid.UUID]bool)}
	return NewService(newFakeRepo(), drivers), drivers
}

func sedanRequest(plate string) *CreateRequest {
	return &CreateRequest{
		Make:        "Toyota",
		Model:       "Camry",
		Year:        2022,
		PlateNumber: plate,
		Category:    "sedan",
		Seats:       4,
	}
}

func TestCreatePlateTaken(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Create(context.Background(), sedanRequest("A 12345")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(context.Background(), sedanRequest("A 12345")); err != ErrPlateTaken {
		t.Errorf("duplicate Create() error = %v, want ErrPlateTaken", err)
	}
	if _, err := svc.Create(context.Background(), sedanRequest("B 67890")); err != nil {
		t.Errorf("distinct plate Create() error = %v", err)
	}
}

func TestCreateWithUnknownDriver(t *testing.T) {
	svc, drivers := newTestService()

	req := sedanRequest("C 11111")
	unknown := uuid.New()
	req.DriverID = &unknown
	if _, err := svc.Create(context.Background(), req); err != ErrDriverNotFound {
		t.Errorf("Create() error = %v, want ErrDriverNotFound", err)
	}

	known := uuid.New()
	drivers.known[known] = true
	req.DriverID = &known
	v, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !v.DriverID.Valid || v.DriverID.UUID != known {
		t.Errorf("driver_id = %+v, want %s", v.DriverID, known)
	}
}

func TestUpdatePlateChange(t *testing.T) {
	svc, _ := newTestService()

	first, err := svc.Create(context.Background(), sedanRequest("D 22222"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := svc.Create(context.Background(), sedanRequest("E 33333"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	taken := first.PlateNumber
	if _, err := svc.Update(context.Background(), second.ID, &UpdateRequest{PlateNumber: &taken}); err != ErrPlateTaken {
		t.Errorf("Update() to taken plate error = %v, want ErrPlateTaken", err)
	}

	fresh := "F 44444"
	updated, err := svc.Update(context.Background(), second.ID, &UpdateRequest{PlateNumber: &fresh})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.PlateNumber != fresh {
		t.Errorf("plate = %s, want %s", updated.PlateNumber, fresh)
	}
}

func TestDeleteHidesVehicle(t *testing.T) {
	svc, _ := newTestService()

	v, err := svc.Create(context.Background(), sedanRequest("G 55555"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(context.Background(), v.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(context.Background(), v.ID); err != ErrVehicleNotFound {
		t.Errorf("Get() after delete error = %v, want ErrVehicleNotFound", err)
	}
	if err := svc.Delete(context.Background(), v.ID); err != ErrVehicleNotFound {
		t.Errorf("second Delete() error = %v, want ErrVehicleNotFound", err)
	}

	// The plate frees up once the row is soft deleted.
	if _, err := svc.Create(context.Background(), sedanRequest("G 55555")); err != nil {
		t.Errorf("Create() after delete error = %v", err)
	}
}
