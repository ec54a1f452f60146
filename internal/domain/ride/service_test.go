package ride

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeRepo struct {
	rides []*Ride
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Ride, error) {
	for _, r := range f.rides {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) match(filter Filter) []*Ride {
	out := []*Ride{}
	for _, r := range f.rides {
		if filter.DriverID != nil && r.DriverID != *filter.DriverID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.PaymentMode != nil && r.PaymentMode != *filter.PaymentMode {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (f *fakeRepo) List(_ context.Context, filter Filter) ([]*Ride, int, error) {
	matched := f.match(filter)
	return matched, len(matched), nil
}

func (f *fakeRepo) ListAll(_ context.Context, filter Filter) ([]*Ride, error) {
	return f.match(filter), nil
}

func (f *fakeRepo) Summarize(_ context.Context, filter Filter) (*Summary, error) {
	s := &Summary{}
	for _, r := range f.match(filter) {
		s.TotalRides++
		switch r.Status {
		case StatusCompleted:
			s.CompletedRides++
			s.TotalFare += r.Fare
			if r.PaymentMode == PaymentWallet {
				s.WalletFare += r.Fare
			}
			if r.PaymentMode == PaymentCash {
				s.CashFare += r.Fare
			}
		case StatusCancelled:
			s.CancelledRides++
		}
	}
	return s, nil
}

func testRide(status Status, mode PaymentMode, fare int64) *Ride {
	return &Ride{
		ID:             uuid.New(),
		DriverID:       uuid.New(),
		CustomerName:   "Customer",
		PickupLocation: "Marina",
		DropLocation:   "Airport",
		Fare:           fare,
		PaymentMode:    mode,
		Status:         status,
		DriverName:     "Driver One",
		CreatedAt:      time.Now(),
	}
}

func TestSummarize(t *testing.T) {
	repo := &fakeRepo{rides: []*Ride{
		testRide(StatusCompleted, PaymentWallet, 5000),
		testRide(StatusCompleted, PaymentCash, 3000),
		testRide(StatusCancelled, PaymentCash, 2000),
		testRide(StatusOngoing, PaymentCard, 1000),
	}}
	svc := NewService(repo)

	s, err := svc.Summarize(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.TotalRides != 4 || s.CompletedRides != 2 || s.CancelledRides != 1 {
		t.Fatalf("counts %+v", s)
	}
	if s.TotalFare != 8000 || s.WalletFare != 5000 || s.CashFare != 3000 {
		t.Fatalf("fares %+v", s)
	}
}

func TestExportWorkbook(t *testing.T) {
	r1 := testRide(StatusCompleted, PaymentWallet, 12550)
	repo := &fakeRepo{rides: []*Ride{r1}}
	svc := NewService(repo)

	file, err := svc.Export(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	got, err := file.GetCellValue("Rides", "A1")
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if got != "Ride ID" {
		t.Fatalf("A1 = %q, want Ride ID", got)
	}

	id, err := file.GetCellValue("Rides", "A2")
	if err != nil {
		t.Fatalf("read row: %v", err)
	}
	if id != r1.ID.String() {
		t.Fatalf("A2 = %q, want ride id", id)
	}

	fare, err := file.GetCellValue("Rides", "G2")
	if err != nil {
		t.Fatalf("read fare: %v", err)
	}
	if fare != "125.5" {
		t.Fatalf("G2 = %q, want 125.5", fare)
	}
}

func TestExportHandlerHeaders(t *testing.T) {
	repo := &fakeRepo{rides: []*Ride{testRide(StatusCompleted, PaymentCash, 100)}}
	h := NewHandler(NewService(repo))

	req := httptest.NewRequest("GET", "/export", nil)
	rec := httptest.NewRecorder()
	h.Export(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, `attachment; filename="rides_`) {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	ct := rec.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("empty workbook body")
	}
}

func TestExportHandlerBadFilter(t *testing.T) {
	h := NewHandler(NewService(&fakeRepo{}))

	req := httptest.NewRequest("GET", "/export?status=bogus", nil)
	rec := httptest.NewRecorder()
	h.Export(rec, req)

	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
