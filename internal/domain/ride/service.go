package ride

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/ridehub/ridehub-api/internal/pkg/excel"
)

// Service handles ride reporting logic
type Service struct {
	repo Repository
}

// NewService creates ride service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a single ride
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Ride, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrRideNotFound
	}

	return r, nil
}

// List returns rides matching the filter
func (s *Service) List(ctx context.Context, filter Filter) ([]*Ride, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

// Summarize aggregates rides matching the filter
func (s *Service) Summarize(ctx context.Context, filter Filter) (*Summary, error) {
	return s.repo.Summarize(ctx, filter)
}

// ExportHeaders is the column order of the ride export sheet
var ExportHeaders = []string{
	"Ride ID", "Date", "Driver", "Customer", "Pickup", "Drop",
	"Fare", "Payment", "Status",
}

// Export builds an xlsx workbook of rides matching the filter
func (s *Service) Export(ctx context.Context, filter Filter) (*excelize.File, error) {
	rides, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(rides))
	for _, r := range rides {
		rows = append(rows, ExportRow(r))
	}

	return excel.BuildSheet("Rides", ExportHeaders, rows)
}

// ExportRow converts a ride into a sheet row. Fares are written in
// major currency units for readability.
func ExportRow(r *Ride) []interface{} {
	return []interface{}{
		r.ID.String(),
		r.CreatedAt.Format("2006-01-02 15:04"),
		r.DriverName,
		r.CustomerName,
		r.PickupLocation,
		r.DropLocation,
		float64(r.Fare) / 100,
		string(r.PaymentMode),
		string(r.Status),
	}
}

// ExportFilename names the attachment for a ride export
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("rides_%s.xlsx", now.Format("20060102_150405"))
}
