package jobs

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/ridehub/ridehub-api/internal/domain/driver"
)

type fakeLister struct {
	drivers      []*driver.Driver
	gotThreshold int64
}

func (f *fakeLister) ListBelowBalance(_ context.Context, threshold int64) ([]*driver.Driver, error) {
	f.gotThreshold = threshold
	return f.drivers, nil
}

func TestRunOnceSkipsDriversWithoutToken(t *testing.T) {
	lister := &fakeLister{drivers: []*driver.Driver{
		{ID: uuid.New(), WalletBalance: 1200, DeviceToken: sql.NullString{String: "tok-1", Valid: true}},
		{ID: uuid.New(), WalletBalance: -300},
		{ID: uuid.New(), WalletBalance: 4000, DeviceToken: sql.NullString{String: "tok-2", Valid: true}},
	}}

	job := NewLowBalanceJob(lister, nil, 5000, "AED")
	notified, err := job.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if notified != 2 {
		t.Errorf("notified = %d, want 2", notified)
	}
	if lister.gotThreshold != 5000 {
		t.Errorf("threshold = %d, want 5000", lister.gotThreshold)
	}
}

func TestDefaultThreshold(t *testing.T) {
	lister := &fakeLister{}
	job := NewLowBalanceJob(lister, nil, 0, "AED")

	if _, err := job.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if lister.gotThreshold != 5000 {
		t.Errorf("threshold = %d, want default 5000", lister.gotThreshold)
	}
}
