package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type fakeRepo struct {
	packages map[uuid.UUID]*Package
	subs     map[uuid.UUID]*SubPackage
	prices   map[uuid.UUID]*Price
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		packages: make(map[uuid.UUID]*Package),
		subs:     make(map[uuid.UUID]*SubPackage),
		prices:   make(map[uuid.UUID]*Price),
	}
}

func (f *fakeRepo) CreatePackage(_ context.Context, p *Package) error {
	cp := *p
	f.packages[p.ID] = &cp
	return nil
}

func (f *fakeRepo) GetPackage(_ context.Context, id uuid.UUID) (*Package, error) {
	p, ok := f.packages[id]
	if !ok || p.DeletedAt.Valid {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) GetPackageByName(_ context.Context, name string) (*Package, error) {
	for _, p := range f.packages {
		if p.Name == name && !p.DeletedAt.Valid {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListPackages(_ context.Context, activeOnly bool) ([]*Package, error) {
	out := []*Package{}
	for _, p := range f.packages {
		if p.DeletedAt.Valid || (activeOnly && !p.IsActive) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) UpdatePackage(_ context.Context, p *Package) error {
	cp := *p
	f.packages[p.ID] = &cp
	return nil
}

func (f *fakeRepo) SoftDeletePackage(_ context.Context, id uuid.UUID) error {
	if p, ok := f.packages[id]; ok {
		p.DeletedAt.Valid = true
	}
	for _, sp := range f.subs {
		if sp.PackageID == id {
			sp.DeletedAt.Valid = true
			delete(f.prices, sp.ID)
		}
	}
	return nil
}

func (f *fakeRepo) CreateSubPackage(_ context.Context, sp *SubPackage) error {
	cp := *sp
	f.subs[sp.ID] = &cp
	return nil
}

func (f *fakeRepo) GetSubPackage(_ context.Context, id uuid.UUID) (*SubPackage, error) {
	sp, ok := f.subs[id]
	if !ok || sp.DeletedAt.Valid {
		return nil, nil
	}
	cp := *sp
	return &cp, nil
}

func (f *fakeRepo) GetSubPackageByName(_ context.Context, packageID uuid.UUID, name string) (*SubPackage, error) {
	for _, sp := range f.subs {
		if sp.PackageID == packageID && sp.Name == name && !sp.DeletedAt.Valid {
			cp := *sp
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListSubPackages(_ context.Context, packageID uuid.UUID, activeOnly bool) ([]*SubPackage, error) {
	out := []*SubPackage{}
	for _, sp := range f.subs {
		if sp.PackageID != packageID || sp.DeletedAt.Valid || (activeOnly && !sp.IsActive) {
			continue
		}
		cp := *sp
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) UpdateSubPackage(_ context.Context, sp *SubPackage) error {
	cp := *sp
	f.subs[sp.ID] = &cp
	return nil
}

func (f *fakeRepo) SoftDeleteSubPackage(_ context.Context, id uuid.UUID) error {
	if sp, ok := f.subs[id]; ok {
		sp.DeletedAt.Valid = true
	}
	delete(f.prices, id)
	return nil
}

func (f *fakeRepo) UpsertPrice(_ context.Context, p *Price) error {
	cp := *p
	f.prices[p.SubPackageID] = &cp
	return nil
}

func (f *fakeRepo) GetPrice(_ context.Context, subPackageID uuid.UUID) (*Price, error) {
	p, ok := f.prices[subPackageID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) ListPrices(_ context.Context, packageID uuid.UUID) ([]*Price, error) {
	out := []*Price{}
	for _, sp := range f.subs {
		if sp.PackageID != packageID || sp.DeletedAt.Valid {
			continue
		}
		if p, ok := f.prices[sp.ID]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func TestPackageNameUniqueness(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	if _, err := svc.CreatePackage(ctx, &CreatePackageRequest{Name: "Airport Transfer"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.CreatePackage(ctx, &CreatePackageRequest{Name: "Airport Transfer"})
	if err != ErrNameTaken {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
}

func TestSubPackageNameScopedToPackage(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	p1, err := svc.CreatePackage(ctx, &CreatePackageRequest{Name: "Hourly"})
	if err != nil {
		t.Fatalf("create p1: %v", err)
	}
	p2, err := svc.CreatePackage(ctx, &CreatePackageRequest{Name: "Daily"})
	if err != nil {
		t.Fatalf("create p2: %v", err)
	}

	if _, err := svc.CreateSubPackage(ctx, p1.ID, &CreateSubPackageRequest{Name: "Standard"}); err != nil {
		t.Fatalf("create sub in p1: %v", err)
	}

	// Same name under the same package conflicts
	_, err = svc.CreateSubPackage(ctx, p1.ID, &CreateSubPackageRequest{Name: "Standard"})
	if err != ErrNameTaken {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}

	// Same name under a different package is fine
	if _, err := svc.CreateSubPackage(ctx, p2.ID, &CreateSubPackageRequest{Name: "Standard"}); err != nil {
		t.Fatalf("create sub in p2: %v", err)
	}
}

func TestSetPrice(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	p, err := svc.CreatePackage(ctx, &CreatePackageRequest{Name: "Hourly"})
	if err != nil {
		t.Fatalf("create package: %v", err)
	}
	sp, err := svc.CreateSubPackage(ctx, p.ID, &CreateSubPackageRequest{Name: "Standard"})
	if err != nil {
		t.Fatalf("create sub: %v", err)
	}

	price, err := svc.SetPrice(ctx, sp.ID, &SetPriceRequest{BaseFare: 5000, PerKm: 150}, "AED")
	if err != nil {
		t.Fatalf("set price: %v", err)
	}
	if price.BaseFare != 5000 || price.Currency != "AED" {
		t.Fatalf("price %+v", price)
	}

	// Replacing updates in place
	price2, err := svc.SetPrice(ctx, sp.ID, &SetPriceRequest{BaseFare: 6000}, "AED")
	if err != nil {
		t.Fatalf("replace price: %v", err)
	}
	if price2.BaseFare != 6000 {
		t.Fatalf("base fare = %d, want 6000", price2.BaseFare)
	}

	_, err = svc.SetPrice(ctx, uuid.New(), &SetPriceRequest{BaseFare: 100}, "AED")
	if err != ErrSubPackageNotFound {
		t.Fatalf("expected ErrSubPackageNotFound, got %v", err)
	}
}

func TestBrowseSkipsInactive(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	p, _ := svc.CreatePackage(ctx, &CreatePackageRequest{Name: "Hourly"})
	inactive := false
	if _, err := svc.UpdatePackage(ctx, p.ID, &UpdatePackageRequest{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	svc.CreatePackage(ctx, &CreatePackageRequest{Name: "Daily"})

	packages, err := svc.BrowsePackages(ctx)
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(packages) != 1 || packages[0].Name != "Daily" {
		t.Fatalf("browse returned %d packages", len(packages))
	}
}
