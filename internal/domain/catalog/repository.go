package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines catalog data access interface
type Repository interface {
	CreatePackage(ctx context.Context, p *Package) error
	GetPackage(ctx context.Context, id uuid.UUID) (*Package, error)
	GetPackageByName(ctx context.Context, name string) (*Package, error)
	ListPackages(ctx context.Context, activeOnly bool) ([]*Package, error)
	UpdatePackage(ctx context.Context, p *Package) error
	SoftDeletePackage(ctx context.Context, id uuid.UUID) error

	CreateSubPackage(ctx context.Context, sp *SubPackage) error
	GetSubPackage(ctx context.Context, id uuid.UUID) (*SubPackage, error)
	GetSubPackageByName(ctx context.Context, packageID uuid.UUID, name string) (*SubPackage, error)
	ListSubPackages(ctx context.Context, packageID uuid.UUID, activeOnly bool) ([]*SubPackage, error)
	UpdateSubPackage(ctx context.Context, sp *SubPackage) error
	SoftDeleteSubPackage(ctx context.Context, id uuid.UUID) error

	UpsertPrice(ctx context.Context, p *Price) error
	GetPrice(ctx context.Context, subPackageID uuid.UUID) (*Price, error)
	ListPrices(ctx context.Context, packageID uuid.UUID) ([]*Price, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new catalog repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePackage(ctx context.Context, p *Package) error {
	query := `
		INSERT INTO packages (id, name, description, is_active)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.IsActive)
	if err != nil {
		return fmt.Errorf("catalog repository create package: %w", err)
	}

	return nil
}

func (r *repository) GetPackage(ctx context.Context, id uuid.UUID) (*Package, error) {
	query := `
		SELECT id, name, description, is_active, created_at, updated_at, deleted_at
		FROM packages WHERE id = $1 AND deleted_at IS NULL
	`
	var p Package
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetPackageByName(ctx context.Context, name string) (*Package, error) {
	query := `
		SELECT id, name, description, is_active, created_at, updated_at, deleted_at
		FROM packages WHERE name = $1 AND deleted_at IS NULL
	`
	var p Package
	err := r.db.GetContext(ctx, &p, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) ListPackages(ctx context.Context, activeOnly bool) ([]*Package, error) {
	query := `
		SELECT id, name, description, is_active, created_at, updated_at, deleted_at
		FROM packages WHERE deleted_at IS NULL
	`
	if activeOnly {
		query += " AND is_active"
	}
	query += " ORDER BY name"

	packages := []*Package{}
	err := r.db.SelectContext(ctx, &packages, query)
	if err != nil {
		return nil, fmt.Errorf("catalog repository list packages: %w", err)
	}

	return packages, nil
}

func (r *repository) UpdatePackage(ctx context.Context, p *Package) error {
	query := `
		UPDATE packages
		SET name = $2, description = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.IsActive)
	if err != nil {
		return fmt.Errorf("catalog repository update package: %w", err)
	}

	return nil
}

func (r *repository) SoftDeletePackage(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog repository delete package: %w", err)
	}
	defer tx.Rollback()

	// Cascade the soft delete to sub-packages and prices
	_, err = tx.ExecContext(ctx, `
		UPDATE package_prices SET deleted_at = NOW()
		WHERE deleted_at IS NULL AND sub_package_id IN (
			SELECT id FROM sub_packages WHERE package_id = $1 AND deleted_at IS NULL
		)
	`, id)
	if err != nil {
		return fmt.Errorf("catalog repository delete package prices: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE sub_packages SET deleted_at = NOW(), updated_at = NOW()
		WHERE package_id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("catalog repository delete sub packages: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE packages SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("catalog repository delete package: %w", err)
	}

	return tx.Commit()
}

func (r *repository) CreateSubPackage(ctx context.Context, sp *SubPackage) error {
	query := `
		INSERT INTO sub_packages (id, package_id, name, description, is_active)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, sp.ID, sp.PackageID, sp.Name, sp.Description, sp.IsActive)
	if err != nil {
		return fmt.Errorf("catalog repository create sub package: %w", err)
	}

	return nil
}

func (r *repository) GetSubPackage(ctx context.Context, id uuid.UUID) (*SubPackage, error) {
	query := `
		SELECT id, package_id, name, description, is_active, created_at, updated_at, deleted_at
		FROM sub_packages WHERE id = $1 AND deleted_at IS NULL
	`
	var sp SubPackage
	err := r.db.GetContext(ctx, &sp, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &sp, nil
}

func (r *repository) GetSubPackageByName(ctx context.Context, packageID uuid.UUID, name string) (*SubPackage, error) {
	query := `
		SELECT id, package_id, name, description, is_active, created_at, updated_at, deleted_at
		FROM sub_packages WHERE package_id = $1 AND name = $2 AND deleted_at IS NULL
	`
	var sp SubPackage
	err := r.db.GetContext(ctx, &sp, query, packageID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &sp, nil
}

func (r *repository) ListSubPackages(ctx context.Context, packageID uuid.UUID, activeOnly bool) ([]*SubPackage, error) {
	query := `
		SELECT id, package_id, name, description, is_active, created_at, updated_at, deleted_at
		FROM sub_packages WHERE package_id = $1 AND deleted_at IS NULL
	`
	if activeOnly {
		query += " AND is_active"
	}
	query += " ORDER BY name"

	subs := []*SubPackage{}
	err := r.db.SelectContext(ctx, &subs, query, packageID)
	if err != nil {
		return nil, fmt.Errorf("catalog repository list sub packages: %w", err)
	}

	return subs, nil
}

func (r *repository) UpdateSubPackage(ctx context.Context, sp *SubPackage) error {
	query := `
		UPDATE sub_packages
		SET name = $2, description = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query, sp.ID, sp.Name, sp.Description, sp.IsActive)
	if err != nil {
		return fmt.Errorf("catalog repository update sub package: %w", err)
	}

	return nil
}

func (r *repository) SoftDeleteSubPackage(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog repository delete sub package: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE package_prices SET deleted_at = NOW()
		WHERE sub_package_id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("catalog repository delete sub package price: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE sub_packages SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("catalog repository delete sub package: %w", err)
	}

	return tx.Commit()
}

func (r *repository) UpsertPrice(ctx context.Context, p *Price) error {
	query := `
		INSERT INTO package_prices (id, sub_package_id, base_fare, per_km, per_minute, currency)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (sub_package_id) WHERE deleted_at IS NULL
		DO UPDATE SET base_fare = EXCLUDED.base_fare, per_km = EXCLUDED.per_km,
		              per_minute = EXCLUDED.per_minute, currency = EXCLUDED.currency,
		              updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.SubPackageID, p.BaseFare, p.PerKm, p.PerMinute, p.Currency)
	if err != nil {
		return fmt.Errorf("catalog repository upsert price: %w", err)
	}

	return nil
}

func (r *repository) GetPrice(ctx context.Context, subPackageID uuid.UUID) (*Price, error) {
	query := `
		SELECT id, sub_package_id, base_fare, per_km, per_minute, currency, created_at, updated_at, deleted_at
		FROM package_prices WHERE sub_package_id = $1 AND deleted_at IS NULL
	`
	var p Price
	err := r.db.GetContext(ctx, &p, query, subPackageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) ListPrices(ctx context.Context, packageID uuid.UUID) ([]*Price, error) {
	query := `
		SELECT pp.id, pp.sub_package_id, pp.base_fare, pp.per_km, pp.per_minute, pp.currency,
		       pp.created_at, pp.updated_at, pp.deleted_at
		FROM package_prices pp
		JOIN sub_packages sp ON sp.id = pp.sub_package_id
		WHERE sp.package_id = $1 AND pp.deleted_at IS NULL AND sp.deleted_at IS NULL
	`
	prices := []*Price{}
	err := r.db.SelectContext(ctx, &prices, query, packageID)
	if err != nil {
		return nil, fmt.Errorf("catalog repository list prices: %w", err)
	}

	return prices, nil
}
