package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	catalogCacheKey = "catalog:packages"
	catalogCacheTTL = 5 * time.Minute
)

// Service handles catalog business logic. The redis client may be nil,
// which disables the mobile browse cache.
type Service struct {
	repo  Repository
	redis *redis.Client
}

// NewService creates catalog service
func NewService(repo Repository, rdb *redis.Client) *Service {
	return &Service{repo: repo, redis: rdb}
}

// CreatePackage creates a package with a name uniqueness check
func (s *Service) CreatePackage(ctx context.Context, req *CreatePackageRequest) (*Package, error) {
	existing, err := s.repo.GetPackageByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNameTaken
	}

	p := &Package{
		ID:       uuid.New(),
		Name:     req.Name,
		IsActive: true,
	}
	if req.Description != "" {
		p.Description = sql.NullString{String: req.Description, Valid: true}
	}

	if err := s.repo.CreatePackage(ctx, p); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return p, nil
}

// GetPackage returns a package with its sub-packages and prices
func (s *Service) GetPackage(ctx context.Context, id uuid.UUID) (*Package, error) {
	p, err := s.repo.GetPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPackageNotFound
	}

	subs, err := s.repo.ListSubPackages(ctx, id, false)
	if err != nil {
		return nil, err
	}
	for _, sp := range subs {
		price, err := s.repo.GetPrice(ctx, sp.ID)
		if err != nil {
			return nil, err
		}
		sp.Price = price
	}
	p.SubPackages = subs

	return p, nil
}

// ListPackages returns all packages for the admin panel
func (s *Service) ListPackages(ctx context.Context) ([]*Package, error) {
	return s.repo.ListPackages(ctx, false)
}

// BrowsePackages returns active packages with sub-packages and prices
// for the mobile app, cached in redis
func (s *Service) BrowsePackages(ctx context.Context) ([]*Package, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, catalogCacheKey).Result()
		if err == nil {
			var packages []*Package
			if jsonErr := json.Unmarshal([]byte(cached), &packages); jsonErr == nil {
				return packages, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Msg("Catalog cache read failed")
		}
	}

	packages, err := s.repo.ListPackages(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, p := range packages {
		subs, err := s.repo.ListSubPackages(ctx, p.ID, true)
		if err != nil {
			return nil, err
		}
		for _, sp := range subs {
			price, err := s.repo.GetPrice(ctx, sp.ID)
			if err != nil {
				return nil, err
			}
			sp.Price = price
		}
		p.SubPackages = subs
	}

	if s.redis != nil {
		if b, err := json.Marshal(packages); err == nil {
			if err := s.redis.Set(ctx, catalogCacheKey, b, catalogCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("Catalog cache write failed")
			}
		}
	}

	return packages, nil
}

// UpdatePackage applies partial changes to a package
func (s *Service) UpdatePackage(ctx context.Context, id uuid.UUID, req *UpdatePackageRequest) (*Package, error) {
	p, err := s.repo.GetPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPackageNotFound
	}

	if req.Name != nil && *req.Name != p.Name {
		taken, err := s.repo.GetPackageByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, ErrNameTaken
		}
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.UpdatePackage(ctx, p); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return p, nil
}

// DeletePackage soft deletes a package and everything under it
func (s *Service) DeletePackage(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.GetPackage(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPackageNotFound
	}

	if err := s.repo.SoftDeletePackage(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

// CreateSubPackage creates a sub-package under a package
func (s *Service) CreateSubPackage(ctx context.Context, packageID uuid.UUID, req *CreateSubPackageRequest) (*SubPackage, error) {
	p, err := s.repo.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPackageNotFound
	}

	existing, err := s.repo.GetSubPackageByName(ctx, packageID, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNameTaken
	}

	sp := &SubPackage{
		ID:        uuid.New(),
		PackageID: packageID,
		Name:      req.Name,
		IsActive:  true,
	}
	if req.Description != "" {
		sp.Description = sql.NullString{String: req.Description, Valid: true}
	}

	if err := s.repo.CreateSubPackage(ctx, sp); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return sp, nil
}

// UpdateSubPackage applies partial changes to a sub-package
func (s *Service) UpdateSubPackage(ctx context.Context, id uuid.UUID, req *UpdateSubPackageRequest) (*SubPackage, error) {
	sp, err := s.repo.GetSubPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, ErrSubPackageNotFound
	}

	if req.Name != nil && *req.Name != sp.Name {
		taken, err := s.repo.GetSubPackageByName(ctx, sp.PackageID, *req.Name)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, ErrNameTaken
		}
		sp.Name = *req.Name
	}
	if req.Description != nil {
		sp.Description = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.IsActive != nil {
		sp.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateSubPackage(ctx, sp); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return sp, nil
}

// DeleteSubPackage soft deletes a sub-package and its price
func (s *Service) DeleteSubPackage(ctx context.Context, id uuid.UUID) error {
	sp, err := s.repo.GetSubPackage(ctx, id)
	if err != nil {
		return err
	}
	if sp == nil {
		return ErrSubPackageNotFound
	}

	if err := s.repo.SoftDeleteSubPackage(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

// SetPrice creates or replaces the price of a sub-package
func (s *Service) SetPrice(ctx context.Context, subPackageID uuid.UUID, req *SetPriceRequest, currency string) (*Price, error) {
	sp, err := s.repo.GetSubPackage(ctx, subPackageID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, ErrSubPackageNotFound
	}

	price := &Price{
		ID:           uuid.New(),
		SubPackageID: subPackageID,
		BaseFare:     req.BaseFare,
		PerKm:        req.PerKm,
		PerMinute:    req.PerMinute,
		Currency:     currency,
	}
	if err := s.repo.UpsertPrice(ctx, price); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)

	// Re-read so callers see the stored row, not the insert candidate
	stored, err := s.repo.GetPrice(ctx, subPackageID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return price, nil
	}
	return stored, nil
}

// GetPrices returns the fare schedule of a package for the mobile app
func (s *Service) GetPrices(ctx context.Context, packageID uuid.UUID) ([]*Price, error) {
	p, err := s.repo.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPackageNotFound
	}

	return s.repo.ListPrices(ctx, packageID)
}

func (s *Service) invalidateCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, catalogCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("Catalog cache invalidation failed")
	}
}
