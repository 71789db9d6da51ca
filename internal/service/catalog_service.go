package service

import (
	"context"
	"sync"

	"alcyxob/strength-planner/internal/catalog"
	"alcyxob/strength-planner/internal/domain"
	"alcyxob/strength-planner/internal/logger"
	"alcyxob/strength-planner/internal/repository"
)

// CatalogService serves the shared reference data. The data never changes while the
// process runs except through Seed, so the snapshot is cached after the first load.
type CatalogService interface {
	Get(ctx context.Context) (*domain.Catalog, error)
	// Seed inserts the default reference rows that are missing and returns how many were added.
	Seed(ctx context.Context) (int, error)
}

type catalogService struct {
	repo repository.CatalogRepository
	log  *logger.Logger

	mu       sync.RWMutex
	snapshot *domain.Catalog
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(repo repository.CatalogRepository, log *logger.Logger) CatalogService {
	return &catalogService{repo: repo, log: log.With("service", "CatalogService")}
}

func (s *catalogService) Get(ctx context.Context) (*domain.Catalog, error) {
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()
	if snapshot != nil {
		return snapshot, nil
	}

	loaded, err := s.load(ctx)
	if err != nil {
		return nil, storageErr("load catalog", err)
	}

	s.mu.Lock()
	s.snapshot = loaded
	s.mu.Unlock()
	return loaded, nil
}

func (s *catalogService) load(ctx context.Context) (*domain.Catalog, error) {
	var (
		c   domain.Catalog
		err error
	)
	if c.MuscleGroups, err = s.repo.ListMuscleGroups(ctx); err != nil {
		return nil, err
	}
	if c.Equipment, err = s.repo.ListEquipment(ctx); err != nil {
		return nil, err
	}
	if c.IntensityTypes, err = s.repo.ListIntensityTypes(ctx); err != nil {
		return nil, err
	}
	if c.TechniqueTypes, err = s.repo.ListTechniqueTypes(ctx); err != nil {
		return nil, err
	}
	if c.SetTypes, err = s.repo.ListSetTypes(ctx); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *catalogService) Seed(ctx context.Context) (int, error) {
	inserted, err := s.repo.Seed(ctx, catalog.Defaults())
	if err != nil {
		return 0, storageErr("seed catalog", err)
	}

	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()

	s.log.Info("Catalog seeded", "inserted", inserted)
	return inserted, nil
}
