package service

import (
	"context"

	"github.com/act-collective/intelligence-service/internal/model"
	"github.com/act-collective/intelligence-service/internal/validator"

	"go.uber.org/zap"
)

// RegistryFetcher pulls the current project lexicon from the upstream
// project registry
type RegistryFetcher interface {
	FetchProjects(ctx context.Context) ([]model.Project, error)
}

// RegistryService refreshes the local project lexicon from the upstream
// registry
type RegistryService struct {
	fetcher  RegistryFetcher
	projects ProjectRegistry
	logger   *zap.Logger
}

// NewRegistryService creates a new registry service
func NewRegistryService(fetcher RegistryFetcher, projects ProjectRegistry, logger *zap.Logger) *RegistryService {
	return &RegistryService{
		fetcher:  fetcher,
		projects: projects,
		logger:   logger,
	}
}

// Refresh fetches the lexicon, validates the code-uniqueness invariant and
// swaps the local copy. A failed validation leaves the previous lexicon in
// place.
func (s *RegistryService) Refresh(ctx context.Context) (int, error) {
	projects, err := s.fetcher.FetchProjects(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch project registry", zap.Error(err))
		return 0, err
	}

	if err := validator.ValidateProjects(projects); err != nil {
		s.logger.Error("Fetched project registry failed validation", zap.Error(err))
		return 0, err
	}

	if err := s.projects.ReplaceAll(ctx, projects); err != nil {
		s.logger.Error("Failed to store project registry", zap.Error(err))
		return 0, err
	}

	s.logger.Info("Refreshed project registry", zap.Int("projects", len(projects)))
	return len(projects), nil
}
