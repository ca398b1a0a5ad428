package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/repository"
)

// SavedSearchService stores named search filters.
type SavedSearchService interface {
	List(ctx context.Context) ([]models.SavedSearch, error)

	// Create saves a snapshot of filters under title.
	Create(ctx context.Context, title string, filters models.SearchFilters) (*models.SavedSearch, error)

	Delete(ctx context.Context, id string) error
}

type savedSearchService struct {
	repo repository.Repository[models.SavedSearch]
	log  *logger.Logger
}

// NewSavedSearchService creates a new instance of SavedSearchService.
func NewSavedSearchService(repo repository.Repository[models.SavedSearch], log *logger.Logger) SavedSearchService {
	return &savedSearchService{repo: repo, log: log}
}

func (s *savedSearchService) List(ctx context.Context) ([]models.SavedSearch, error) {
	searches, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved searches: %w", err)
	}
	return searches, nil
}

func (s *savedSearchService) Create(ctx context.Context, title string, filters models.SearchFilters) (*models.SavedSearch, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fieldError("title", "A saved search needs a title")
	}

	patch, err := repository.NewPatch(models.SavedSearch{Title: title, Filters: filters})
	if err != nil {
		return nil, err
	}
	delete(patch, "id")

	saved, _, err := s.repo.Upsert(ctx, patch)
	if err != nil {
		s.log.Error("Failed to save search", err, map[string]interface{}{"title": title})
		return nil, fmt.Errorf("failed to save search: %w", err)
	}

	s.log.Info("Search saved", map[string]interface{}{"id": saved.ID, "title": saved.Title})
	return &saved, nil
}

func (s *savedSearchService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete saved search: %w", err)
	}
	s.log.Info("Saved search deleted", map[string]interface{}{"id": id, "removed": removed})
	return nil
}
