package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/stwalsh4118/estatedesk/internal/jalali"
	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/repository"
)

// Coordinate validation constants
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Radius validation constants
const (
	MinRadiusMeters  = 1
	MaxRadiusMeters  = 5000
	MaxNearbyResults = 20
)

// NearbyProperty is a listing with its distance from the query point.
type NearbyProperty struct {
	models.Property
	DistanceMeters float64 `json:"distanceMeters"`
}

// PropertyService defines the interface for listing operations.
type PropertyService interface {
	// List returns every listing in stored order.
	List(ctx context.Context) ([]models.Property, error)

	// Get returns one listing or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Property, error)

	// Search filters the listings.
	Search(ctx context.Context, filters models.SearchFilters) ([]models.Property, error)

	// Instant returns the type-ahead preview for query.
	Instant(ctx context.Context, query string, targets models.SearchTargets) ([]models.Property, error)

	// Save upserts a listing from a partial record and returns the saved
	// listing and the full collection.
	Save(ctx context.Context, patch repository.Patch) (*models.Property, []models.Property, error)

	// Delete removes a listing together with its images. Deleting an
	// unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Nearby returns listings within radiusMeters of the point, closest
	// first, at most MaxNearbyResults.
	// Returns ErrInvalidCoordinates or ErrInvalidRadius for bad input.
	Nearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]NearbyProperty, error)

	// Markers returns every listing with a coordinate as GeoJSON.
	Markers(ctx context.Context) (models.FeatureCollection, error)
}

type propertyService struct {
	repo repository.Repository[models.Property]
	now  Clock
	log  *logger.Logger
}

// NewPropertyService creates a new instance of PropertyService.
func NewPropertyService(repo repository.Repository[models.Property], now Clock, log *logger.Logger) PropertyService {
	return &propertyService{
		repo: repo,
		now:  now,
		log:  log,
	}
}

func (s *propertyService) List(ctx context.Context) ([]models.Property, error) {
	properties, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list properties", err, nil)
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

func (s *propertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *propertyService) Search(ctx context.Context, filters models.SearchFilters) ([]models.Property, error) {
	properties, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	result := FilterProperties(properties, filters)
	s.log.Debug("Properties filtered", map[string]interface{}{
		"query":       filters.Query,
		"residential": filters.Targets.Residential,
		"commercial":  filters.Targets.Commercial,
		"total":       len(properties),
		"matched":     len(result),
	})
	return result, nil
}

func (s *propertyService) Instant(ctx context.Context, query string, targets models.SearchTargets) ([]models.Property, error) {
	properties, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return InstantResults(properties, query, targets), nil
}

func (s *propertyService) Save(ctx context.Context, patch repository.Patch) (*models.Property, []models.Property, error) {
	p, all, created, err := s.repo.UpsertPrepared(ctx, patch, func(in repository.Patch, created bool) (repository.Patch, error) {
		if err := validatePropertyPatch(in, created); err != nil {
			return nil, err
		}
		if created && !in.Has("date") {
			in = clonePatch(in)
			if err := in.Set("date", jalali.FromTime(s.now()).String()); err != nil {
				return nil, err
			}
		}
		return in, nil
	})
	if errors.Is(err, ErrValidation) {
		s.log.Warn("Invalid property", map[string]interface{}{
			"id":    patch.ID(),
			"error": err.Error(),
		})
		return nil, nil, err
	}
	if err != nil {
		s.log.Error("Failed to save property", err, map[string]interface{}{"id": patch.ID()})
		return nil, nil, fmt.Errorf("failed to save property: %w", err)
	}

	s.log.Info("Property saved", map[string]interface{}{
		"id":               p.ID,
		"created":          created,
		"category":         p.Category,
		"transaction_type": p.TransactionType,
	})
	return &p, all, nil
}

func (s *propertyService) Delete(ctx context.Context, id string) error {
	var images int
	if p, err := s.repo.Get(ctx, id); err == nil {
		images = len(p.Images)
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error("Failed to delete property", err, map[string]interface{}{"id": id})
		return fmt.Errorf("failed to delete property: %w", err)
	}

	s.log.Info("Property deleted", map[string]interface{}{
		"id":      id,
		"removed": removed,
		"images":  images,
	})
	return nil
}

func (s *propertyService) Nearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]NearbyProperty, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		s.log.Warn("Invalid coordinates provided", map[string]interface{}{
			"lat":    lat,
			"lng":    lng,
			"radius": radiusMeters,
		})
		return nil, err
	}

	if radiusMeters < MinRadiusMeters || radiusMeters > MaxRadiusMeters {
		s.log.Warn("Invalid radius provided", map[string]interface{}{
			"lat":    lat,
			"lng":    lng,
			"radius": radiusMeters,
		})
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRadius, radiusMeters)
	}

	properties, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	origin := models.Point{Lat: lat, Lng: lng}
	nearby := make([]NearbyProperty, 0)
	for _, p := range properties {
		loc, ok := p.Location()
		if !ok || !loc.Valid() {
			continue
		}
		d := models.DistanceMeters(origin, loc)
		if d <= float64(radiusMeters) {
			nearby = append(nearby, NearbyProperty{Property: p, DistanceMeters: math.Round(d*10) / 10})
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})
	if len(nearby) > MaxNearbyResults {
		nearby = nearby[:MaxNearbyResults]
	}

	s.log.Info("Nearby properties found", map[string]interface{}{
		"lat":    lat,
		"lng":    lng,
		"radius": radiusMeters,
		"count":  len(nearby),
	})
	return nearby, nil
}

func (s *propertyService) Markers(ctx context.Context) (models.FeatureCollection, error) {
	properties, err := s.List(ctx)
	if err != nil {
		return models.FeatureCollection{}, err
	}

	features := make([]models.Feature, 0, len(properties))
	for _, p := range properties {
		loc, ok := p.Location()
		if !ok || !loc.Valid() {
			continue
		}
		props := map[string]interface{}{
			"title":           p.Title,
			"address":         p.Address,
			"category":        p.Category,
			"transactionType": p.TransactionType,
		}
		if price, ok := p.ListPrice(); ok {
			props["price"] = price
		}
		if len(p.Images) > 0 {
			props["image"] = p.Images[0]
		}
		features = append(features, models.Feature{
			Type:       "Feature",
			ID:         p.ID,
			Geometry:   models.PointGeometry{Point: loc},
			Properties: props,
		})
	}
	return models.NewFeatureCollection(features), nil
}

func validateCoordinates(lat, lng float64) error {
	if lat < MinLatitude || lat > MaxLatitude {
		return fmt.Errorf("%w: latitude must be between %f and %f, got %f",
			ErrInvalidCoordinates, MinLatitude, MaxLatitude, lat)
	}
	if lng < MinLongitude || lng > MaxLongitude {
		return fmt.Errorf("%w: longitude must be between %f and %f, got %f",
			ErrInvalidCoordinates, MinLongitude, MaxLongitude, lng)
	}
	return nil
}

func validatePropertyPatch(patch repository.Patch, created bool) error {
	if err := requireText(patch, "title", created, "A listing needs a title"); err != nil {
		return err
	}
	if err := requireOneOf(patch, "category", created,
		string(models.CategoryResidential), string(models.CategoryCommercial)); err != nil {
		return err
	}
	if err := requireOneOf(patch, "transactionType", created,
		string(models.TransactionSale), string(models.TransactionRent), string(models.TransactionMortgage),
		string(models.TransactionPresale), string(models.TransactionParticipation)); err != nil {
		return err
	}
	for _, field := range []string{"area", "priceTotal", "priceDeposit", "priceRent"} {
		if err := requireRange(patch, field, 0, math.MaxFloat64); err != nil {
			return err
		}
	}
	if err := requireRange(patch, "lat", MinLatitude, MaxLatitude); err != nil {
		return err
	}
	return requireRange(patch, "lng", MinLongitude, MaxLongitude)
}
