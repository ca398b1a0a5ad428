package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/estatedesk/internal/jalali"
	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/repository"
)

// UserService defines the interface for operator accounts.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)

	// Save upserts an operator. New operators are appended.
	Save(ctx context.Context, patch repository.Patch) (*models.User, []models.User, error)

	Delete(ctx context.Context, id string) ([]models.User, error)

	// UpdateLocation records a live-location ping and stamps last seen.
	UpdateLocation(ctx context.Context, id string, lat, lng float64) (*models.User, error)

	// Me returns the active operator.
	Me(ctx context.Context, activeUserID string) (*models.User, error)
}

type userService struct {
	repo repository.Repository[models.User]
	now  Clock
	log  *logger.Logger
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo repository.Repository[models.User], now Clock, log *logger.Logger) UserService {
	return &userService{
		repo: repo,
		now:  now,
		log:  log,
	}
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userService) Save(ctx context.Context, patch repository.Patch) (*models.User, []models.User, error) {
	u, all, created, err := s.repo.UpsertPrepared(ctx, patch, func(in repository.Patch, created bool) (repository.Patch, error) {
		if err := requireText(in, "name", created, "An operator needs a name"); err != nil {
			return nil, err
		}
		if err := requireText(in, "username", created, "An operator needs a username"); err != nil {
			return nil, err
		}
		if err := requireOneOf(in, "role", created, string(models.RoleAdmin), string(models.RoleSecretary)); err != nil {
			return nil, err
		}
		return in, nil
	})
	if errors.Is(err, ErrValidation) {
		return nil, nil, err
	}
	if err != nil {
		s.log.Error("Failed to save user", err, map[string]interface{}{"id": patch.ID()})
		return nil, nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.log.Info("User saved", map[string]interface{}{
		"id":      u.ID,
		"created": created,
		"role":    u.Role,
	})
	return &u, all, nil
}

func (s *userService) Delete(ctx context.Context, id string) ([]models.User, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error("Failed to delete user", err, map[string]interface{}{"id": id})
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	s.log.Info("User deleted", map[string]interface{}{"id": id, "removed": removed})
	return s.List(ctx)
}

func (s *userService) UpdateLocation(ctx context.Context, id string, lat, lng float64) (*models.User, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		s.log.Warn("Invalid coordinates provided", map[string]interface{}{
			"user_id": id,
			"lat":     lat,
			"lng":     lng,
		})
		return nil, err
	}

	u, err := s.repo.Update(ctx, id, func(u *models.User) error {
		u.Lat = &lat
		u.Lng = &lng
		u.LastSeen = jalali.Stamp(s.now())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}

	s.log.Debug("Live location updated", map[string]interface{}{
		"user_id":   id,
		"last_seen": u.LastSeen,
	})
	return &u, nil
}

func (s *userService) Me(ctx context.Context, activeUserID string) (*models.User, error) {
	return s.Get(ctx, activeUserID)
}
