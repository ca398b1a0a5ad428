package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/models"
)

// Stats are the dashboard counters.
type Stats struct {
	Listings      int     `json:"listings"`
	Residential   int     `json:"residential"`
	Commercial    int     `json:"commercial"`
	Clients       int     `json:"clients"`
	OpenTasks     int     `json:"openTasks"`
	PaidIncome    float64 `json:"paidIncome"`
	PendingIncome float64 `json:"pendingIncome"`
}

// Snapshot is everything the client loads on a data reload.
type Snapshot struct {
	Properties    []models.Property     `json:"properties"`
	Clients       []models.Client       `json:"clients"`
	Tasks         []models.Task         `json:"tasks"`
	Commissions   []models.Commission   `json:"commissions"`
	Users         []models.User         `json:"users"`
	SavedSearches []models.SavedSearch  `json:"savedSearches"`
	Settings      models.Settings       `json:"settings"`
	Notifications []models.Notification `json:"notifications"`
	Due           *models.Notification  `json:"due"`
}

// DashboardService aggregates the other services.
type DashboardService interface {
	// Stats returns the dashboard counters.
	Stats(ctx context.Context) (Stats, error)

	// Snapshot loads every collection and runs one due-check, the way a
	// data reload does.
	Snapshot(ctx context.Context) (*Snapshot, error)
}

type dashboardService struct {
	properties    PropertyService
	clients       ClientService
	tasks         TaskService
	commissions   CommissionService
	users         UserService
	savedSearches SavedSearchService
	settings      SettingsService
	feed          *NotificationFeed
	now           Clock
	log           *logger.Logger
}

// NewDashboardService creates a new instance of DashboardService.
func NewDashboardService(
	properties PropertyService,
	clients ClientService,
	tasks TaskService,
	commissions CommissionService,
	users UserService,
	savedSearches SavedSearchService,
	settings SettingsService,
	feed *NotificationFeed,
	now Clock,
	log *logger.Logger,
) DashboardService {
	return &dashboardService{
		properties:    properties,
		clients:       clients,
		tasks:         tasks,
		commissions:   commissions,
		users:         users,
		savedSearches: savedSearches,
		settings:      settings,
		feed:          feed,
		now:           now,
		log:           log,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (Stats, error) {
	properties, err := s.properties.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	clients, err := s.clients.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	summary, err := s.commissions.Summary(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Listings:      len(properties),
		Clients:       len(clients),
		PaidIncome:    summary.PaidIncome,
		PendingIncome: summary.PendingIncome,
	}
	for _, p := range properties {
		switch p.Category {
		case models.CategoryResidential:
			stats.Residential++
		case models.CategoryCommercial:
			stats.Commercial++
		}
	}
	for _, t := range tasks {
		if !t.IsCompleted {
			stats.OpenTasks++
		}
	}
	return stats, nil
}

func (s *dashboardService) Snapshot(ctx context.Context) (*Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)

	if snap.Properties, err = s.properties.List(ctx); err != nil {
		return nil, err
	}
	if snap.Clients, err = s.clients.List(ctx); err != nil {
		return nil, err
	}
	if snap.Tasks, err = s.tasks.List(ctx); err != nil {
		return nil, err
	}
	if snap.Commissions, err = s.commissions.List(ctx); err != nil {
		return nil, err
	}
	if snap.Users, err = s.users.List(ctx); err != nil {
		return nil, err
	}
	if snap.SavedSearches, err = s.savedSearches.List(ctx); err != nil {
		return nil, err
	}

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	snap.Settings = settings.Redacted()

	if settings.ReminderAlerts() {
		if snap.Due, err = s.tasks.Due(ctx, s.now()); err != nil {
			return nil, err
		}
	}
	snap.Notifications = s.feed.List()

	s.log.Debug("Snapshot loaded", map[string]interface{}{
		"properties":  len(snap.Properties),
		"clients":     len(snap.Clients),
		"tasks":       len(snap.Tasks),
		"commissions": len(snap.Commissions),
		"due":         snap.Due != nil,
	})
	return &snap, nil
}
