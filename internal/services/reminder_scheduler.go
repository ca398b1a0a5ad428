package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stwalsh4118/estatedesk/internal/jalali"
	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/repository"
)

// DefaultReminderInterval is used when no positive interval is configured.
const DefaultReminderInterval = 30 * time.Second

// maxCatchUp bounds how many past minutes one tick re-checks after a gap.
const maxCatchUp = time.Hour

// SettingsLoader reads the current settings document.
type SettingsLoader interface {
	Load(ctx context.Context) (models.Settings, error)
}

// ReminderScheduler checks tasks and client reminders on a timer and
// pushes every due item to the notification feed once. Unlike DueCheck
// it reports all items due in the same minute, not just the first.
type ReminderScheduler struct {
	tasks    repository.Repository[models.Task]
	clients  repository.Repository[models.Client]
	settings SettingsLoader
	feed     *NotificationFeed
	interval time.Duration
	loc      *time.Location
	now      Clock
	log      *logger.Logger

	mu      sync.Mutex
	seen    map[string]struct{}
	seenDay jalali.Date
	last    time.Time
}

// NewReminderScheduler creates a scheduler. It does nothing until Run.
func NewReminderScheduler(
	tasks repository.Repository[models.Task],
	clients repository.Repository[models.Client],
	settings SettingsLoader,
	feed *NotificationFeed,
	interval time.Duration,
	loc *time.Location,
	now Clock,
	log *logger.Logger,
) *ReminderScheduler {
	if interval <= 0 {
		interval = DefaultReminderInterval
	}
	return &ReminderScheduler{
		tasks:    tasks,
		clients:  clients,
		settings: settings,
		feed:     feed,
		interval: interval,
		loc:      loc,
		now:      now,
		log:      log.WithComponent("reminder_scheduler"),
		seen:     map[string]struct{}{},
	}
}

// Run checks on every tick until ctx is cancelled.
func (s *ReminderScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Reminder scheduler started", map[string]interface{}{
		"interval": s.interval.String(),
		"timezone": s.loc.String(),
	})

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Reminder scheduler stopped", nil)
			return
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				s.log.Error("Reminder check failed", err, nil)
			}
		}
	}
}

// Tick runs one check and returns the notifications it pushed. Every
// minute since the previous tick is checked, up to maxCatchUp, so
// intervals longer than a minute do not skip items. Items already
// reported for the same date and minute are skipped; the memory of
// reported items is reset when the day changes.
func (s *ReminderScheduler) Tick(ctx context.Context) ([]models.Notification, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		s.log.Warn("Settings unreadable, using defaults", map[string]interface{}{"error": err.Error()})
		settings = models.Settings{}
	}
	if !settings.ReminderAlerts() {
		return nil, nil
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}

	now := s.now().In(s.loc)

	s.mu.Lock()
	defer s.mu.Unlock()

	if today := jalali.FromTime(now); today != s.seenDay {
		s.seen = map[string]struct{}{}
		s.seenDay = today
	}

	var pushed []models.Notification
	for _, minute := range s.window(now) {
		for _, due := range dueAll(tasks, clients, minute, s.loc) {
			if _, ok := s.seen[due.key]; ok {
				continue
			}
			s.seen[due.key] = struct{}{}
			s.feed.Push(due.notification)
			pushed = append(pushed, due.notification)
		}
	}
	s.last = now

	if len(pushed) > 0 {
		s.log.Info("Due notifications pushed", map[string]interface{}{"count": len(pushed)})
	}
	return pushed, nil
}

// window returns the minutes to check at now: those after the previous
// tick's minute through the current one. The current minute is always
// included so items added since the last tick are still found.
func (s *ReminderScheduler) window(now time.Time) []time.Time {
	end := now.Truncate(time.Minute)
	start := end
	if !s.last.IsZero() {
		start = s.last.Truncate(time.Minute).Add(time.Minute)
		if start.After(end) {
			start = end
		}
		if end.Sub(start) > maxCatchUp {
			start = end.Add(-maxCatchUp)
		}
	}

	minutes := make([]time.Time, 0, int(end.Sub(start)/time.Minute)+1)
	for m := start; !m.After(end); m = m.Add(time.Minute) {
		minutes = append(minutes, m)
	}
	return minutes
}
