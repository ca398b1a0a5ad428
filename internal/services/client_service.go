package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stwalsh4118/estatedesk/internal/jalali"
	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/repository"
)

// ReminderInput is a new reminder for a client.
type ReminderInput struct {
	Title string
	Date  string
	Time  string
}

// ClientService defines the interface for client (lead) operations.
type ClientService interface {
	List(ctx context.Context) ([]models.Client, error)
	Get(ctx context.Context, id string) (*models.Client, error)

	// Save upserts a client from a partial record.
	Save(ctx context.Context, patch repository.Patch) (*models.Client, []models.Client, error)

	// Delete removes a client and its reminders. Unknown ids are ignored.
	Delete(ctx context.Context, id string) error

	// AddReminder attaches a reminder to the client. Title and date are
	// required; the time defaults to models.DefaultReminderTime.
	AddReminder(ctx context.Context, clientID string, in ReminderInput) (*models.Client, error)

	// DeleteReminder removes a reminder. An unknown reminder id leaves
	// the client unchanged.
	DeleteReminder(ctx context.Context, clientID, reminderID string) (*models.Client, error)

	// ToggleReminder flips the completion flag of a reminder.
	ToggleReminder(ctx context.Context, clientID, reminderID string) (*models.Client, error)
}

type clientService struct {
	repo repository.Repository[models.Client]
	ids  *repository.IDGenerator
	now  Clock
	log  *logger.Logger
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repository.Repository[models.Client], ids *repository.IDGenerator, now Clock, log *logger.Logger) ClientService {
	return &clientService{
		repo: repo,
		ids:  ids,
		now:  now,
		log:  log,
	}
}

func (s *clientService) List(ctx context.Context) ([]models.Client, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) Get(ctx context.Context, id string) (*models.Client, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *clientService) Save(ctx context.Context, patch repository.Patch) (*models.Client, []models.Client, error) {
	c, all, created, err := s.repo.UpsertPrepared(ctx, patch, func(in repository.Patch, created bool) (repository.Patch, error) {
		if err := validateClientPatch(in, created); err != nil {
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
		s.log.Warn("Invalid client", map[string]interface{}{
			"id":    patch.ID(),
			"error": err.Error(),
		})
		return nil, nil, err
	}
	if err != nil {
		s.log.Error("Failed to save client", err, map[string]interface{}{"id": patch.ID()})
		return nil, nil, fmt.Errorf("failed to save client: %w", err)
	}

	s.log.Info("Client saved", map[string]interface{}{
		"id":        c.ID,
		"created":   created,
		"reminders": len(c.Reminders),
	})
	return &c, all, nil
}

func (s *clientService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error("Failed to delete client", err, map[string]interface{}{"id": id})
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.log.Info("Client deleted", map[string]interface{}{"id": id, "removed": removed})
	return nil
}

func (s *clientService) AddReminder(ctx context.Context, clientID string, in ReminderInput) (*models.Client, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fieldError("title", "A reminder needs a title")
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		return nil, fieldError("date", "A reminder needs a date")
	}
	d, err := jalali.ParseDate(date)
	if err != nil {
		return nil, fieldError("date", "Must be a calendar date like 1403/5/1")
	}

	clock := models.DefaultReminderTime
	if strings.TrimSpace(in.Time) != "" {
		parsed, err := jalali.ParseClock(in.Time)
		if err != nil {
			return nil, fieldError("time", "Must be a time like 10:00")
		}
		clock = parsed.String()
	}

	reminder := models.Reminder{
		ID:    s.ids.Next(),
		Title: title,
		Date:  d.String(),
		Time:  clock,
	}

	c, err := s.repo.Update(ctx, clientID, func(c *models.Client) error {
		c.Reminders = append(c.Reminders, reminder)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add reminder: %w", err)
	}

	s.log.Info("Reminder added", map[string]interface{}{
		"client_id":   clientID,
		"reminder_id": reminder.ID,
		"date":        reminder.Date,
		"time":        reminder.Time,
	})
	return &c, nil
}

func (s *clientService) DeleteReminder(ctx context.Context, clientID, reminderID string) (*models.Client, error) {
	c, err := s.repo.Update(ctx, clientID, func(c *models.Client) error {
		i := c.FindReminder(reminderID)
		if i < 0 {
			return nil
		}
		kept := make([]models.Reminder, 0, len(c.Reminders)-1)
		kept = append(kept, c.Reminders[:i]...)
		kept = append(kept, c.Reminders[i+1:]...)
		c.Reminders = kept
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete reminder: %w", err)
	}

	s.log.Info("Reminder deleted", map[string]interface{}{
		"client_id":   clientID,
		"reminder_id": reminderID,
	})
	return &c, nil
}

func (s *clientService) ToggleReminder(ctx context.Context, clientID, reminderID string) (*models.Client, error) {
	c, err := s.repo.Update(ctx, clientID, func(c *models.Client) error {
		i := c.FindReminder(reminderID)
		if i < 0 {
			return fmt.Errorf("%w: reminder %s", ErrNotFound, reminderID)
		}
		c.Reminders[i].IsCompleted = !c.Reminders[i].IsCompleted
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle reminder: %w", err)
	}
	return &c, nil
}

func validateClientPatch(patch repository.Patch, created bool) error {
	if err := requireText(patch, "name", created, "A client needs a name"); err != nil {
		return err
	}
	if err := requireOneOf(patch, "requestType", false,
		string(models.TransactionSale), string(models.TransactionRent), string(models.TransactionMortgage),
		string(models.TransactionPresale), string(models.TransactionParticipation)); err != nil {
		return err
	}
	if err := requireOneOf(patch, "propertyType", false,
		string(models.CategoryResidential), string(models.CategoryCommercial), string(models.CategoryOffice)); err != nil {
		return err
	}
	budgetMin, hasMin, err := patchValue[float64](patch, "budgetMin")
	if err != nil {
		return err
	}
	budgetMax, hasMax, err := patchValue[float64](patch, "budgetMax")
	if err != nil {
		return err
	}
	if hasMin && hasMax && budgetMin > budgetMax {
		return fieldError("budgetMax", "Must not be below the minimum budget")
	}
	return nil
}
