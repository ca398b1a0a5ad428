package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stwalsh4118/estatedesk/internal/jalali"
	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/repository"
)

// TaskService defines the interface for task operations.
type TaskService interface {
	List(ctx context.Context) ([]models.Task, error)
	Get(ctx context.Context, id string) (*models.Task, error)

	// Save upserts a task from a partial record. New tasks default to
	// medium priority and the schedule type.
	Save(ctx context.Context, patch repository.Patch) (*models.Task, []models.Task, error)

	Delete(ctx context.Context, id string) error

	// Toggle flips the completion flag and leaves every other field as is.
	Toggle(ctx context.Context, id string) (*models.Task, error)

	// Due runs one due-check at the given time and pushes the resulting
	// notification, if any, to the feed.
	Due(ctx context.Context, at time.Time) (*models.Notification, error)
}

type taskService struct {
	repo repository.Repository[models.Task]
	feed *NotificationFeed
	loc  *time.Location
	log  *logger.Logger
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo repository.Repository[models.Task], feed *NotificationFeed, loc *time.Location, log *logger.Logger) TaskService {
	return &taskService{
		repo: repo,
		feed: feed,
		loc:  loc,
		log:  log,
	}
}

func (s *taskService) List(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *taskService) Get(ctx context.Context, id string) (*models.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *taskService) Save(ctx context.Context, patch repository.Patch) (*models.Task, []models.Task, error) {
	t, all, created, err := s.repo.UpsertPrepared(ctx, patch, func(in repository.Patch, created bool) (repository.Patch, error) {
		if err := validateTaskPatch(in, created); err != nil {
			return nil, err
		}
		if created {
			in = clonePatch(in)
			if !in.Has("priority") {
				_ = in.Set("priority", models.PriorityMedium)
			}
			if !in.Has("type") {
				_ = in.Set("type", models.TaskSchedule)
			}
		}
		return in, nil
	})
	if errors.Is(err, ErrValidation) {
		s.log.Warn("Invalid task", map[string]interface{}{
			"id":    patch.ID(),
			"error": err.Error(),
		})
		return nil, nil, err
	}
	if err != nil {
		s.log.Error("Failed to save task", err, map[string]interface{}{"id": patch.ID()})
		return nil, nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.log.Info("Task saved", map[string]interface{}{
		"id":      t.ID,
		"created": created,
		"date":    t.Date,
		"time":    t.Time,
	})
	return &t, all, nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error("Failed to delete task", err, map[string]interface{}{"id": id})
		return fmt.Errorf("failed to delete task: %w", err)
	}
	s.log.Info("Task deleted", map[string]interface{}{"id": id, "removed": removed})
	return nil
}

func (s *taskService) Toggle(ctx context.Context, id string) (*models.Task, error) {
	t, err := s.repo.Update(ctx, id, func(t *models.Task) error {
		t.IsCompleted = !t.IsCompleted
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	s.log.Info("Task toggled", map[string]interface{}{"id": id, "completed": t.IsCompleted})
	return &t, nil
}

func (s *taskService) Due(ctx context.Context, at time.Time) (*models.Notification, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	n := DueCheck(tasks, at, s.loc)
	if n == nil {
		return nil, nil
	}

	s.feed.Push(*n)
	s.log.Info("Task due", map[string]interface{}{
		"task_id": n.SourceID,
		"time":    n.Time,
	})
	return n, nil
}

func validateTaskPatch(patch repository.Patch, created bool) error {
	if err := requireText(patch, "title", created, "Enter a task title first"); err != nil {
		return err
	}
	if err := requireOneOf(patch, "type", false,
		string(models.TaskSchedule), string(models.TaskRoutine), string(models.TaskReminder)); err != nil {
		return err
	}
	if err := requireOneOf(patch, "priority", false,
		string(models.PriorityLow), string(models.PriorityMedium), string(models.PriorityHigh)); err != nil {
		return err
	}

	if date, ok, err := patchValue[string](patch, "date"); err != nil {
		return err
	} else if ok && strings.TrimSpace(date) != "" {
		if _, err := jalali.ParseDate(date); err != nil {
			return fieldError("date", "Must be a calendar date like 1403/5/1")
		}
	}

	if clock, ok, err := patchValue[string](patch, "time"); err != nil {
		return err
	} else if ok && strings.TrimSpace(clock) != "" {
		if _, err := jalali.ParseClock(clock); err != nil {
			return fieldError("time", "Must be a time like 10:00")
		}
	}
	return nil
}
