package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/models"
	"github.com/stwalsh4118/estatedesk/internal/repository"
)

func newTaskService(env *testEnv) TaskService {
	return NewTaskService(env.tasks, env.feed, tehran, logger.Nop())
}

func TestTaskService_SaveDefaults(t *testing.T) {
	env := newTestEnv(t)
	service := newTaskService(env)

	task, all, err := service.Save(context.Background(), mustPatch(t, map[string]interface{}{
		"title": "Visit Niavaran unit",
		"date":  "1403/5/1",
		"time":  "10:00",
	}))

	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.TaskSchedule, task.Type)
	assert.False(t, task.IsCompleted)
	assert.Len(t, all, 1)
}

func TestTaskService_SaveValidation(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]interface{}
		field string
	}{
		{name: "missing title", input: map[string]interface{}{"date": "1403/5/1"}, field: "title"},
		{name: "bad priority", input: map[string]interface{}{"title": "x", "priority": "urgent"}, field: "priority"},
		{name: "bad type", input: map[string]interface{}{"title": "x", "type": "chore"}, field: "type"},
		{name: "bad date", input: map[string]interface{}{"title": "x", "date": "tomorrow"}, field: "date"},
		{name: "bad time", input: map[string]interface{}{"title": "x", "time": "10h"}, field: "time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, _, err := newTaskService(env).Save(context.Background(), mustPatch(t, tt.input))

			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestTaskService_Toggle(t *testing.T) {
	env := newTestEnv(t)
	service := newTaskService(env)
	ctx := context.Background()

	task, _, err := service.Save(ctx, mustPatch(t, map[string]interface{}{
		"title":       "Call owner",
		"priority":    "high",
		"description": "about the price",
	}))
	require.NoError(t, err)

	toggled, err := service.Toggle(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted)

	expected := *task
	expected.IsCompleted = true
	assert.Equal(t, expected, *toggled)

	toggled, err = service.Toggle(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsCompleted)

	_, err = service.Toggle(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

// deleteAfterGet removes a record right after it is read, as a
// concurrent delete landing between a read and a write would.
type deleteAfterGet[T any] struct {
	repository.Repository[T]
}

func (r deleteAfterGet[T]) Get(ctx context.Context, id string) (T, error) {
	item, err := r.Repository.Get(ctx, id)
	if err == nil {
		_, _ = r.Repository.Delete(ctx, id)
	}
	return item, err
}

func TestTaskService_ConcurrentDeleteDoesNotResurrect(t *testing.T) {
	tests := []struct {
		name string
		run  func(ctx context.Context, service TaskService, id string) error
	}{
		{
			name: "toggle",
			run: func(ctx context.Context, service TaskService, id string) error {
				_, err := service.Toggle(ctx, id)
				return err
			},
		},
		{
			name: "partial save",
			run: func(ctx context.Context, service TaskService, id string) error {
				_, _, err := service.Save(ctx, repository.Patch{
					"id":          json.RawMessage(`"` + id + `"`),
					"isCompleted": json.RawMessage(`true`),
				})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			task, _, err := newTaskService(env).Save(ctx, mustPatch(t, map[string]interface{}{"title": "Sign lease"}))
			require.NoError(t, err)

			service := NewTaskService(deleteAfterGet[models.Task]{env.tasks}, env.feed, tehran, logger.Nop())
			_ = tt.run(ctx, service, task.ID)

			all, err := env.tasks.List(ctx)
			require.NoError(t, err)
			for _, remaining := range all {
				assert.NotEmpty(t, remaining.Title, "record without title in %+v", all)
			}
		})
	}
}

func TestTaskService_SaveStaleIDValidatesAsNew(t *testing.T) {
	env := newTestEnv(t)
	service := newTaskService(env)
	ctx := context.Background()

	task, _, err := service.Save(ctx, mustPatch(t, map[string]interface{}{"title": "Sign lease"}))
	require.NoError(t, err)
	require.NoError(t, service.Delete(ctx, task.ID))

	_, _, err = service.Save(ctx, mustPatch(t, map[string]interface{}{"id": task.ID, "isCompleted": true}))
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "title", fe.Field)

	_, err = service.Toggle(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := env.tasks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTaskService_DueEmitsEveryRun(t *testing.T) {
	env := newTestEnv(t)
	service := newTaskService(env)
	ctx := context.Background()

	_, _, err := service.Save(ctx, mustPatch(t, map[string]interface{}{
		"title": "Sign contract",
		"date":  "1403/5/1",
		"time":  "10:00",
	}))
	require.NoError(t, err)

	first, err := service.Due(ctx, at1403_5_1)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, TaskDueTitle, first.Title)
	assert.Equal(t, TaskDueBodyPrefix+"Sign contract", first.Body)

	second, err := service.Due(ctx, at1403_5_1)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)

	assert.Len(t, env.feed.List(), 2)

	none, err := service.Due(ctx, at1403_5_1.Add(time.Minute))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestTaskService_Delete(t *testing.T) {
	env := newTestEnv(t)
	service := newTaskService(env)
	ctx := context.Background()

	task, _, err := service.Save(ctx, mustPatch(t, map[string]interface{}{"title": "x"}))
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, task.ID))
	require.NoError(t, service.Delete(ctx, task.ID))

	tasks, err := service.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
