package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/models"
)

func newDashboard(env *testEnv) DashboardService {
	log := logger.Nop()
	return NewDashboardService(
		NewPropertyService(env.properties, env.now, log),
		NewClientService(env.clients, env.ids, env.now, log),
		NewTaskService(env.tasks, env.feed, tehran, log),
		NewCommissionService(env.commissions, log),
		NewUserService(env.users, env.now, log),
		NewSavedSearchService(env.searches, log),
		newSettingsService(env, new(MockGenerator)),
		env.feed,
		env.now,
		log,
	)
}

func TestDashboardService_Stats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.tasks.Upsert(ctx, mustPatch(t, map[string]interface{}{"title": "open"}))
	require.NoError(t, err)
	_, _, err = env.tasks.Upsert(ctx, mustPatch(t, map[string]interface{}{"title": "done", "isCompleted": true}))
	require.NoError(t, err)
	_, _, err = env.clients.Upsert(ctx, mustPatch(t, map[string]interface{}{"name": "Ahmadi"}))
	require.NoError(t, err)
	_, _, err = env.commissions.Upsert(ctx, mustPatch(t, map[string]interface{}{
		"propertyPrice":   1e9,
		"agentPercentage": 40,
		"isPaid":          true,
	}))
	require.NoError(t, err)

	stats, err := newDashboard(env).Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, Stats{
		Listings:    5,
		Residential: 3,
		Commercial:  2,
		Clients:     1,
		OpenTasks:   1,
		PaidIncome:  4e6,
	}, stats)
}

func TestDashboardService_SnapshotRunsDueCheck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	storeSettings(t, env.store, validKeys())

	_, _, err := env.tasks.Upsert(ctx, mustPatch(t, map[string]interface{}{
		"title": "Sign contract",
		"date":  "1403/5/1",
		"time":  "10:00",
	}))
	require.NoError(t, err)

	snap, err := newDashboard(env).Snapshot(ctx)

	require.NoError(t, err)
	assert.Len(t, snap.Properties, 5)
	assert.Len(t, snap.Users, 2)
	assert.Len(t, snap.Tasks, 1)
	require.NotNil(t, snap.Due)
	assert.Equal(t, TaskDueBodyPrefix+"Sign contract", snap.Due.Body)
	assert.Len(t, snap.Notifications, 1)
	require.NotNil(t, snap.Settings.TextAI)
	assert.Equal(t, "****-key", snap.Settings.TextAI.APIKey)
}

func TestDashboardService_SnapshotSkipsDueCheckWhenDisabled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	off := false
	storeSettings(t, env.store, models.Settings{NotifyReminders: &off})

	_, _, err := env.tasks.Upsert(ctx, mustPatch(t, map[string]interface{}{
		"title": "Sign contract",
		"date":  "1403/5/1",
		"time":  "10:00",
	}))
	require.NoError(t, err)

	snap, err := newDashboard(env).Snapshot(ctx)

	require.NoError(t, err)
	assert.Nil(t, snap.Due)
	assert.Empty(t, snap.Notifications)
}
