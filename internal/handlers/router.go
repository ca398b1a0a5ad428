package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/estatedesk/internal/logger"
	"github.com/stwalsh4118/estatedesk/internal/middleware"
)

// RouterConfig carries the settings the router needs from the server
// configuration.
type RouterConfig struct {
	CORSOrigins  []string
	ActiveUserID string
}

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Health        *HealthHandler
	Properties    *PropertyHandler
	Clients       *ClientHandler
	Tasks         *TaskHandler
	Commissions   *CommissionHandler
	Users         *UserHandler
	SavedSearches *SavedSearchHandler
	Settings      *SettingsHandler
	Assistant     *AssistantHandler
	Dashboard     *DashboardHandler
	Calendar      *CalendarHandler
	Backup        *BackupHandler
}

// NewRouter builds the gin engine with the middleware chain and every
// route registered.
func NewRouter(log *logger.Logger, cfg RouterConfig, h Handlers) *gin.Engine {
	RegisterValidators()

	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS -> ActiveUser
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.ActiveUser(cfg.ActiveUserID))

	router.GET("/health", h.Health.Health)
	router.GET("/health/ready", h.Health.Ready)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", h.Health.Info)
		v1.GET("/stats", h.Dashboard.Stats)
		v1.GET("/snapshot", h.Dashboard.Snapshot)

		properties := v1.Group("/properties")
		{
			properties.GET("", h.Properties.List)
			properties.POST("", h.Properties.Save)
			properties.GET("/instant", h.Properties.Instant)
			properties.GET("/nearby", h.Properties.Nearby)
			properties.GET("/markers", h.Properties.Markers)
			properties.GET("/:id", h.Properties.Get)
			properties.PUT("/:id", h.Properties.Update)
			properties.DELETE("/:id", h.Properties.Delete)
			properties.POST("/:id/ad-copy", h.Properties.AdCopy)
			properties.POST("/:id/staging", h.Properties.Staging)
		}

		clients := v1.Group("/clients")
		{
			clients.GET("", h.Clients.List)
			clients.POST("", h.Clients.Save)
			clients.GET("/:id", h.Clients.Get)
			clients.PUT("/:id", h.Clients.Update)
			clients.DELETE("/:id", h.Clients.Delete)
			clients.POST("/:id/reminders", h.Clients.AddReminder)
			clients.DELETE("/:id/reminders/:reminderId", h.Clients.DeleteReminder)
			clients.PATCH("/:id/reminders/:reminderId/toggle", h.Clients.ToggleReminder)
		}

		tasks := v1.Group("/tasks")
		{
			tasks.GET("", h.Tasks.List)
			tasks.POST("", h.Tasks.Save)
			tasks.GET("/due", h.Tasks.Due)
			tasks.POST("/suggest-schedule", h.Tasks.SuggestSchedule)
			tasks.PUT("/:id", h.Tasks.Update)
			tasks.DELETE("/:id", h.Tasks.Delete)
			tasks.PATCH("/:id/toggle", h.Tasks.Toggle)
		}

		commissions := v1.Group("/commissions")
		{
			commissions.GET("", h.Commissions.List)
			commissions.POST("", h.Commissions.Save)
			commissions.POST("/quote", h.Commissions.Quote)
			commissions.GET("/summary", h.Commissions.Summary)
			commissions.PUT("/:id", h.Commissions.Update)
			commissions.DELETE("/:id", h.Commissions.Delete)
			commissions.PATCH("/:id/toggle-paid", h.Commissions.TogglePaid)
		}

		users := v1.Group("/users")
		{
			users.GET("", h.Users.List)
			users.POST("", h.Users.Save)
			users.GET("/me", h.Users.Me)
			users.PUT("/:id", h.Users.Update)
			users.DELETE("/:id", h.Users.Delete)
			users.PUT("/:id/location", h.Users.UpdateLocation)
		}

		searches := v1.Group("/saved-searches")
		{
			searches.GET("", h.SavedSearches.List)
			searches.POST("", h.SavedSearches.Create)
			searches.DELETE("/:id", h.SavedSearches.Delete)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("", h.Settings.All)
			settings.POST("/ai/:kind/validate", h.Settings.ValidateAIKey)
			settings.GET("/:key", h.Settings.Get)
			settings.PUT("/:key", h.Settings.Set)
		}

		assistant := v1.Group("/assistant")
		{
			assistant.POST("/chat", h.Assistant.Chat)
			assistant.POST("/search", h.Assistant.Search)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", h.Dashboard.Notifications)
			notifications.DELETE("", h.Dashboard.ClearNotifications)
			notifications.PATCH("/:id/read", h.Dashboard.MarkRead)
		}

		v1.GET("/calendar/month", h.Calendar.Month)

		backup := v1.Group("/backup")
		{
			backup.GET("", h.Backup.Export)
			backup.POST("/restore", h.Backup.Restore)
		}
	}

	return router
}
