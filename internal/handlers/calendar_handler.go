package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/estatedesk/internal/errors"
	"github.com/stwalsh4118/estatedesk/internal/jalali"
	"github.com/stwalsh4118/estatedesk/internal/services"
)

// CalendarHandler serves the Jalali date picker.
type CalendarHandler struct {
	now services.Clock
}

// NewCalendarHandler creates a new CalendarHandler instance.
func NewCalendarHandler(now services.Clock) *CalendarHandler {
	return &CalendarHandler{now: now}
}

// MonthQuery selects a month. A missing year or month means the current one.
type MonthQuery struct {
	Year  int `form:"year" binding:"omitempty,min=1"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

// MonthResponse is a month grid plus today's date.
type MonthResponse struct {
	jalali.Month
	Weekdays [7]string   `json:"weekdays"`
	Today    jalali.Date `json:"today"`
}

// Month handles GET /api/v1/calendar/month.
func (h *CalendarHandler) Month(c *gin.Context) {
	var q MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apierrors.BindingError(c, err, "Invalid query parameters")
		return
	}

	today := jalali.FromTime(h.now())
	if q.Year == 0 {
		q.Year = today.Year
	}
	if q.Month == 0 {
		q.Month = today.Month
	}

	grid, err := jalali.MonthGrid(q.Year, q.Month)
	if err != nil {
		apierrors.BadRequest(c, "The requested month is out of range", nil)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{
		Month:    grid,
		Weekdays: jalali.WeekdayNames,
		Today:    today,
	})
}
