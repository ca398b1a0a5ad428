package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/estatedesk/internal/models"
)

func TestDueCheck(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Title: "Done already", Date: "1403/5/1", Time: "10:00", IsCompleted: true},
		{ID: "2", Title: "Tomorrow", Date: "1403/5/2", Time: "10:00"},
		{ID: "3", Title: "Sign contract", Date: "1403/5/1", Time: "10:00"},
		{ID: "4", Title: "Also due", Date: "1403/05/01", Time: "10:00"},
	}

	n := DueCheck(tasks, at1403_5_1, tehran)

	require.NotNil(t, n)
	assert.Equal(t, "3", n.SourceID)
	assert.Equal(t, models.NotificationTask, n.Kind)
	assert.Equal(t, "یادآوری وظیفه", n.Title)
	assert.Equal(t, "زمان انجام وظیفه: Sign contract", n.Body)
	assert.Equal(t, "10:00", n.Time)
	assert.False(t, n.IsRead)
	assert.NotEmpty(t, n.ID)
}

func TestDueCheck_MatchRules(t *testing.T) {
	tests := []struct {
		name string
		task models.Task
		now  time.Time
		due  bool
	}{
		{name: "persian digits", task: models.Task{Date: "۱۴۰۳/۵/۱", Time: "۱۰:۰۰"}, now: at1403_5_1, due: true},
		{name: "seconds ignored", task: models.Task{Date: "1403/5/1", Time: "10:00"}, now: at1403_5_1.Add(59 * time.Second), due: true},
		{name: "next minute", task: models.Task{Date: "1403/5/1", Time: "10:00"}, now: at1403_5_1.Add(time.Minute), due: false},
		{name: "utc instant read in office zone", task: models.Task{Date: "1403/5/1", Time: "10:00"}, now: at1403_5_1.UTC(), due: true},
		{name: "unparseable date", task: models.Task{Date: "today", Time: "10:00"}, now: at1403_5_1, due: false},
		{name: "missing time", task: models.Task{Date: "1403/5/1"}, now: at1403_5_1, due: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.task.Title = "t"
			n := DueCheck([]models.Task{tt.task}, tt.now, tehran)
			assert.Equal(t, tt.due, n != nil)
		})
	}
}

func TestDueCheck_Nothing(t *testing.T) {
	assert.Nil(t, DueCheck(nil, at1403_5_1, tehran))
}

func TestDueAll_IncludesEveryItem(t *testing.T) {
	tasks := []models.Task{
		{ID: "t1", Title: "a", Date: "1403/5/1", Time: "10:00"},
		{ID: "t2", Title: "b", Date: "1403/5/1", Time: "10:00"},
	}
	clients := []models.Client{{
		ID:   "c1",
		Name: "Ahmadi",
		Reminders: []models.Reminder{
			{ID: "r1", Title: "Call back", Date: "1403/5/1", Time: "10:00"},
			{ID: "r2", Title: "Done", Date: "1403/5/1", Time: "10:00", IsCompleted: true},
		},
	}}

	due := dueAll(tasks, clients, at1403_5_1, tehran)

	require.Len(t, due, 3)
	assert.Equal(t, "task|t1|1403/5/1 10:00", due[0].key)
	assert.Equal(t, "task|t2|1403/5/1 10:00", due[1].key)
	assert.Equal(t, "reminder|c1/r1|1403/5/1 10:00", due[2].key)
	assert.Equal(t, ReminderDueTitle, due[2].notification.Title)
	assert.Equal(t, "Ahmadi: Call back", due[2].notification.Body)
}

func TestNotificationFeed(t *testing.T) {
	feed := NewNotificationFeed(2)

	feed.Push(models.Notification{ID: "a"})
	feed.Push(models.Notification{ID: "b"})
	feed.Push(models.Notification{ID: "c"})

	items := feed.List()
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "c", items[1].ID)

	assert.True(t, feed.MarkRead("c"))
	assert.False(t, feed.MarkRead("a"))
	assert.True(t, feed.List()[1].IsRead)

	items[0].ID = "mutated"
	assert.Equal(t, "b", feed.List()[0].ID)

	feed.Clear()
	assert.Empty(t, feed.List())
}
