package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/estatedesk/internal/jalali"
	"github.com/stwalsh4118/estatedesk/internal/models"
)

// Notification texts
const (
	TaskDueTitle      = "یادآوری وظیفه"
	TaskDueBodyPrefix = "زمان انجام وظیفه: "
	ReminderDueTitle  = "یادآوری مشتری"
)

// DueCheck runs one due-check over tasks at now (read in loc). A task is
// due when it is open and its date and time equal today's date and the
// current minute. Only the first due task in list order produces a
// notification; nil means nothing is due. Repeated calls with the same
// inputs produce a new notification each time.
func DueCheck(tasks []models.Task, now time.Time, loc *time.Location) *models.Notification {
	now = now.In(loc)
	today := jalali.FromTime(now)
	clock := jalali.ClockOf(now)

	for i := range tasks {
		t := &tasks[i]
		if t.IsCompleted || !isDue(t.Date, t.Time, today, clock) {
			continue
		}
		n := taskNotification(t, now)
		return &n
	}
	return nil
}

// dueNotification pairs a notification with the key used to suppress
// repeats within the same minute.
type dueNotification struct {
	key          string
	notification models.Notification
}

// dueAll returns every open task and client reminder due at now.
func dueAll(tasks []models.Task, clients []models.Client, now time.Time, loc *time.Location) []dueNotification {
	now = now.In(loc)
	today := jalali.FromTime(now)
	clock := jalali.ClockOf(now)
	stamp := today.String() + " " + clock.String()

	var out []dueNotification
	for i := range tasks {
		t := &tasks[i]
		if t.IsCompleted || !isDue(t.Date, t.Time, today, clock) {
			continue
		}
		out = append(out, dueNotification{
			key:          string(models.NotificationTask) + "|" + t.ID + "|" + stamp,
			notification: taskNotification(t, now),
		})
	}

	for i := range clients {
		c := &clients[i]
		for j := range c.Reminders {
			r := &c.Reminders[j]
			if r.IsCompleted || !isDue(r.Date, r.Time, today, clock) {
				continue
			}
			out = append(out, dueNotification{
				key:          string(models.NotificationReminder) + "|" + c.ID + "/" + r.ID + "|" + stamp,
				notification: reminderNotification(c, r, now),
			})
		}
	}
	return out
}

func isDue(date, clock string, today jalali.Date, now jalali.Clock) bool {
	d, err := jalali.ParseDate(date)
	if err != nil {
		return false
	}
	c, err := jalali.ParseClock(clock)
	if err != nil {
		return false
	}
	return d == today && c == now
}

func taskNotification(t *models.Task, now time.Time) models.Notification {
	return models.Notification{
		ID:        uuid.NewString(),
		Kind:      models.NotificationTask,
		SourceID:  t.ID,
		Title:     TaskDueTitle,
		Body:      TaskDueBodyPrefix + t.Title,
		Time:      jalali.ClockOf(now).String(),
		CreatedAt: now,
	}
}

func reminderNotification(c *models.Client, r *models.Reminder, now time.Time) models.Notification {
	return models.Notification{
		ID:        uuid.NewString(),
		Kind:      models.NotificationReminder,
		SourceID:  c.ID + "/" + r.ID,
		Title:     ReminderDueTitle,
		Body:      c.Name + ": " + r.Title,
		Time:      jalali.ClockOf(now).String(),
		CreatedAt: now,
	}
}
