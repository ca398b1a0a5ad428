package models

// Client is a buyer or tenant lead.
type Client struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	RequestType  TransactionType `json:"requestType"`
	PropertyType Category        `json:"propertyType"`
	BudgetMin    *float64        `json:"budgetMin,omitempty"`
	BudgetMax    *float64        `json:"budgetMax,omitempty"`
	AreaMin      *float64        `json:"areaMin,omitempty"`
	AreaMax      *float64        `json:"areaMax,omitempty"`
	LocationPref string          `json:"locationPref"`
	Essentials   string          `json:"essentials"`
	Description  string          `json:"description"`
	Date         string          `json:"date"`
	Reminders    []Reminder      `json:"reminders,omitempty"`
}

// CategoryOffice is only used by client requests; listings are either
// residential or commercial.
const CategoryOffice Category = "office"

// Reminder is embedded in a Client and only changes through it.
type Reminder struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	IsCompleted bool   `json:"isCompleted"`
}

// DefaultReminderTime is used when a reminder is added without a time.
const DefaultReminderTime = "10:00"

// FindReminder returns the index of the reminder with id, or -1.
func (c *Client) FindReminder(id string) int {
	for i := range c.Reminders {
		if c.Reminders[i].ID == id {
			return i
		}
	}
	return -1
}
