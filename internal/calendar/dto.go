package calendar

import (
	"time"

	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	"github.com/google/uuid"
)

// DateLayout is the only accepted event date format.
const DateLayout = "2006-01-02"

// EventDTO is a calendar entry as shown to users.
type EventDTO struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Date           string          `json:"date"`
	Time           string          `json:"time"`
	Type           enums.EventType `json:"type"`
	TypeLabel      string          `json:"type_label"`
	Color          string          `json:"color"`
	Icon           string          `json:"icon"`
	Location       string          `json:"location"`
	CreatedBy      string          `json:"created_by"`
	CreatedByEmail string          `json:"created_by_email"`
	UserType       enums.UserType  `json:"user_type"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateEventInput is the add-event form.
type CreateEventInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Type        string `json:"type"`
	Location    string `json:"location"`
}

// Author identifies who is adding an event.
type Author struct {
	ID       uuid.UUID
	FullName string
	Email    string
	UserType enums.UserType
}

// CreateResult pairs the stored event with its confirmation text.
type CreateResult struct {
	Event   EventDTO `json:"event"`
	Message string   `json:"message"`
}

// Query selects events by exact date or by month (YYYY-MM). Both empty lists
// everything.
type Query struct {
	Date  string
	Month string
}

// Indicator is one coloured dot in a grid cell.
type Indicator struct {
	ID    uuid.UUID       `json:"id"`
	Title string          `json:"title"`
	Type  enums.EventType `json:"type"`
	Color string          `json:"color"`
}

// GridDay is one cell of the month view.
type GridDay struct {
	Day        int         `json:"day"`
	Date       string      `json:"date"`
	EventCount int         `json:"event_count"`
	Indicators []Indicator `json:"indicators"`
	Overflow   int         `json:"overflow"`
}

// MonthGrid is the month view: FirstWeekday is the number of empty cells
// before day 1, counting from Sunday.
type MonthGrid struct {
	Year         int       `json:"year"`
	Month        int       `json:"month"`
	DaysInMonth  int       `json:"days_in_month"`
	FirstWeekday int       `json:"first_weekday"`
	Days         []GridDay `json:"days"`
}

// Upcoming lists the next events and how many upcoming events exist in total.
type Upcoming struct {
	Events []EventDTO `json:"events"`
	Total  int64      `json:"total"`
}

func FromModel(m *models.CalendarEvent) EventDTO {
	info, _ := m.Type.Info()
	return EventDTO{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		Date:           m.Date,
		Time:           m.Time,
		Type:           m.Type,
		TypeLabel:      info.Label,
		Color:          info.Color,
		Icon:           info.Icon,
		Location:       m.Location,
		CreatedBy:      m.CreatedBy,
		CreatedByEmail: m.CreatedByEmail,
		UserType:       m.UserType,
		CreatedAt:      m.CreatedAt,
	}
}

func FromModels(rows []models.CalendarEvent) []EventDTO {
	out := make([]EventDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
