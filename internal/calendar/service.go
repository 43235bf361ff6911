package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agroconnect/agroconnect-backend/pkg/db/models"
	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	pkgerrors "github.com/agroconnect/agroconnect-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultTime      = "All Day"
	maxIndicators    = 3
	upcomingLimit    = 5
	monthQueryLayout = "2006-01"
)

// Service is the shared farming calendar.
type Service interface {
	Create(ctx context.Context, author Author, input CreateEventInput) (*CreateResult, error)
	List(ctx context.Context, q Query) ([]EventDTO, error)
	Delete(ctx context.Context, userID, eventID uuid.UUID) error
	Grid(ctx context.Context, year, month int) (*MonthGrid, error)
	Upcoming(ctx context.Context) (*Upcoming, error)
}

type eventRepository interface {
	Create(ctx context.Context, event *models.CalendarEvent) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CalendarEvent, error)
	ListByDate(ctx context.Context, date string) ([]models.CalendarEvent, error)
	ListBetween(ctx context.Context, from, to string) ([]models.CalendarEvent, error)
	ListAll(ctx context.Context) ([]models.CalendarEvent, error)
	ListFrom(ctx context.Context, from string, limit int) ([]models.CalendarEvent, error)
	CountFrom(ctx context.Context, from string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo eventRepository
	now  func() time.Time
}

// NewService builds the calendar service. now defaults to time.Now.
func NewService(repo eventRepository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("calendar repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

func (s *service) Create(ctx context.Context, author Author, input CreateEventInput) (*CreateResult, error) {
	title := strings.TrimSpace(input.Title)
	date := strings.TrimSpace(input.Date)
	if title == "" {
		return nil, pkgerrors.Validation("title", "Please enter event title")
	}
	if date == "" {
		return nil, pkgerrors.Validation("date", "Please select event date")
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, pkgerrors.Validation("date", "Date must be in YYYY-MM-DD format")
	}

	typ := enums.EventTypeGeneral
	if raw := strings.TrimSpace(input.Type); raw != "" {
		parsed, err := enums.ParseEventType(raw)
		if err != nil {
			return nil, pkgerrors.Validation("type", "Please choose a listed event type")
		}
		typ = parsed
	}
	at := strings.TrimSpace(input.Time)
	if at == "" {
		at = defaultTime
	}

	event := &models.CalendarEvent{
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		Date:           date,
		Time:           at,
		Type:           typ,
		Location:       strings.TrimSpace(input.Location),
		CreatedBy:      author.FullName,
		CreatedByEmail: author.Email,
		CreatedByID:    author.ID,
		UserType:       author.UserType,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create calendar event")
	}

	dto := FromModel(event)
	return &CreateResult{
		Event:   dto,
		Message: fmt.Sprintf("%s Event %q added successfully!", dto.Icon, title),
	}, nil
}

func (s *service) List(ctx context.Context, q Query) ([]EventDTO, error) {
	var (
		rows []models.CalendarEvent
		err  error
	)
	switch {
	case q.Date != "":
		if _, perr := time.Parse(DateLayout, q.Date); perr != nil {
			return nil, pkgerrors.Validation("date", "Date must be in YYYY-MM-DD format")
		}
		rows, err = s.repo.ListByDate(ctx, q.Date)
	case q.Month != "":
		first, perr := time.Parse(monthQueryLayout, q.Month)
		if perr != nil {
			return nil, pkgerrors.Validation("month", "Month must be in YYYY-MM format")
		}
		from, to := monthBounds(first)
		rows, err = s.repo.ListBetween(ctx, from, to)
	default:
		rows, err = s.repo.ListAll(ctx)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list calendar events")
	}
	return FromModels(rows), nil
}

// Delete removes exactly the identified event. Only its creator may delete it.
func (s *service) Delete(ctx context.Context, userID, eventID uuid.UUID) error {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load calendar event")
	}
	if event.CreatedByID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the creator can delete this event")
	}
	deleted, err := s.repo.Delete(ctx, eventID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete calendar event")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
	}
	return nil
}

func (s *service) Grid(ctx context.Context, year, month int) (*MonthGrid, error) {
	if month < 1 || month > 12 {
		return nil, pkgerrors.Validation("month", "Month must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return nil, pkgerrors.Validation("year", "Year is out of range")
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	from, to := monthBounds(first)
	rows, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load month events")
	}
	return buildGrid(first, rows), nil
}

func (s *service) Upcoming(ctx context.Context) (*Upcoming, error) {
	today := s.now().UTC().Format(DateLayout)
	rows, err := s.repo.ListFrom(ctx, today, upcomingLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list upcoming events")
	}
	total, err := s.repo.CountFrom(ctx, today)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count upcoming events")
	}
	return &Upcoming{Events: FromModels(rows), Total: total}, nil
}

func monthBounds(first time.Time) (string, string) {
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout)
}

func buildGrid(first time.Time, rows []models.CalendarEvent) *MonthGrid {
	days := first.AddDate(0, 1, -1).Day()
	byDate := make(map[string][]models.CalendarEvent, len(rows))
	for _, row := range rows {
		byDate[row.Date] = append(byDate[row.Date], row)
	}

	grid := &MonthGrid{
		Year:         first.Year(),
		Month:        int(first.Month()),
		DaysInMonth:  days,
		FirstWeekday: int(first.Weekday()),
		Days:         make([]GridDay, 0, days),
	}
	for d := 1; d <= days; d++ {
		date := first.AddDate(0, 0, d-1).Format(DateLayout)
		events := byDate[date]
		cell := GridDay{Day: d, Date: date, EventCount: len(events), Indicators: []Indicator{}}
		for i, ev := range events {
			if i == maxIndicators {
				cell.Overflow = len(events) - maxIndicators
				break
			}
			info, _ := ev.Type.Info()
			cell.Indicators = append(cell.Indicators, Indicator{ID: ev.ID, Title: ev.Title, Type: ev.Type, Color: info.Color})
		}
		grid.Days = append(grid.Days, cell)
	}
	return grid
}
