package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/agroconnect/agroconnect-backend/internal/calendar"
)

type stubCalendarService struct {
	query     calendar.Query
	gridYear  int
	gridMonth int
}

func (s *stubCalendarService) Create(ctx context.Context, author calendar.Author, input calendar.CreateEventInput) (*calendar.CreateResult, error) {
	return &calendar.CreateResult{
		Event:   calendar.EventDTO{ID: uuid.New(), Title: input.Title, Date: input.Date},
		Message: "Event added successfully!",
	}, nil
}

func (s *stubCalendarService) List(ctx context.Context, q calendar.Query) ([]calendar.EventDTO, error) {
	s.query = q
	return []calendar.EventDTO{}, nil
}

func (s *stubCalendarService) Delete(ctx context.Context, userID, eventID uuid.UUID) error {
	return nil
}

func (s *stubCalendarService) Grid(ctx context.Context, year, month int) (*calendar.MonthGrid, error) {
	s.gridYear = year
	s.gridMonth = month
	return &calendar.MonthGrid{Year: year, Month: month}, nil
}

func (s *stubCalendarService) Upcoming(ctx context.Context) (*calendar.Upcoming, error) {
	return &calendar.Upcoming{Events: []calendar.EventDTO{}}, nil
}

func TestCalendarGridDefaultsToCurrentMonth(t *testing.T) {
	svc := &stubCalendarService{}
	now := time.Now().UTC()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/grid", nil)
	resp := httptest.NewRecorder()
	CalendarGrid(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gridYear != now.Year() || svc.gridMonth != int(now.Month()) {
		t.Fatalf("expected %d-%d got %d-%d", now.Year(), now.Month(), svc.gridYear, svc.gridMonth)
	}
}

func TestCalendarGridExplicitMonth(t *testing.T) {
	svc := &stubCalendarService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/grid?year=2024&month=2", nil)
	resp := httptest.NewRecorder()
	CalendarGrid(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gridYear != 2024 || svc.gridMonth != 2 {
		t.Fatalf("unexpected grid inputs %d-%d", svc.gridYear, svc.gridMonth)
	}
}

func TestCalendarGridRejectsMonthOutOfRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/grid?month=13", nil)
	resp := httptest.NewRecorder()
	CalendarGrid(&stubCalendarService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCalendarListRejectsBadDate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/events?date=15-03-2024", nil)
	resp := httptest.NewRecorder()
	CalendarListEvents(&stubCalendarService{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCalendarListPassesFilters(t *testing.T) {
	svc := &stubCalendarService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/events?date=2024-03-15&month=2024-03", nil)
	resp := httptest.NewRecorder()
	CalendarListEvents(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.query.Date != "2024-03-15" || svc.query.Month != "2024-03" {
		t.Fatalf("unexpected query %+v", svc.query)
	}
}

func TestCalendarEventTypesListsAllTypes(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/event-types", nil)
	resp := httptest.NewRecorder()
	CalendarEventTypes().ServeHTTP(resp, req)

	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 8 {
		t.Fatalf("expected 8 event types got %d", len(envelope.Data))
	}
}
