package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/i474232898/holiday-planner/internal/holiday"
)

// MaxHistoryDays is how many days (today included) the history endpoint is asked for.
// Providers keep no data further back.
const MaxHistoryDays = 5

// Service decorates the current ISO week with a weather descriptor per day.
type Service struct {
	provider Provider
	location Location
	logger   *slog.Logger
}

// NewService creates a new Service for a single configured location.
func NewService(provider Provider, location Location, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		location: location,
		logger:   logger,
	}
}

// WeekDates returns the seven YYYY-MM-DD dates, Monday to Sunday, of today's ISO week.
func WeekDates(today time.Time) []string {
	monday := weekStart(today)
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format(holiday.DateLayout)
	}
	return dates
}

func weekStart(today time.Time) time.Time {
	d := holiday.Day(today)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// Week returns a date -> descriptor mapping for the seven days of today's ISO week.
// Today and up to MaxHistoryDays-1 earlier days come from the history endpoint; later
// days from the forecast. Days without data are NotAvailable. Any provider failure
// abandons the whole mapping. Only meaningful for the current week.
func (s *Service) Week(ctx context.Context, today time.Time) (map[string]string, error) {
	if s.provider == nil {
		return nil, errors.New("no weather provider configured")
	}

	day := holiday.Day(today)
	dates := WeekDates(day)
	dow := (int(day.Weekday()) + 6) % 7

	weather := make(map[string]string, len(dates))
	for _, d := range dates {
		weather[d] = NotAvailable
	}

	if future := 6 - dow; future > 0 {
		forecast, err := s.provider.Forecast(ctx, s.location, day.AddDate(0, 0, 1), future)
		if err != nil {
			return nil, s.fail("forecast", err)
		}
		for _, d := range dates[dow+1:] {
			if cond, ok := forecast[d]; ok {
				weather[d] = string(cond)
			}
		}
	}

	for back := 0; back < MaxHistoryDays && back <= dow; back++ {
		d := day.AddDate(0, 0, -back)
		cond, err := s.provider.History(ctx, s.location, d)
		if err != nil {
			return nil, s.fail("history", err)
		}
		weather[d.Format(holiday.DateLayout)] = string(cond)
	}

	return weather, nil
}

func (s *Service) fail(endpoint string, err error) error {
	s.logger.Warn("weather lookup failed", "provider", s.provider.Name(), "endpoint", endpoint, "location", s.location.Key(), "error", err)
	return fmt.Errorf("%w: %s %s: %v", holiday.ErrExternal, s.provider.Name(), endpoint, err)
}
