package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/i474232898/holiday-planner/internal/config"
	"github.com/i474232898/holiday-planner/internal/holiday"
	"github.com/i474232898/holiday-planner/internal/holiday/sources"
	"github.com/i474232898/holiday-planner/internal/logging"
	"github.com/i474232898/holiday-planner/internal/storage"
	"github.com/i474232898/holiday-planner/internal/store"
	"github.com/i474232898/holiday-planner/internal/weather"
	"github.com/i474232898/holiday-planner/internal/weather/providers"
)

// openStore loads the data file into a fresh store. A missing file yields an empty
// store; an unreadable or corrupt one is fatal.
func openStore(ctx context.Context, c *config.AppConfig) (*store.HolidayStore, storage.Backend, error) {
	logger := logging.New("storage")
	backend := storage.Open(c.DataFile)
	st := store.NewHolidayStore()

	records, err := backend.Load(ctx)
	if errors.Is(err, storage.ErrNoData) {
		logger.Info("no saved holidays; starting empty", "path", backend.Path())
		return st, backend, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load holidays: %w", err)
	}
	n, err := st.Load(records)
	if err != nil {
		return nil, nil, fmt.Errorf("load holidays from %s: %w", backend.Path(), err)
	}
	logger.Info("holidays loaded", "path", backend.Path(), "count", n)
	return st, backend, nil
}

// newSource returns the configured holiday source, or nil when importing is off.
func newSource(c *config.AppConfig) holiday.Source {
	switch c.Source {
	case "timeanddate":
		return sources.NewTimeAndDateSource(c.HTTPClientConfig(c.SourceHeaders), c.SourceURL, logging.New("timeanddate"))
	case "calendar":
		return sources.NewCalendarSource()
	default:
		return nil
	}
}

// importWindow imports the configured year window around now into st.
func importWindow(ctx context.Context, c *config.AppConfig, st *store.HolidayStore, now time.Time) (holiday.ImportSummary, error) {
	source := newSource(c)
	if source == nil {
		return holiday.ImportSummary{}, nil
	}
	svc := holiday.NewService(st, source, logging.New("import"))
	return svc.Import(ctx, holiday.YearWindow(now, c.YearsBack, c.YearsAhead))
}

// newWeatherService builds the weather decorator, or returns nil when weather is
// disabled or cannot be configured.
func newWeatherService(c *config.AppConfig) *weather.Service {
	logger := logging.New("weather")
	if !c.WeatherEnabled {
		return nil
	}

	provider, err := providers.New(c.WeatherProvider, providers.Config{
		HTTP:        c.HTTPClientConfig(c.WeatherHeaders),
		APIKey:      c.WeatherAPIKey,
		ForecastURL: c.WeatherForecastURL,
		HistoryURL:  c.WeatherHistoryURL,
		Units:       c.WeatherUnits,
	})
	if err != nil {
		logger.Warn("weather disabled", "error", err)
		return nil
	}

	var geocode weather.Geocoder
	if c.GeocoderAPIKey != "" {
		geocode = weather.GoogleGeocoder(c.GeocoderAPIKey)
	}
	loc, err := weather.ResolveLocation(c.Location, geocode)
	if err != nil {
		logger.Warn("could not resolve weather location", "location", c.Location.Key(), "error", err)
	}
	return weather.NewService(provider, loc, logger)
}

// printSummary reports an import on out; per-year failures are already logged.
func printSummary(out io.Writer, summary holiday.ImportSummary) {
	fmt.Fprintf(out, "Imported %d new holidays (%d already known, %d skipped)", summary.Added, summary.Duplicates, summary.Skipped)
	if n := len(summary.FailedYears); n > 0 {
		fmt.Fprintf(out, "; %d years failed", n)
	}
	fmt.Fprintln(out)
}
