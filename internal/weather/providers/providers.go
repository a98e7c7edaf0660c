package providers

import (
	"fmt"
	"time"

	"github.com/i474232898/holiday-planner/internal/common"
	"github.com/i474232898/holiday-planner/internal/holiday"
	"github.com/i474232898/holiday-planner/internal/weather"
)

// Config carries endpoint, credential and transport settings for a provider.
// Empty URLs fall back to each provider's public endpoint.
type Config struct {
	HTTP        common.HTTPClientConfig
	APIKey      string
	ForecastURL string
	HistoryURL  string
	Units       string
	// Now is the clock forecast windows are counted from. Defaults to time.Now.
	Now func() time.Time
}

// New builds the provider registered under name.
func New(name string, cfg Config) (weather.Provider, error) {
	switch name {
	case "openmeteo", "":
		return NewOpenMeteoProvider(cfg), nil
	case "openweather":
		return NewOpenWeatherProvider(cfg), nil
	case "weatherapi":
		return NewWeatherAPIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown weather provider %q", name)
	}
}

func (c Config) clock() func() time.Time {
	if c.Now == nil {
		return time.Now
	}
	return c.Now
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func dayOf(t time.Time) time.Time {
	return holiday.Day(t)
}

func dateKey(t time.Time) string {
	return t.Format(holiday.DateLayout)
}
