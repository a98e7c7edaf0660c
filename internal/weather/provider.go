package weather

import (
	"context"
	"time"
)

// Provider abstracts a weather data source with a history endpoint for past days
// and a forecast endpoint for upcoming ones.
type Provider interface {
	Name() string

	// History returns the observed condition on day.
	History(ctx context.Context, loc Location, day time.Time) (Condition, error)

	// Forecast returns conditions for `days` consecutive days starting at from,
	// keyed by YYYY-MM-DD.
	Forecast(ctx context.Context, loc Location, from time.Time, days int) (map[string]Condition, error)
}
