package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/holiday-planner/internal/common"
	"github.com/i474232898/holiday-planner/internal/weather"
)

// OpenMeteoProvider implements weather.Provider for Open-Meteo. It needs no API key
// but requires coordinates. Past and future days use the same daily endpoint.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(cfg Config) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: orDefault(cfg.ForecastURL, "https://api.open-meteo.com/v1/forecast"),
		httpCfg: cfg.HTTP,
		circuit: common.NewBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) History(ctx context.Context, loc weather.Location, day time.Time) (weather.Condition, error) {
	daily, err := p.daily(ctx, loc, day, day)
	if err != nil {
		return weather.ConditionUnknown, err
	}
	cond, ok := daily[dateKey(day)]
	if !ok {
		return weather.ConditionUnknown, fmt.Errorf("openmeteo returned no data for %s", dateKey(day))
	}
	return cond, nil
}

func (p *OpenMeteoProvider) Forecast(ctx context.Context, loc weather.Location, from time.Time, days int) (map[string]weather.Condition, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be greater than zero")
	}
	return p.daily(ctx, loc, from, from.AddDate(0, 0, days-1))
}

func (p *OpenMeteoProvider) daily(ctx context.Context, loc weather.Location, start, end time.Time) (map[string]weather.Condition, error) {
	if !loc.HasCoordinates() {
		return nil, fmt.Errorf("openmeteo requires latitude and longitude")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", *loc.Lat))
		values.Set("longitude", fmt.Sprintf("%f", *loc.Lon))
		values.Set("daily", "weathercode")
		values.Set("timezone", "UTC")
		values.Set("start_date", dateKey(start))
		values.Set("end_date", dateKey(end))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := common.DoWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Daily struct {
			Time        []string `json:"time"`
			WeatherCode []int    `json:"weathercode"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Daily.Time) != len(payload.Daily.WeatherCode) {
		return nil, fmt.Errorf("openmeteo returned mismatched daily arrays")
	}

	out := make(map[string]weather.Condition, len(payload.Daily.Time))
	for i, d := range payload.Daily.Time {
		out[d] = mapOpenMeteoCondition(payload.Daily.WeatherCode[i])
	}
	return out, nil
}

func mapOpenMeteoCondition(code int) weather.Condition {
	// Mapping based on WMO weather codes (simplified).
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionStorm
	default:
		return weather.ConditionUnknown
	}
}
