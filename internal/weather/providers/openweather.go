package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/holiday-planner/internal/common"
	"github.com/i474232898/holiday-planner/internal/weather"
)

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap: the daily
// forecast endpoint for upcoming days and the one-call time machine for past days.
// Either an appid key or gateway headers (e.g. RapidAPI) authenticate requests.
type OpenWeatherProvider struct {
	name        string
	apiKey      string
	forecastURL string
	historyURL  string
	units       string
	now         func() time.Time
	httpCfg     common.HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(cfg Config) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:        "openweathermap",
		apiKey:      cfg.APIKey,
		forecastURL: orDefault(cfg.ForecastURL, "https://api.openweathermap.org/data/2.5/forecast/daily"),
		historyURL:  orDefault(cfg.HistoryURL, "https://api.openweathermap.org/data/3.0/onecall/timemachine"),
		units:       orDefault(cfg.Units, "imperial"),
		now:         cfg.clock(),
		httpCfg:     cfg.HTTP,
		circuit:     common.NewBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type owWeather struct {
	Main string `json:"main"`
}

func (p *OpenWeatherProvider) Forecast(ctx context.Context, loc weather.Location, from time.Time, days int) (map[string]weather.Condition, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be greater than zero")
	}
	if p.apiKey == "" && len(p.httpCfg.Headers) == 0 {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	// The daily forecast starts today; ask for enough entries to reach the last day.
	cnt := days + int(dayOf(from).Sub(dayOf(p.now())).Hours()/24)
	if cnt < days {
		cnt = days
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		if p.apiKey != "" {
			values.Set("appid", p.apiKey)
		}
		values.Set("q", loc.Query())
		values.Set("cnt", strconv.Itoa(cnt))
		values.Set("units", p.units)

		u := fmt.Sprintf("%s?%s", p.forecastURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := common.DoWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt      int64       `json:"dt"`
			Weather []owWeather `json:"weather"`
		} `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	last := from.AddDate(0, 0, days-1)
	out := make(map[string]weather.Condition, days)
	for _, item := range payload.List {
		d := dayOf(time.Unix(item.Dt, 0).UTC())
		if d.Before(dayOf(from)) || d.After(dayOf(last)) {
			continue
		}
		out[dateKey(d)] = mapOpenWeatherCondition(item.Weather)
	}
	return out, nil
}

func (p *OpenWeatherProvider) History(ctx context.Context, loc weather.Location, day time.Time) (weather.Condition, error) {
	if !loc.HasCoordinates() {
		return weather.ConditionUnknown, fmt.Errorf("openweather history requires latitude and longitude")
	}
	if p.apiKey == "" && len(p.httpCfg.Headers) == 0 {
		return weather.ConditionUnknown, fmt.Errorf("openweather api key is not configured")
	}

	// Noon UTC keeps the timestamp inside the requested day.
	ts := dayOf(day).Add(12 * time.Hour)
	if now := p.now(); ts.After(now) {
		ts = now
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		if p.apiKey != "" {
			values.Set("appid", p.apiKey)
		}
		values.Set("lat", fmt.Sprintf("%f", *loc.Lat))
		values.Set("lon", fmt.Sprintf("%f", *loc.Lon))
		values.Set("dt", strconv.FormatInt(ts.Unix(), 10))
		values.Set("units", p.units)

		u := fmt.Sprintf("%s?%s", p.historyURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := common.DoWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.ConditionUnknown, err
	}
	defer resp.Body.Close()

	// 2.5 responses carry "current", 3.0 responses a "data" array.
	var payload struct {
		Current struct {
			Weather []owWeather `json:"weather"`
		} `json:"current"`
		Data []struct {
			Weather []owWeather `json:"weather"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ConditionUnknown, err
	}

	items := payload.Current.Weather
	if len(items) == 0 && len(payload.Data) > 0 {
		items = payload.Data[0].Weather
	}
	return mapOpenWeatherCondition(items), nil
}

func mapOpenWeatherCondition(items []owWeather) weather.Condition {
	if len(items) == 0 {
		return weather.ConditionUnknown
	}
	switch items[0].Main {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionCloudy
	case "Rain", "Drizzle":
		return weather.ConditionRain
	case "Snow":
		return weather.ConditionSnow
	case "Thunderstorm":
		return weather.ConditionStorm
	case "Mist", "Fog", "Haze":
		return weather.ConditionMist
	default:
		return weather.ConditionUnknown
	}
}
