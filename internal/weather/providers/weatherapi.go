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

// WeatherAPIProvider implements weather.Provider for WeatherAPI.com.
type WeatherAPIProvider struct {
	name        string
	apiKey      string
	forecastURL string
	historyURL  string
	now         func() time.Time
	httpCfg     common.HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(cfg Config) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:        "weatherapi",
		apiKey:      cfg.APIKey,
		forecastURL: orDefault(cfg.ForecastURL, "https://api.weatherapi.com/v1/forecast.json"),
		historyURL:  orDefault(cfg.HistoryURL, "https://api.weatherapi.com/v1/history.json"),
		now:         cfg.clock(),
		httpCfg:     cfg.HTTP,
		circuit:     common.NewBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// forecastDays is the shared shape of forecast.json and history.json.
type forecastDays struct {
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				Condition struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) Forecast(ctx context.Context, loc weather.Location, from time.Time, days int) (map[string]weather.Condition, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be greater than zero")
	}
	// forecast.json counts from today.
	total := days + int(dayOf(from).Sub(dayOf(p.now())).Hours()/24)
	if total < days {
		total = days
	}

	payload, err := p.get(ctx, p.forecastURL, loc, func(values url.Values) {
		values.Set("days", strconv.Itoa(total))
	})
	if err != nil {
		return nil, err
	}

	first, last := dateKey(from), dateKey(from.AddDate(0, 0, days-1))
	out := make(map[string]weather.Condition, days)
	for _, fd := range payload.Forecast.ForecastDay {
		if fd.Date < first || fd.Date > last {
			continue
		}
		out[fd.Date] = mapWeatherAPICondition(fd.Day.Condition.Text)
	}
	return out, nil
}

func (p *WeatherAPIProvider) History(ctx context.Context, loc weather.Location, day time.Time) (weather.Condition, error) {
	payload, err := p.get(ctx, p.historyURL, loc, func(values url.Values) {
		values.Set("dt", dateKey(day))
	})
	if err != nil {
		return weather.ConditionUnknown, err
	}
	for _, fd := range payload.Forecast.ForecastDay {
		if fd.Date == dateKey(day) {
			return mapWeatherAPICondition(fd.Day.Condition.Text), nil
		}
	}
	return weather.ConditionUnknown, fmt.Errorf("weatherapi returned no data for %s", dateKey(day))
}

func (p *WeatherAPIProvider) get(ctx context.Context, endpoint string, loc weather.Location, set func(url.Values)) (forecastDays, error) {
	if p.apiKey == "" {
		return forecastDays{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "city,country" or "lat,lon".
		if loc.HasCoordinates() {
			values.Set("q", fmt.Sprintf("%f,%f", *loc.Lat, *loc.Lon))
		} else {
			values.Set("q", loc.Query())
		}
		set(values)

		u := fmt.Sprintf("%s?%s", endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := common.DoWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return forecastDays{}, err
	}
	defer resp.Body.Close()

	var payload forecastDays
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return forecastDays{}, err
	}
	return payload, nil
}

func mapWeatherAPICondition(text string) weather.Condition {
	switch {
	case text == "":
		return weather.ConditionUnknown
	case common.HasAny(text, "thunder", "storm"):
		return weather.ConditionStorm
	case common.HasAny(text, "snow", "sleet", "blizzard", "ice pellets"):
		return weather.ConditionSnow
	case common.HasAny(text, "rain", "shower", "drizzle"):
		return weather.ConditionRain
	case common.HasAny(text, "mist", "fog"):
		return weather.ConditionMist
	case common.HasAny(text, "cloud", "overcast"):
		return weather.ConditionCloudy
	case common.HasAny(text, "sunny", "clear"):
		return weather.ConditionClear
	default:
		return weather.ConditionUnknown
	}
}
