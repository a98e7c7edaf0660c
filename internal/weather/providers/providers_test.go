package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/i474232898/holiday-planner/internal/common"
	"github.com/i474232898/holiday-planner/internal/weather"
)

func testConfig(srv *httptest.Server) Config {
	return Config{
		HTTP: common.HTTPClientConfig{
			Client:  srv.Client(),
			Backoff: common.BackoffConfig{MaxRetries: 0, InitialInterval: time.Millisecond},
		},
		APIKey:      "test-key",
		ForecastURL: srv.URL + "/forecast",
		HistoryURL:  srv.URL + "/history",
	}
}

func coords(lat, lon float64) weather.Location {
	return weather.Location{City: "Minneapolis", Country: "US", Lat: &lat, Lon: &lon}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "openmeteo", "openweather", "weatherapi"} {
		if _, err := New(name, Config{}); err != nil {
			t.Errorf("New(%q) unexpected error: %v", name, err)
		}
	}
	if _, err := New("darksky", Config{}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestOpenMeteo_Forecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("start_date") != "2022-12-30" || q.Get("end_date") != "2023-01-01" {
			t.Errorf("unexpected range %s..%s", q.Get("start_date"), q.Get("end_date"))
		}
		if q.Get("daily") != "weathercode" {
			t.Errorf("expected daily=weathercode, got %q", q.Get("daily"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"daily":{"time":["2022-12-30","2022-12-31","2023-01-01"],"weathercode":[0,61,73]}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(testConfig(srv))
	got, err := p.Forecast(context.Background(), coords(44.98, -93.27), time.Date(2022, 12, 30, 0, 0, 0, 0, time.UTC), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]weather.Condition{
		"2022-12-30": weather.ConditionClear,
		"2022-12-31": weather.ConditionRain,
		"2023-01-01": weather.ConditionSnow,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("forecast mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenMeteo_HistoryRequiresCoordinates(t *testing.T) {
	p := NewOpenMeteoProvider(Config{})
	_, err := p.History(context.Background(), weather.Location{City: "Minneapolis"}, time.Now())
	if err == nil {
		t.Fatal("expected error without coordinates")
	}
}

func TestOpenMeteo_HistoryMissingDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily":{"time":[],"weathercode":[]}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(testConfig(srv))
	if _, err := p.History(context.Background(), coords(1, 2), time.Date(2022, 12, 28, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Fatal("expected error when the day is missing")
	}
}

func TestOpenWeather_HistoryAndForecast(t *testing.T) {
	today := time.Now().UTC()
	tomorrow := today.AddDate(0, 0, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("appid") != "test-key" {
			t.Errorf("expected appid, got %q", q.Get("appid"))
		}
		switch r.URL.Path {
		case "/history":
			if q.Get("dt") == "" || q.Get("lat") == "" {
				t.Errorf("expected dt and lat, got %v", q)
			}
			w.Write([]byte(`{"current":{"weather":[{"main":"Clouds"}]}}`))
		case "/forecast":
			if q.Get("q") != "Minneapolis,US" {
				t.Errorf("expected city query, got %q", q.Get("q"))
			}
			json.NewEncoder(w).Encode(map[string]any{
				"list": []map[string]any{
					{"dt": today.Unix(), "weather": []map[string]string{{"main": "Snow"}}},
					{"dt": tomorrow.Unix(), "weather": []map[string]string{{"main": "Rain"}}},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(testConfig(srv))

	cond, err := p.History(context.Background(), coords(44.98, -93.27), today)
	if err != nil {
		t.Fatalf("History unexpected error: %v", err)
	}
	if cond != weather.ConditionCloudy {
		t.Errorf("History() = %q, want cloudy", cond)
	}

	got, err := p.Forecast(context.Background(), coords(44.98, -93.27), tomorrow, 1)
	if err != nil {
		t.Fatalf("Forecast unexpected error: %v", err)
	}
	want := map[string]weather.Condition{dateKey(tomorrow): weather.ConditionRain}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("forecast should only cover the requested days (-want +got):\n%s", diff)
	}
}

func TestOpenWeather_HistoryV3Shape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"weather":[{"main":"Thunderstorm"}]}]}`))
	}))
	defer srv.Close()

	cond, err := NewOpenWeatherProvider(testConfig(srv)).History(context.Background(), coords(1, 2), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cond != weather.ConditionStorm {
		t.Errorf("History() = %q, want storm", cond)
	}
}

func TestOpenWeather_RequiresCredentials(t *testing.T) {
	p := NewOpenWeatherProvider(Config{})
	if _, err := p.Forecast(context.Background(), coords(1, 2), time.Now(), 1); err == nil {
		t.Error("expected error without key or headers")
	}
}

func TestWeatherAPI_History(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/history" || r.URL.Query().Get("dt") != "2022-12-28" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		w.Write([]byte(`{"forecast":{"forecastday":[{"date":"2022-12-28","day":{"condition":{"text":"Patchy light snow"}}}]}}`))
	}))
	defer srv.Close()

	cond, err := NewWeatherAPIProvider(testConfig(srv)).History(context.Background(), weather.Location{City: "Minneapolis", Country: "US"}, time.Date(2022, 12, 28, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cond != weather.ConditionSnow {
		t.Errorf("History() = %q, want snow", cond)
	}
}

func TestWeatherAPI_ServerErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewWeatherAPIProvider(testConfig(srv)).Forecast(context.Background(), weather.Location{City: "Minneapolis"}, time.Now(), 2)
	if err == nil {
		t.Fatal("expected error from failing provider")
	}
}

func TestConditionMapping(t *testing.T) {
	tests := []struct {
		text string
		want weather.Condition
	}{
		{"Sunny", weather.ConditionClear},
		{"Partly cloudy", weather.ConditionCloudy},
		{"Moderate rain", weather.ConditionRain},
		{"Thundery outbreaks possible", weather.ConditionStorm},
		{"Freezing fog", weather.ConditionMist},
		{"Light sleet", weather.ConditionSnow},
		{"", weather.ConditionUnknown},
	}
	for _, tt := range tests {
		if got := mapWeatherAPICondition(tt.text); got != tt.want {
			t.Errorf("mapWeatherAPICondition(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}

	if got := mapOpenMeteoCondition(45); got != weather.ConditionMist {
		t.Errorf("mapOpenMeteoCondition(45) = %q", got)
	}
}

func TestForecastWindowCountsFromConfiguredClock(t *testing.T) {
	// Thursday 2022-12-29; the rest of the week is three days starting Friday.
	now := func() time.Time { return time.Date(2022, 12, 29, 15, 0, 0, 0, time.UTC) }
	from := time.Date(2022, 12, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		provider string
		param    string
	}{
		{"openweather", "cnt"},
		{"weatherapi", "days"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			var got string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Query().Get(tt.param)
				w.Write([]byte(`{}`))
			}))
			defer srv.Close()

			cfg := testConfig(srv)
			cfg.Now = now
			p, err := New(tt.provider, cfg)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := p.Forecast(context.Background(), coords(44.98, -93.27), from, 3); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			// Today plus the three requested days.
			if got != "4" {
				t.Errorf("%s = %q, want 4", tt.param, got)
			}
		})
	}
}
