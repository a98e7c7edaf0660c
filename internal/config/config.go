package config

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/holiday-planner/internal/common"
	"github.com/i474232898/holiday-planner/internal/logging"
	"github.com/i474232898/holiday-planner/internal/weather"
)

type AppConfig struct {
	// DataFile is loaded at startup and written by sync/serve.
	DataFile string `validate:"required"`
	// SaveDir is where the interactive Save option writes <name>.json.
	SaveDir string

	Source         string `validate:"oneof=timeanddate calendar none"`
	SourceURL      string `validate:"omitempty,url"`
	SourceHeaders  map[string]string
	YearsBack      int `validate:"gte=0,lte=50"`
	YearsAhead     int `validate:"gte=0,lte=50"`
	HTTPTimeout    time.Duration `validate:"gt=0"`
	WeatherEnabled bool

	WeatherProvider    string `validate:"oneof=openmeteo openweather weatherapi"`
	WeatherAPIKey      string
	WeatherHeaders     map[string]string
	WeatherForecastURL string `validate:"omitempty,url"`
	WeatherHistoryURL  string `validate:"omitempty,url"`
	WeatherUnits       string `validate:"oneof=standard metric imperial"`
	Location           weather.Location
	GeocoderAPIKey     string

	Port         string `validate:"required,numeric"`
	SyncInterval time.Duration `validate:"gte=0"`

	LogLevel  slog.Level
	LogFormat string `validate:"oneof=text json"`
}

// Load reads configuration from the environment (and a .env file if present) with
// sensible defaults, then validates it.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{}

	cfg.DataFile = getenvDefault("HOLIDAYS_FILE", "data/holidays.json")
	cfg.SaveDir = getenvDefault("HOLIDAYS_SAVE_DIR", ".")
	cfg.Source = getenvDefault("HOLIDAYS_SOURCE", "timeanddate")
	cfg.SourceURL = os.Getenv("HOLIDAYS_SOURCE_URL")
	cfg.SourceHeaders = common.ParseHeaders(os.Getenv("HOLIDAYS_SOURCE_HEADERS"))
	cfg.YearsBack = getenvInt("HOLIDAYS_YEARS_BACK", 2)
	cfg.YearsAhead = getenvInt("HOLIDAYS_YEARS_AHEAD", 2)

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.WeatherEnabled = getenvBool("WEATHER_ENABLED", true)
	cfg.WeatherProvider = getenvDefault("WEATHER_PROVIDER", "openmeteo")
	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	cfg.WeatherHeaders = common.ParseHeaders(os.Getenv("WEATHER_API_HEADERS"))
	cfg.WeatherForecastURL = os.Getenv("WEATHER_FORECAST_URL")
	cfg.WeatherHistoryURL = os.Getenv("WEATHER_HISTORY_URL")
	cfg.WeatherUnits = getenvDefault("WEATHER_UNITS", "imperial")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	loc, err := loadLocation()
	if err != nil {
		return nil, err
	}
	cfg.Location = loc

	cfg.Port = getenvDefault("PORT", "8080")
	interval, err := time.ParseDuration(getenvDefault("SYNC_INTERVAL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL: %w", err)
	}
	cfg.SyncInterval = interval

	cfg.LogFormat = getenvDefault("LOG_FORMAT", "text")
	level, err := logging.ParseLevel(getenvDefault("LOG_LEVEL", "warn"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// HTTPClientConfig returns the resilient client settings for outbound calls.
func (c *AppConfig) HTTPClientConfig(headers map[string]string) common.HTTPClientConfig {
	return common.HTTPClientConfig{
		Client:  newHTTPClient(c.HTTPTimeout),
		Backoff: common.DefaultBackoff,
		Headers: headers,
	}
}

// loadLocation defaults to Minneapolis. A configured city without coordinates is left
// for the geocoder to resolve.
func loadLocation() (weather.Location, error) {
	city := os.Getenv("WEATHER_LOCATION_CITY")
	loc := weather.Location{
		City:    getenvDefault("WEATHER_LOCATION_CITY", "Minneapolis"),
		Country: getenvDefault("WEATHER_LOCATION_COUNTRY", "US"),
	}

	latStr, lonStr := os.Getenv("WEATHER_LOCATION_LAT"), os.Getenv("WEATHER_LOCATION_LON")
	if latStr == "" && lonStr == "" {
		if city != "" {
			return loc, nil
		}
		latStr, lonStr = "44.986656", "-93.2650"
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return loc, fmt.Errorf("invalid WEATHER_LOCATION_LAT: %w", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return loc, fmt.Errorf("invalid WEATHER_LOCATION_LON: %w", err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return loc, fmt.Errorf("weather location %f,%f is out of range", lat, lon)
	}
	loc.Lat = &lat
	loc.Lon = &lon
	return loc, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err == nil {
			return b
		}
	}
	return def
}
