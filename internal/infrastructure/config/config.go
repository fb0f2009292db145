package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/example/seatsched/internal/domain/seat"
	"github.com/example/seatsched/internal/internaltypes"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "SEATSCHED"

type Config struct {
	Host     string `mapstructure:"host"`
	Timezone string `mapstructure:"timezone"`
	// Date is YYYYMMDD or YYYY-MM-DD; empty means today in Timezone.
	Date   string `mapstructure:"date"`
	RoomID string `mapstructure:"room_id"`
	Areas  []Area `mapstructure:"areas"`

	Window              WindowConfig    `mapstructure:"window"`
	FreeRatio           FreeRatioConfig `mapstructure:"free_ratio"`
	SeatRange           SeatRangeConfig `mapstructure:"seat_range"`
	RequireFullCoverage bool            `mapstructure:"require_full_coverage"`
	Reserve             ReserveConfig   `mapstructure:"reserve"`

	FetchIntervalSeconds  int `mapstructure:"fetch_interval_seconds"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`

	Session SessionConfig `mapstructure:"session"`
	Status  StatusConfig  `mapstructure:"status"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type Area struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

type WindowConfig struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

type FreeRatioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Min     float64 `mapstructure:"min"`
}

type SeatRangeConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Min     int  `mapstructure:"min"`
	Max     int  `mapstructure:"max"`
}

type ReserveConfig struct {
	Enabled                 bool `mapstructure:"enabled"`
	AutoConfirmDeltaMinutes int  `mapstructure:"auto_confirm_delta_minutes"`
	DisableDelta            bool `mapstructure:"disable_delta"`
}

type SessionConfig struct {
	// Cookie is the raw Cookie header of a logged-in browser session.
	Cookie string `mapstructure:"cookie"`
}

type StatusConfig struct {
	Addr string `mapstructure:"addr"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads .env, then the optional YAML file at path, then SEATSCHED_*
// environment variables (SEATSCHED_WINDOW_START etc.). It does not validate.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "https://icspace.dlufl.edu.cn")
	v.SetDefault("timezone", "Asia/Shanghai")
	v.SetDefault("date", "")
	v.SetDefault("room_id", "")

	v.SetDefault("window.start", "08:30")
	v.SetDefault("window.end", "22:00")

	v.SetDefault("free_ratio.enabled", false)
	v.SetDefault("free_ratio.min", 0.0)

	v.SetDefault("seat_range.enabled", false)
	v.SetDefault("seat_range.min", 0)
	v.SetDefault("seat_range.max", 0)

	v.SetDefault("require_full_coverage", false)

	v.SetDefault("reserve.enabled", true)
	v.SetDefault("reserve.auto_confirm_delta_minutes", 40)
	v.SetDefault("reserve.disable_delta", false)

	v.SetDefault("fetch_interval_seconds", 3)
	v.SetDefault("request_timeout_seconds", 10)

	v.SetDefault("session.cookie", "")
	v.SetDefault("status.addr", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate rejects configurations the engine cannot run with. Every error
// wraps internaltypes.ErrConfig.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return internaltypes.ConfigErrorf("host %q is not an absolute URL", c.Host)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return internaltypes.ConfigErrorf("timezone %q: %v", c.Timezone, err)
	}
	if _, err := c.parseDate(time.UTC); err != nil {
		return err
	}
	if strings.TrimSpace(c.RoomID) == "" {
		return internaltypes.ConfigErrorf("room_id is required")
	}
	if _, err := c.SearchWindow(); err != nil {
		return err
	}
	if c.FreeRatio.Enabled && (c.FreeRatio.Min < 0 || c.FreeRatio.Min > 1) {
		return internaltypes.ConfigErrorf("free_ratio.min must be within [0, 1] (got %v)", c.FreeRatio.Min)
	}
	if c.SeatRange.Enabled {
		if c.SeatRange.Min < 0 {
			return internaltypes.ConfigErrorf("seat_range.min must be >= 0")
		}
		if c.SeatRange.Max < c.SeatRange.Min {
			return internaltypes.ConfigErrorf("seat_range is inverted (%d > %d)", c.SeatRange.Min, c.SeatRange.Max)
		}
	}
	if c.Reserve.AutoConfirmDeltaMinutes < 0 {
		return internaltypes.ConfigErrorf("reserve.auto_confirm_delta_minutes must be >= 0")
	}
	if c.FetchIntervalSeconds < 1 {
		return internaltypes.ConfigErrorf("fetch_interval_seconds must be >= 1")
	}
	if c.RequestTimeoutSeconds < 1 {
		return internaltypes.ConfigErrorf("request_timeout_seconds must be >= 1")
	}
	for _, a := range c.Areas {
		if strings.TrimSpace(a.ID) == "" {
			return internaltypes.ConfigErrorf("area %q has no id", a.Name)
		}
	}
	return nil
}

func (c *Config) SearchWindow() (seat.SearchWindow, error) {
	start, err := seat.ParseClock(c.Window.Start)
	if err != nil {
		return seat.SearchWindow{}, internaltypes.ConfigErrorf("window.start: %v", err)
	}
	end, err := seat.ParseClock(c.Window.End)
	if err != nil {
		return seat.SearchWindow{}, internaltypes.ConfigErrorf("window.end: %v", err)
	}
	if start >= seat.MinutesPerDay {
		return seat.SearchWindow{}, internaltypes.ConfigErrorf("window.start must be before 24:00")
	}
	if start >= end {
		return seat.SearchWindow{}, internaltypes.ConfigErrorf("window %s-%s is empty or inverted", c.Window.Start, c.Window.End)
	}
	return seat.SearchWindow{Start: start, End: end}, nil
}

func (c *Config) Constraints() seat.Constraints {
	return seat.Constraints{
		FreeRatio:           seat.FreeRatio{Enabled: c.FreeRatio.Enabled, Min: c.FreeRatio.Min},
		SeatRange:           seat.SeatRange{Enabled: c.SeatRange.Enabled, Min: c.SeatRange.Min, Max: c.SeatRange.Max},
		RequireFullCoverage: c.RequireFullCoverage,
		AutoConfirmDelta:    time.Duration(c.Reserve.AutoConfirmDeltaMinutes) * time.Minute,
		DisableDelta:        c.Reserve.DisableDelta,
		ReservationEnabled:  c.Reserve.Enabled,
	}
}

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// DayStart resolves the target date to local midnight. now is used when no
// date is configured.
func (c *Config) DayStart(now time.Time) (time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, internaltypes.ConfigErrorf("timezone %q: %v", c.Timezone, err)
	}
	d, err := c.parseDate(loc)
	if err != nil {
		return time.Time{}, err
	}
	if d.IsZero() {
		d = now
	}
	return seat.DayStart(d, loc), nil
}

func (c *Config) parseDate(loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(c.Date)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"20060102", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, internaltypes.ConfigErrorf("date %q (want YYYYMMDD or YYYY-MM-DD)", c.Date)
}

// ResolveArea maps an area name or id to a room id. Unknown values are
// returned unchanged so raw ids keep working.
func (c *Config) ResolveArea(nameOrID string) string {
	for _, a := range c.Areas {
		if a.Name == nameOrID || a.ID == nameOrID {
			return a.ID
		}
	}
	return nameOrID
}

func (c *Config) FetchInterval() time.Duration {
	return time.Duration(c.FetchIntervalSeconds) * time.Second
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
