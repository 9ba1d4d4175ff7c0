package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Redis Config
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB_PASSWORD = ""
const REDIS_DB = 0

// SQLite Config
const SQLITE_DB_PATH = "./data/specials.db"

// HTTP server config
const HTTP_ADDRESS = ":8080"
const HTTP_SHUTDOWN_TIMEOUT_SECONDS = 5

// Geocoding config (Nominatim usage policy: at most 1 request per second)
const GEOCODING_ENDPOINT_BASE_V1 = "https://nominatim.openstreetmap.org"
const GEOCODING_USER_AGENT = "specials-server/1.0"
const GEOCODING_REQUESTS_PER_SECOND = 1.0
const GEOCODING_TIMEOUT_SECONDS = 10
const GEOCODING_CACHE_TTL_HOURS = 24 * 7

// Search config
const SEARCH_PARALLEL_THRESHOLD = 64
const SEARCH_DEFAULT_PAGE_SIZE = 20

// Venue catalog refresher config
const VENUES_CATALOG_REFRESHER_SCHEDULE_MINUTES = 60

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const VENUE_CATALOG_RESOURCE = "venue_catalog.json"
const GEOCODE_FIXTURES_RESOURCE = "geocode_fixtures.json"

const (
	StoreDriverRedis  = "redis"
	StoreDriverSQLite = "sqlite"
)

type Config struct {
	Env       string          `yaml:"env"`
	HTTP      HTTPConfig      `yaml:"http"`
	Store     StoreConfig     `yaml:"store"`
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Search    SearchConfig    `yaml:"search"`
	Catalog   CatalogConfig   `yaml:"catalog"`
}

type HTTPConfig struct {
	Address                string `yaml:"address"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

type StoreConfig struct {
	Driver string      `yaml:"driver"`
	Redis  RedisConfig `yaml:"redis"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type GeocodingConfig struct {
	BaseURL           string  `yaml:"base_url"`
	UserAgent         string  `yaml:"user_agent"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	CacheTTLHours     int     `yaml:"cache_ttl_hours"`
}

type SearchConfig struct {
	// EvaluationWorkers caps concurrent venue evaluation; 0 means GOMAXPROCS.
	EvaluationWorkers int `yaml:"evaluation_workers"`
	ParallelThreshold int `yaml:"parallel_threshold"`
	DefaultPageSize   int `yaml:"default_page_size"`
}

type CatalogConfig struct {
	Path                  string `yaml:"path"`
	RefreshMinutes        int    `yaml:"refresh_minutes"`
	LoadOnStartup         bool   `yaml:"load_on_startup"`
	EnablePeriodicRefresh bool   `yaml:"enable_periodic_refresh"`
}

// Default returns the configuration used when no file or environment overrides are present.
func Default() *Config {
	cfg := &Config{
		Env: "dev",
		HTTP: HTTPConfig{
			Address:                HTTP_ADDRESS,
			ShutdownTimeoutSeconds: HTTP_SHUTDOWN_TIMEOUT_SECONDS,
		},
		Store: StoreConfig{
			Driver: StoreDriverRedis,
			Redis: RedisConfig{
				Address:  REDIS_DB_ADDRESS,
				Password: REDIS_DB_PASSWORD,
				DB:       REDIS_DB,
			},
		},
		Geocoding: GeocodingConfig{
			BaseURL:           GEOCODING_ENDPOINT_BASE_V1,
			UserAgent:         GEOCODING_USER_AGENT,
			RequestsPerSecond: GEOCODING_REQUESTS_PER_SECOND,
			TimeoutSeconds:    GEOCODING_TIMEOUT_SECONDS,
			CacheTTLHours:     GEOCODING_CACHE_TTL_HOURS,
		},
		Search: SearchConfig{
			ParallelThreshold: SEARCH_PARALLEL_THRESHOLD,
			DefaultPageSize:   SEARCH_DEFAULT_PAGE_SIZE,
		},
		Catalog: CatalogConfig{
			Path:           GetResourcePath(VENUE_CATALOG_RESOURCE),
			RefreshMinutes: VENUES_CATALOG_REFRESHER_SCHEDULE_MINUTES,
		},
	}
	cfg.Store.SQLite.Path = SQLITE_DB_PATH
	return cfg
}

// Load reads the YAML file at path (optional, empty path skips it) on top of the
// defaults, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %q: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("SPECIALS_ENV", &cfg.Env)
	setString("SPECIALS_HTTP_ADDRESS", &cfg.HTTP.Address)
	setString("SPECIALS_STORE_DRIVER", &cfg.Store.Driver)
	setString("SPECIALS_REDIS_ADDRESS", &cfg.Store.Redis.Address)
	setString("SPECIALS_REDIS_PASSWORD", &cfg.Store.Redis.Password)
	setString("SPECIALS_SQLITE_PATH", &cfg.Store.SQLite.Path)
	setString("SPECIALS_GEOCODING_BASE_URL", &cfg.Geocoding.BaseURL)
	setString("SPECIALS_GEOCODING_USER_AGENT", &cfg.Geocoding.UserAgent)
	setString("SPECIALS_CATALOG_PATH", &cfg.Catalog.Path)

	if raw := os.Getenv("SPECIALS_REDIS_DB"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid SPECIALS_REDIS_DB %q: %w", raw, err)
		}
		cfg.Store.Redis.DB = n
	}
	if raw := os.Getenv("SPECIALS_EVALUATION_WORKERS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid SPECIALS_EVALUATION_WORKERS %q: %w", raw, err)
		}
		cfg.Search.EvaluationWorkers = n
	}
	return nil
}

// Validate rejects configurations the container cannot wire.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case StoreDriverRedis:
		if c.Store.Redis.Address == "" {
			errs = append(errs, errors.New("store.redis.address is required"))
		}
	case StoreDriverSQLite:
		if c.Store.SQLite.Path == "" {
			errs = append(errs, errors.New("store.sqlite.path is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}
	if c.IsProd() && c.Geocoding.BaseURL == "" {
		errs = append(errs, errors.New("geocoding.base_url is required in prod"))
	}
	if c.Geocoding.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("geocoding.requests_per_second must be positive"))
	}
	if c.Search.EvaluationWorkers < 0 {
		errs = append(errs, errors.New("search.evaluation_workers must not be negative"))
	}
	if c.Search.DefaultPageSize < 1 {
		errs = append(errs, errors.New("search.default_page_size must be at least 1"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.HTTP.ShutdownTimeoutSeconds) * time.Second
}

func (c *Config) GeocodingTimeout() time.Duration {
	return time.Duration(c.Geocoding.TimeoutSeconds) * time.Second
}

func (c *Config) GeocodeCacheTTL() time.Duration {
	return time.Duration(c.Geocoding.CacheTTLHours) * time.Hour
}

func (c *Config) CatalogRefreshInterval() time.Duration {
	return time.Duration(c.Catalog.RefreshMinutes) * time.Minute
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resourceFile string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resourceFile)
}
