package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"

	"specials-server/activity"
	"specials-server/api"
	"specials-server/api/geocoding"
	"specials-server/config"
	"specials-server/dao/redis"
	"specials-server/dao/sqlite"
	"specials-server/db"
	"specials-server/models"
	"specials-server/server"
	"specials-server/server/handlers"
	services "specials-server/service"
	"specials-server/util"
)

// Container holds all application dependencies.
type Container struct {
	Config              *config.Config
	RedisClient         db.RedisClient
	SQLiteDB            *sql.DB
	VenueStore          services.VenueStore
	GeocodeCache        services.GeocodeCache
	GeocodingAPI        geocoding.GeocodingAPI
	Evaluator           *activity.Evaluator
	LocationResolver    *services.LocationResolver
	SearchService       *services.SearchService
	VenueService        *services.VenueService
	VenueCatalogService *services.VenueCatalogService
	SearchHandler       *handlers.SearchHandler
	VenueHandler        *handlers.VenueHandler
	MuxRouter           *mux.Router
	Router              *server.Router
	SpecialsHttpServer  *server.SpecialsHttpServer

	closers []func() error
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Printf("initializing container - env: %s, store: %s", cfg.Env, cfg.Store.Driver)
	c := &Container{Config: cfg}

	if err := c.initStore(ctx); err != nil {
		c.Close()
		return nil, err
	}

	geocodingAPI, err := newGeocodingAPI(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.GeocodingAPI = geocodingAPI

	c.Evaluator = activity.NewEvaluator(nil)
	c.LocationResolver = services.NewLocationResolver(c.GeocodingAPI, c.GeocodeCache)
	c.SearchService = services.NewSearchService(c.VenueStore, c.LocationResolver, c.Evaluator, cfg.Search)
	c.VenueService = services.NewVenueService(c.VenueStore, c.Evaluator)
	c.VenueCatalogService = services.NewVenueCatalogService(c.VenueStore, c.GeocodingAPI)

	c.SearchHandler = handlers.NewSearchHandler(c.SearchService, cfg.Search.DefaultPageSize)
	c.VenueHandler = handlers.NewVenueHandler(c.SearchService, c.VenueService, cfg.Search.DefaultPageSize)

	c.MuxRouter = mux.NewRouter()
	c.Router = server.NewRouter(c.SearchHandler, c.VenueHandler, c.MuxRouter)
	c.SpecialsHttpServer = server.NewSpecialsHttpServer(c.Router, c.MuxRouter, cfg.HTTP.Address, cfg.ShutdownTimeout())

	return c, nil
}

func (c *Container) initStore(ctx context.Context) error {
	cfg := c.Config
	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Store.Redis.Address,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		c.closers = append(c.closers, redisInternalClient.Close)

		redisClient := db.NewGeoRedisClient(redisInternalClient)
		if err := redisClient.Ping(ctx); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.RedisClient = redisClient
		c.VenueStore = redis.NewRedisVenueDAO(redisClient)
		c.GeocodeCache = redis.NewRedisGeocodeCache(redisClient, cfg.GeocodeCacheTTL())

	case config.StoreDriverSQLite:
		if dir := filepath.Dir(cfg.Store.SQLite.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		sqliteDB, err := sqlite.Open(cfg.Store.SQLite.Path)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, sqliteDB.Close)
		c.SQLiteDB = sqliteDB
		c.VenueStore = sqlite.NewSQLiteVenueDAO(sqliteDB)
		c.GeocodeCache = sqlite.NewSQLiteGeocodeCache(sqliteDB, cfg.GeocodeCacheTTL())

	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	return nil
}

// newGeocodingAPI returns the Nominatim client in prod and a fixture-backed mock elsewhere.
func newGeocodingAPI(cfg *config.Config) (geocoding.GeocodingAPI, error) {
	if cfg.IsProd() {
		log.Printf("Using prod geocoding api at %s", cfg.Geocoding.BaseURL)
		httpClient := api.NewHTTPClientWithTimeout(cfg.Geocoding.BaseURL, cfg.GeocodingTimeout())
		return geocoding.NewNominatimApiClient(httpClient, cfg.Geocoding.UserAgent, cfg.Geocoding.RequestsPerSecond), nil
	}

	fixtures := map[string]models.GeocodeResult{}
	path := config.GetResourcePath(config.GEOCODE_FIXTURES_RESOURCE)
	loaded, err := util.ReadGeocodeFixturesFromJSON(path)
	switch {
	case err == nil:
		fixtures = loaded
	case errors.Is(err, os.ErrNotExist):
		log.Printf("No geocode fixtures at %s", path)
	default:
		return nil, err
	}
	log.Printf("Using mock geocoding api with %d fixtures", len(fixtures))
	return geocoding.NewGeocodingApiClientMock(fixtures), nil
}

// Close releases store connections.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
