package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"itinerary-planner-service/internal/adapters/cache"
	"itinerary-planner-service/internal/adapters/distance"
	"itinerary-planner-service/internal/adapters/repositories"
	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/platform/db"
	"itinerary-planner-service/internal/ports"
	"itinerary-planner-service/internal/services"
	"log"
)

// App is the composition root shared by the binaries. It wires concrete
// adapters (caches, geocoder, router, record store) behind ports.
type App struct {
	Config  config.Config
	Planner *services.Planner
	Trips   *services.TripPlanner
	Repo    ports.TripRepository

	memoryTrips bool
	postgres    *sql.DB
	closers     []func() error
}

type Option func(*App)

// WithMemoryTrips keeps trips in memory even when DATABASE_URL is set.
func WithMemoryTrips() Option {
	return func(a *App) { a.memoryTrips = true }
}

// New builds the planning stack described by cfg. An empty DatabaseURL keeps
// trips in memory.
func New(ctx context.Context, cfg config.Config, opts ...Option) (_ *App, err error) {
	a := &App{Config: cfg}
	for _, opt := range opts {
		opt(a)
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	coords, legs, err := a.openCaches(ctx)
	if err != nil {
		return nil, err
	}

	geocoder, err := distance.NewNominatimGeocoder(distance.GeocoderOptions{
		BaseURL:       cfg.GeocoderURL,
		UserAgent:     cfg.GeocoderUserAgent,
		Timeout:       cfg.GeocodeTimeout,
		Delay:         cfg.GeocodeDelay,
		RatePerSecond: float64(cfg.GeocodeRate),
		Burst:         1,
	})
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	router, err := distance.NewOSRMRouter(cfg.RouterURL, cfg.GeocoderUserAgent, cfg.RouteTimeout)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	resolver := services.NewCoordinateResolver(geocoder, coords, cfg.BatchSize, cfg.BatchDelay)
	distances := services.NewDistanceService(router, legs, cfg.BatchSize, cfg.BatchDelay)
	a.Planner = services.NewPlanner(resolver, distances, cfg.FirstDayOffset)

	if a.Repo, err = a.openRepository(ctx); err != nil {
		return nil, err
	}
	a.Trips = services.NewTripPlanner(a.Repo, a.Planner, services.NewRunRegistry())
	return a, nil
}

// Close releases every handle New opened, newest first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("app: close: %v", err)
		}
	}
	a.closers = nil
}

func (a *App) postgresDB() (*sql.DB, error) {
	if a.postgres != nil {
		return a.postgres, nil
	}
	if a.Config.DatabaseURL == "" {
		return nil, errors.New("app: DATABASE_URL is required")
	}
	pg, err := db.Open(a.Config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	a.postgres = pg
	a.closers = append(a.closers, pg.Close)
	return pg, nil
}

func (a *App) openCaches(ctx context.Context) (ports.CoordinateStore, ports.LegCache, error) {
	cfg := a.Config
	switch cfg.CacheBackend {
	case "memory":
		return cache.NewMemoryCoordinateStore(), cache.NewMemoryLegCache(cfg.LegCacheTTL), nil

	case "sqlite":
		sq, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("app: %w", err)
		}
		a.closers = append(a.closers, sq.Close)
		if err := cache.InitSQLiteSchema(ctx, sq); err != nil {
			return nil, nil, fmt.Errorf("app: %w", err)
		}
		return cache.NewSqliteCoordinateStore(sq), cache.NewSqliteLegCache(sq, cfg.LegCacheTTL), nil

	case "postgres":
		pg, err := a.postgresDB()
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitPostgresSchema(ctx, pg); err != nil {
			return nil, nil, fmt.Errorf("app: %w", err)
		}
		return cache.NewSQLCoordinateStore(pg), cache.NewMemoryLegCache(cfg.LegCacheTTL), nil

	case "redis":
		client := cache.NewRedisClient(cfg.RedisURL, cfg.RedisPassword)
		a.closers = append(a.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("app: ping redis %s: %w", cfg.RedisURL, err)
		}
		return cache.NewRedisCoordinateStore(client), cache.NewMemoryLegCache(cfg.LegCacheTTL), nil

	default:
		return nil, nil, fmt.Errorf("app: unknown cache backend %q", cfg.CacheBackend)
	}
}

func (a *App) openRepository(ctx context.Context) (ports.TripRepository, error) {
	var (
		repo   ports.TripRepository
		writer repositories.TripWriter
	)

	if a.memoryTrips || a.Config.DatabaseURL == "" {
		log.Println("app: trips are kept in memory")
		mem := repositories.NewMemoryTripRepository()
		repo, writer = mem, mem
	} else {
		pg, err := a.postgresDB()
		if err != nil {
			return nil, err
		}
		gdb, err := db.OpenGorm(pg)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		if err := repositories.Migrate(gdb); err != nil {
			return nil, fmt.Errorf("app: migrate record store: %w", err)
		}
		gr := repositories.NewGormTripRepository(gdb)
		repo, writer = gr, gr
	}

	if a.Config.TripSeed != "" {
		id, err := repositories.SeedFromJSON(ctx, writer, a.Config.TripSeed)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		log.Printf("app: seeded trip id=%s from %s", id, a.Config.TripSeed)
	}
	return repo, nil
}
