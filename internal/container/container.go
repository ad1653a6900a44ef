package container

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"multiverse/browser/internal/client"
	"multiverse/browser/internal/config"
	"multiverse/browser/internal/handler"
	"multiverse/browser/internal/proxy"
	"multiverse/browser/internal/queue"
	"multiverse/browser/internal/repository"
	"multiverse/browser/internal/service"
	"multiverse/browser/internal/state"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const connectAttempts = 5

// Container holds all initialized components
type Container struct {
	Config *config.Config

	Pokemon       *service.PokemonService
	Marvel        *service.MarvelService
	RickAndMorty  *service.RickAndMortyService
	PersistWorker *service.PersistWorker

	Server *http.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized. Postgres
// and Redis are optional: when disabled, nothing is persisted or cached.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	proxySupplier := proxy.NewProxySupplier(ctx, cfg.HTTP.Proxies, cfg.PokeAPI.BaseURL+"/pokemon/1")

	var (
		marvelRepo repository.MarvelRepository
		taskQueue  *queue.RedisQueue
		cache      state.Cache = state.NopCache{}
	)

	if cfg.Database.Enabled {
		db, err := connectPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		container.db = db

		marvelRepo = repository.NewMarvelRepository(db)
		if err := marvelRepo.EnsureSchema(ctx); err != nil {
			container.Close()
			return nil, err
		}
		log.Info("✅ Connected to Postgres successfully")
	}

	if cfg.Redis.Enabled {
		rdb, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			container.Close()
			return nil, err
		}
		container.redis = rdb
		log.Info("✅ Connected to Redis successfully")

		cache = state.NewRedisCache(rdb, time.Duration(cfg.Redis.CacheTTL)*time.Second)

		if marvelRepo != nil {
			taskQueue, err = queue.NewRedisQueue(ctx, rdb, cfg.Redis)
			if err != nil {
				container.Close()
				return nil, err
			}
			container.PersistWorker = service.NewPersistWorker(taskQueue, marvelRepo, cfg.Redis.MinIdleTime)
		}
	}

	pokeClient := client.NewPokeAPIClient(cfg.PokeAPI, cfg.HTTP, proxySupplier)
	marvelClient := client.NewMarvelClient(cfg.Marvel, cfg.HTTP, proxySupplier)
	rmClient := client.NewRickAndMortyClient(cfg.RickAndMorty, cfg.HTTP, proxySupplier)

	container.Pokemon = service.NewPokemonService(pokeClient, cache)
	if taskQueue != nil {
		container.Marvel = service.NewMarvelService(marvelClient, marvelRepo, taskQueue, cache)
	} else {
		container.Marvel = service.NewMarvelService(marvelClient, marvelRepo, nil, cache)
	}
	container.RickAndMorty = service.NewRickAndMortyService(rmClient, cache, cfg.HTTP.MaxWorkers)

	router := handler.NewRouter(handler.RouterDependencies{
		Pokemon:      container.Pokemon,
		Marvel:       container.Marvel,
		RickAndMorty: container.RickAndMorty,
	})

	container.Server = &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	return container, nil
}

// Run serves HTTP and runs the persistence workers until ctx is cancelled.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("🚀 API listening on %s", c.Server.Addr)
		if err := c.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("🛑 Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return c.Server.Shutdown(shutdownCtx)
	})

	if c.PersistWorker != nil {
		g.Go(func() error {
			return c.PersistWorker.Run(ctx, c.Config.Redis.Workers)
		})
	}

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warnf("⚠️ Failed to close Redis client: %v", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}

func retry(ctx context.Context, what string, op func() error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectAttempts), ctx)
	return backoff.RetryNotify(op, b, func(err error, wait time.Duration) {
		log.Warnf("⚠️ %s not reachable, retrying in %v: %v", what, wait.Round(time.Millisecond), err)
	})
}

func connectPostgres(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	if err := retry(ctx, "Postgres", func() error { return db.Ping(ctx) }); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	return db, nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	if err := retry(ctx, "Redis", func() error { return rdb.Ping(ctx).Err() }); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}
