// Package container wires the application together with samber/do. Each
// *Package function registers one concern; binaries compose the set they
// need. Adapters are selected once at startup and injected explicitly, not
// looked up from ambient state.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luizdk/shortener/internal/analytics"
	"github.com/luizdk/shortener/internal/handlers"
	"github.com/luizdk/shortener/internal/idgen"
	"github.com/luizdk/shortener/internal/maintenance"
	"github.com/luizdk/shortener/internal/messaging"
	"github.com/luizdk/shortener/internal/middleware"
	"github.com/luizdk/shortener/internal/ratelimit"
	"github.com/luizdk/shortener/internal/shortener"
	"github.com/luizdk/shortener/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// Options holds the process configuration, populated from flags and
// environment by humacli.
type Options struct {
	Port          int    `default:"8888"             help:"Port to listen on"                            short:"p"`
	BaseURL       string `default:""                 help:"Public base URL for generated short links (defaults to http://localhost:<port>)"`
	RedisAddr     string `default:"localhost:6379"   help:"Redis server address"                         short:"r"`
	PostgresDSN   string `default:""                 help:"Postgres DSN; empty runs on the in-memory store"`
	Salt          string `default:""                 help:"Secret salt for short code generation"`
	MinCodeLength int    `default:"5"                help:"Minimum length of generated short codes"      short:"c"`
	SweepSchedule string `default:"*/10 * * * *"     help:"Cron schedule for the expired-record sweep"`
	LogFormat     string `default:"console"          help:"Log format: console or json"`
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the pgx connection pool. Only invoked when a DSN
// is configured.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		pool, err := pgxpool.New(context.Background(), options.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		return pool, nil
	})
}

// RepositoryPackage provides the record repository, cache, allocator, codec,
// and the short URL service built on top of them.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		options := do.MustInvoke[*Options](i)

		if options.PostgresDSN == "" {
			return store.NewMemoryStore(), nil
		}

		return store.NewPostgresStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (shortener.Cache, error) {
		return store.NewRedisCache(do.MustInvoke[*redis.Client](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (shortener.IDAllocator, error) {
		return idgen.NewRedisAllocator(do.MustInvoke[*redis.Client](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Codec, error) {
		options := do.MustInvoke[*Options](i)

		return shortener.NewCodec(options.Salt, options.MinCodeLength)
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		return shortener.NewService(
			do.MustInvoke[shortener.Repository](i),
			do.MustInvoke[shortener.Cache](i),
			do.MustInvoke[shortener.IDAllocator](i),
			do.MustInvoke[*shortener.Codec](i),
			time.Now,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// RateLimitPackage provides the limiter consumed by the HTTP middleware.
// No backend is bundled; the default allows every request.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (ratelimit.Limiter, error) {
		return ratelimit.NewAllowAll(), nil
	})
}

// PublisherGroupPackage provides the watermill publisher and typed publish
// functions for the analytics events.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:     do.MustInvoke[*redis.Client](i),
			Marshaller: &redisstream.DefaultMarshallerUnmarshaller{},
		}, watermill.NopLogger{})
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.URLCreatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.URLCreatedEvent](group.Publisher(), analytics.TopicURLCreated), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.URLAccessedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.URLAccessedEvent](group.Publisher(), analytics.TopicURLAccessed), nil
	})
}

// ConsumerPackage provides the analytics consumer that persists click
// counts onto the records.
func ConsumerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*analytics.Consumer, error) {
		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*redis.Client](i),
			Unmarshaller:  &redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: "analytics",
		}, watermill.NopLogger{})
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		clickStore := analytics.NewClickStore(
			do.MustInvoke[shortener.Repository](i),
			do.MustInvoke[*zap.Logger](i),
		)

		return analytics.NewConsumer(subscriber, clickStore, do.MustInvoke[*zap.Logger](i)), nil
	})
}

// MaintenancePackage provides the expired-record sweeper.
func MaintenancePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*maintenance.Sweeper, error) {
		options := do.MustInvoke[*Options](i)

		return maintenance.NewSweeper(
			do.MustInvoke[*shortener.Service](i),
			options.SweepSchedule,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// HTTPPackage provides the chi router and the huma API with all routes and
// middleware registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		baseURL := options.BaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d", options.Port)
		}

		router := do.MustInvoke[*chi.Mux](i)
		api := humachi.New(router, huma.DefaultConfig("URL Shortener", "1.0.0"))

		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.RateLimiter(api, do.MustInvoke[ratelimit.Limiter](i)),
		)

		urlHandler := handlers.NewURLHandler(
			do.MustInvoke[*shortener.Service](i),
			baseURL,
			do.MustInvoke[messaging.Publish[analytics.URLCreatedEvent]](i),
			do.MustInvoke[messaging.Publish[analytics.URLAccessedEvent]](i),
			logger,
		)

		counterHandler := handlers.NewCounterHandler(
			do.MustInvoke[shortener.IDAllocator](i),
			logger,
		)

		var postgresPinger handlers.Pinger
		if options.PostgresDSN != "" {
			postgresPinger = handlers.NewPostgresPinger(do.MustInvoke[*pgxpool.Pool](i))
		}

		healthHandler := handlers.NewHealthHandler(
			handlers.NewRedisPinger(do.MustInvoke[*redis.Client](i)),
			postgresPinger,
		)

		handlers.RegisterRoutes(api, urlHandler, counterHandler, healthHandler)

		return api, nil
	})
}
