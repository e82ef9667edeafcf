package di

import (
	"context"
	"fmt"
	"time"

	domrepo "EstatePulse/internal/domain/repository"
	"EstatePulse/internal/handler/api"
	"EstatePulse/internal/handler/web"
	"EstatePulse/internal/handler/ws"
	internalrepo "EstatePulse/internal/repository"
	"EstatePulse/internal/service/feed"
	"EstatePulse/internal/usecase"
	"EstatePulse/pkg/cache"
	pkgch "EstatePulse/pkg/clickhouse"
	"EstatePulse/pkg/config"
	xhttp "EstatePulse/pkg/http"
	pkgkafka "EstatePulse/pkg/kafka"
	"EstatePulse/pkg/logger"
	"EstatePulse/pkg/metrics"
	"EstatePulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCache creates the cache service for the configured backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "redis", "layered":
		redisCache, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Redis.Host),
			cache.WithRedisPort(cfg.Redis.Port),
			cache.WithRedisPassword(cfg.Redis.Password),
			cache.WithRedisDB(cfg.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		if cfg.Cache.Backend == "redis" {
			return redisCache, nil
		}
		return cache.NewLayeredCache(redisCache, cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize)), nil
	default:
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize)), nil
	}
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the
// snapshot schema exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.SnapshotSchema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideSnapshotStore creates the ClickHouse snapshot store.
func ProvideSnapshotStore(chClient *pkgch.Client, cfg *config.Config) domrepo.SnapshotStore {
	return internalrepo.NewClickHouseSnapshotStore(chClient.DB(), cfg.ClickHouse.Database)
}

// ProvideEconomicFeed creates the upstream feed client wrapped with the
// cache layer.
func ProvideEconomicFeed(cfg *config.Config, c cache.Service, m domrepo.Metrics) domrepo.EconomicFeed {
	client := feed.New(cfg.Feed.BaseURL, cfg.Feed.APIKey, cfg.Feed.Timeout, m)
	return feed.NewCached(client, c, feed.TTLs{
		Indicators: cfg.Feed.CacheTTL.Indicators,
		Impact:     cfg.Feed.CacheTTL.Impact,
		Insights:   cfg.Feed.CacheTTL.Insights,
	})
}

// ProvideDashboardLoader creates the dashboard section loader.
func ProvideDashboardLoader(f domrepo.EconomicFeed, m domrepo.Metrics, log *logger.Logger) *usecase.DashboardLoader {
	return usecase.NewDashboardLoader(f, m, log)
}

// ProvideHub creates the websocket broadcast hub.
func ProvideHub(log *logger.Logger, m domrepo.Metrics) *ws.Hub {
	return ws.NewHub(log, m)
}

// ProvideNotifier exposes the hub as the refresh notifier.
func ProvideNotifier(hub *ws.Hub) usecase.Notifier {
	return hub
}

// ProvideRefresher creates the periodic snapshot refresher.
func ProvideRefresher(
	f domrepo.EconomicFeed,
	store domrepo.SnapshotStore,
	m domrepo.Metrics,
	log *logger.Logger,
	notifier usecase.Notifier,
	cfg *config.Config,
) *usecase.SnapshotRefresher {
	return usecase.NewSnapshotRefresher(f, store, m, log, notifier, cfg.Feed.RefreshInterval)
}

// ProvideKafkaConsumer creates a Kafka consumer, or nil when ingest is
// disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideIngestHandler creates the indicator ingest message handler.
func ProvideIngestHandler(
	cfg *config.Config,
	c cache.Service,
	store domrepo.SnapshotStore,
	m domrepo.Metrics,
	log *logger.Logger,
	notifier usecase.Notifier,
) *usecase.IndicatorIngestHandler {
	return usecase.NewIndicatorIngestHandler(
		cfg.Kafka.Topic, c, cfg.Feed.CacheTTL.Indicators, store, m, log, notifier)
}

// ProvideDashboardHandler creates the JSON API handler.
func ProvideDashboardHandler(log *logger.Logger, f domrepo.EconomicFeed, store domrepo.SnapshotStore) *api.DashboardHandler {
	return api.NewDashboardHandler(log, f, store)
}

// ProvidePagesHandler creates the server-rendered pages handler.
func ProvidePagesHandler(log *logger.Logger, loader *usecase.DashboardLoader, cfg *config.Config) *web.PagesHandler {
	return web.NewPagesHandler(log, loader, cfg.DemoMode)
}

// ProvideHandlers collects all HTTP route handlers.
func ProvideHandlers(apiHandler *api.DashboardHandler, pages *web.PagesHandler, hub *ws.Hub) []xhttp.Handler {
	return []xhttp.Handler{apiHandler, pages, hub}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	refresher *usecase.SnapshotRefresher,
	consumer *pkgkafka.Consumer,
	ingest *usecase.IndicatorIngestHandler,
	hub *ws.Hub,
	chClient *pkgch.Client,
	c cache.Service,
	handlers []xhttp.Handler,
) *server.App {
	return server.New(cfg, log, refresher, consumer, ingest, hub, chClient, c, handlers)
}
