package di

import (
	"context"
	"fmt"
	"time"

	"SentinelFeed/internal/domain/models"
	"SentinelFeed/internal/domain/repository"
	"SentinelFeed/internal/feed"
	"SentinelFeed/internal/handler/api"
	mid "SentinelFeed/internal/middleware"
	internalrepo "SentinelFeed/internal/repository"
	"SentinelFeed/internal/service/ratelimit"
	"SentinelFeed/internal/service/sentinelapi"
	"SentinelFeed/internal/usecase"
	"SentinelFeed/pkg/cache"
	pkgch "SentinelFeed/pkg/clickhouse"
	"SentinelFeed/pkg/config"
	xhttp "SentinelFeed/pkg/http"
	pkgkafka "SentinelFeed/pkg/kafka"
	applogger "SentinelFeed/pkg/logger"
	"SentinelFeed/pkg/metrics"
	"SentinelFeed/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New()
}

// ProvideBackend returns the fraud API client, or nil when no endpoint is
// configured so the controller goes straight to simulated mode.
func ProvideBackend(cfg *config.Config, logger *applogger.Logger) repository.Backend {
	if !cfg.Live() {
		return nil
	}
	hc := xhttp.NewClient(
		xhttp.WithBaseURL(cfg.Feed.APIURL),
		xhttp.WithTimeout(cfg.Feed.RequestTimeout),
		xhttp.WithUserAgent("sentinel-feed/1.0"),
	)
	return sentinelapi.New(hc, logger.With("sentinelapi"))
}

func ProvideProber(cfg *config.Config, backend repository.Backend, m repository.Metrics, logger *applogger.Logger) *usecase.Prober {
	return usecase.NewProber(backend, cfg.Feed.ProbeTimeout, m, logger.With("prober"))
}

func ProvideLiveFetcher(cfg *config.Config, backend repository.Backend, m repository.Metrics, logger *applogger.Logger) *usecase.LiveFetcher {
	return usecase.NewLiveFetcher(backend, m, logger.With("fetcher"),
		usecase.WithFetchLimit(cfg.Feed.FetchLimit),
		usecase.WithRequestTimeout(cfg.Feed.RequestTimeout),
	)
}

func ProvideAlertSimulator() *usecase.AlertSimulator {
	return usecase.NewAlertSimulator(nil)
}

func ProvideStatsDrifter() *usecase.StatsDrifter {
	return usecase.NewStatsDrifter(nil)
}

func ProvideFeedState(cfg *config.Config) *feed.State {
	return feed.NewState(cfg.Feed.BufferCapacity, models.InitialStatistics(), nil)
}

// ProvideClickHouseClient connects to ClickHouse and creates the alert archive
// schema. Returns nil when the archive is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, false),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.AlertArchiveSchema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates the alert producer. Returns nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithTopic(cfg.Kafka.Topic),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithBatchTimeout(cfg.Kafka.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithAutoCreateTopic(cfg.Kafka.AutoCreate),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideRedisCache connects the snapshot mirror cache. Returns nil when Redis is disabled.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	c, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideAlertIndex indexes shown alerts by ID in Redis when enabled, else in
// process. Returns nil when the index TTL is zero.
func ProvideAlertIndex(cfg *config.Config, redisCache *cache.RedisCache) *internalrepo.AlertIndex {
	if cfg.Feed.AlertIndexTTL <= 0 {
		return nil
	}
	if redisCache != nil {
		return internalrepo.NewAlertIndex(redisCache, cfg.Feed.AlertIndexTTL)
	}
	return internalrepo.NewAlertIndex(
		cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Feed.AlertIndexSize)),
		cfg.Feed.AlertIndexTTL,
	)
}

// ProvideFeedSinks assembles the enabled sinks.
func ProvideFeedSinks(
	cfg *config.Config,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
	redisCache *cache.RedisCache,
	index *internalrepo.AlertIndex,
) []repository.FeedSink {
	var sinks []repository.FeedSink
	if index != nil {
		sinks = append(sinks, index)
	}
	if producer != nil {
		sinks = append(sinks, internalrepo.NewKafkaAlertSink(producer))
	}
	if chClient != nil {
		sinks = append(sinks, internalrepo.NewClickHouseAlertArchive(chClient.DB(), chClient.Database()))
	}
	if redisCache != nil {
		sinks = append(sinks, internalrepo.NewSnapshotMirror(redisCache, cfg.Redis.SnapshotTTL))
	}
	return sinks
}

func ProvideSinkPipeline(cfg *config.Config, sinks []repository.FeedSink, m repository.Metrics, logger *applogger.Logger) *mid.SinkPipeline {
	return mid.NewSinkPipeline(sinks, m,
		mid.WithBufferSize(cfg.Sinks.BufferSize),
		mid.WithPipelineLogger(logger.With("sinks")),
	)
}

func ProvideFeedController(
	cfg *config.Config,
	state *feed.State,
	prober *usecase.Prober,
	fetcher *usecase.LiveFetcher,
	sim *usecase.AlertSimulator,
	drifter *usecase.StatsDrifter,
	pipeline *mid.SinkPipeline,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.FeedController {
	return usecase.NewFeedController(state, prober, fetcher, sim, drifter,
		usecase.WithIntervals(cfg.Feed.AlertInterval, cfg.Feed.StatsInterval),
		usecase.WithDispatcher(pipeline),
		usecase.WithMetrics(m),
		usecase.WithLogger(logger.With("feed")),
	)
}

func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(float64(cfg.Server.RateBurst), cfg.Server.RateRefill)
}

func ProvideFeedHandler(
	cfg *config.Config,
	logger *applogger.Logger,
	ctrl *usecase.FeedController,
	limiter *ratelimit.Limiter,
	index *internalrepo.AlertIndex,
) *api.FeedEchoHandler {
	opts := []api.FeedHandlerOption{
		api.WithRateLimiter(limiter),
		api.WithPingInterval(cfg.Server.WSPingInterval),
	}
	if index != nil {
		opts = append(opts, api.WithAlertIndex(index))
	}
	return api.NewFeedEchoHandler(logger.With("api"), ctrl, opts...)
}

func ProvideHTTPServer(cfg *config.Config, logger *applogger.Logger, h *api.FeedEchoHandler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer([]xhttp.Handler{h},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithLogger(logger.With("http")),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	ctrl *usecase.FeedController,
	srv *xhttp.Server,
	limiter *ratelimit.Limiter,
	chClient *pkgch.Client,
) *server.App {
	app := server.New(cfg, logger, ctrl, srv)
	app.Background(func(ctx context.Context) {
		limiter.RunJanitor(ctx, time.Minute, 10*time.Minute)
	})
	// kafka and redis are closed by their sinks; the archive shares the pool
	if chClient != nil {
		app.OnClose("clickhouse", chClient)
	}
	return app
}
