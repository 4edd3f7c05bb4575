package di

import (
	"fmt"

	"BankBrain/internal/domain/repository"
	"BankBrain/internal/handler/api"
	internalrepo "BankBrain/internal/repository"
	"BankBrain/internal/service/ratelimit"
	"BankBrain/internal/services/bank"
	"BankBrain/internal/services/gateway"
	"BankBrain/internal/services/llm"
	"BankBrain/internal/services/toolserver"
	"BankBrain/internal/usecase"
	"BankBrain/pkg/cache"
	"BankBrain/pkg/config"
	xhttp "BankBrain/pkg/http"
	pkgkafka "BankBrain/pkg/kafka"
	applogger "BankBrain/pkg/logger"
	"BankBrain/pkg/metrics"
	"BankBrain/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ProvideRegistry creates the per-process Prometheus registry.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when no brokers are
// configured.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger builds the service logger. Error logs are aggregated to the
// log topic when Kafka is configured.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if producer != nil && cfg.Kafka.LogTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			Service:   cfg.Service,
			Topic:     cfg.Kafka.LogTopic,
			Publisher: producer,
		})
	}
	return l.With(applogger.String("service", cfg.Service)), nil
}

// ProvideGenerator picks the text generator named by llm.provider.
func ProvideGenerator(cfg *config.Config) (repository.Generator, error) {
	switch cfg.LLM.Provider {
	case "openai":
		g, err := llm.NewOpenAI(llm.OpenAIConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("llm: %w", err)
		}
		return g, nil
	default:
		return llm.NewMock(), nil
	}
}

// ProvideAlertPublisher returns nil without a producer; the risk monitor
// then skips publishing.
func ProvideAlertPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.AlertPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaAnomalyPublisher(producer, cfg.Kafka.AlertTopic)
}

// ProvideRiskMonitor assembles the poll loop.
func ProvideRiskMonitor(
	cfg *config.Config,
	gen repository.Generator,
	alerts repository.AlertPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.RiskMonitor {
	tools := toolserver.New(cfg.Services.MCPURL, cfg.Risk.ToolTimeout)
	notifier := gateway.NewNotifier(cfg.Services.A2AURL, cfg.Risk.Destination, cfg.Risk.Capability, cfg.Risk.NotifyTimeout)

	var opts []usecase.RiskMonitorOption
	if alerts != nil {
		opts = append(opts, usecase.WithAlertPublisher(alerts))
	}
	return usecase.NewRiskMonitor(usecase.PollConfig{
		SubjectID: cfg.Risk.SubjectID,
		SinceDays: cfg.Risk.SinceDays,
		Interval:  cfg.Risk.PollInterval,
	}, tools, gen, notifier, m, l, opts...)
}

// ProvideRouter assembles the gateway routing boundary.
func ProvideRouter(cfg *config.Config, m repository.Metrics, l *applogger.Logger) *usecase.Router {
	return usecase.NewRouter(
		usecase.SupportRoutes(cfg.Services.SupportURL),
		gateway.NewHTTPForwarder(cfg.Gateway.ForwardTimeout),
		m, l,
	)
}

// ProvideChatService assembles the support chat.
func ProvideChatService(cfg *config.Config, gen repository.Generator, m repository.Metrics, l *applogger.Logger) *usecase.ChatService {
	tools := toolserver.New(cfg.Services.MCPURL, cfg.Support.ToolTimeout)
	return usecase.NewChatService(tools, gen, m, l, cfg.Support.SinceDays)
}

// ProvideBankCache returns nil when caching is disabled. With Redis
// configured the memory cache is layered over it.
func ProvideBankCache(cfg *config.Config) (cache.Service, error) {
	if cfg.ToolServer.CacheTTL <= 0 {
		return nil, nil
	}
	if cfg.Redis.Addr == "" {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.ToolServer.CacheSize)), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc,
		cache.WithLayeredMemorySize(cfg.ToolServer.CacheSize),
		cache.WithLayeredMemoryTTL(cfg.ToolServer.CacheTTL),
	), nil
}

// ProvideToolDispatcher assembles the tool server over the bank API.
func ProvideToolDispatcher(cfg *config.Config, c cache.Service, m repository.Metrics, l *applogger.Logger) *usecase.ToolDispatcher {
	opts := []bank.Option{
		bank.WithRateLimit(cfg.ToolServer.RateLimit, cfg.ToolServer.RateBurst),
		bank.WithMetrics(m),
	}
	if c != nil {
		opts = append(opts, bank.WithCache(c, cfg.ToolServer.CacheTTL))
	}
	client := bank.New(cfg.Services.BankBaseURL, cfg.ToolServer.BankTimeout, opts...)
	return usecase.NewToolDispatcher(client, m, l)
}

// ProvideHTTPServer creates the Echo server for the given handler.
func ProvideHTTPServer(cfg *config.Config, reg *prometheus.Registry, l *applogger.Logger, h xhttp.Handler) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, reg, reg))
	}
	return xhttp.NewServer(l, []xhttp.Handler{h}, opts...)
}

// ProvideGatewayHandler exposes the router.
func ProvideGatewayHandler(l *applogger.Logger, r *usecase.Router) xhttp.Handler {
	return api.NewGatewayEchoHandler(l, r)
}

// ProvideSupportHandler exposes the chat service.
func ProvideSupportHandler(cfg *config.Config, l *applogger.Logger, chat *usecase.ChatService) xhttp.Handler {
	return api.NewSupportEchoHandler(l, chat, ratelimit.New(cfg.Support.ChatRate, cfg.Support.ChatBurst))
}

// ProvideToolServerHandler exposes the tool dispatcher.
func ProvideToolServerHandler(l *applogger.Logger, d *usecase.ToolDispatcher) xhttp.Handler {
	return api.NewToolServerEchoHandler(l, d)
}

// ProvideRiskAgentApp runs the poll loop next to a health endpoint.
func ProvideRiskAgentApp(
	cfg *config.Config,
	reg *prometheus.Registry,
	l *applogger.Logger,
	monitor *usecase.RiskMonitor,
	alerts repository.AlertPublisher,
) *server.App {
	srv := ProvideHTTPServer(cfg, reg, l, api.NewHealthHandler())
	opts := []server.AppOption{server.WithRunner(monitor)}
	if alerts != nil {
		opts = append(opts, server.WithCloser(alerts))
	}
	return server.New(cfg.Service, l, srv, opts...)
}

// ProvideApp wraps a handler-only service.
func ProvideApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, producer *pkgkafka.Producer) *server.App {
	var opts []server.AppOption
	if producer != nil {
		opts = append(opts, server.WithCloser(producer))
	}
	return server.New(cfg.Service, l, srv, opts...)
}

// ProvideToolServerApp also releases the bank cache on shutdown.
func ProvideToolServerApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, producer *pkgkafka.Producer, c cache.Service) *server.App {
	app := ProvideApp(cfg, l, srv, producer)
	if c != nil {
		server.WithCloser(c)(app)
	}
	return app
}
