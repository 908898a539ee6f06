package di

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"netdesign/application/ports"
	"netdesign/application/services"
	"netdesign/domain/core/aggregates"
	"netdesign/domain/versioning"
	"netdesign/infrastructure/config"
	"netdesign/infrastructure/logging"
	"netdesign/infrastructure/observability"
	"netdesign/pkg/extensions"
)

// InitialDesignName names the empty design a new container starts with
const InitialDesignName = "untitled"

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Level   zap.AtomicLevel
	Metrics *observability.Collector
	Tracing *observability.TracerProvider
	Hooks   *extensions.HookManager
	Session *services.Session
	History *services.HistoryService
	Editor  *services.Editor
}

// ProvideLevel creates the runtime-adjustable log level
func ProvideLevel(cfg *config.Config) (zap.AtomicLevel, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return zap.AtomicLevel{}, err
	}
	return zap.NewAtomicLevelAt(level), nil
}

// ProvideLogger creates the application logger
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	return logging.Build(cfg.Environment, cfg.Logging.Format, level)
}

// ProvideCollector creates the Prometheus collector
func ProvideCollector(cfg *config.Config) *observability.Collector {
	return observability.NewCollector(cfg.Metrics.Namespace)
}

// ProvideHistoryMetrics returns the collector, or nil when metrics are disabled
func ProvideHistoryMetrics(cfg *config.Config, collector *observability.Collector) ports.HistoryMetrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return collector
}

// ProvideTracerProvider creates the OpenTelemetry provider. Spans are only
// exported when tracing is enabled.
func ProvideTracerProvider(cfg *config.Config) (*observability.TracerProvider, error) {
	tc := observability.TracingConfig{
		ServiceName: cfg.Tracing.ServiceName,
		Environment: string(cfg.Environment),
		SampleRatio: cfg.Tracing.SampleRatio,
	}
	if cfg.Tracing.Enabled {
		tc.Endpoint = cfg.Tracing.Endpoint
	}
	return observability.NewTracerProvider(context.Background(), tc)
}

// ProvideTracer returns the service tracer
func ProvideTracer(tp *observability.TracerProvider) trace.Tracer {
	return tp.Tracer()
}

// ProvideHookManager creates the extension hook manager
func ProvideHookManager() *extensions.HookManager {
	return extensions.NewHookManager()
}

// ProvideInitialDesign creates the empty design the session starts with
func ProvideInitialDesign(cfg *config.Config) (*aggregates.Design, error) {
	limits := cfg.Limits
	return aggregates.NewDesignWithConfig(InitialDesignName, &limits)
}

// ProvideSession creates the editing session
func ProvideSession(design *aggregates.Design) *services.Session {
	return services.NewSession(design)
}

// ProvideTimeline creates the design history with the configured size and
// backup policy
func ProvideTimeline(cfg *config.Config) (*services.DesignTimeline, error) {
	source, err := versioning.ParseBackupSource(cfg.History.BackupSource)
	if err != nil {
		return nil, err
	}
	return versioning.NewTimeline[*aggregates.Design](cfg.History.MaxSize, versioning.WithBackupSource(source)), nil
}

// ProvideHistoryService creates the history service reading from the session
func ProvideHistoryService(
	timeline *services.DesignTimeline,
	session *services.Session,
	metrics ports.HistoryMetrics,
	hooks *extensions.HookManager,
	tracer trace.Tracer,
	logger *zap.Logger,
) *services.HistoryService {
	return services.NewHistoryService(timeline, session, session, metrics, hooks, tracer, logger)
}

// ProvideEditor creates the editor
func ProvideEditor(session *services.Session, history *services.HistoryService, logger *zap.Logger) *services.Editor {
	return services.NewEditor(session, history, logger)
}
