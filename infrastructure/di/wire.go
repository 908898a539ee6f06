//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"netdesign/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLevel,
	ProvideLogger,
	ProvideCollector,
	ProvideHistoryMetrics,
	ProvideTracerProvider,
	ProvideTracer,
	ProvideHookManager,
	ProvideInitialDesign,
	ProvideSession,
	ProvideTimeline,
	ProvideHistoryService,
	ProvideEditor,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
