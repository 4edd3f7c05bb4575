//go:build wireinject
// +build wireinject

package di

import (
	"BankBrain/pkg/config"
	"BankBrain/pkg/server"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideRegistry,
	ProvideKafkaProducer,
	ProvideLogger,
	ProvideMetrics,
)

// InitializeRiskAgent wires the anomaly poll loop.
func InitializeRiskAgent(cfg *config.Config) (*server.App, error) {
	wire.Build(
		infraSet,
		ProvideGenerator,
		ProvideAlertPublisher,
		ProvideRiskMonitor,
		ProvideRiskAgentApp,
	)
	return &server.App{}, nil
}

// InitializeGateway wires the message gateway.
func InitializeGateway(cfg *config.Config) (*server.App, error) {
	wire.Build(
		infraSet,
		ProvideRouter,
		ProvideGatewayHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeSupportAgent wires the support chat agent.
func InitializeSupportAgent(cfg *config.Config) (*server.App, error) {
	wire.Build(
		infraSet,
		ProvideGenerator,
		ProvideChatService,
		ProvideSupportHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeToolServer wires the bank tool server.
func InitializeToolServer(cfg *config.Config) (*server.App, error) {
	wire.Build(
		infraSet,
		ProvideBankCache,
		ProvideToolDispatcher,
		ProvideToolServerHandler,
		ProvideHTTPServer,
		ProvideToolServerApp,
	)
	return &server.App{}, nil
}
