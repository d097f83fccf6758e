package di

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/application/services"
	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/ports"
	"github.com/tudoumono/Ai-SDK-chatUI/internal/infrastructure/logging"
	"github.com/tudoumono/Ai-SDK-chatUI/internal/infrastructure/relay"
	"github.com/tudoumono/Ai-SDK-chatUI/internal/infrastructure/settings"
	"github.com/tudoumono/Ai-SDK-chatUI/internal/interfaces/cli"
)

// Container holds all application dependencies
type Container struct {
	// Logging
	Logger         *log.Logger
	LoggingGateway ports.LoggingGateway

	// Infrastructure
	SettingsRepo *settings.Repository
	Executor     *relay.Executor

	// Application services
	RelayService    *services.RelayService
	SettingsService *services.SettingsService

	// CLI
	CLIContainer *cli.CLIContainer
}

// NewContainer creates and configures the dependency injection container
func NewContainer() (*Container, error) {
	container := &Container{
		Logger: log.New(os.Stderr, "[chatui] ", log.LstdFlags),
	}

	if err := container.initializeComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	return container, nil
}

// initializeComponents initializes all components with proper dependencies
func (c *Container) initializeComponents() error {
	// 1. Logging gateway shared by every layer
	c.LoggingGateway = logging.NewConsoleLogger(c.Logger, ports.LogLevelInfo)

	// 2. Infrastructure: secure-config discovery and the HTTP relay executor
	c.SettingsRepo = settings.NewRepository(c.LoggingGateway)
	c.Executor = relay.NewExecutor(c.LoggingGateway)

	// 3. Application services; the executor serves both request and upload
	// ports
	c.RelayService = services.NewRelayService(c.Executor, c.Executor, c.LoggingGateway)
	c.SettingsService = services.NewSettingsService(c.SettingsRepo, c.LoggingGateway)

	// 4. CLI container
	c.CLIContainer = &cli.CLIContainer{
		RelayService:    c.RelayService,
		SettingsService: c.SettingsService,
		Logger:          c.LoggingGateway,
	}

	c.LoggingGateway.Log(ports.LogLevelDebug, "dependency injection container initialized", nil)
	return nil
}

// GetCLIContainer returns the CLI container for command execution
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return c.CLIContainer
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	// Executors build a fresh client per request and hold no pooled
	// connections, so there is nothing to stop.
	c.LoggingGateway.Log(ports.LogLevelDebug, "application shutdown complete", nil)
	return nil
}

// HealthCheck performs a health check of all components
func (c *Container) HealthCheck(ctx context.Context) error {
	if c.RelayService == nil {
		return fmt.Errorf("relay service not initialized")
	}
	if c.SettingsService == nil {
		return fmt.Errorf("settings service not initialized")
	}

	if _, err := c.SettingsService.Load(ctx); err != nil {
		return fmt.Errorf("secure config discovery failed: %w", err)
	}

	return nil
}

// GetVersion returns version information
func (c *Container) GetVersion() map[string]string {
	return map[string]string{
		"version":    cli.Version,
		"build_time": cli.BuildTime,
	}
}
