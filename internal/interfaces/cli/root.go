package cli

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/application/services"
	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/ports"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	RelayService    *services.RelayService
	SettingsService *services.SettingsService
	Logger          ports.LoggingGateway
}

// NewRootCommand represents the base command when called without any subcommands
func NewRootCommand(container *CLIContainer) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "chatui",
		Short: "Ai-SDK-chatUI - relay requests to OpenAI-compatible backends",
		Long: `Ai-SDK-chatUI relays described HTTP requests and file uploads to
OpenAI-compatible backends, with per-scheme proxy support and normalized
response envelopes.

Requests are described by a JSON or YAML descriptor (or flags), executed
through the relay, and printed as envelope JSON. An interactive chat console
is available via 'chatui console'.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyLoggingFlags(cmd, container)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(NewRequestCommand(container))
	rootCmd.AddCommand(NewUploadCommand(container))
	rootCmd.AddCommand(NewConfigCommand(container))
	rootCmd.AddCommand(NewConsoleCommand(container))

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// applyLoggingFlags configures the logging gateway from persistent flags.
// --debug wins over --log-level.
func applyLoggingFlags(cmd *cobra.Command, container *CLIContainer) error {
	if container.Logger == nil {
		return nil
	}

	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		container.Logger.SetLogLevel(ports.LogLevelDebug)
		return nil
	}

	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		switch ports.LogLevel(level) {
		case ports.LogLevelDebug, ports.LogLevelInfo, ports.LogLevelWarn, ports.LogLevelError:
			container.Logger.SetLogLevel(ports.LogLevel(level))
		default:
			return fmt.Errorf("unknown log level: %s", level)
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(container *CLIContainer) {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
