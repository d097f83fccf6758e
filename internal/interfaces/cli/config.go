package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
)

var (
	configTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	configLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	configWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// NewConfigCommand creates the config command
func NewConfigCommand(container *CLIContainer) *cobra.Command {
	var configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the secure-config discovery result",
		Long: `Inspect the secure config (config.pkg) discovery result.

The secure config restricts which organizations and features the app may
use. Candidate directories are searched in priority order: app-config,
executable, resources. Without a config the app runs unrestricted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := container.SettingsService.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load secure config: %w", err)
			}

			printSettingsResult(cmd, result)
			return nil
		},
	}

	configCmd.AddCommand(NewConfigPathCommand(container))

	return configCmd
}

func printSettingsResult(cmd *cobra.Command, result *domain.SettingsResult) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, configTitleStyle.Render("Secure Config"))

	if !result.Restricted() {
		fmt.Fprintln(out, configWarnStyle.Render("No secure config found. Running unrestricted."))
	} else {
		fmt.Fprintf(out, "%s %s\n", configLabelStyle.Render("Loaded from:"), result.Path)
		config := result.Config
		if config.Version != nil {
			fmt.Fprintf(out, "%s %d\n", configLabelStyle.Render("Version:"), *config.Version)
		}
		fmt.Fprintf(out, "%s %d\n", configLabelStyle.Render("Whitelisted orgs:"), len(config.OrgWhitelist))
		fmt.Fprintf(out, "%s %t\n", configLabelStyle.Render("Admin password set:"), config.AdminPasswordHash != "")
		fmt.Fprintf(out, "%s %t\n", configLabelStyle.Render("Signed:"), config.Signature != "")

		features := config.Features
		fmt.Fprintln(out, configLabelStyle.Render("Features:"))
		fmt.Fprintf(out, "  web search:           %t\n", features.WebSearchAllowed())
		fmt.Fprintf(out, "  vector store:         %t\n", features.VectorStoreAllowed())
		fmt.Fprintf(out, "  file upload:          %t\n", features.FileUploadAllowed())
		fmt.Fprintf(out, "  chat file attachment: %t\n", features.ChatFileAttachmentAllowed())
	}

	if len(result.Searched) > 0 {
		fmt.Fprintln(out, configLabelStyle.Render("Searched:"))
		for _, candidate := range result.Searched {
			fmt.Fprintf(out, "  %-11s %s\n", candidate.Label, candidate.Path)
		}
	}
}

// NewConfigPathCommand creates the path subcommand
func NewConfigPathCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the loaded secure-config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := container.SettingsService.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load secure config: %w", err)
			}

			if result.Path == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "(not found)")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Path)
			return nil
		},
	}
}
