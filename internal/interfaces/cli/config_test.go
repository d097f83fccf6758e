package cli

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/application/services"
	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/ports"
	"github.com/tudoumono/Ai-SDK-chatUI/internal/infrastructure/logging"
)

// stubSettingsRepository answers discovery with a canned result.
type stubSettingsRepository struct {
	result *domain.SettingsResult
	err    error
}

func (s *stubSettingsRepository) Load(ctx context.Context) (*domain.SettingsResult, error) {
	return s.result, s.err
}

// newSettingsContainer wires a CLI container around a canned settings result.
func newSettingsContainer(result *domain.SettingsResult) *CLIContainer {
	logger := logging.NewConsoleLogger(log.New(io.Discard, "", 0), ports.LogLevelError)
	return &CLIContainer{
		SettingsService: services.NewSettingsService(&stubSettingsRepository{result: result}, logger),
		Logger:          logger,
	}
}

// executeConfigCommand runs the config command with captured output.
func executeConfigCommand(t *testing.T, container *CLIContainer, args ...string) (string, error) {
	t.Helper()

	cmd := NewConfigCommand(container)
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// TestConfigCommand_Restricted verifies the report for a loaded secure
// config.
func TestConfigCommand_Restricted(t *testing.T) {
	version := 2
	allowUpload := false
	result := &domain.SettingsResult{
		Config: &domain.SecureConfig{
			Version: &version,
			OrgWhitelist: []domain.OrgWhitelistEntry{
				{OrgID: "org-abc", OrgName: "Example Org"},
			},
			AdminPasswordHash: "sha256:deadbeef",
			Features:          &domain.FeatureRestrictions{AllowFileUpload: &allowUpload},
			Signature:         "sig",
		},
		Path: "/opt/chatui/config.pkg",
		Searched: []domain.SettingsCandidate{
			{Label: "app-config", Path: "/home/u/.config/Ai-SDK-chatUI/config.pkg"},
			{Label: "executable", Path: "/opt/chatui/config.pkg"},
		},
	}

	output, err := executeConfigCommand(t, newSettingsContainer(result))
	require.NoError(t, err)

	assert.Contains(t, output, "Loaded from:")
	assert.Contains(t, output, "/opt/chatui/config.pkg")
	assert.Contains(t, output, "Version:")
	assert.Contains(t, output, "Whitelisted orgs:")
	assert.Contains(t, output, "file upload:          false")
	assert.Contains(t, output, "web search:           true", "nil feature flags stay permissive")
	assert.Contains(t, output, "app-config")
	assert.NotContains(t, output, "unrestricted")
}

// TestConfigCommand_Unrestricted verifies the report when no config was
// found anywhere.
func TestConfigCommand_Unrestricted(t *testing.T) {
	result := &domain.SettingsResult{
		Searched: []domain.SettingsCandidate{
			{Label: "app-config", Path: "/home/u/.config/Ai-SDK-chatUI/config.pkg"},
		},
	}

	output, err := executeConfigCommand(t, newSettingsContainer(result))
	require.NoError(t, err)
	assert.Contains(t, output, "No secure config found. Running unrestricted.")
	assert.Contains(t, output, "Searched:")
}

// TestConfigPathCommand verifies the path subcommand prints the winning
// path, or a placeholder without one.
func TestConfigPathCommand(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		result := &domain.SettingsResult{
			Config: &domain.SecureConfig{},
			Path:   "/opt/chatui/config.pkg",
		}
		output, err := executeConfigCommand(t, newSettingsContainer(result), "path")
		require.NoError(t, err)
		assert.Equal(t, "/opt/chatui/config.pkg\n", output)
	})

	t.Run("not found", func(t *testing.T) {
		output, err := executeConfigCommand(t, newSettingsContainer(&domain.SettingsResult{}), "path")
		require.NoError(t, err)
		assert.Equal(t, "(not found)\n", output)
	})
}
