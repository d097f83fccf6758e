package settings

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the secure-config file distributed alongside the app.
const ConfigFileName = "config.pkg"

// appConfigDirName is the app's folder under the per-user config root.
const appConfigDirName = "Ai-SDK-chatUI"

// Resolver produces at most one candidate directory for the secure config.
// The label identifies the candidate in diagnostics and discovery results.
type Resolver struct {
	Label   string
	Resolve func() (string, error)
}

// DefaultResolvers returns the candidate directories in priority order: the
// per-user application config directory, the executable's own directory, and
// the resources directory shipped next to the executable.
func DefaultResolvers() []Resolver {
	return []Resolver{
		{Label: "app-config", Resolve: appConfigDir},
		{Label: "executable", Resolve: executableDir},
		{Label: "resources", Resolve: resourcesDir},
	}
}

func appConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return filepath.Join(base, appConfigDirName), nil
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}
	return filepath.Dir(exe), nil
}

func resourcesDir() (string, error) {
	dir, err := executableDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "resources"), nil
}
