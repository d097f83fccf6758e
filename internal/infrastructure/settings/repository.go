package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/ports"
)

// utf8BOM is tolerated at the start of config.pkg; editors on Windows tend to
// write one.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Repository discovers and parses the secure config from an ordered list of
// candidate directories. The first existing, parseable file wins; a file that
// exists but cannot be read or parsed is logged and skipped so a broken copy
// in one location does not mask a good one further down.
type Repository struct {
	resolvers []Resolver
	logger    ports.LoggingGateway
}

// NewRepository creates a Repository over the default candidate directories.
// Passing resolvers overrides the search order.
func NewRepository(logger ports.LoggingGateway, resolvers ...Resolver) *Repository {
	if len(resolvers) == 0 {
		resolvers = DefaultResolvers()
	}
	return &Repository{
		resolvers: resolvers,
		logger:    logger,
	}
}

// Load walks the candidates in priority order. A completely absent config is
// not an error: the app then runs unrestricted.
func (r *Repository) Load(ctx context.Context) (*domain.SettingsResult, error) {
	result := &domain.SettingsResult{}

	for _, resolver := range r.resolvers {
		dir, err := resolver.Resolve()
		if err != nil {
			r.logger.Log(ports.LogLevelDebug, "settings directory unavailable", map[string]interface{}{
				"candidate": resolver.Label,
				"error":     err.Error(),
			})
			continue
		}

		path := filepath.Join(dir, ConfigFileName)
		result.Searched = append(result.Searched, domain.SettingsCandidate{
			Label: resolver.Label,
			Path:  path,
		})

		config, err := r.loadFile(path)
		if err != nil {
			r.logger.Log(ports.LogLevelWarn, "skipping unusable settings file", map[string]interface{}{
				"candidate": resolver.Label,
				"path":      path,
				"error":     err.Error(),
			})
			continue
		}
		if config == nil {
			continue
		}

		r.logger.Log(ports.LogLevelInfo, "secure config loaded", map[string]interface{}{
			"candidate": resolver.Label,
			"path":      path,
		})
		result.Config = config
		result.Path = path
		return result, nil
	}

	r.logger.Log(ports.LogLevelInfo, "no secure config found, running unrestricted", map[string]interface{}{
		"searched": len(result.Searched),
	})
	return result, nil
}

// loadFile reads and parses one candidate. A missing file is (nil, nil).
func (r *Repository) loadFile(path string) (*domain.SecureConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var config domain.SecureConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	return &config, nil
}

var _ ports.SettingsRepository = (*Repository)(nil)
