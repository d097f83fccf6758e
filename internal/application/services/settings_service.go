package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/ports"
)

// SettingsService fronts secure-config discovery with a cache. Discovery
// walks the filesystem, so the result is loaded once and reused until an
// explicit Reload.
type SettingsService struct {
	repo   ports.SettingsRepository
	logger ports.LoggingGateway

	mu     sync.Mutex
	cached *domain.SettingsResult
}

// NewSettingsService creates a new settings service.
func NewSettingsService(repo ports.SettingsRepository, logger ports.LoggingGateway) *SettingsService {
	return &SettingsService{
		repo:   repo,
		logger: logger,
	}
}

// Load returns the discovery result, reading the filesystem only on the
// first call. An absent config is a valid result, not an error.
func (s *SettingsService) Load(ctx context.Context) (*domain.SettingsResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return s.cached, nil
	}

	result, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.LogError(err, "secure config discovery failed", nil)
		return nil, fmt.Errorf("failed to load secure config: %w", err)
	}

	s.cached = result
	return result, nil
}

// Reload discards the cache and reads the filesystem again.
func (s *SettingsService) Reload(ctx context.Context) (*domain.SettingsResult, error) {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
	return s.Load(ctx)
}

// Restricted reports whether a secure config is present and the app must
// honor its restrictions.
func (s *SettingsService) Restricted(ctx context.Context) (bool, error) {
	result, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	return result.Restricted(), nil
}

// Features returns the active feature restrictions. The nil return is valid
// and means unrestricted; its predicate methods are nil-receiver safe.
func (s *SettingsService) Features(ctx context.Context) (*domain.FeatureRestrictions, error) {
	result, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if result.Config == nil {
		return nil, nil
	}
	return result.Config.Features, nil
}
