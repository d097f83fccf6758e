package ports

import (
	"context"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
)

// SettingsRepository discovers and loads the distributed secure
// configuration. A missing file is not an error; the result carries a nil
// config in that case.
type SettingsRepository interface {
	Load(ctx context.Context) (*domain.SettingsResult, error)
}
