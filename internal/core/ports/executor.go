package ports

import (
	"context"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
)

// RequestExecutor executes one UI-described request against an
// OpenAI-compatible backend and normalizes the outcome. HTTP error statuses
// are successful envelopes; only transport-level failures return an error.
type RequestExecutor interface {
	Execute(ctx context.Context, descriptor domain.RequestDescriptor) (*domain.ResponseEnvelope, error)
}

// UploadExecutor sends one multipart file upload to the backend files
// endpoint.
type UploadExecutor interface {
	Upload(ctx context.Context, descriptor domain.FileUploadDescriptor) (*domain.ResponseEnvelope, error)
}
