package services

import (
	"context"

	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/domain"
	"github.com/tudoumono/Ai-SDK-chatUI/internal/core/ports"
)

// RelayService is the application boundary the presentation layer calls to
// relay requests and uploads. It owns no policy beyond boundary logging; the
// executors carry the transport semantics.
type RelayService struct {
	requests ports.RequestExecutor
	uploads  ports.UploadExecutor
	logger   ports.LoggingGateway
}

// NewRelayService creates a new relay service.
func NewRelayService(requests ports.RequestExecutor, uploads ports.UploadExecutor, logger ports.LoggingGateway) *RelayService {
	return &RelayService{
		requests: requests,
		uploads:  uploads,
		logger:   logger,
	}
}

// ExecuteRequest relays one described request. Remote 4xx/5xx statuses come
// back inside the envelope; the returned error is reserved for configuration
// and transport failures, already formatted for direct display.
func (s *RelayService) ExecuteRequest(ctx context.Context, descriptor domain.RequestDescriptor) (*domain.ResponseEnvelope, error) {
	envelope, err := s.requests.Execute(ctx, descriptor)
	if err != nil {
		return nil, err
	}

	if envelope.Status >= 400 {
		s.logger.Log(ports.LogLevelWarn, "relayed request returned error status", map[string]interface{}{
			"status": envelope.Status,
			"path":   descriptor.Path,
		})
	}
	return envelope, nil
}

// UploadFile relays one file upload to the backend's files endpoint.
func (s *RelayService) UploadFile(ctx context.Context, descriptor domain.FileUploadDescriptor) (*domain.ResponseEnvelope, error) {
	envelope, err := s.uploads.Upload(ctx, descriptor)
	if err != nil {
		return nil, err
	}

	if envelope.Status >= 400 {
		s.logger.Log(ports.LogLevelWarn, "file upload returned error status", map[string]interface{}{
			"status":    envelope.Status,
			"file_name": descriptor.FileName,
		})
	}
	return envelope, nil
}
