// ABOUTME: Ingestor is the boundary where captured conversations enter the vault
// ABOUTME: Saves with retry, then derives nuggets as a best-effort side effect
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harper/oogvault/internal/models"
	"github.com/harper/oogvault/internal/util"
	"go.uber.org/zap"
)

// ConversationWriter is the slice of the store that ingestion writes to
type ConversationWriter interface {
	SaveConversation(ctx context.Context, conv *models.Conversation) (*models.Conversation, error)
	SaveNuggets(ctx context.Context, conversationID string, nuggets []models.Nugget) error
}

// Ingestor saves captured payloads and keeps their nuggets current
type Ingestor struct {
	store      ConversationWriter
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

// IngestorOption configures an Ingestor
type IngestorOption func(*Ingestor)

// WithRetries sets how many times a failed save is retried and the base backoff
func WithRetries(n int, delay time.Duration) IngestorOption {
	return func(in *Ingestor) {
		in.maxRetries = max(n, 0)
		in.retryDelay = delay
	}
}

// WithIngestLogger sets the ingestion logger
func WithIngestLogger(logger *zap.Logger) IngestorOption {
	return func(in *Ingestor) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// NewIngestor creates an Ingestor writing to store
func NewIngestor(store ConversationWriter, opts ...IngestorOption) *Ingestor {
	in := &Ingestor{
		store:      store,
		maxRetries: 2,
		retryDelay: 200 * time.Millisecond,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Ingest saves the payload and regenerates its nuggets. The returned count
// is the number of nuggets stored; nugget failures are logged, never returned.
func (in *Ingestor) Ingest(ctx context.Context, payload models.ConversationPayload) (*models.Conversation, int, error) {
	conv := payload.ToConversation()
	if err := conv.Validate(); err != nil {
		return nil, 0, err
	}

	saved, err := in.saveWithRetry(ctx, conv)
	if err != nil {
		return nil, 0, err
	}

	count := in.deriveNuggets(ctx, saved)
	in.logger.Info("conversation ingested",
		zap.String("id", saved.ID),
		zap.String("platform", saved.Platform),
		zap.Int("messages", len(saved.Messages)),
		zap.Int("nuggets", count))
	return saved, count, nil
}

func (in *Ingestor) saveWithRetry(ctx context.Context, conv *models.Conversation) (*models.Conversation, error) {
	var lastErr error

	for attempt := 0; attempt <= in.maxRetries; attempt++ {
		if attempt > 0 {
			if err := util.Sleep(ctx, util.CalculateBackoff(in.retryDelay, attempt)); err != nil {
				return nil, err
			}
		}

		saved, err := in.store.SaveConversation(ctx, conv)
		if err == nil {
			return saved, nil
		}
		if errors.Is(err, models.ErrMissingID) || errors.Is(err, models.ErrInvalidRole) {
			return nil, err
		}

		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
		in.logger.Warn("conversation save failed",
			zap.String("id", conv.ID),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	return nil, fmt.Errorf("failed to save conversation after %d attempts: %w", in.maxRetries+1, lastErr)
}

// deriveNuggets never fails the ingest. With no extractable turns the
// existing nuggets are left alone.
func (in *Ingestor) deriveNuggets(ctx context.Context, conv *models.Conversation) (count int) {
	defer func() {
		if rec := recover(); rec != nil {
			in.logger.Error("nugget extraction panicked",
				zap.String("id", conv.ID),
				zap.Any("panic", rec))
			count = 0
		}
	}()

	nuggets := ExtractNuggets(conv.Messages, conv.Platform)
	if len(nuggets) == 0 {
		return 0
	}

	if err := in.store.SaveNuggets(ctx, conv.ID, nuggets); err != nil {
		in.logger.Warn("failed to save nuggets", zap.String("id", conv.ID), zap.Error(err))
		return 0
	}
	return len(nuggets)
}
