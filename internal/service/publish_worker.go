package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/contentflow/internal/repository"
	"github.com/d60-Lab/contentflow/pkg/logger"
)

// PublishWorker moves due scheduled content to published. Single-process
// poller; the claim transaction in the repository is the only guard against
// double publish.
type PublishWorker struct {
	contentRepo  repository.ContentRepository
	pollInterval time.Duration
	batchSize    int
	now          func() time.Time
	publishedCh  chan string
}

func NewPublishWorker(contentRepo repository.ContentRepository, pollInterval time.Duration, batchSize int) *PublishWorker {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &PublishWorker{
		contentRepo:  contentRepo,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		now:          time.Now,
		publishedCh:  make(chan string, 4096),
	}
}

// Published returns a channel receiving the id of each published item.
func (w *PublishWorker) Published() <-chan string { return w.publishedCh }

// Start launches the poll loop and returns a stop function.
func (w *PublishWorker) Start() func(context.Context) error {
	stop := make(chan struct{})
	go w.loop(stop)
	return func(ctx context.Context) error {
		close(stop)
		return nil
	}
}

func (w *PublishWorker) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := w.ProcessOnce(context.Background()); err != nil {
				logger.Error("publish worker tick failed", zap.Error(err))
			}
		}
	}
}

// ProcessOnce claims one batch of due content and reports how many rows were
// published.
func (w *PublishWorker) ProcessOnce(ctx context.Context) (int, error) {
	claimed, err := w.contentRepo.ClaimDuePublishable(ctx, w.now(), w.batchSize)
	if err != nil {
		return 0, err
	}
	for _, c := range claimed {
		logger.Info("content published",
			zap.String("content_id", c.ID),
			zap.String("platform", string(c.Platform)))
		select {
		case w.publishedCh <- c.ID:
		default:
		}
	}
	return len(claimed), nil
}
