package worker

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"interior-media/internal/broker"
	kafka_impl "interior-media/internal/broker/kafka"
	"interior-media/internal/config"
	"interior-media/internal/domain"

	"github.com/wb-go/wbf/zlog"
)

// Worker watches the image status stream and reports records stuck in
// pending: a successful byte transfer whose finalize call failed leaves such
// an orphan, and the completion guarantee is at-least-once, so the gap is
// surfaced for manual reconciliation rather than auto-repaired.
type Worker struct {
	cfg      *config.Config
	logger   *zlog.Zerolog
	consumer broker.Consumer

	mu      sync.Mutex
	pending map[string]time.Time
}

func NewWorker(cfg *config.Config, logger *zlog.Zerolog) (*Worker, error) {
	consumer := kafka_impl.NewConsumerClient(cfg)

	logger.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("topic", cfg.Kafka.StatusTopic).
		Str("group", cfg.Kafka.GroupID).
		Dur("pending_ttl", cfg.Worker.PendingTTL).
		Msg("Worker configuration")

	return &Worker{
		cfg:      cfg,
		logger:   logger,
		consumer: consumer,
		pending:  make(map[string]time.Time),
	}, nil
}

func (w *Worker) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		w.logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal, stopping worker")
		cancel()
	}()

	messages := make(chan *broker.Message, 16)
	w.consumer.Start(ctx, messages, w.cfg.DefaultRetryStrategy())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		w.consumeLoop(ctx, messages)
	}()
	go func() {
		defer wg.Done()
		w.reportLoop(ctx)
	}()

	w.logger.Info().Msg("Worker started")
	<-ctx.Done()
	wg.Wait()

	if err := w.consumer.Close(); err != nil {
		w.logger.Error().Err(err).Msg("Failed to close consumer")
	}

	w.logger.Info().Msg("Worker stopped gracefully")
	return nil
}

func (w *Worker) consumeLoop(ctx context.Context, messages <-chan *broker.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			w.handleEvent(msg.Value)
		}
	}
}

func (w *Worker) handleEvent(value []byte) {
	var event domain.StatusEvent
	if err := json.Unmarshal(value, &event); err != nil {
		w.logger.Warn().Err(err).Msg("Failed to decode status event")
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch event.Status {
	case domain.StatusPending:
		w.pending[event.ImageID] = time.Unix(event.Timestamp, 0)
	case domain.StatusCompleted:
		delete(w.pending, event.ImageID)
	}
}

func (w *Worker) reportLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Worker.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.reportOrphans()
		}
	}
}

func (w *Worker) reportOrphans() {
	cutoff := time.Now().Add(-w.cfg.Worker.PendingTTL)

	w.mu.Lock()
	defer w.mu.Unlock()

	for imageID, since := range w.pending {
		if since.Before(cutoff) {
			w.logger.Warn().
				Str("image_id", imageID).
				Time("pending_since", since).
				Msg("Image stuck in pending status, needs manual reconciliation")
		}
	}
}
