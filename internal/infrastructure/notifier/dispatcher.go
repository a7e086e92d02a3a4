package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

// Config for Dispatcher.
type Config struct {
	Workers   int           // Number of delivery goroutines
	QueueSize int           // Notifications buffered before new ones are dropped
	Timeout   time.Duration // Budget for one publisher, retries included
	Retrier   *Retrier
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
}

// Dispatcher queues notifications and fans each one out to every publisher
// from a pool of workers. It never blocks the caller: a full or closed
// queue drops the notification.
type Dispatcher struct {
	publishers []Publisher
	queue      chan domain.Notification
	workers    int
	timeout    time.Duration
	retrier    *Retrier
	metrics    *metrics.Metrics
	logger     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	once   sync.Once
}

// NewDispatcher creates a dispatcher for publishers. Call Start to begin
// delivery.
func NewDispatcher(cfg Config, publishers ...Publisher) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retrier == nil {
		cfg.Retrier = NewRetrier(0, cfg.Logger)
	}

	return &Dispatcher{
		publishers: publishers,
		queue:      make(chan domain.Notification, cfg.QueueSize),
		workers:    cfg.Workers,
		timeout:    cfg.Timeout,
		retrier:    cfg.Retrier,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger.With().Str("component", "notifier").Logger(),
	}
}

// Notify implements usecase.Notifier.
func (d *Dispatcher) Notify(_ context.Context, n domain.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(n, "dispatcher closed")
		return
	}

	select {
	case d.queue <- n:
		if d.metrics != nil {
			d.metrics.NotificationsQueued.Inc()
			d.metrics.NotificationQueueDepth.Inc()
		}
	default:
		d.drop(n, "queue full")
	}
}

// Start launches the workers. They stop when ctx is done or after Close
// has drained the queue.
func (d *Dispatcher) Start(ctx context.Context) {
	d.once.Do(func() {
		d.logger.Info().
			Int("workers", d.workers).
			Int("queue_size", cap(d.queue)).
			Int("publishers", len(d.publishers)).
			Msg("notification dispatcher started")

		for i := 0; i < d.workers; i++ {
			d.wg.Add(1)
			go d.run(ctx)
		}
	})
}

// Close stops accepting notifications and waits for queued ones to be
// delivered, or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info().Msg("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-d.queue:
			if !ok {
				return
			}

			if d.metrics != nil {
				d.metrics.NotificationQueueDepth.Dec()
			}

			d.deliver(ctx, n)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n domain.Notification) {
	for _, p := range d.publishers {
		pctx, cancel := context.WithTimeout(ctx, d.timeout)
		err := d.retrier.Retry(pctx, func() error {
			return p.Publish(pctx, n)
		})
		cancel()

		if err != nil {
			d.logger.Error().
				Err(err).
				Str("channel", p.Name()).
				Str("type", string(n.Type)).
				Str("utr", n.UTR).
				Str("account_number", n.AccountNumber).
				Msg("notification delivery failed")

			if d.metrics != nil {
				d.metrics.NotificationsFailed.WithLabelValues(p.Name()).Inc()
			}

			continue
		}

		if d.metrics != nil {
			d.metrics.NotificationsDelivered.WithLabelValues(p.Name()).Inc()
		}
	}
}

func (d *Dispatcher) drop(n domain.Notification, reason string) {
	d.logger.Warn().
		Str("reason", reason).
		Str("type", string(n.Type)).
		Str("utr", n.UTR).
		Msg("notification dropped")

	if d.metrics != nil {
		d.metrics.NotificationsDropped.Inc()
	}
}
