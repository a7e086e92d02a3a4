package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

type recordingPublisher struct {
	name string
	err  error

	mu        sync.Mutex
	published []domain.Notification
	calls     int
}

func (p *recordingPublisher) Name() string { return p.name }

func (p *recordingPublisher) Publish(_ context.Context, n domain.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	if p.err != nil {
		return p.err
	}

	p.published = append(p.published, n)
	return nil
}

func (p *recordingPublisher) snapshot() ([]domain.Notification, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Notification(nil), p.published...), p.calls
}

func testNotification(utr string) domain.Notification {
	return domain.Notification{
		OccurredAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Type:          domain.NotificationDeposit,
		UTR:           utr,
		AccountNumber: "ACC001",
		Mode:          "CASH",
		Amount:        decimal.NewFromInt(500),
		BalanceAfter:  decimal.NewFromInt(1500),
	}
}

func newTestDispatcher(queueSize int, publishers ...Publisher) (*Dispatcher, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	d := NewDispatcher(Config{
		Workers:   3,
		QueueSize: queueSize,
		Timeout:   time.Second,
		Retrier:   fastRetrier(1),
		Metrics:   m,
		Logger:    zerolog.Nop(),
	}, publishers...)
	return d, m
}

func TestDispatcherDeliversToEveryPublisher(t *testing.T) {
	first := &recordingPublisher{name: "log"}
	second := &recordingPublisher{name: "stream"}
	d, m := newTestDispatcher(16, first, second)

	d.Start(context.Background())
	for _, utr := range []string{"UTR1", "UTR2", "UTR3"} {
		d.Notify(context.Background(), testNotification(utr))
	}
	require.NoError(t, d.Close(context.Background()))

	for _, p := range []*recordingPublisher{first, second} {
		published, _ := p.snapshot()
		assert.Len(t, published, 3, p.name)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.NotificationsQueued))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.NotificationsDelivered.WithLabelValues("log")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.NotificationsDelivered.WithLabelValues("stream")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.NotificationQueueDepth))
}

func TestDispatcherFailingPublisherDoesNotBlockOthers(t *testing.T) {
	broken := &recordingPublisher{name: "email", err: errors.New("smtp down")}
	healthy := &recordingPublisher{name: "log"}
	d, m := newTestDispatcher(4, broken, healthy)

	d.Start(context.Background())
	d.Notify(context.Background(), testNotification("UTR1"))
	require.NoError(t, d.Close(context.Background()))

	published, _ := healthy.snapshot()
	assert.Len(t, published, 1)

	_, calls := broken.snapshot()
	assert.Equal(t, 2, calls, "one attempt plus one retry")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsFailed.WithLabelValues("email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsDelivered.WithLabelValues("log")))
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	p := &recordingPublisher{name: "log"}
	d, m := newTestDispatcher(1, p)

	// Not started, so the first notification occupies the only slot.
	d.Notify(context.Background(), testNotification("UTR1"))
	d.Notify(context.Background(), testNotification("UTR2"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsQueued))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationQueueDepth))

	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcherDropsAfterClose(t *testing.T) {
	p := &recordingPublisher{name: "log"}
	d, m := newTestDispatcher(4, p)

	d.Start(context.Background())
	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()), "close is idempotent")

	d.Notify(context.Background(), testNotification("UTR1"))

	published, _ := p.snapshot()
	assert.Empty(t, published)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsDropped))
}

type blockingPublisher struct {
	release chan struct{}
}

func (p *blockingPublisher) Name() string { return "slow" }

func (p *blockingPublisher) Publish(ctx context.Context, _ domain.Notification) error {
	select {
	case <-p.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestDispatcherCloseHonoursDeadline(t *testing.T) {
	p := &blockingPublisher{release: make(chan struct{})}
	defer close(p.release)

	d, _ := newTestDispatcher(4, p)
	d.Start(context.Background())
	d.Notify(context.Background(), testNotification("UTR1"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := d.Close(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
