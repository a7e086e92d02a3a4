package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankledger/internal/domain"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherKeysByAccount(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	n := testNotification("UTR9")
	n.Type = domain.NotificationTransferSent
	n.CounterpartyAccountNumber = "ACC002"

	require.NoError(t, p.Publish(context.Background(), n))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "ACC001", string(msg.Key))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "transfer.sent", string(msg.Headers[0].Value))
	assert.Equal(t, "UTR9", string(msg.Headers[1].Value))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "ACC002", body["counterparty_account_number"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherReturnsWriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := &KafkaPublisher{writer: w}

	err := p.Publish(context.Background(), testNotification("UTR1"))
	assert.ErrorIs(t, err, w.err)
}
