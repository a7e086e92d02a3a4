package notifier

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/domain"
)

// Publisher delivers a notification over one channel.
type Publisher interface {
	// Name labels the channel in logs and metrics.
	Name() string
	Publish(ctx context.Context, n domain.Notification) error
}

// LogPublisher writes notifications to the log.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Name implements Publisher.
func (p *LogPublisher) Name() string { return "log" }

// Publish logs the notification.
func (p *LogPublisher) Publish(_ context.Context, n domain.Notification) error {
	p.logger.Info().
		Str("type", string(n.Type)).
		Str("utr", n.UTR).
		Str("account_number", n.AccountNumber).
		Str("counterparty", n.CounterpartyAccountNumber).
		Str("amount", n.Amount.String()).
		Str("balance_after", n.BalanceAfter.String()).
		Msg("notification")

	return nil
}
