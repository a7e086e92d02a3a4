package usecase

import (
	"context"

	"github.com/iho/bankledger/internal/domain"
)

// Notifier delivers post-commit notifications. Notify must return promptly;
// delivery happens out of band and failures never reach the caller.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, domain.Notification) {}
