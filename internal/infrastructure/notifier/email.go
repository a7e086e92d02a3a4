package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/iho/bankledger/internal/domain"
)

// EmailConfig holds SMTP settings.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// RecipientLookup finds the customer who owns an account.
type RecipientLookup interface {
	GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Customer, error)
}

type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailPublisher mails the account owner.
type EmailPublisher struct {
	sender     mailSender
	recipients RecipientLookup
	from       string
	fromName   string
}

// NewEmailPublisher creates an SMTP-backed publisher. Authentication is
// enabled only when a username is configured.
func NewEmailPublisher(cfg EmailConfig, recipients RecipientLookup) (*EmailPublisher, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}

	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return newEmailPublisher(client, recipients, cfg.From, cfg.FromName), nil
}

func newEmailPublisher(sender mailSender, recipients RecipientLookup, from, fromName string) *EmailPublisher {
	if fromName == "" {
		fromName = "MyBank"
	}

	return &EmailPublisher{
		sender:     sender,
		recipients: recipients,
		from:       from,
		fromName:   fromName,
	}
}

// Name implements Publisher.
func (p *EmailPublisher) Name() string { return "email" }

// Publish implements Publisher. Unknown owners and unusable addresses are
// permanent failures.
func (p *EmailPublisher) Publish(ctx context.Context, n domain.Notification) error {
	customer, err := p.recipients.GetByAccountNumber(ctx, n.AccountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Permanent(err)
		}
		return err
	}

	msg, err := p.buildMessage(n, customer)
	if err != nil {
		return Permanent(err)
	}

	return p.sender.DialAndSendWithContext(ctx, msg)
}

func (p *EmailPublisher) buildMessage(n domain.Notification, customer *domain.Customer) (*mail.Msg, error) {
	subject, body, err := composeEmail(n, customer.Name, p.fromName)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(p.fromName, p.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(customer.Email); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return msg, nil
}
