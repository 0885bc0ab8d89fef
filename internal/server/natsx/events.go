package natsx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	nats "github.com/nats-io/nats.go"
)

// AccountCreatedEvent is published once per new account.
type AccountCreatedEvent struct {
	AccountID string    `json:"account_id"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Roles     []string  `json:"roles"`
	Providers []string  `json:"providers,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher emits account events. Delivery is best effort: failures are
// logged and never reach the caller. A nil *Publisher is valid and silent.
type Publisher struct {
	subject   string
	logger    logging.Logger
	publishFn func(subject string, data []byte) error
}

func NewPublisher(conn *nats.Conn, subject string, logger logging.Logger) *Publisher {
	return &Publisher{subject: subject, logger: logger.With("module", "nats_events"), publishFn: conn.Publish}
}

// AccountCreated publishes an AccountCreatedEvent for account.
func (p *Publisher) AccountCreated(ctx context.Context, account *models.Account) {
	if p == nil || p.publishFn == nil {
		return
	}

	ev := AccountCreatedEvent{
		AccountID: account.ID,
		Email:     account.Email,
		Phone:     account.Phone,
		Roles:     account.Roles,
		CreatedAt: account.CreatedAt,
	}
	for provider := range account.ProviderIDs {
		ev.Providers = append(ev.Providers, provider)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error(ctx, "encode account event", "account_id", account.ID, "error", err.Error())
		return
	}
	if err := p.publishFn(p.subject, data); err != nil {
		p.logger.Warn(ctx, "publish account event", "account_id", account.ID, "subject", p.subject, "error", err.Error())
	}
}
