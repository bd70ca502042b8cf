package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/roomstay/internal/domain"
)

// Compile-time check: Publisher implements domain.Dispatcher.
var _ domain.Dispatcher = (*Publisher)(nil)

// NotificationJobArgs carries an in-app notification to deliver
// asynchronously. River serializes this as JSON into its job queue table;
// the payload is self-contained so the worker never queries the database.
type NotificationJobArgs struct {
	Notification domain.Notification `json:"notification"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (NotificationJobArgs) Kind() string { return "notification.send" }

// EmailJobArgs carries an outbound email to deliver asynchronously.
type EmailJobArgs struct {
	Email domain.Email `json:"email"`
}

func (EmailJobArgs) Kind() string { return "email.send" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.Dispatcher by enqueuing River jobs. The
// queue table lives in the same database as the entities, so delivery
// survives process restarts.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Notify enqueues an in-app notification for async delivery.
func (p *Publisher) Notify(ctx context.Context, n domain.Notification) error {
	_, err := p.client.Insert(ctx, NotificationJobArgs{Notification: n}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing notification job: %w", err)
	}
	return nil
}

// Email enqueues an outbound email for async delivery.
func (p *Publisher) Email(ctx context.Context, e domain.Email) error {
	_, err := p.client.Insert(ctx, EmailJobArgs{Email: e}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing email job: %w", err)
	}
	return nil
}
