package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/roomstay/internal/domain"
)

// NotificationWorker delivers notification jobs through the configured
// domain.Notifier. River retries failed deliveries with backoff.
type NotificationWorker struct {
	river.WorkerDefaults[NotificationJobArgs]

	notifier domain.Notifier
}

// Work delivers a single notification job.
func (w *NotificationWorker) Work(ctx context.Context, job *river.Job[NotificationJobArgs]) error {
	slog.InfoContext(ctx, "delivering notification",
		"type", job.Args.Notification.Type,
		"recipient_id", job.Args.Notification.RecipientID,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return w.notifier.Send(ctx, job.Args.Notification)
}

// EmailWorker delivers email jobs through the configured domain.EmailSender.
type EmailWorker struct {
	river.WorkerDefaults[EmailJobArgs]

	sender domain.EmailSender
}

// Work delivers a single email job.
func (w *EmailWorker) Work(ctx context.Context, job *river.Job[EmailJobArgs]) error {
	slog.InfoContext(ctx, "delivering email",
		"template", job.Args.Email.Template,
		"recipients", len(job.Args.Email.To),
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return w.sender.Send(ctx, job.Args.Email)
}
