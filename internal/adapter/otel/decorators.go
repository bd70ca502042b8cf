package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/roomstay/internal/domain"
)

const tracerName = "github.com/neomorfeo/roomstay/internal/adapter/otel"

// TracedGateway wraps a payment gateway with spans for each outbound
// call. SQL already gets spans through otelsql; this covers the other
// external collaborator.
type TracedGateway struct {
	inner domain.PaymentGateway
}

// NewTracedGateway wraps gw with tracing.
func NewTracedGateway(gw domain.PaymentGateway) *TracedGateway {
	return &TracedGateway{inner: gw}
}

func (g *TracedGateway) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (domain.PaymentIntent, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "gateway.CreateIntent",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int64("payment.amount", amount),
			attribute.String("payment.currency", currency),
		),
	)
	defer span.End()

	intent, err := g.inner.CreateIntent(ctx, amount, currency, metadata)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.PaymentIntent{}, err
	}
	span.SetAttributes(attribute.String("payment.intent_id", intent.ID))
	return intent, nil
}

func (g *TracedGateway) RetrieveIntent(ctx context.Context, id string) (domain.PaymentIntent, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "gateway.RetrieveIntent",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("payment.intent_id", id)),
	)
	defer span.End()

	intent, err := g.inner.RetrieveIntent(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.PaymentIntent{}, err
	}
	span.SetAttributes(attribute.String("payment.intent_status", string(intent.Status)))
	return intent, nil
}

// TracedDispatcher wraps a dispatcher with spans for each enqueue.
type TracedDispatcher struct {
	inner domain.Dispatcher
}

// NewTracedDispatcher wraps d with tracing.
func NewTracedDispatcher(d domain.Dispatcher) *TracedDispatcher {
	return &TracedDispatcher{inner: d}
}

func (d *TracedDispatcher) Notify(ctx context.Context, n domain.Notification) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dispatcher.Notify",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(attribute.String("notification.type", n.Type)),
	)
	defer span.End()

	if err := d.inner.Notify(ctx, n); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (d *TracedDispatcher) Email(ctx context.Context, e domain.Email) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dispatcher.Email",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(attribute.String("email.template", e.Template)),
	)
	defer span.End()

	if err := d.inner.Email(ctx, e); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
