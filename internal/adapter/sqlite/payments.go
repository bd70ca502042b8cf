package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neomorfeo/roomstay/internal/domain"
)

type paymentRepo struct {
	q querier
}

func (r *paymentRepo) Create(ctx context.Context, p domain.Payment) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO payments (id, booking_id, gateway_intent_id, payer_id, payee_id,
		                       amount, platform_fee, method, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.BookingID, p.GatewayIntentID, p.PayerID, p.PayeeID,
		p.Amount, p.PlatformFee, p.Method, string(p.Status),
		p.CreatedAt.Format(timeFormat),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePayment
		}
		return fmt.Errorf("inserting payment: %w", err)
	}
	return nil
}

func (r *paymentRepo) GetByIntentID(ctx context.Context, intentID string) (domain.Payment, error) {
	var p domain.Payment
	var status, createdAt string

	err := r.q.QueryRowContext(ctx,
		`SELECT id, booking_id, gateway_intent_id, payer_id, payee_id,
		        amount, platform_fee, method, status, created_at
		 FROM payments WHERE gateway_intent_id = ?`, intentID,
	).Scan(&p.ID, &p.BookingID, &p.GatewayIntentID, &p.PayerID, &p.PayeeID,
		&p.Amount, &p.PlatformFee, &p.Method, &status, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Payment{}, domain.ErrPaymentNotFound
		}
		return domain.Payment{}, fmt.Errorf("scanning payment: %w", err)
	}

	p.Status = domain.PaymentStatus(status)
	p.CreatedAt, _ = time.Parse(timeFormat, createdAt)

	return p, nil
}

type invoiceRepo struct {
	q querier
}

func (r *invoiceRepo) Create(ctx context.Context, inv domain.Invoice) error {
	items, err := json.Marshal(inv.LineItems)
	if err != nil {
		return fmt.Errorf("encoding line items: %w", err)
	}

	_, err = r.q.ExecContext(ctx,
		`INSERT INTO invoices (id, number, payment_id, tenant_id, provider_id,
		                       line_items, total_amount, status, issued_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Number, inv.PaymentID, inv.TenantID, inv.ProviderID,
		string(items), inv.Total, string(inv.Status),
		inv.IssuedAt.Format(timeFormat),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice already exists for payment %s: %w", inv.PaymentID, err)
		}
		return fmt.Errorf("inserting invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByPaymentID(ctx context.Context, paymentID string) (domain.Invoice, error) {
	var inv domain.Invoice
	var items, status, issuedAt string

	err := r.q.QueryRowContext(ctx,
		`SELECT id, number, payment_id, tenant_id, provider_id,
		        line_items, total_amount, status, issued_at
		 FROM invoices WHERE payment_id = ?`, paymentID,
	).Scan(&inv.ID, &inv.Number, &inv.PaymentID, &inv.TenantID, &inv.ProviderID,
		&items, &inv.Total, &status, &issuedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Invoice{}, domain.ErrInvoiceNotFound
		}
		return domain.Invoice{}, fmt.Errorf("scanning invoice: %w", err)
	}

	if err := json.Unmarshal([]byte(items), &inv.LineItems); err != nil {
		return domain.Invoice{}, fmt.Errorf("decoding line items: %w", err)
	}

	inv.Status = domain.InvoiceStatus(status)
	inv.IssuedAt, _ = time.Parse(timeFormat, issuedAt)

	return inv, nil
}
