package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/neomorfeo/roomstay/internal/domain"
)

type bookingRepo struct {
	q querier
}

const bookingColumns = `id, listing_id, room_id, seeker_id, provider_id, status, payment_state,
	agreed_month_rent, agreed_deposit, total_amount,
	applicant_name, applicant_email, applicant_phone, applicant_gender, applicant_occupation,
	payment_intent_id, created_at, updated_at`

func (r *bookingRepo) Create(ctx context.Context, b domain.Booking) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO bookings (`+bookingColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.ListingID, b.RoomID, b.SeekerID, b.ProviderID,
		string(b.Status), string(b.PaymentState),
		b.AgreedMonthRent, b.AgreedDeposit, b.TotalAmount,
		b.Applicant.Name, b.Applicant.Email, b.Applicant.Phone,
		b.Applicant.Gender, b.Applicant.Occupation,
		b.PaymentIntentID,
		b.CreatedAt.Format(timeFormat),
		b.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}
	return nil
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	return scanBooking(r.q.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id,
	))
}

func (r *bookingRepo) GetByIntentID(ctx context.Context, intentID string) (domain.Booking, error) {
	return scanBooking(r.q.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE payment_intent_id = ? AND payment_intent_id != ''`,
		intentID,
	))
}

func (r *bookingRepo) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	var conds []string
	var args []any

	if filter.Status != nil {
		conds = append(conds, `status = ?`)
		args = append(args, string(*filter.Status))
	}
	if filter.ListingID != "" {
		conds = append(conds, `listing_id = ?`)
		args = append(args, filter.ListingID)
	}
	if filter.SeekerID != "" {
		conds = append(conds, `seeker_id = ?`)
		args = append(args, filter.SeekerID)
	}
	if filter.ProviderID != "" {
		conds = append(conds, `provider_id = ?`)
		args = append(args, filter.ProviderID)
	}

	for i, c := range conds {
		if i == 0 {
			query += ` WHERE ` + c
		} else {
			query += ` AND ` + c
		}
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBookingFromRows(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// Update writes only the mutable fields. The financial and applicant
// snapshots are frozen at creation and deliberately not part of the SET
// clause.
func (r *bookingRepo) Update(ctx context.Context, b domain.Booking) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE bookings SET status = ?, payment_state = ?, payment_intent_id = ?, updated_at = ?
		 WHERE id = ?`,
		string(b.Status), string(b.PaymentState), b.PaymentIntentID,
		time.Now().UTC().Format(timeFormat), b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrBookingNotFound
	}

	return nil
}

func scanBooking(row *sql.Row) (domain.Booking, error) {
	var b domain.Booking
	var status, paymentState, createdAt, updatedAt string

	err := row.Scan(
		&b.ID, &b.ListingID, &b.RoomID, &b.SeekerID, &b.ProviderID,
		&status, &paymentState,
		&b.AgreedMonthRent, &b.AgreedDeposit, &b.TotalAmount,
		&b.Applicant.Name, &b.Applicant.Email, &b.Applicant.Phone,
		&b.Applicant.Gender, &b.Applicant.Occupation,
		&b.PaymentIntentID, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, fmt.Errorf("scanning booking: %w", err)
	}

	b.Status = domain.BookingStatus(status)
	b.PaymentState = domain.PaymentState(paymentState)
	b.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	b.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return b, nil
}

func scanBookingFromRows(rows *sql.Rows) (domain.Booking, error) {
	var b domain.Booking
	var status, paymentState, createdAt, updatedAt string

	err := rows.Scan(
		&b.ID, &b.ListingID, &b.RoomID, &b.SeekerID, &b.ProviderID,
		&status, &paymentState,
		&b.AgreedMonthRent, &b.AgreedDeposit, &b.TotalAmount,
		&b.Applicant.Name, &b.Applicant.Email, &b.Applicant.Phone,
		&b.Applicant.Gender, &b.Applicant.Occupation,
		&b.PaymentIntentID, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("scanning booking row: %w", err)
	}

	b.Status = domain.BookingStatus(status)
	b.PaymentState = domain.PaymentState(paymentState)
	b.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	b.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return b, nil
}
