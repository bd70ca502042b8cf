package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/neomorfeo/roomstay/internal/domain"
)

type tenantRepo struct {
	q querier
}

const tenantColumns = `id, listing_id, room_id, provider_id, booking_id, name, email, phone,
	status, rent_amount, deposit_amount, moved_in_at, moved_out_at, created_at, updated_at`

func (r *tenantRepo) Create(ctx context.Context, t domain.Tenant) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO tenants (`+tenantColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ListingID, t.RoomID, t.ProviderID, t.BookingID,
		t.Name, t.Email, t.Phone, string(t.Status),
		t.RentAmount, t.DepositAmount,
		nullTime(t.MovedInAt), nullTime(t.MovedOutAt),
		t.CreatedAt.Format(timeFormat),
		t.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		if isUniqueViolation(err) {
			// The partial unique index on live occupants fired: another
			// tenant record already covers this applicant.
			return fmt.Errorf("live tenant already exists for %s on listing %s: %w",
				t.Email, t.ListingID, err)
		}
		return fmt.Errorf("inserting tenant: %w", err)
	}
	return nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id string) (domain.Tenant, error) {
	return scanTenant(r.q.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = ?`, id,
	))
}

func (r *tenantRepo) FindOccupant(ctx context.Context, listingID, providerID, email string) (domain.Tenant, error) {
	return scanTenant(r.q.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants
		 WHERE listing_id = ? AND provider_id = ? AND email = ?
		   AND status IN ('pending', 'active')`,
		listingID, providerID, email,
	))
}

func (r *tenantRepo) List(ctx context.Context, filter domain.TenantFilter) ([]domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants`
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
		return nil, fmt.Errorf("listing tenants: %w", err)
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		t, err := scanTenantFromRows(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}

	return tenants, rows.Err()
}

func (r *tenantRepo) Update(ctx context.Context, t domain.Tenant) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE tenants SET room_id = ?, booking_id = ?, status = ?, rent_amount = ?,
		        deposit_amount = ?, moved_in_at = ?, moved_out_at = ?, updated_at = ?
		 WHERE id = ?`,
		t.RoomID, t.BookingID, string(t.Status), t.RentAmount, t.DepositAmount,
		nullTime(t.MovedInAt), nullTime(t.MovedOutAt),
		time.Now().UTC().Format(timeFormat), t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating tenant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrTenantNotFound
	}

	return nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeFormat)
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(timeFormat, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func scanTenant(row *sql.Row) (domain.Tenant, error) {
	var t domain.Tenant
	var status, createdAt, updatedAt string
	var movedIn, movedOut sql.NullString

	err := row.Scan(
		&t.ID, &t.ListingID, &t.RoomID, &t.ProviderID, &t.BookingID,
		&t.Name, &t.Email, &t.Phone, &status,
		&t.RentAmount, &t.DepositAmount,
		&movedIn, &movedOut, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Tenant{}, domain.ErrTenantNotFound
		}
		return domain.Tenant{}, fmt.Errorf("scanning tenant: %w", err)
	}

	t.Status = domain.TenantStatus(status)
	t.MovedInAt = parseNullTime(movedIn)
	t.MovedOutAt = parseNullTime(movedOut)
	t.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	t.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return t, nil
}

func scanTenantFromRows(rows *sql.Rows) (domain.Tenant, error) {
	var t domain.Tenant
	var status, createdAt, updatedAt string
	var movedIn, movedOut sql.NullString

	err := rows.Scan(
		&t.ID, &t.ListingID, &t.RoomID, &t.ProviderID, &t.BookingID,
		&t.Name, &t.Email, &t.Phone, &status,
		&t.RentAmount, &t.DepositAmount,
		&movedIn, &movedOut, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("scanning tenant row: %w", err)
	}

	t.Status = domain.TenantStatus(status)
	t.MovedInAt = parseNullTime(movedIn)
	t.MovedOutAt = parseNullTime(movedOut)
	t.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	t.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return t, nil
}
