package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/neomorfeo/roomstay/internal/domain"
)

type listingRepo struct {
	q querier
}

func (r *listingRepo) Create(ctx context.Context, l domain.Listing) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO listings (id, provider_id, title, address, gender_policy, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.ProviderID, l.Title, l.Address, string(l.GenderPolicy),
		l.CreatedAt.Format(timeFormat),
		l.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting listing: %w", err)
	}

	for _, room := range l.Rooms {
		_, err := r.q.ExecContext(ctx,
			`INSERT INTO rooms (id, listing_id, name, capacity, available_beds, month_rent, deposit, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			room.ID, l.ID, room.Name, room.Capacity, room.AvailableBeds,
			room.MonthRent, room.Deposit, string(room.Status),
		)
		if err != nil {
			return fmt.Errorf("inserting room %s: %w", room.ID, err)
		}
	}

	return nil
}

func (r *listingRepo) GetByID(ctx context.Context, id string) (domain.Listing, error) {
	l, err := scanListing(r.q.QueryRowContext(ctx,
		`SELECT id, provider_id, title, address, gender_policy, created_at, updated_at
		 FROM listings WHERE id = ?`, id,
	))
	if err != nil {
		return domain.Listing{}, err
	}

	rooms, err := r.roomsOf(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	l.Rooms = rooms

	return l, nil
}

func (r *listingRepo) GetRoom(ctx context.Context, listingID, roomID string) (domain.Room, error) {
	return scanRoom(r.q.QueryRowContext(ctx,
		`SELECT id, listing_id, name, capacity, available_beds, month_rent, deposit, status
		 FROM rooms WHERE id = ? AND listing_id = ?`,
		roomID, listingID,
	))
}

func (r *listingRepo) List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	query := `SELECT id, provider_id, title, address, gender_policy, created_at, updated_at FROM listings`
	var args []any

	if filter.ProviderID != "" {
		query += ` WHERE provider_id = ?`
		args = append(args, filter.ProviderID)
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
		return nil, fmt.Errorf("listing listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		var policy, createdAt, updatedAt string
		if err := rows.Scan(&l.ID, &l.ProviderID, &l.Title, &l.Address, &policy, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning listing row: %w", err)
		}
		l.GenderPolicy = domain.GenderPolicy(policy)
		l.CreatedAt, _ = time.Parse(timeFormat, createdAt)
		l.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range listings {
		rooms, err := r.roomsOf(ctx, listings[i].ID)
		if err != nil {
			return nil, err
		}
		listings[i].Rooms = rooms
	}

	return listings, nil
}

// DecrementBeds takes one bed with a conditional single-statement update.
// Two payments confirming concurrently for the last bed cannot both win:
// the guard makes the second UPDATE match zero rows.
func (r *listingRepo) DecrementBeds(ctx context.Context, listingID, roomID string) (domain.Room, error) {
	result, err := r.q.ExecContext(ctx,
		`UPDATE rooms
		 SET available_beds = available_beds - 1,
		     status = CASE WHEN available_beds - 1 = 0 THEN 'full' ELSE status END
		 WHERE id = ? AND listing_id = ? AND available_beds > 0`,
		roomID, listingID,
	)
	if err != nil {
		return domain.Room{}, fmt.Errorf("decrementing beds: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Room{}, fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish a missing room from a full one.
		if _, err := r.GetRoom(ctx, listingID, roomID); err != nil {
			return domain.Room{}, err
		}
		return domain.Room{}, domain.ErrNoBedsAvailable
	}

	return r.GetRoom(ctx, listingID, roomID)
}

// IncrementBeds frees one bed, clamped at capacity. A room already at
// capacity stays there; the move-out itself still succeeds.
func (r *listingRepo) IncrementBeds(ctx context.Context, listingID, roomID string) (domain.Room, error) {
	_, err := r.q.ExecContext(ctx,
		`UPDATE rooms
		 SET available_beds = available_beds + 1,
		     status = CASE WHEN status = 'full' THEN 'available' ELSE status END
		 WHERE id = ? AND listing_id = ? AND available_beds < capacity`,
		roomID, listingID,
	)
	if err != nil {
		return domain.Room{}, fmt.Errorf("incrementing beds: %w", err)
	}

	return r.GetRoom(ctx, listingID, roomID)
}

func (r *listingRepo) roomsOf(ctx context.Context, listingID string) ([]domain.Room, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, listing_id, name, capacity, available_beds, month_rent, deposit, status
		 FROM rooms WHERE listing_id = ? ORDER BY name`,
		listingID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading rooms: %w", err)
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var room domain.Room
		var status string
		if err := rows.Scan(&room.ID, &room.ListingID, &room.Name, &room.Capacity,
			&room.AvailableBeds, &room.MonthRent, &room.Deposit, &status); err != nil {
			return nil, fmt.Errorf("scanning room row: %w", err)
		}
		room.Status = domain.RoomStatus(status)
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

func scanListing(row *sql.Row) (domain.Listing, error) {
	var l domain.Listing
	var policy, createdAt, updatedAt string

	err := row.Scan(&l.ID, &l.ProviderID, &l.Title, &l.Address, &policy, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Listing{}, domain.ErrListingNotFound
		}
		return domain.Listing{}, fmt.Errorf("scanning listing: %w", err)
	}

	l.GenderPolicy = domain.GenderPolicy(policy)
	l.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	l.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return l, nil
}

func scanRoom(row *sql.Row) (domain.Room, error) {
	var room domain.Room
	var status string

	err := row.Scan(&room.ID, &room.ListingID, &room.Name, &room.Capacity,
		&room.AvailableBeds, &room.MonthRent, &room.Deposit, &status)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Room{}, domain.ErrRoomNotFound
		}
		return domain.Room{}, fmt.Errorf("scanning room: %w", err)
	}

	room.Status = domain.RoomStatus(status)
	return room, nil
}
