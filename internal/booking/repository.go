package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/conference-booking-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error

	// ConfirmedOnDate returns the confirmed bookings of a room on the calendar
	// date of day, ordered by start time. A non-empty excludeID is left out.
	ConfirmedOnDate(ctx context.Context, roomID string, day time.Time, excludeID string) ([]*Booking, error)

	// InRoomTx runs fn against a repository bound to a transaction that holds
	// the room lock. The transaction commits when fn returns nil.
	InRoomTx(ctx context.Context, roomID string, fn func(tx Repository) error) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
	q    db.Querier
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool, q: pool}
}

var bookingColumns = []string{
	"b.id", "b.room_id", "r.name", "b.name", "b.email", "b.booking_date", "b.start_time",
	"b.duration_minutes", "b.attendees", "b.purpose", "b.price", "b.status",
	"b.modification_count", "b.created_at", "b.updated_at",
}

func selectBookings() squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.rooms r ON r.id = b.room_id")
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var (
		b     Booking
		date  time.Time
		clock pgtype.Time
	)
	dest := []any{
		&b.ID, &b.RoomID, &b.RoomName, &b.Name, &b.Email, &date, &clock,
		&b.DurationMinutes, &b.Attendees, &b.Purpose, &b.Price, &b.Status,
		&b.ModificationCount, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	b.Start = startOfDay(date.UTC()).Add(time.Duration(clock.Microseconds) * time.Microsecond)
	return &b, nil
}

// timeOfDay converts the clock part of t into the pgx TIME representation.
func timeOfDay(t time.Time) pgtype.Time {
	since := t.Sub(startOfDay(t))
	return pgtype.Time{Microseconds: since.Microseconds(), Valid: true}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("room_id", "name", "email", "booking_date", "start_time", "duration_minutes",
			"attendees", "purpose", "price", "status", "modification_count").
		Values(b.RoomID, b.Name, b.Email, startOfDay(b.Start), timeOfDay(b.Start), b.DurationMinutes,
			b.Attendees, b.Purpose, b.Price, b.Status, b.ModificationCount).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		switch {
		case isExclusionViolation(err):
			return ErrTimeConflict
		case isForeignKeyViolation(err):
			return ErrRoomNotFound
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query := selectBookings().Column("count(*) OVER() as total_count")

	if filter.RoomID != "" {
		query = query.Where(squirrel.Eq{"b.room_id": filter.RoomID})
	}
	if filter.Date != nil {
		query = query.Where(squirrel.Eq{"b.booking_date": startOfDay(*filter.Date)})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}

	query = query.OrderBy("b.booking_date DESC", "b.start_time DESC")

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var result []*Booking
	var total int

	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("booking_date", startOfDay(b.Start)).
		Set("start_time", timeOfDay(b.Start)).
		Set("duration_minutes", b.DurationMinutes).
		Set("attendees", b.Attendees).
		Set("purpose", b.Purpose).
		Set("price", b.Price).
		Set("status", b.Status).
		Set("modification_count", b.ModificationCount).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return ErrNotFound
		case isExclusionViolation(err):
			return ErrTimeConflict
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ConfirmedOnDate(ctx context.Context, roomID string, day time.Time, excludeID string) ([]*Booking, error) {
	query := selectBookings().
		Where(squirrel.Eq{
			"b.room_id":      roomID,
			"b.booking_date": startOfDay(day),
			"b.status":       StatusConfirmed,
		})
	if excludeID != "" {
		query = query.Where(squirrel.NotEq{"b.id": excludeID})
	}

	sql, args, err := query.OrderBy("b.start_time ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build confirmed bookings query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list confirmed bookings failed: %w", err)
	}
	defer rows.Close()

	var result []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list confirmed bookings failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) InRoomTx(ctx context.Context, roomID string, fn func(tx Repository) error) error {
	if r.pool == nil {
		// Already inside a transaction; the lock is reentrant for the session.
		if err := db.LockRoom(ctx, r.q, roomID); err != nil {
			return err
		}
		return fn(r)
	}

	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := db.LockRoom(ctx, tx, roomID); err != nil {
			return err
		}
		return fn(&pgxRepository{q: tx})
	})
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
