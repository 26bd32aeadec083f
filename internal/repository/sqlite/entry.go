package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/coffee-journal/internal/apperror"
	"github.com/sakif/coffee-journal/internal/model"
	"github.com/sakif/coffee-journal/internal/repository"
)

// Compile-time check that *DB implements repository.EntryRepository.
// If a method goes missing, the compiler errors here instead of at some
// distant call site.
var _ repository.EntryRepository = (*DB)(nil)

const entryColumns = `id, coffee_name, roaster, origin, processing, roast_level,
	brewing_method, rating, tasting_notes, date_tried, created_at`

// Create inserts a new entry and assigns its identity.
//
// IDs come from xid: 20 chars, URL-safe, sortable by creation time.
// The id and created_at are written back through the pointer so the caller
// gets the fully populated record.
//
// Optional fields are nil pointers; database/sql maps a nil pointer to NULL,
// so "not recorded" lands as NULL in the table, never as ''.
func (db *DB) Create(ctx context.Context, entry *model.CoffeeEntry) error {
	entry.ID = xid.New().String()
	entry.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO coffee_entries (`+entryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.CoffeeName,
		entry.Roaster,
		entry.Origin,
		entry.Processing,
		entry.RoastLevel,
		entry.BrewingMethod,
		entry.Rating,
		entry.TastingNotes,
		entry.DateTried,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating coffee entry: %w", err)
	}

	return nil
}

// GetByID retrieves a single entry by its ID.
// sql.ErrNoRows is translated to the app's NotFound error so the handler
// knows to return 404 — callers never see raw database/sql sentinels.
func (db *DB) GetByID(ctx context.Context, id string) (*model.CoffeeEntry, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM coffee_entries WHERE id = ?`, id)

	entry, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("coffee entry", id)
		}
		return nil, fmt.Errorf("sqlite: getting coffee entry %s: %w", id, err)
	}

	return entry, nil
}

// List retrieves every entry in insertion order (oldest first).
// An empty table yields an empty slice, not an error. The journal is
// personal-scale, so there is deliberately no LIMIT here.
func (db *DB) List(ctx context.Context) ([]model.CoffeeEntry, error) {
	// created_at gives insertion order; id (xid is time-sortable) breaks
	// ties between entries created within the same timestamp granularity.
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+entryColumns+`
		 FROM coffee_entries
		 ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing coffee entries: %w", err)
	}
	defer rows.Close()

	entries := []model.CoffeeEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning coffee entry row: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating coffee entries: %w", err)
	}

	return entries, nil
}

// Delete removes an entry by its ID.
// RowsAffected == 0 means the WHERE clause matched nothing → NotFound.
// Deleting an unknown id is therefore an error, consistently, at every layer.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM coffee_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting coffee entry %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("coffee entry", id)
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows, so scanEntry can
// serve GetByID and List with one set of column plumbing.
type scanner interface {
	Scan(dest ...any) error
}

// scanEntry reads one row into a CoffeeEntry, converting NULL columns
// into nil pointers.
func scanEntry(s scanner) (*model.CoffeeEntry, error) {
	var (
		entry     model.CoffeeEntry
		roaster   sql.NullString
		origin    sql.NullString
		process   sql.NullString
		roast     sql.NullString
		brewing   sql.NullString
		rating    sql.NullFloat64
		notes     sql.NullString
		dateTried sql.NullString
	)

	err := s.Scan(
		&entry.ID,
		&entry.CoffeeName,
		&roaster,
		&origin,
		&process,
		&roast,
		&brewing,
		&rating,
		&notes,
		&dateTried,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Roaster = nullableString(roaster)
	entry.Origin = nullableString(origin)
	entry.Processing = nullableString(process)
	entry.RoastLevel = nullableString(roast)
	entry.BrewingMethod = nullableString(brewing)
	entry.TastingNotes = nullableString(notes)
	if rating.Valid {
		entry.Rating = &rating.Float64
	}
	if dateTried.Valid {
		d, err := model.ParseDate(dateTried.String)
		if err != nil {
			return nil, fmt.Errorf("parsing stored date_tried: %w", err)
		}
		entry.DateTried = &d
	}

	return &entry, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
