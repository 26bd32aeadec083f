// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// The service takes repository.EntryRepository (an interface), not a concrete
// *sqlite.DB — "programming to an interface". Tests inject a mock repository;
// swapping SQLite for something else is a one-line change in the server wiring.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/sakif/coffee-journal/internal/apperror"
	"github.com/sakif/coffee-journal/internal/model"
	"github.com/sakif/coffee-journal/internal/repository"
)

// Rating bounds, enforced server-side. The form UI constrains input too,
// but anything can POST to the API directly.
const (
	MinRating = 1
	MaxRating = 10
)

// EntryInput carries the client-supplied fields for a new entry.
// Optional fields are pointers; the service normalises empty or
// whitespace-only strings to absent before anything is stored.
type EntryInput struct {
	CoffeeName    string      `json:"coffee_name"`
	Roaster       *string     `json:"roaster"`
	Origin        *string     `json:"origin"`
	Processing    *string     `json:"processing"`
	RoastLevel    *string     `json:"roast_level"`
	BrewingMethod *string     `json:"brewing_method"`
	Rating        *float64    `json:"rating"`
	TastingNotes  *string     `json:"tasting_notes"`
	DateTried     *model.Date `json:"date_tried"`
}

// EntryService handles business logic for coffee entries.
type EntryService struct {
	repo   repository.EntryRepository
	logger *slog.Logger
}

// NewEntryService creates a new EntryService.
func NewEntryService(repo repository.EntryRepository, logger *slog.Logger) *EntryService {
	return &EntryService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and saves a new entry, returning it with its assigned id.
//
// Validation rules:
//   - coffee_name is required (after trimming whitespace) — the journal's
//     one mandatory field
//   - rating, when present, must be within [MinRating, MaxRating]
//   - empty optional text fields are normalised to absent, so a persisted
//     record never contains an empty string
func (s *EntryService) Create(ctx context.Context, input EntryInput) (*model.CoffeeEntry, error) {
	name := strings.TrimSpace(input.CoffeeName)
	if name == "" {
		return nil, apperror.ValidationFailed("coffee_name", "coffee name is required")
	}

	// math.IsNaN makes the bound check self-contained: NaN compares false
	// against both bounds, so without it a NaN rating would slip through.
	if input.Rating != nil &&
		(math.IsNaN(*input.Rating) || *input.Rating < MinRating || *input.Rating > MaxRating) {
		return nil, apperror.ValidationFailed("rating",
			fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}

	entry := &model.CoffeeEntry{
		CoffeeName:    name,
		Roaster:       normalize(input.Roaster),
		Origin:        normalize(input.Origin),
		Processing:    normalize(input.Processing),
		RoastLevel:    normalize(input.RoastLevel),
		BrewingMethod: normalize(input.BrewingMethod),
		Rating:        input.Rating,
		TastingNotes:  normalize(input.TastingNotes),
		DateTried:     normalizeDate(input.DateTried),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to create coffee entry",
			slog.String("coffee_name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating coffee entry: %w", err)
	}

	s.logger.Info("coffee entry created",
		slog.String("id", entry.ID),
		slog.String("coffee_name", entry.CoffeeName),
	)

	return entry, nil
}

// GetByID retrieves an entry by its ID.
// Returns apperror.ErrNotFound if it doesn't exist.
func (s *EntryService) GetByID(ctx context.Context, id string) (*model.CoffeeEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "entry ID is required")
	}

	return s.repo.GetByID(ctx, id)
}

// List returns all entries newest-first.
//
// The store hands back insertion order (oldest first); the reversal here is
// a presentation convenience for the journal view, not a stored property.
func (s *EntryService) List(ctx context.Context) ([]model.CoffeeEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list coffee entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing coffee entries: %w", err)
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, nil
}

// Delete removes an entry by its ID.
// Returns apperror.ErrNotFound if the entry doesn't exist — deleting an
// unknown id is an error, not a silent no-op.
func (s *EntryService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "entry ID is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("coffee entry deleted", slog.String("id", id))
	return nil
}

// normalize trims an optional text field and converts empty results to
// absent. "Absent" and "empty string" must never both exist in storage.
func normalize(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// normalizeDate converts a zero-valued date to absent. A JSON
// `"date_tried": ""` decodes to a non-nil pointer holding the zero Date —
// encoding/json allocates the pointer before our UnmarshalJSON sees the
// empty string — and the zero value must not persist as "0001-01-01".
func normalizeDate(d *model.Date) *model.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}
