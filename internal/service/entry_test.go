package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"testing"
	"time"

	"github.com/sakif/coffee-journal/internal/apperror"
	"github.com/sakif/coffee-journal/internal/model"
	"github.com/sakif/coffee-journal/internal/repository"
)

// =========================================================================
// MOCK REPOSITORY
// =========================================================================
//
// A hand-written in-memory implementation of repository.EntryRepository.
// The service doesn't know or care which implementation it gets — that's
// the point of the interface. The mock also lets us simulate storage
// failures (failWith) that are hard to trigger with a real database.

type mockEntryRepo struct {
	entries  []*model.CoffeeEntry // Slice, so insertion order is preserved
	nextID   int
	failWith error // When set, every operation returns this error
}

func newMockRepo() *mockEntryRepo {
	return &mockEntryRepo{}
}

func (m *mockEntryRepo) Create(_ context.Context, entry *model.CoffeeEntry) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.nextID++
	entry.ID = fmt.Sprintf("mock-%d", m.nextID)
	entry.CreatedAt = time.Now()
	stored := *entry
	m.entries = append(m.entries, &stored)
	return nil
}

func (m *mockEntryRepo) GetByID(_ context.Context, id string) (*model.CoffeeEntry, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, e := range m.entries {
		if e.ID == id {
			result := *e
			return &result, nil
		}
	}
	return nil, apperror.NotFound("coffee entry", id)
}

func (m *mockEntryRepo) List(_ context.Context) ([]model.CoffeeEntry, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	result := make([]model.CoffeeEntry, 0, len(m.entries))
	for _, e := range m.entries {
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockEntryRepo) Delete(_ context.Context, id string) error {
	if m.failWith != nil {
		return m.failWith
	}
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("coffee entry", id)
}

// =========================================================================
// TEST HELPERS
// =========================================================================

func newTestService(t *testing.T) (*EntryService, *mockEntryRepo) {
	t.Helper()
	repo := newMockRepo()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := NewEntryService(repo, logger)
	return svc, repo
}

var _ repository.EntryRepository = (*mockEntryRepo)(nil)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestCreate_Success(t *testing.T) {
	svc, _ := newTestService(t)

	entry, err := svc.Create(context.Background(), EntryInput{
		CoffeeName: "Ethiopian Keramo",
		Roaster:    strPtr("Rowan"),
		Rating:     floatPtr(8.5),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if entry.ID == "" {
		t.Error("expected entry to have an ID")
	}
	if entry.CoffeeName != "Ethiopian Keramo" {
		t.Errorf("CoffeeName = %q, want %q", entry.CoffeeName, "Ethiopian Keramo")
	}
	if entry.Roaster == nil || *entry.Roaster != "Rowan" {
		t.Errorf("Roaster = %v, want %q", entry.Roaster, "Rowan")
	}
	if entry.Rating == nil || *entry.Rating != 8.5 {
		t.Errorf("Rating = %v, want 8.5", entry.Rating)
	}
}

func TestCreate_TrimsCoffeeName(t *testing.T) {
	svc, _ := newTestService(t)

	entry, err := svc.Create(context.Background(), EntryInput{CoffeeName: "  Kenya AA  "})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if entry.CoffeeName != "Kenya AA" {
		t.Errorf("CoffeeName = %q, want trimmed %q", entry.CoffeeName, "Kenya AA")
	}
}

func TestCreate_EmptyName(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.Create(context.Background(), EntryInput{CoffeeName: ""})
	if err == nil {
		t.Fatal("Create() should error on empty coffee name")
	}
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
	// Rejected creates must not persist anything.
	if len(repo.entries) != 0 {
		t.Errorf("repo has %d entries after rejected create, want 0", len(repo.entries))
	}
}

func TestCreate_WhitespaceOnlyName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), EntryInput{CoffeeName: "   "})
	if err == nil {
		t.Fatal("Create() should error on whitespace-only coffee name")
	}
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestCreate_NormalizesEmptyOptionalFields(t *testing.T) {
	svc, _ := newTestService(t)

	// The client converts empty inputs to absent, but the service must not
	// rely on that — "" and "   " both become nil before storage.
	entry, err := svc.Create(context.Background(), EntryInput{
		CoffeeName:    "Colombia Huila",
		Roaster:       strPtr(""),
		Origin:        strPtr("   "),
		BrewingMethod: strPtr("  Aeropress "),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if entry.Roaster != nil {
		t.Errorf("Roaster = %v, want nil for empty input", entry.Roaster)
	}
	if entry.Origin != nil {
		t.Errorf("Origin = %v, want nil for whitespace input", entry.Origin)
	}
	if entry.BrewingMethod == nil || *entry.BrewingMethod != "Aeropress" {
		t.Errorf("BrewingMethod = %v, want trimmed %q", entry.BrewingMethod, "Aeropress")
	}
}

func TestCreate_NormalizesEmptyDateTried(t *testing.T) {
	svc, _ := newTestService(t)

	// Decoding `"date_tried": ""` leaves a non-nil pointer holding the zero
	// Date — encoding/json allocates the pointer before UnmarshalJSON runs.
	// The service must turn that into absent, not persist "0001-01-01".
	var input EntryInput
	if err := json.Unmarshal([]byte(`{"coffee_name":"Colombia Huila","date_tried":""}`), &input); err != nil {
		t.Fatalf("setup: Unmarshal() error = %v", err)
	}

	entry, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if entry.DateTried != nil {
		t.Errorf("DateTried = %v, want nil for empty input", entry.DateTried)
	}
}

func TestCreate_KeepsValidDateTried(t *testing.T) {
	svc, _ := newTestService(t)

	var input EntryInput
	if err := json.Unmarshal([]byte(`{"coffee_name":"Kenya AA","date_tried":"2024-03-01"}`), &input); err != nil {
		t.Fatalf("setup: Unmarshal() error = %v", err)
	}

	entry, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if entry.DateTried == nil || entry.DateTried.String() != "2024-03-01" {
		t.Errorf("DateTried = %v, want 2024-03-01", entry.DateTried)
	}
}

func TestCreate_RatingRange(t *testing.T) {
	tests := []struct {
		name    string
		rating  float64
		wantErr bool
	}{
		{"minimum allowed", 1, false},
		{"maximum allowed", 10, false},
		{"half step", 8.5, false},
		{"below range", 0.5, true},
		{"above range", 10.5, true},
		{"negative", -3, true},
		{"NaN", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			_, err := svc.Create(context.Background(), EntryInput{
				CoffeeName: "rated",
				Rating:     floatPtr(tt.rating),
			})
			if tt.wantErr {
				if !errors.Is(err, apperror.ErrValidation) {
					t.Errorf("rating %v: error = %v, want ErrValidation", tt.rating, err)
				}
			} else if err != nil {
				t.Errorf("rating %v: unexpected error = %v", tt.rating, err)
			}
		})
	}
}

func TestCreate_StorageFailure(t *testing.T) {
	svc, repo := newTestService(t)
	repo.failWith = errors.New("disk unplugged")

	_, err := svc.Create(context.Background(), EntryInput{CoffeeName: "doomed"})
	if err == nil {
		t.Fatal("Create() should surface storage failures")
	}
	if errors.Is(err, apperror.ErrValidation) || errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("storage failure mapped to a domain error: %v", err)
	}
}

// =========================================================================
// GET BY ID TESTS
// =========================================================================

func TestGetByID_Success(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), EntryInput{CoffeeName: "fetch me"})
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}

	found, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.CoffeeName != "fetch me" {
		t.Errorf("CoffeeName = %q, want %q", found.CoffeeName, "fetch me")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetByID_EmptyID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByID(context.Background(), "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestList_Empty(t *testing.T) {
	svc, _ := newTestService(t)

	entries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() returned %d items, want 0", len(entries))
	}
}

func TestList_NewestFirst(t *testing.T) {
	svc, _ := newTestService(t)

	names := []string{"first", "second", "third", "fourth", "fifth"}
	for _, name := range names {
		if _, err := svc.Create(context.Background(), EntryInput{CoffeeName: name}); err != nil {
			t.Fatalf("setup: Create(%q) error = %v", name, err)
		}
	}

	entries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != len(names) {
		t.Fatalf("List() returned %d entries, want %d", len(entries), len(names))
	}

	// Service order is the reverse of creation order.
	for i := range names {
		want := names[len(names)-1-i]
		if entries[i].CoffeeName != want {
			t.Errorf("entries[%d].CoffeeName = %q, want %q", i, entries[i].CoffeeName, want)
		}
	}
}

func TestList_StorageFailure(t *testing.T) {
	svc, repo := newTestService(t)
	repo.failWith = errors.New("database locked")

	_, err := svc.List(context.Background())
	if err == nil {
		t.Fatal("List() should surface storage failures")
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestDelete_Success(t *testing.T) {
	svc, _ := newTestService(t)

	created, _ := svc.Create(context.Background(), EntryInput{CoffeeName: "to delete"})
	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := svc.GetByID(context.Background(), created.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("after delete: error = %v, want ErrNotFound", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Delete(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDelete_EmptyID(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Delete(context.Background(), "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}
