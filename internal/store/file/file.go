// Package file persists the book as a JSON blob on disk, the local
// single-user backend. The whole book is loaded once at startup through the
// legacy decoder, so blobs written by the previous generation of the app are
// accepted transparently, and rewritten in canonical shape on save.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gastos/internal/core"
	"gastos/internal/ledger"
	"gastos/internal/legacy"
	"gastos/internal/log"
	"gastos/internal/store"
)

const (
	bookFile = "book.json"
	// Blob name used by the previous generation, read as a fallback when
	// the canonical file does not exist yet.
	legacyBookFile = "expenses_v1.json"

	incomeFile       = "income.json"
	legacyIncomeFile = "incomes_v1.json"
)

// Store keeps the full book in memory and rewrites the blobs after every
// mutation. Writes go through a temp file and rename so a crash never
// leaves a half-written blob.
type Store struct {
	mu     sync.Mutex
	dir    string
	book   ledger.Book
	logger *log.Logger
}

var _ store.Store = (*Store)(nil)

// New loads the book from dir, creating the directory if needed. A missing
// or unreadable blob starts an empty book; malformed content never fails
// startup.
func New(dir string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &Store{
		dir:    dir,
		book:   ledger.NewBook(),
		logger: logger.WithComponent(log.ComponentStorage),
	}

	if data, name, ok := readFirst(dir, bookFile, legacyBookFile); ok {
		s.book.Months = legacy.DecodeBook(data)
		s.logger.Info("loaded book blob",
			log.FieldBackend, "file",
			"file", name,
			"months", len(s.book.Months))
	}
	if data, name, ok := readFirst(dir, incomeFile, legacyIncomeFile); ok {
		s.book.Income = legacy.DecodeIncome(data)
		s.logger.Info("loaded income blob", log.FieldBackend, "file", "file", name)
	}
	return s, nil
}

func readFirst(dir string, names ...string) ([]byte, string, bool) {
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return data, name, true
		}
	}
	return nil, "", false
}

func (s *Store) ListRecords(_ context.Context, scope store.Scope) ([]core.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.book.Records(scope.Month)
	records := make([]core.ExpenseRecord, len(current))
	copy(records, current)
	return records, nil
}

func (s *Store) GetRecord(_ context.Context, _ string, id string) (core.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, records := range s.book.Months {
		for _, r := range records {
			if r.ID == id {
				return r, nil
			}
		}
	}
	return core.ExpenseRecord{}, store.ErrNotFound
}

func (s *Store) AddRecords(_ context.Context, _ string, records []core.ExpenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.book
	for _, rec := range records {
		next = ledger.Insert(next, rec)
	}
	return s.commitBook(next)
}

func (s *Store) DeleteRecords(_ context.Context, scope store.Scope, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitBook(ledger.RemoveGroup(s.book, scope.Month, ids))
}

func (s *Store) ClearMonth(_ context.Context, scope store.Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitBook(ledger.ClearMonth(s.book, scope.Month))
}

func (s *Store) ReassignCategory(_ context.Context, scope store.Scope, ids []string, to core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := ledger.ReassignCategory(s.book, scope.Month, ids, to)
	if err != nil {
		return err
	}
	return s.commitBook(next)
}

// Income ignores the scope: the file backend keeps one profile for the
// whole book.
func (s *Store) Income(_ context.Context, _ store.Scope) (core.IncomeProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Income, nil
}

func (s *Store) SetIncomeField(_ context.Context, _ store.Scope, field string, cents int64) error {
	if cents < 0 {
		return core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	income, ok := s.book.Income.WithField(field, cents)
	if !ok {
		return core.ErrInvalidAmount
	}
	next := s.book
	next.Income = income
	if err := s.writeJSON(incomeFile, income); err != nil {
		return err
	}
	s.book = next
	return nil
}

func (s *Store) Close() error { return nil }

// commitBook persists months first and only then swaps the in-memory book,
// so a failed write leaves the previous state visible.
func (s *Store) commitBook(next ledger.Book) error {
	if err := s.writeJSON(bookFile, next.Months); err != nil {
		return err
	}
	s.book = next
	return nil
}

func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
