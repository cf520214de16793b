// Package store defines the persistence ports for the expense book and the
// factory that selects a concrete backend. Backends differ in where data
// lives, not in semantics: every implementation keeps months ordered
// newest-record-first and seeds the income profile on first access.
package store

import (
	"context"
	"errors"

	"gastos/internal/core"
)

var (
	// ErrNotFound reports a lookup for a record or user that does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrEmailTaken reports a sign-up with an already registered email.
	ErrEmailTaken = errors.New("store: email already registered")
)

// Scope narrows an operation to one user's month. Single-user backends
// ignore UserID; it is empty there.
type Scope struct {
	UserID string
	Month  core.MonthKey
}

// Store is the unified backend interface. All mutations operate on
// already-validated records built by the ledger package.
type Store interface {
	// ListRecords returns the scope's records newest first.
	ListRecords(ctx context.Context, scope Scope) ([]core.ExpenseRecord, error)
	// GetRecord fetches one record by id regardless of month.
	GetRecord(ctx context.Context, userID, id string) (core.ExpenseRecord, error)
	// AddRecords persists a batch atomically: one record for a single
	// entry, one per month for a series.
	AddRecords(ctx context.Context, userID string, records []core.ExpenseRecord) error
	// DeleteRecords removes the listed ids from the scope's month.
	// Unknown ids are skipped.
	DeleteRecords(ctx context.Context, scope Scope, ids []string) error
	// ClearMonth drops every record of the scope's month.
	ClearMonth(ctx context.Context, scope Scope) error
	// ReassignCategory moves the listed records to another category.
	ReassignCategory(ctx context.Context, scope Scope, ids []string, to core.Category) error

	// Income returns the scope's income profile, seeding defaults when the
	// scope has none yet.
	Income(ctx context.Context, scope Scope) (core.IncomeProfile, error)
	// SetIncomeField replaces one income field. Zero is a valid value.
	SetIncomeField(ctx context.Context, scope Scope, field string, cents int64) error

	Close() error
}

// User is an account row for multi-user backends.
type User struct {
	ID           string
	Email        string
	PasswordHash string
}

// UserStore is implemented by backends that hold accounts. The file and
// sqlite backends are single-user and do not provide it.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
}
