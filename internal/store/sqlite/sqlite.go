// Package sqlite is the on-device row backend. Single-user: the user id of
// the scope is ignored, every row belongs to the device owner.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/store"
)

type Store struct {
	db     *sql.DB
	logger *log.Logger
}

var _ store.Store = (*Store)(nil)

// New opens (creating if needed) the database at dbPath and brings the
// schema up to date.
func New(dbPath string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const recordColumns = "id, month_key, category, description, amount_cents, created_at, origin_type, series_id, series_from, series_to"

func scanRecord(row interface{ Scan(...any) error }) (core.ExpenseRecord, error) {
	var r core.ExpenseRecord
	err := row.Scan(&r.ID, &r.Month, &r.Category, &r.Description, &r.AmountCents,
		&r.CreatedAt, &r.Origin.Type, &r.Origin.SeriesID, &r.Origin.FromMonth, &r.Origin.ToMonth)
	return r, err
}

func (s *Store) ListRecords(ctx context.Context, scope store.Scope) ([]core.ExpenseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recordColumns+" FROM expenses WHERE month_key = ? ORDER BY created_at DESC, rowid DESC",
		string(scope.Month))
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var records []core.ExpenseRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return records, nil
}

func (s *Store) GetRecord(ctx context.Context, _ string, id string) (core.ExpenseRecord, error) {
	r, err := scanRecord(s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM expenses WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.ExpenseRecord{}, store.ErrNotFound
	}
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("get expense: %w", err)
	}
	return r, nil
}

func (s *Store) AddRecords(ctx context.Context, _ string, records []core.ExpenseRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	for _, r := range records {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expenses ("+recordColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			r.ID, string(r.Month), string(r.Category), r.Description, r.AmountCents,
			r.CreatedAt, string(r.Origin.Type), r.Origin.SeriesID,
			string(r.Origin.FromMonth), string(r.Origin.ToMonth))
		if err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

func (s *Store) DeleteRecords(ctx context.Context, scope store.Scope, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args := inClause(
		"DELETE FROM expenses WHERE month_key = ? AND id IN (%s)",
		[]any{string(scope.Month)}, ids)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete expenses: %w", err)
	}
	return nil
}

func (s *Store) ClearMonth(ctx context.Context, scope store.Scope) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE month_key = ?", string(scope.Month)); err != nil {
		return fmt.Errorf("clear month: %w", err)
	}
	return nil
}

func (s *Store) ReassignCategory(ctx context.Context, scope store.Scope, ids []string, to core.Category) error {
	if !to.Valid() {
		return core.ErrInvalidCategory
	}
	if len(ids) == 0 {
		return nil
	}
	query, args := inClause(
		"UPDATE expenses SET category = ? WHERE month_key = ? AND id IN (%s)",
		[]any{string(to), string(scope.Month)}, ids)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reassign category: %w", err)
	}
	return nil
}

func (s *Store) Income(ctx context.Context, scope store.Scope) (core.IncomeProfile, error) {
	var p core.IncomeProfile
	err := s.db.QueryRowContext(ctx,
		"SELECT salary_net_cents, multibenefits_cents, food_cents, spouse_salary_cents FROM incomes WHERE month_key = ?",
		string(scope.Month)).
		Scan(&p.SalaryCents, &p.BenefitsCents, &p.FoodCents, &p.ExtraCents)
	if errors.Is(err, sql.ErrNoRows) {
		return s.seedIncome(ctx, scope.Month)
	}
	if err != nil {
		return core.IncomeProfile{}, fmt.Errorf("get income: %w", err)
	}
	return p, nil
}

func (s *Store) seedIncome(ctx context.Context, month core.MonthKey) (core.IncomeProfile, error) {
	p := core.DefaultIncome()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO incomes (month_key, salary_net_cents, multibenefits_cents, food_cents, spouse_salary_cents)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (month_key) DO NOTHING`,
		string(month), p.SalaryCents, p.BenefitsCents, p.FoodCents, p.ExtraCents)
	if err != nil {
		return core.IncomeProfile{}, fmt.Errorf("seed income: %w", err)
	}
	return p, nil
}

func (s *Store) SetIncomeField(ctx context.Context, scope store.Scope, field string, cents int64) error {
	if cents < 0 {
		return core.ErrInvalidAmount
	}
	if _, ok := core.DefaultIncome().Field(field); !ok {
		return core.ErrInvalidAmount
	}
	if _, err := s.Income(ctx, scope); err != nil {
		return err
	}
	// field is whitelisted above and names the column directly.
	query := fmt.Sprintf("UPDATE incomes SET %s = ? WHERE month_key = ?", field)
	if _, err := s.db.ExecContext(ctx, query, cents, string(scope.Month)); err != nil {
		return fmt.Errorf("set income field: %w", err)
	}
	return nil
}

func inClause(format string, args []any, ids []string) (string, []any) {
	placeholders := make([]string, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	return fmt.Sprintf(format, strings.Join(placeholders, ", ")), args
}
