// Package postgres is the remote multi-user backend. Every row is scoped by
// user id; account rows live here too, so this backend also implements the
// user port consumed by the auth layer.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/store"
)

type Store struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

var (
	_ store.Store     = (*Store)(nil)
	_ store.UserStore = (*Store)(nil)
)

// New migrates the schema and opens the connection pool.
func New(ctx context.Context, url string, logger *log.Logger) (*Store, error) {
	if err := runMigrations(url); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{
		pool:   pool,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

const recordColumns = "id, month_key, category, description, amount_cents, created_at, origin_type, series_id, series_from, series_to"

func scanRecord(row pgx.Row) (core.ExpenseRecord, error) {
	var r core.ExpenseRecord
	err := row.Scan(&r.ID, &r.Month, &r.Category, &r.Description, &r.AmountCents,
		&r.CreatedAt, &r.Origin.Type, &r.Origin.SeriesID, &r.Origin.FromMonth, &r.Origin.ToMonth)
	return r, err
}

func (s *Store) ListRecords(ctx context.Context, scope store.Scope) ([]core.ExpenseRecord, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+recordColumns+" FROM expenses WHERE user_id = $1 AND month_key = $2 ORDER BY created_at DESC, id",
		scope.UserID, string(scope.Month))
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

func (s *Store) GetRecord(ctx context.Context, userID, id string) (core.ExpenseRecord, error) {
	r, err := scanRecord(s.pool.QueryRow(ctx,
		"SELECT "+recordColumns+" FROM expenses WHERE user_id = $1 AND id = $2", userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ExpenseRecord{}, store.ErrNotFound
	}
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("get expense: %w", err)
	}
	return r, nil
}

func (s *Store) AddRecords(ctx context.Context, userID string, records []core.ExpenseRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		_, err := tx.Exec(ctx,
			`INSERT INTO expenses (user_id, `+recordColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			userID, r.ID, string(r.Month), string(r.Category), r.Description, r.AmountCents,
			r.CreatedAt, string(r.Origin.Type), r.Origin.SeriesID,
			string(r.Origin.FromMonth), string(r.Origin.ToMonth))
		if err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

func (s *Store) DeleteRecords(ctx context.Context, scope store.Scope, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		"DELETE FROM expenses WHERE user_id = $1 AND month_key = $2 AND id = ANY($3)",
		scope.UserID, string(scope.Month), ids)
	if err != nil {
		return fmt.Errorf("delete expenses: %w", err)
	}
	return nil
}

func (s *Store) ClearMonth(ctx context.Context, scope store.Scope) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM expenses WHERE user_id = $1 AND month_key = $2",
		scope.UserID, string(scope.Month))
	if err != nil {
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
	_, err := s.pool.Exec(ctx,
		"UPDATE expenses SET category = $1 WHERE user_id = $2 AND month_key = $3 AND id = ANY($4)",
		string(to), scope.UserID, string(scope.Month), ids)
	if err != nil {
		return fmt.Errorf("reassign category: %w", err)
	}
	return nil
}

func (s *Store) Income(ctx context.Context, scope store.Scope) (core.IncomeProfile, error) {
	var p core.IncomeProfile
	err := s.pool.QueryRow(ctx,
		"SELECT salary_net_cents, multibenefits_cents, food_cents, spouse_salary_cents FROM incomes WHERE user_id = $1 AND month_key = $2",
		scope.UserID, string(scope.Month)).
		Scan(&p.SalaryCents, &p.BenefitsCents, &p.FoodCents, &p.ExtraCents)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.seedIncome(ctx, scope)
	}
	if err != nil {
		return core.IncomeProfile{}, fmt.Errorf("get income: %w", err)
	}
	return p, nil
}

func (s *Store) seedIncome(ctx context.Context, scope store.Scope) (core.IncomeProfile, error) {
	p := core.DefaultIncome()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO incomes (user_id, month_key, salary_net_cents, multibenefits_cents, food_cents, spouse_salary_cents)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, month_key) DO NOTHING`,
		scope.UserID, string(scope.Month), p.SalaryCents, p.BenefitsCents, p.FoodCents, p.ExtraCents)
	if err != nil {
		return core.IncomeProfile{}, fmt.Errorf("seed income: %w", err)
	}
	return p, nil
}

// SetIncomeField is last-write-wins: concurrent sessions overwrite each
// other at field granularity, never at profile granularity.
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
	query := fmt.Sprintf("UPDATE incomes SET %s = $1 WHERE user_id = $2 AND month_key = $3", field)
	if _, err := s.pool.Exec(ctx, query, cents, scope.UserID, string(scope.Month)); err != nil {
		return fmt.Errorf("set income field: %w", err)
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (store.User, error) {
	u := store.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
	}
	_, err := s.pool.Exec(ctx,
		"INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)",
		u.ID, u.Email, u.PasswordHash)
	if isUniqueViolation(err) {
		return store.User{}, store.ErrEmailTaken
	}
	if err != nil {
		return store.User{}, fmt.Errorf("create user: %w", err)
	}
	s.logger.InfoContext(ctx, "user created", log.FieldUserID, u.ID)
	return u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (store.User, error) {
	var u store.User
	err := s.pool.QueryRow(ctx,
		"SELECT id, email, password_hash FROM users WHERE email = $1", email).
		Scan(&u.ID, &u.Email, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.User{}, store.ErrNotFound
	}
	if err != nil {
		return store.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
