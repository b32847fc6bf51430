package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type scanner interface {
	Scan(dest ...any) error
}

type PostgresStore struct {
	pool *pgxpool.Pool
	db   querier
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, db: pool}
}

func (s *PostgresStore) Users() UserRepository                 { return &UserRepo{db: s.db} }
func (s *PostgresStore) Projects() ProjectRepository           { return &ProjectRepo{db: s.db} }
func (s *PostgresStore) Tasks() TaskRepository                 { return &TaskRepo{db: s.db} }
func (s *PostgresStore) TimeEntries() TimeEntryRepository      { return &TimeEntryRepo{db: s.db} }
func (s *PostgresStore) TimerSessions() TimerSessionRepository { return &TimerSessionRepo{db: s.db} }
func (s *PostgresStore) Timesheets() TimesheetRepository       { return &TimesheetRepo{db: s.db} }
func (s *PostgresStore) Notifications() NotificationRepository { return &NotificationRepo{db: s.db} }
func (s *PostgresStore) Outbox() OutboxRepository              { return &OutboxRepo{db: s.db} }

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if s.pool == nil {
		// already inside a transaction
		return fn(s)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&PostgresStore{db: tx})
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

type whereBuilder struct {
	clauses []string
	args    []any
}

// add appends a clause whose single placeholder is written as $%d.
func (w *whereBuilder) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (w *whereBuilder) limit(n int) string {
	if n <= 0 {
		return ""
	}
	w.args = append(w.args, n)
	return fmt.Sprintf(" LIMIT $%d", len(w.args))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
