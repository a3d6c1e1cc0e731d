package db

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx, so repositories can run
// inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// SetClause accumulates "col = $n" fragments for partial updates.
type SetClause struct {
	parts []string
	args  []any
}

func (s *SetClause) Add(column string, value any) {
	s.args = append(s.args, value)
	s.parts = append(s.parts, column+" = $"+strconv.Itoa(len(s.args)))
}

func (s *SetClause) Len() int {
	return len(s.parts)
}

// SQL returns the joined assignments and the positional arguments so far.
func (s *SetClause) SQL() (string, []any) {
	return strings.Join(s.parts, ", "), s.args
}

// Next returns the placeholder for the next positional argument.
func (s *SetClause) Next(value any) string {
	s.args = append(s.args, value)
	return "$" + strconv.Itoa(len(s.args))
}
