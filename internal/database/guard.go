package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/blastrain/vitess-sqlparser/sqlparser"
)

// ErrNotReadOnly is returned when a statement would modify the database.
var ErrNotReadOnly = errors.New("statement is not read-only")

// Querier is the subset of *sqlx.DB the reports need.
type Querier interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// EnsureReadOnly parses query and rejects anything that is not a SELECT.
func EnsureReadOnly(query string) error {
	stmt, err := sqlparser.Parse(query)
	if err != nil {
		return fmt.Errorf("failed to parse query %q: %w", query, err)
	}

	switch stmt.(type) {
	case *sqlparser.Select, *sqlparser.Union:
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrNotReadOnly, stmt)
	}
}

// ReadOnly wraps a Querier and refuses to send any statement that does not
// pass EnsureReadOnly.
type ReadOnly struct {
	q Querier
}

// NewReadOnly wraps q.
func NewReadOnly(q Querier) *ReadOnly {
	return &ReadOnly{q: q}
}

// SelectContext runs a multi-row query into dest.
func (r *ReadOnly) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := EnsureReadOnly(query); err != nil {
		return err
	}
	return r.q.SelectContext(ctx, dest, query, args...)
}

// GetContext runs a single-row query into dest. A missing row surfaces as
// sql.ErrNoRows from the underlying driver.
func (r *ReadOnly) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := EnsureReadOnly(query); err != nil {
		return err
	}
	return r.q.GetContext(ctx, dest, query, args...)
}
