// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"iter"
	"net/netip"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/parmahealth/parma/internal/json"
	pglib "github.com/parmahealth/parma/internal/postgres"
	"github.com/parmahealth/parma/pkg/batch"
	"github.com/parmahealth/parma/pkg/connector"
	loglib "github.com/parmahealth/parma/pkg/log"
)

type Config struct {
	URL string
	// Table to read, optionally schema qualified.
	Table string
	// BatchSize is the number of rows per batch. Defaults to 1000.
	BatchSize int
}

// Source reads every row of a table in batches.
type Source struct {
	logger    loglib.Logger
	querier   pglib.Querier
	table     *pglib.QualifiedName
	batchSize int
}

type Option func(*Source)

func NewSource(ctx context.Context, cfg *Config, opts ...Option) (*Source, error) {
	table, err := pglib.NewQualifiedName(cfg.Table)
	if err != nil {
		return nil, fmt.Errorf("invalid table name %q: %w", cfg.Table, err)
	}

	s := &Source{
		logger:    loglib.NewNoopLogger(),
		table:     table,
		batchSize: connector.BatchSize(cfg.BatchSize),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.querier == nil {
		pool, err := pglib.NewConnPool(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		s.querier = pool
	}

	return s, nil
}

func WithLogger(l loglib.Logger) Option {
	return func(s *Source) {
		s.logger = loglib.WithModule(l, "postgres_source")
	}
}

func WithQuerier(q pglib.Querier) Option {
	return func(s *Source) {
		s.querier = q
	}
}

// Read queries the table and yields its rows in batches. A missing table
// yields an error matching batch.ErrNotFound.
func (s *Source) Read(ctx context.Context) iter.Seq2[*batch.Batch, error] {
	return func(yield func(*batch.Batch, error) bool) {
		query := fmt.Sprintf("SELECT * FROM %s", s.table)
		s.logger.Debug("querying table", loglib.Fields{"query": query})

		rows, err := s.querier.Query(ctx, query)
		if err != nil {
			yield(nil, mapError(s.table, err))
			return
		}
		defer rows.Close()

		fields := rows.FieldDescriptions()
		schema := make([]string, len(fields))
		for i, fd := range fields {
			schema[i] = fd.Name
		}

		batchRows := make([][]any, 0, s.batchSize)
		for rows.Next() {
			values, err := rows.Values()
			if err != nil {
				yield(nil, fmt.Errorf("reading row values: %w", err))
				return
			}
			row := make([]any, len(values))
			for i, v := range values {
				row[i] = toScalar(v)
			}
			batchRows = append(batchRows, row)

			if len(batchRows) == s.batchSize {
				if !yield(batch.FromRows(schema, batchRows)) {
					return
				}
				batchRows = make([][]any, 0, s.batchSize)
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, mapError(s.table, pglib.MapError(err)))
			return
		}

		if len(batchRows) > 0 {
			yield(batch.FromRows(schema, batchRows))
		}
	}
}

func (s *Source) Close() error {
	return s.querier.Close(context.Background())
}

func mapError(table *pglib.QualifiedName, err error) error {
	var relErr *pglib.ErrRelationDoesNotExist
	if errors.As(err, &relErr) {
		return fmt.Errorf("table %s: %w: %w", table, batch.ErrNotFound, err)
	}
	return err
}

// toScalar converts the pgx decoded values that don't map to batch scalars.
func toScalar(v any) any {
	switch val := v.(type) {
	case [16]byte:
		return uuid.UUID(val).String()
	case netip.Prefix:
		return val.String()
	case pgtype.Numeric:
		if !val.Valid {
			return nil
		}
		if val.Exp >= 0 {
			if i, err := val.Int64Value(); err == nil && i.Valid {
				return i.Int64
			}
		}
		f, err := val.Float64Value()
		if err == nil && f.Valid {
			return f.Float64
		}
		return nil
	case driver.Valuer:
		dv, err := val.Value()
		if err != nil {
			return fmt.Sprint(v)
		}
		return batch.Normalize(dv)
	case map[string]any, []any:
		// json and array columns are kept as json text
		out, err := json.MarshalString(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return out
	default:
		return batch.Normalize(v)
	}
}
