// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	pglib "github.com/parmahealth/parma/internal/postgres"
	"github.com/parmahealth/parma/internal/postgres/mocks"
	"github.com/parmahealth/parma/pkg/batch"
	"github.com/stretchr/testify/require"
)

func bigInt(i int64) *big.Int {
	return big.NewInt(i)
}

func newTestRows(schema []string, rows [][]any) *mocks.Rows {
	fields := make([]pgconn.FieldDescription, len(schema))
	for i, name := range schema {
		fields[i] = pgconn.FieldDescription{Name: name}
	}
	current := 0
	return &mocks.Rows{
		FieldDescriptionsFn: func() []pgconn.FieldDescription { return fields },
		NextFn: func(i uint) bool {
			current = int(i) - 1
			return int(i) <= len(rows)
		},
		ValuesFn: func() ([]any, error) { return rows[current], nil },
	}
}

func TestSource_Read(t *testing.T) {
	t.Parallel()

	testRows := newTestRows([]string{"id", "name", "balance", "uid", "meta"}, [][]any{
		{int32(1), "Alice", pgtype.Numeric{Int: bigInt(1050), Exp: -2, Valid: true}, [16]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}, map[string]any{"b": 1, "a": "x"}},
		{int32(2), nil, pgtype.Numeric{Int: bigInt(3), Exp: 0, Valid: true}, nil, nil},
		{int32(3), "Carol", pgtype.Numeric{}, nil, []any{1, 2}},
	})

	closed := false
	querier := &mocks.Querier{
		QueryFn: func(_ context.Context, _ uint, query string, _ ...any) (pglib.Rows, error) {
			require.Equal(t, `SELECT * FROM "clinic"."patients"`, query)
			return testRows, nil
		},
		CloseFn: func(context.Context) error {
			closed = true
			return nil
		},
	}

	s, err := NewSource(context.Background(), &Config{Table: "clinic.patients", BatchSize: 2}, WithQuerier(querier))
	require.NoError(t, err)

	batches, err := batch.Collect(s.Read(context.Background()))
	require.NoError(t, err)
	require.Len(t, batches, 2)
	require.Equal(t, []string{"id", "name", "balance", "uid", "meta"}, batches[0].ColumnNames())
	require.Equal(t, [][]any{
		{int64(1), "Alice", 10.5, "12345678-9abc-def0-1234-56789abcdef0", `{"a":"x","b":1}`},
		{int64(2), nil, int64(3), nil, nil},
	}, batches[0].Rows())
	require.Equal(t, [][]any{{int64(3), "Carol", nil, nil, "[1,2]"}}, batches[1].Rows())

	require.NoError(t, s.Close())
	require.True(t, closed)
}

func TestSource_Read_Errors(t *testing.T) {
	t.Parallel()

	errTest := errors.New("oh noes")

	tests := []struct {
		name     string
		queryErr error
		rows     *mocks.Rows
		wantErr  error
	}{
		{
			name:     "error - table not found",
			queryErr: pglib.MapError(&pgconn.PgError{Code: pgerrcode.UndefinedTable, Message: `relation "patients" does not exist`}),
			wantErr:  batch.ErrNotFound,
		},
		{
			name:     "error - query",
			queryErr: errTest,
			wantErr:  errTest,
		},
		{
			name: "error - row values",
			rows: &mocks.Rows{
				FieldDescriptionsFn: func() []pgconn.FieldDescription { return []pgconn.FieldDescription{{Name: "id"}} },
				NextFn:              func(uint) bool { return true },
				ValuesFn:            func() ([]any, error) { return nil, errTest },
			},
			wantErr: errTest,
		},
		{
			name: "error - rows",
			rows: &mocks.Rows{
				FieldDescriptionsFn: func() []pgconn.FieldDescription { return nil },
				NextFn:              func(uint) bool { return false },
				ErrFn:               func() error { return errTest },
			},
			wantErr: errTest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			querier := &mocks.Querier{
				QueryFn: func(context.Context, uint, string, ...any) (pglib.Rows, error) {
					if tc.queryErr != nil {
						return nil, tc.queryErr
					}
					return tc.rows, nil
				},
			}

			s, err := NewSource(context.Background(), &Config{Table: "patients"}, WithQuerier(querier))
			require.NoError(t, err)

			_, err = batch.Collect(s.Read(context.Background()))
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestNewSource_InvalidTable(t *testing.T) {
	t.Parallel()

	_, err := NewSource(context.Background(), &Config{Table: "a.b.c"}, WithQuerier(&mocks.Querier{}))
	require.Error(t, err)
}
