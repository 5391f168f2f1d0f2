// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parmahealth/parma/internal/backoff"
	"github.com/parmahealth/parma/pkg/batch"
	"github.com/parmahealth/parma/pkg/kafka"
	"github.com/parmahealth/parma/pkg/kafka/mocks"
	"github.com/parmahealth/parma/pkg/toon"
	"github.com/stretchr/testify/require"
)

var testBackoff = backoff.Config{
	Constant: &backoff.ConstantConfig{Interval: time.Millisecond, MaxRetries: 2},
}

func newTestSink(t *testing.T, w kafka.MessageWriter) *Sink {
	t.Helper()
	s, err := NewSink(&Config{
		Kafka:   kafka.WriterConfig{Conn: kafka.ConnConfig{Topic: kafka.TopicConfig{Name: "anonymized"}}},
		Backoff: testBackoff,
	}, WithWriter(w))
	require.NoError(t, err)
	return s
}

func TestSink_Write(t *testing.T) {
	t.Parallel()

	b1, err := batch.FromRows([]string{"name"}, [][]any{{"Alice"}, {"Bob"}})
	require.NoError(t, err)
	b2, err := batch.FromRows([]string{"name"}, [][]any{{"Carol"}})
	require.NoError(t, err)

	var got []kafka.Message
	w := &mocks.Writer{
		WriteMessagesFn: func(_ context.Context, _ uint64, msgs ...kafka.Message) error {
			got = append(got, msgs...)
			return nil
		},
	}

	s := newTestSink(t, w)
	require.NoError(t, s.Write(context.Background(), batch.Seq(b1, b2)))
	require.NoError(t, s.Close())

	require.Len(t, got, 2)
	for i, b := range []*batch.Batch{b1, b2} {
		require.Equal(t, []byte("anonymized"), got[i].Key)
		decoded, err := toon.Decode(string(got[i].Value))
		require.NoError(t, err)
		require.True(t, b.Equal(decoded))
		rows, found := got[i].Rows()
		require.True(t, found)
		require.Equal(t, b.NumRows(), rows)
	}
	require.Equal(t, kafka.BatchHeader, got[1].Headers[0].Key)
	require.Equal(t, []byte("1"), got[1].Headers[0].Value)
	require.Equal(t, []byte("1"), got[1].Headers[1].Value)
}

func TestSink_Write_Retries(t *testing.T) {
	t.Parallel()

	errTest := errors.New("oh noes")
	b, err := batch.FromRows([]string{"name"}, [][]any{{"Alice"}})
	require.NoError(t, err)

	tests := []struct {
		name      string
		writeFn   func(ctx context.Context, i uint64, msgs ...kafka.Message) error
		wantCalls uint64
		wantErr   error
	}{
		{
			name: "ok - transient error",
			writeFn: func(_ context.Context, i uint64, _ ...kafka.Message) error {
				if i == 1 {
					return errTest
				}
				return nil
			},
			wantCalls: 2,
		},
		{
			name: "error - retries exhausted",
			writeFn: func(context.Context, uint64, ...kafka.Message) error {
				return errTest
			},
			wantCalls: 3,
			wantErr:   errTest,
		},
		{
			name: "error - cancelled write is not retried",
			writeFn: func(context.Context, uint64, ...kafka.Message) error {
				return context.Canceled
			},
			wantCalls: 1,
			wantErr:   context.Canceled,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := &mocks.Writer{WriteMessagesFn: tc.writeFn}
			err := newTestSink(t, w).Write(context.Background(), batch.Seq(b))
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.wantCalls, w.GetWriteCalls())
		})
	}
}

func TestSink_Write_SequenceError(t *testing.T) {
	t.Parallel()

	errTest := errors.New("oh noes")
	w := &mocks.Writer{
		WriteMessagesFn: func(context.Context, uint64, ...kafka.Message) error {
			return errors.New("unexpected call to WriteMessages")
		},
	}
	err := newTestSink(t, w).Write(context.Background(), batch.ErrSeq(errTest))
	require.ErrorIs(t, err, errTest)
	require.Zero(t, w.GetWriteCalls())
}

func TestNewSink_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := NewSink(&Config{})
	require.Error(t, err)
}
