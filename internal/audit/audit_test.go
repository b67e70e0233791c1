package audit

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordPreservesInsertionOrder(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	ops := []string{OpSubmitMarket, OpSubmitLimit, OpCancel}
	for i, op := range ops {
		err := l.Record(ctx, Entry{
			Operation: op,
			Symbol:    "BTCUSDT",
			Params:    json.RawMessage(`{"quantity":"0.01"}`),
			Outcome:   OutcomeAccepted,
			OrderID:   int64(i + 1),
		})
		require.NoError(t, err)
	}

	entries, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, op := range ops {
		assert.Equal(t, op, entries[i].Operation)
		assert.Equal(t, int64(i+1), entries[i].OrderID)
	}
}

func TestRecordFillsDefaults(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	require.NoError(t, l.Record(ctx, Entry{
		Operation: OpSubmitMarket,
		Symbol:    "ETHUSDT",
		Outcome:   OutcomeFailed,
		Error:     "api error (TIMEOUT): request timed out",
	}))

	entries, err := l.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.NotEmpty(t, e.ID, "id must be generated")
	assert.True(t, e.Time.After(before), "timestamp must be filled")
	assert.JSONEq(t, `{}`, string(e.Params))
	assert.Equal(t, OutcomeFailed, e.Outcome)
	assert.Contains(t, e.Error, "TIMEOUT")
}

func TestRecentLimitsToNewestEntries(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Record(ctx, Entry{
			Operation: OpSubmitLimit,
			Symbol:    "BTCUSDT",
			Outcome:   OutcomeAccepted,
			OrderID:   int64(i + 1),
		}))
	}

	entries, err := l.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(4), entries[0].OrderID)
	assert.Equal(t, int64(5), entries[1].OrderID)
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}
