package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	clock := NewDeterministicClock(
		time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), time.Minute)
	l, err := Open(filepath.Join(t.TempDir(), "runs.db"), WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	var version int
	require.NoError(t, second.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestRecordAssignsIDAndTimestamp(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	run, err := l.Record(ctx, Run{
		Direction: DirectionToCIF,
		Input:     "sample.cif",
		Atoms:     5,
		Outcome:   OutcomeOK,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), run.RecordedAt)
}

func TestRecordDuplicateIDIsIgnored(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	run := Run{ID: "fixed", Direction: DirectionToIns, Input: "a.cif", Outcome: OutcomeOK}
	_, err := l.Record(ctx, run)
	require.NoError(t, err)
	run.Input = "b.cif"
	_, err = l.Record(ctx, run)
	require.NoError(t, err)

	runs, err := l.History(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "a.cif", runs[0].Input)
}

func TestHistoryFiltersAndOrders(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	seed := []Run{
		{Direction: DirectionToCIF, Input: "early.cif", Outcome: OutcomeOK},
		{Direction: DirectionToIns, Input: "mid.cif", Outcome: OutcomeError, Detail: "no weighting scheme"},
		{Direction: DirectionToCIF, Input: "late.cif", Outcome: OutcomeOK},
	}
	for _, run := range seed {
		_, err := l.Record(ctx, run)
		require.NoError(t, err)
	}

	all, err := l.History(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "late.cif", all[0].Input, "newest first")
	assert.Equal(t, "early.cif", all[2].Input)

	toCIF, err := l.History(ctx, DirectionIs(DirectionToCIF), 0)
	require.NoError(t, err)
	assert.Len(t, toCIF, 2)

	failed, err := l.History(ctx, And{
		OutcomeIs(OutcomeError),
		InputContains("mid"),
	}, 0)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "no weighting scheme", failed[0].Detail)

	recent, err := l.History(ctx, Since(time.Date(2024, 3, 1, 12, 1, 0, 0, time.UTC)), 0)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	limited, err := l.History(ctx, nil, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "late.cif", limited[0].Input)
}
