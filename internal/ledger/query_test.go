package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePredicateNil(t *testing.T) {
	sql, params, err := compilePredicate(nil)
	require.NoError(t, err)
	assert.Equal(t, "1 = 1", sql)
	assert.Empty(t, params)
}

func TestCompilePredicateLeaves(t *testing.T) {
	sql, params, err := compilePredicate(DirectionIs(DirectionToIns))
	require.NoError(t, err)
	assert.Equal(t, "direction = ?", sql)
	assert.Equal(t, []any{"to-ins"}, params)

	sql, params, err = compilePredicate(InputContains("sample"))
	require.NoError(t, err)
	assert.Equal(t, "input LIKE ?", sql)
	assert.Equal(t, []any{"%sample%"}, params)

	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sql, params, err = compilePredicate(Since(at))
	require.NoError(t, err)
	assert.Equal(t, "recorded_at >= ?", sql)
	assert.Equal(t, []any{"2024-03-01T00:00:00Z"}, params)
}

func TestCompilePredicateAnd(t *testing.T) {
	sql, params, err := compilePredicate(And{
		DirectionIs(DirectionToCIF),
		OutcomeIs(OutcomeOK),
	})
	require.NoError(t, err)
	assert.Equal(t, "direction = ? AND outcome = ?", sql)
	assert.Equal(t, []any{"to-cif", "ok"}, params)

	sql, params, err = compilePredicate(And{})
	require.NoError(t, err)
	assert.Equal(t, "1 = 1", sql)
	assert.Empty(t, params)
}
