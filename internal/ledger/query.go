package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Predicate is a filter condition on the run history.
//
// This is a sealed interface - only types in this package implement
// it. The marker method keeps the compiler's type switch exhaustive.
type Predicate interface {
	predicateNode()
}

// DirectionIs filters runs by direction.
type DirectionIs string

func (DirectionIs) predicateNode() {}

// OutcomeIs filters runs by outcome.
type OutcomeIs string

func (OutcomeIs) predicateNode() {}

// InputContains filters runs whose input name contains a substring.
type InputContains string

func (InputContains) predicateNode() {}

// Since filters runs recorded at or after a point in time.
type Since time.Time

func (Since) predicateNode() {}

// And requires every contained predicate to hold.
type And []Predicate

func (And) predicateNode() {}

// History returns recorded runs matching the predicate, newest first.
// A nil predicate matches everything; limit <= 0 means no limit.
//
// Every query carries an ORDER BY with an id tiebreaker so results are
// deterministic, and all values are parameterized, never interpolated.
func (l *Ledger) History(ctx context.Context, p Predicate, limit int) ([]Run, error) {
	where, params, err := compilePredicate(p)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, direction, input, atom_count, constraint_count, outcome, detail, recorded_at
		FROM runs
		WHERE ` + where + `
		ORDER BY recorded_at DESC, id COLLATE BINARY ASC`
	if limit > 0 {
		query += " LIMIT ?"
		params = append(params, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var recorded string
		if err := rows.Scan(&run.ID, &run.Direction, &run.Input, &run.Atoms,
			&run.Constraints, &run.Outcome, &run.Detail, &recorded); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.RecordedAt, err = time.Parse(time.RFC3339Nano, recorded)
		if err != nil {
			return nil, fmt.Errorf("run %s has unparseable timestamp %q", run.ID, recorded)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// compilePredicate compiles a predicate to a WHERE fragment and its
// parameters. Values are always bound through placeholders.
func compilePredicate(p Predicate) (string, []any, error) {
	if p == nil {
		return "1 = 1", nil, nil
	}

	switch pred := p.(type) {
	case DirectionIs:
		return "direction = ?", []any{string(pred)}, nil
	case OutcomeIs:
		return "outcome = ?", []any{string(pred)}, nil
	case InputContains:
		return "input LIKE ?", []any{"%" + string(pred) + "%"}, nil
	case Since:
		return "recorded_at >= ?", []any{time.Time(pred).UTC().Format(time.RFC3339Nano)}, nil
	case And:
		if len(pred) == 0 {
			return "1 = 1", nil, nil
		}
		var parts []string
		var params []any
		for _, sub := range pred {
			sql, subParams, err := compilePredicate(sub)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, sql)
			params = append(params, subParams...)
		}
		return strings.Join(parts, " AND "), params, nil
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}
