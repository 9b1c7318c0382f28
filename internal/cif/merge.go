package cif

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// MergeErrorCode identifies the category of a loop-merge failure.
type MergeErrorCode string

const (
	// CodeNoMergeKey indicates neither loop has a column matching the
	// merge pattern.
	CodeNoMergeKey MergeErrorCode = "NO_MERGE_KEY"

	// CodeMergeKeyMismatch indicates the loops' matching columns differ.
	CodeMergeKeyMismatch MergeErrorCode = "MERGE_KEY_MISMATCH"

	// CodeRowSetMismatch indicates an update with a different row-key set.
	CodeRowSetMismatch MergeErrorCode = "ROW_SET_MISMATCH"
)

// MergeError is a structured loop-merge failure.
type MergeError struct {
	Code    MergeErrorCode
	Message string
}

// Error implements the error interface.
func (e *MergeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRowSetMismatch checks whether an error is a row-set mismatch.
func IsRowSetMismatch(err error) bool {
	var mergeErr *MergeError
	return errors.As(err, &mergeErr) && mergeErr.Code == CodeRowSetMismatch
}

// MergeLoops merges two loops row-wise on the columns matching the
// given regex patterns. Rows pair up by key value; columns present in
// only one loop fill missing rows with "?". Row order follows the first
// loop, rows only in the second loop appended in their order.
func MergeLoops(base, add *Loop, mergeOn ...string) (*Loop, error) {
	if len(mergeOn) == 0 {
		mergeOn = []string{`.*\.label$`}
	}
	patterns := make([]*regexp.Regexp, len(mergeOn))
	for i, p := range mergeOn {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("merge pattern %q: %w", p, err)
		}
		patterns[i] = re
	}

	baseKeys := matchingNames(base, patterns)
	addKeys := matchingNames(add, patterns)
	if len(baseKeys) == 0 && len(addKeys) == 0 {
		return nil, &MergeError{Code: CodeNoMergeKey, Message: "no matching keys found for merging"}
	}
	if strings.Join(sorted(baseKeys), ",") != strings.Join(sorted(addKeys), ",") {
		return nil, &MergeError{
			Code:    CodeMergeKeyMismatch,
			Message: fmt.Sprintf("merge keys differ: %v vs %v", sorted(baseKeys), sorted(addKeys)),
		}
	}

	type row struct {
		key    string
		values map[string]string
	}
	rows := make([]*row, 0, base.Rows())
	index := make(map[string]*row)

	collect := func(loop *Loop, keys []string) {
		for r := 0; r < loop.Rows(); r++ {
			var keyParts []string
			for _, k := range keys {
				vals, _ := loop.Column(k)
				keyParts = append(keyParts, vals[r])
			}
			key := strings.Join(keyParts, "\x00")
			existing, ok := index[key]
			if !ok {
				existing = &row{key: key, values: make(map[string]string)}
				index[key] = existing
				rows = append(rows, existing)
			}
			for _, name := range loop.Names() {
				if contains(keys, name) {
					continue
				}
				vals, _ := loop.Column(name)
				existing.values[name] = vals[r]
			}
		}
	}
	collect(base, baseKeys)
	collect(add, addKeys)

	var valueNames []string
	seen := make(map[string]bool)
	for _, loop := range []*Loop{base, add} {
		for _, name := range loop.Names() {
			if contains(baseKeys, name) || seen[name] {
				continue
			}
			seen[name] = true
			valueNames = append(valueNames, name)
		}
	}

	out := NewLoop()
	keyCols := make([][]string, len(baseKeys))
	for _, r := range rows {
		for i, part := range strings.Split(r.key, "\x00") {
			keyCols[i] = append(keyCols[i], part)
		}
	}
	for i, k := range baseKeys {
		if err := out.AddColumn(k, keyCols[i]); err != nil {
			return nil, err
		}
	}
	for _, name := range valueNames {
		col := make([]string, len(rows))
		for i, r := range rows {
			if v, ok := r.values[name]; ok {
				col[i] = v
			} else {
				col[i] = "?"
			}
		}
		if err := out.AddColumn(name, col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateLoop replaces a loop's contents with the merged loop, requiring
// that both cover the identical row-key set. A differing set means the
// merged data describes a different table and is rejected.
func UpdateLoop(target, merged *Loop, keyColumn string) error {
	targetKeys, ok := target.Column(keyColumn)
	if !ok {
		return &MergeError{Code: CodeNoMergeKey, Message: fmt.Sprintf("target loop has no column %s", keyColumn)}
	}
	mergedKeys, ok := merged.Column(keyColumn)
	if !ok {
		return &MergeError{Code: CodeNoMergeKey, Message: fmt.Sprintf("merged loop has no column %s", keyColumn)}
	}
	if !sameSet(targetKeys, mergedKeys) {
		return &MergeError{
			Code:    CodeRowSetMismatch,
			Message: fmt.Sprintf("row sets differ on %s: %d rows vs %d rows", keyColumn, len(targetKeys), len(mergedKeys)),
		}
	}
	*target = *merged
	return nil
}

func matchingNames(loop *Loop, patterns []*regexp.Regexp) []string {
	var names []string
	for _, name := range loop.Names() {
		for _, re := range patterns {
			if re.MatchString(name) {
				names = append(names, name)
				break
			}
		}
	}
	return names
}

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, x := range a {
		seen[x]++
	}
	for _, x := range b {
		seen[x]--
		if seen[x] < 0 {
			return false
		}
	}
	return true
}
