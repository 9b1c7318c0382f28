// Package harness carries the shared test helpers: golden-file
// comparison for instruction streams and CIF text, and structural
// diffs for round-trip assertions.
package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Golden returns a goldie instance with the repository conventions
// applied: fixtures live in testdata/golden and carry a .golden
// suffix.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func Golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// AssertGolden compares data against the named golden file.
func AssertGolden(t *testing.T, name string, data []byte) {
	t.Helper()
	Golden(t).Assert(t, name, data)
}

// AssertGoldenString compares text against the named golden file.
func AssertGoldenString(t *testing.T, name, text string) {
	t.Helper()
	AssertGolden(t, name, []byte(text))
}
