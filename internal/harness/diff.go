package harness

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// RequireEqual fails the test with a structural diff when want and got
// differ. Preferred over raw assert.Equal for records and blocks,
// where the field that diverged matters more than the full dump.
func RequireEqual(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

// Diff returns the structural diff between want and got, empty when
// they are equal.
func Diff(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}
