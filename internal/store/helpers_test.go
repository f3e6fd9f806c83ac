package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/scenegen/internal/testutil"
)

// createTestStore opens a fresh store in a temp directory with a
// deterministic clock and sequential generation ids. opts are applied last.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	opts = append([]Option{
		WithNow(testutil.NewStepClock().Now),
		WithIDs(testutil.NewSequenceIDs("gen").Next),
	}, opts...)
	s, err := Open(dbPath, opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
