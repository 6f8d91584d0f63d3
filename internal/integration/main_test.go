//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"fxrates/internal/testkit"
)

func TestMain(m *testing.M) {
	testkit.Run(m)
}

// testContext returns a context with a 30-second deadline tied to the test's cleanup.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}
