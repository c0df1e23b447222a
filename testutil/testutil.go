// Package testutil holds helpers shared by the integration tests of the
// session stores. Every helper skips the calling test when the backing
// service is not configured, so `go test ./...` passes on a bare machine.
package testutil

import (
	"os"
	"testing"
)

const (
	envDatabaseURL = "TEST_DATABASE_URL"
	envRedisAddr   = "TEST_REDIS_ADDR"
)

// lookup returns the named variable or skips t.
func lookup(t *testing.T, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Skipf("%s not set; skipping integration test", key)
	}
	return v
}
