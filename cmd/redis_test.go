// ABOUTME: In-memory redis server for command tests
// ABOUTME: Lets the redis session store run without external services

package cmd

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func startRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	return miniredis.RunT(t)
}
