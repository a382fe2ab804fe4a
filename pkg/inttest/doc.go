// Package inttest enables writing of integration tests. Setup Docker containers for dependencies
// like PostgreSQL, Redis and RabbitMQ. Every setup function ensures the container is ready before
// returning, ensures resources are cleaned up after the tests are finished and return a client
// ready to interact with the container.
//
// Containers are only started if the environment variable INTEGRATION_TEST is set to true. Tests
// using a setup function are skipped otherwise.
package inttest

import (
	"os"
	"strconv"
	"testing"
)

func skipUnlessEnabled(t *testing.T) {
	t.Helper()

	enabled, _ := strconv.ParseBool(os.Getenv("INTEGRATION_TEST"))
	if !enabled {
		t.Skip("set INTEGRATION_TEST=true to run integration tests against Docker containers")
	}
}
