// Package report sends descriptor load failures to Sentry. Without a DSN every
// function is a no-op.
package report

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/smell-of-curry/ambf-world/ambfworld/world"
)

// flushTimeout bounds how long Close waits for queued events.
const flushTimeout = 2 * time.Second

// Init sets up the Sentry client.
func Init(dsn, environment, release string) error {
	if dsn == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	})
	if err != nil {
		return fmt.Errorf("failed to init sentry: %w", err)
	}
	return nil
}

// LoadFailure reports a failed load of the descriptor at path, tagged with the
// kind of failure.
func LoadFailure(path string, err error) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("kind", world.Kind(err))
		scope.SetTag("path", path)
		sentry.CaptureException(err)
	})
}

// Close flushes buffered events.
func Close() {
	sentry.Flush(flushTimeout)
}
