package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry wires Sentry when a DSN is configured; the returned closer
// flushes buffered events. An empty DSN is a no-op, not an error.
func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}
