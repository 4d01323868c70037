// Package observability holds the sentry wiring. Error reporting is
// best effort; an empty DSN disables it without changing call sites.
package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry configures the global sentry client and returns a flush
// function for deferred shutdown. With an empty dsn both are no-ops.
func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          release,
		AttachStacktrace: true,
	})
	if err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureErr reports err to sentry. Nil errors are ignored so callers can
// pass results through unchecked.
func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}
