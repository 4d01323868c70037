package ctxutil

import (
	"context"
	"time"
)

var DefaultDBTimeout = 5 * time.Second

// WithDBTimeout bounds a store round trip. If the parent deadline is closer
// than the default, the remainder wins.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		remain := time.Until(dl)
		if remain < DefaultDBTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
