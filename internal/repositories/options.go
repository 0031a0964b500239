package repositories

import (
	"context"
	"time"
)

const defaultConcurrency = 8

// Option configures a GORM repository.
type Option func(*options)

type options struct {
	opTimeout   time.Duration
	concurrency int
}

// WithOpTimeout bounds every repository call by d. Zero disables the bound.
func WithOpTimeout(d time.Duration) Option {
	return func(o *options) { o.opTimeout = d }
}

// WithConcurrency limits how many posts a listing assembles in parallel.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// bound derives the context a single repository call runs under.
func (o options) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.opTimeout)
}
