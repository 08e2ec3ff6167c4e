package store

import (
	"github.com/vvka-141/pgetl/internal/logging"
	"github.com/vvka-141/pgetl/internal/retry"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// Option configures a Store or Writer.
type Option func(*options)

type options struct {
	batchSize int
	workers   int
	policy    retry.Policy
	logger    pgetl.Logger
}

func newOptions(opts []Option) options {
	o := options{
		batchSize: DefaultBatchSize,
		workers:   DefaultWorkers,
		policy:    retry.DefaultPolicy(),
		logger:    logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithBatchSize sets the rows per batch. Non-positive values are ignored.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithWorkers sets how many batches run concurrently. Non-positive values
// are ignored.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

func WithPolicy(p retry.Policy) Option {
	return func(o *options) { o.policy = p }
}

func WithLogger(l pgetl.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
