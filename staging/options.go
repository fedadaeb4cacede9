package staging

import (
	"log/slog"

	"github.com/veclake/veclake/codec"
	"github.com/veclake/veclake/columnar"
)

type options struct {
	compression codec.Compression
	logger      *slog.Logger
	columnar    columnar.Reader
	budget      int64
	sliceSize   int64
}

// Option configures Stager/Loader construction.
type Option func(*options)

// WithCompression sets the envelope compression for staged artifacts.
// Loads always honor the compression recorded in each envelope, so reader
// and writer need not agree on this.
func WithCompression(c codec.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithColumnarReader sets the segment-grouped layout reader used for
// storage v2 loads. Loads of v2 data fail without one.
func WithColumnarReader(r columnar.Reader) Option {
	return func(o *options) {
		o.columnar = r
	}
}

// WithMemoryBudget overrides the per-batch byte budget. The default is
// FieldMaxMemoryLimit; writer and reader should share one budget so they
// agree on how much fits in memory at once.
func WithMemoryBudget(budget int64) Option {
	return func(o *options) {
		if budget > 0 {
			o.budget = budget
		}
	}
}

// WithSliceSize overrides the nominal staged-file size used to derive the
// read-path parallel degree. Defaults to FileSliceSize.
func WithSliceSize(size int64) Option {
	return func(o *options) {
		if size > 0 {
			o.sliceSize = size
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		compression: codec.CompressionNone,
		logger:      slog.Default(),
		budget:      FieldMaxMemoryLimit,
		sliceSize:   FileSliceSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
