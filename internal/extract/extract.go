package extract

import (
	"log/slog"

	"github.com/thoreinstein/twrp2neo/internal/store"
)

// Extractor writes staged APKs and repackaged app data through a Store.
type Extractor struct {
	store  *store.Store
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for progress records.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an Extractor that writes through st.
func New(st *store.Store, opts ...Option) *Extractor {
	e := &Extractor{
		store:  st,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
