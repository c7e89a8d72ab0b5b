package errors

import "github.com/cockroachdb/errors"

// Re-exported from github.com/cockroachdb/errors so callers only import
// this package.
var (
	New         = errors.New
	Newf        = errors.Newf
	Wrap        = errors.Wrap
	Wrapf       = errors.Wrapf
	Is          = errors.Is
	As          = errors.As
	Mark        = errors.Mark
	WithHint    = errors.WithHint
	WithHintf   = errors.WithHintf
	GetAllHints = errors.GetAllHints
)
