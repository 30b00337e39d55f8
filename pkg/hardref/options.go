package hardref

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hardref/pkg/asset"
)

// Options configures a scan.
type Options struct {
	// Resolver maps object references to packages (default: asset.PathResolver).
	Resolver asset.ObjectResolver
	// SkipFunctionLocals disables the scan of class function captured references.
	SkipFunctionLocals bool
	// Logger receives debug output for skipped data and warnings for missing
	// registry records (default: discard).
	Logger *log.Logger
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Resolver == nil {
		opts.Resolver = asset.PathResolver{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return opts
}
