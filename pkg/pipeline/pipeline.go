// Package pipeline provides the scan pipeline shared by the CLI and the
// HTTP server.
//
// A run has two stages:
//
//  1. Scan: load a snapshot, select a Blueprint and find its hard references
//  2. Report: render the result in one of the [report] formats
//
// Both stages are cached. Scan results are keyed by the snapshot's content
// digest, the Blueprint path and the scan options; reports are keyed by a
// hash of the scan result and the report options. Scans against an injected
// registry (for example MongoDB) are never cached because the registry can
// change without the snapshot changing.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    SnapshotPath: "registry.toml",
//	    Blueprint:    "BP_Hero",
//	    Format:       "text",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Report)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hardref/pkg/asset"
	"github.com/matzehuels/hardref/pkg/cache"
	"github.com/matzehuels/hardref/pkg/errors"
	"github.com/matzehuels/hardref/pkg/hardref"
	"github.com/matzehuels/hardref/pkg/report"
	"github.com/matzehuels/hardref/pkg/snapshot"
)

// Options configures one pipeline run.
// It supports JSON decoding for API requests.
type Options struct {
	// Source: exactly one of SnapshotPath and Snapshot.
	SnapshotPath string             `json:"snapshot_path,omitempty"`
	Snapshot     *snapshot.Snapshot `json:"-"`

	// Blueprint selects the Blueprint within the snapshot; see
	// [snapshot.Snapshot.Blueprint]. Empty is valid for single-Blueprint
	// snapshots.
	Blueprint string `json:"blueprint,omitempty"`

	// Scan options
	SkipFunctionLocals bool `json:"skip_function_locals,omitempty"`
	Refresh            bool `json:"refresh,omitempty"`

	// Report options. An empty Format skips the report stage.
	Format string `json:"format,omitempty"`
	Sites  bool   `json:"sites,omitempty"`
	Sizes  bool   `json:"sizes,omitempty"`

	// Runtime options (not serialized)

	// Registry replaces the snapshot's packages as the source of
	// dependencies and sizes.
	Registry asset.Registry `json:"-"`
	Logger   *log.Logger    `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scan is the scan result.
	Scan *hardref.Result

	// Report is the rendered report; nil when no format was requested.
	Report []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Groups     int
	Sites      int
	ScanTime   time.Duration
	ReportTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ScanHit   bool
	ReportHit bool
}

// Validate checks required fields and applies defaults.
func (o *Options) Validate() error {
	if o.Snapshot == nil && o.SnapshotPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "snapshot is required")
	}
	if o.Snapshot != nil && o.SnapshotPath != "" {
		return errors.New(errors.ErrCodeInvalidInput, "snapshot and snapshot_path are mutually exclusive")
	}
	if o.Format != "" {
		if err := errors.ValidateFormat(o.Format); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return nil
}

// Cacheable reports whether the scan result depends only on the snapshot.
func (o *Options) Cacheable(snap *snapshot.Snapshot) bool {
	return o.Registry == nil && snap.Digest != ""
}

// ScanKeyOpts returns cache key options for the scan stage.
func (o *Options) ScanKeyOpts() cache.ScanKeyOpts {
	return cache.ScanKeyOpts{SkipFunctionLocals: o.SkipFunctionLocals}
}

// ReportKeyOpts returns cache key options for the report stage.
func (o *Options) ReportKeyOpts() cache.ReportKeyOpts {
	return cache.ReportKeyOpts{Format: o.Format, Sites: o.Sites, Sizes: o.Sizes}
}

// ReportOptions returns the rendering options.
func (o *Options) ReportOptions() report.Options {
	return report.Options{Sites: o.Sites, Sizes: o.Sizes}
}
