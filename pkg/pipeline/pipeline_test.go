package pipeline

import (
	"testing"

	"github.com/matzehuels/hardref/pkg/errors"
	"github.com/matzehuels/hardref/pkg/snapshot"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode errors.Code
	}{
		{"path", Options{SnapshotPath: "registry.toml"}, ""},
		{"inline", Options{Snapshot: &snapshot.Snapshot{}}, ""},
		{"with format", Options{SnapshotPath: "registry.toml", Format: "svg"}, ""},
		{"no source", Options{}, errors.ErrCodeInvalidInput},
		{"both sources", Options{SnapshotPath: "a.toml", Snapshot: &snapshot.Snapshot{}}, errors.ErrCodeInvalidInput},
		{"bad format", Options{SnapshotPath: "a.toml", Format: "png"}, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				if tt.opts.Logger == nil {
					t.Error("Validate() should default the logger")
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Validate() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestCacheable(t *testing.T) {
	snap := &snapshot.Snapshot{Digest: "abc"}
	opts := Options{}
	if !opts.Cacheable(snap) {
		t.Error("snapshot-backed scan should be cacheable")
	}
	if opts.Cacheable(&snapshot.Snapshot{}) {
		t.Error("snapshot without digest should not be cacheable")
	}
	opts.Registry = snap.Registry()
	if opts.Cacheable(snap) {
		t.Error("scan against an injected registry should not be cacheable")
	}
}

func TestKeyOpts(t *testing.T) {
	o := Options{SkipFunctionLocals: true, Format: "dot", Sites: true}
	if !o.ScanKeyOpts().SkipFunctionLocals {
		t.Error("ScanKeyOpts should carry SkipFunctionLocals")
	}
	rk := o.ReportKeyOpts()
	if rk.Format != "dot" || !rk.Sites || rk.Sizes {
		t.Errorf("ReportKeyOpts = %+v", rk)
	}
	if ro := o.ReportOptions(); !ro.Sites || ro.Sizes {
		t.Errorf("ReportOptions = %+v", ro)
	}
}
