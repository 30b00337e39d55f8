package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hardref/pkg/cache"
)

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := cacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".cache", "hardref"), dir)
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "hardref"), dir)
}

func TestCacheDirFromConfig(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, log.InfoLevel)

	fromEnv, err := c.cacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_CACHE_HOME"), "hardref"), fromEnv)

	c.Config.Cache.Dir = "/srv/hardref-cache"
	dir, err := c.cacheDir()
	require.NoError(t, err)
	assert.Equal(t, "/srv/hardref-cache", dir, "cache.dir overrides the XDG location")
}

func TestCacheClearOnlyFamily(t *testing.T) {
	ctx := context.Background()
	c := New(io.Discard, log.InfoLevel)
	c.Config.Cache.Dir = t.TempDir()

	fc, err := c.openFileCache()
	require.NoError(t, err)
	keyer := cache.NewDefaultKeyer()
	scanKey := keyer.ScanKey("digest", "/Game/BP_Hero.BP_Hero_C", cache.ScanKeyOpts{})
	reportKey := keyer.ReportKey("hash", cache.ReportKeyOpts{Format: "svg"})
	require.NoError(t, fc.Set(ctx, scanKey, []byte("{}"), time.Hour))
	require.NoError(t, fc.Set(ctx, reportKey, []byte("<svg/>"), time.Hour))

	cmd := c.cacheClearCommand()
	cmd.SetArgs([]string{"--only", "report"})
	cmd.SetOut(io.Discard)
	require.NoError(t, cmd.ExecuteContext(ctx))

	_, hit, _ := fc.Get(ctx, reportKey)
	assert.False(t, hit, "report entries should be cleared")
	_, hit, _ = fc.Get(ctx, scanKey)
	assert.True(t, hit, "scan entries should survive")

	bad := c.cacheClearCommand()
	bad.SetArgs([]string{"--only", "sessions"})
	bad.SetOut(io.Discard)
	bad.SetErr(io.Discard)
	assert.Error(t, bad.ExecuteContext(ctx))
}
