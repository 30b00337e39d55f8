package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "scan:abc"); err != nil || hit {
		t.Fatalf("empty cache Get = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "scan:abc", []byte(`{"groups":[]}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "scan:abc")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if string(data) != `{"groups":[]}` {
		t.Errorf("Get data = %s", data)
	}

	if err := c.Delete(ctx, "scan:abc"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "scan:abc"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "scan:abc"); err != nil {
		t.Errorf("Delete of missing key should not fail: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should be a miss")
	}

	// Zero TTL never expires
	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without TTL should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	fc := c.(*FileCache)

	path := fc.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry Get = hit %v, err %v; want clean miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheFamilies(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	fc := c.(*FileCache)

	keyer := NewDefaultKeyer()
	scanKey := keyer.ScanKey("digest", "/Game/BP_Hero.BP_Hero_C", ScanKeyOpts{})
	reportKey := keyer.ReportKey("resulthash", ReportKeyOpts{Format: "svg"})
	scopedKey := NewScopedKeyer(nil, "team:").ScanKey("digest", "/Game/BP_Villain.BP_Villain_C", ScanKeyOpts{})

	for _, k := range []string{scanKey, reportKey, scopedKey} {
		if err := c.Set(ctx, k, []byte("{}"), time.Hour); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}

	if rel, _ := filepath.Rel(dir, fc.path(scopedKey)); !strings.HasPrefix(rel, FamilyScan+string(filepath.Separator)) {
		t.Errorf("scoped scan entry stored at %s, want under %s/", rel, FamilyScan)
	}

	counts, err := fc.Count()
	if err != nil {
		t.Fatal(err)
	}
	if counts[FamilyScan] != 2 || counts[FamilyReport] != 1 {
		t.Errorf("Count() = %v, want 2 scans and 1 report", counts)
	}

	n, err := fc.Clear(FamilyScan)
	if err != nil || n != 2 {
		t.Fatalf("Clear(scan) = %d, %v; want 2", n, err)
	}
	if _, hit, _ := c.Get(ctx, scanKey); hit {
		t.Error("scan entry should be cleared")
	}
	if _, hit, _ := c.Get(ctx, reportKey); !hit {
		t.Error("report entry should survive clearing scans")
	}
	if _, err := os.Stat(filepath.Join(dir, FamilyScan)); !os.IsNotExist(err) {
		t.Error("emptied family directory should be pruned")
	}

	n, err = fc.Clear("")
	if err != nil || n != 1 {
		t.Fatalf("Clear(all) = %d, %v; want 1", n, err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache root should survive Clear: %v", err)
	}
}

func TestFileCacheKeyMismatch(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fc := c.(*FileCache)

	if err := c.Set(ctx, "scan:a", []byte("a"), 0); err != nil {
		t.Fatal(err)
	}
	// An entry written for another key at this path is stale, not a hit.
	raw, _ := os.ReadFile(fc.path("scan:a"))
	if err := os.WriteFile(fc.path("scan:a"), []byte(strings.Replace(string(raw), `"key":"scan:a"`, `"key":"scan:b"`, 1)), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "scan:a"); hit {
		t.Error("entry recorded under a different key should be a miss")
	}
}
