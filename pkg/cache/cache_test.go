package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return a nil miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Errorf("Clear error: %v", err)
	}
}

func TestEntryPath(t *testing.T) {
	shard, name := entryPath("records:v1:abc")
	if len(shard) != 2 || len(name) != 62+len(".json") {
		t.Errorf("entryPath = %q, %q", shard, name)
	}
	if s2, n2 := entryPath("records:v1:abc"); s2 != shard || n2 != name {
		t.Error("entryPath should be deterministic")
	}
	if _, n2 := entryPath("records:v1:abd"); n2 == name {
		t.Error("different keys should map to different files")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := k.RecordsKey("abc", RecordsKeyOpts{Language: "cpp", Anchors: true})

	if !strings.HasPrefix(base, "records:v1:") {
		t.Errorf("key %q should start with records:v1:", base)
	}
	if base != k.RecordsKey("abc", RecordsKeyOpts{Language: "cpp", Anchors: true}) {
		t.Error("RecordsKey should be deterministic")
	}

	variants := map[string]string{
		"fingerprint": k.RecordsKey("abd", RecordsKeyOpts{Language: "cpp", Anchors: true}),
		"language":    k.RecordsKey("abc", RecordsKeyOpts{Language: "java", Anchors: true}),
		"anchors":     k.RecordsKey("abc", RecordsKeyOpts{Language: "cpp"}),
	}
	for name, key := range variants {
		if key == base {
			t.Errorf("changing %s should change the key", name)
		}
	}
}

func TestScopedKeyer(t *testing.T) {
	opts := RecordsKeyOpts{Language: "cpp"}
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "proj:")

	if got, want := scoped.RecordsKey("fp", opts), "proj:"+inner.RecordsKey("fp", opts); got != want {
		t.Errorf("RecordsKey = %q, want %q", got, want)
	}

	nilInner := NewScopedKeyer(nil, "x:")
	if got := nilInner.RecordsKey("fp", opts); got != "x:"+inner.RecordsKey("fp", opts) {
		t.Errorf("nil inner should fall back to the default keyer, got %q", got)
	}
}

func TestBackendError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &BackendError{Op: "get", Key: "records:v1:x", Transient: true, Err: cause}

	if got, want := err.Error(), "cache get records:v1:x: connection reset"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrBackend) || !errors.Is(err, cause) {
		t.Error("BackendError should match ErrBackend and unwrap to its cause")
	}
	if !isTransient(fmt.Errorf("load: %w", err)) {
		t.Error("wrapped transient error should stay transient")
	}
	if isTransient(cause) || isTransient(&BackendError{Op: "set", Err: cause}) {
		t.Error("only transient backend errors are retried")
	}
}

func TestRedisErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"network", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"eof", io.EOF, true},
		{"server reply", errors.New("WRONGTYPE Operation against a key"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := redisError("get", "k", tt.err)
			if isTransient(err) != tt.transient {
				t.Errorf("isTransient(%v) = %v, want %v", tt.err, !tt.transient, tt.transient)
			}
			if !errors.Is(err, ErrBackend) {
				t.Error("every redis error should match ErrBackend")
			}
		})
	}
}

func TestBackoff(t *testing.T) {
	ctx := context.Background()
	b := backoff{attempts: 3, base: time.Millisecond}
	transient := func() error { return &BackendError{Op: "get", Transient: true, Err: errors.New("down")} }

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := b.do(ctx, func() error {
			calls++
			if calls < 3 {
				return transient()
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		permanent := &BackendError{Op: "set", Err: errors.New("OOM")}
		err := b.do(ctx, func() error {
			calls++
			return permanent
		})
		if !errors.Is(err, permanent) {
			t.Errorf("err = %v, want %v", err, permanent)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		calls := 0
		err := b.do(ctx, func() error {
			calls++
			return transient()
		})
		if !isTransient(err) {
			t.Errorf("err = %v, want the last transient error", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("honors cancellation", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := b.do(cctx, transient)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "cache")

	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get(k) = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should be a miss")
	}

	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cache dir should survive Clear: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Clear left %d entries", len(entries))
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry should be gone after Clear")
	}
}

func TestNewRedisCacheInvalidURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisConfig{URL: "http://localhost:6379"})
	if !errors.Is(err, ErrInvalidURL) {
		t.Errorf("err = %v, want ErrInvalidURL", err)
	}
}
