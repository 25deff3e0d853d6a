package cache

import (
	"context"
	"errors"
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

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("empty cache should miss")
	}
	if err := c.Set(ctx, "k", []byte("svg"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "svg" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("x"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Error("fresh entry should hit")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	p := c.path("k")
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v err %v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
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
		t.Fatalf("root removed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("%d entries left", len(entries))
	}
	if c.Dir() != dir {
		t.Errorf("Dir = %q", c.Dir())
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte("hello")) != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if Hash([]byte("hello")) == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if n := len(Hash(nil)); n != 64 {
		t.Errorf("hash length = %d, want 64", n)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	d1 := k.DocumentKey("abc", "toml")
	d2 := k.DocumentKey("abc", "yaml")
	if d1 == d2 || !strings.HasPrefix(d1, "doc:") {
		t.Errorf("document keys %q %q", d1, d2)
	}

	a1 := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg", Scale: 1})
	a2 := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "png", Scale: 1})
	a3 := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "png", Scale: 2})
	a4 := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "png", Scale: 2, Version: "v1"})
	seen := map[string]bool{}
	for _, a := range []string{a1, a2, a3, a4} {
		if seen[a] {
			t.Errorf("duplicate artifact key %q", a)
		}
		seen[a] = true
	}
	if a1 != k.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg", Scale: 1}) {
		t.Error("artifact keys should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "serve:")
	inner := NewDefaultKeyer()
	if got, want := scoped.DocumentKey("h", "toml"), "serve:"+inner.DocumentKey("h", "toml"); got != want {
		t.Errorf("DocumentKey = %q, want %q", got, want)
	}
	opts := ArtifactKeyOpts{Format: "pdf"}
	if got, want := scoped.ArtifactKey("h", opts), "serve:"+inner.ArtifactKey("h", opts); got != want {
		t.Errorf("ArtifactKey = %q, want %q", got, want)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) || !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should be retryable and unwrap")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("message = %q", err.Error())
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("plain errors are not retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	fast := Backoff{Attempts: 3, Delay: time.Millisecond}
	permanent := errors.New("permanent")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, nil, 1, false},
		{"permanent", 5, permanent, 1, true},
		{"recovers", 2, Retryable(ErrUnavailable), 3, false},
		{"exhausted", 5, Retryable(ErrUnavailable), 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, fast, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, Backoff{Attempts: 3, Delay: time.Hour}, func() error {
		return Retryable(ErrUnavailable)
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx := context.Background()
	_, err := NewRedisCache(ctx, RedisConfig{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		Backoff:     Backoff{Attempts: 1},
	})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestRedisCacheClearNeedsPrefix(t *testing.T) {
	c := &RedisCache{}
	if err := c.Clear(context.Background()); err == nil || !strings.Contains(err.Error(), "prefix") {
		t.Errorf("Clear without prefix = %v, want refusal", err)
	}
	if got := (&RedisCache{prefix: "cmsstyle:"}).key("doc"); got != "cmsstyle:doc" {
		t.Errorf("key = %q", got)
	}
}
