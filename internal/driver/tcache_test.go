package driver

import (
	"context"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"minilex/internal/diag"
	"minilex/internal/lexer"
	"minilex/internal/token"
)

func TestTokenCacheRoundTrip(t *testing.T) {
	cache, err := OpenTokenCache(t.TempDir(), "minilex")
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Mode: lexer.ModeLenient, MaxDiagnostics: 10, Cache: cache}
	src := []byte("int a = 1 # b\n")

	first := TokenizeSource(context.Background(), "a.mlx", src, opts)
	if first.Cached {
		t.Fatal("first run must miss")
	}
	second := TokenizeSource(context.Background(), "a.mlx", src, opts)
	if !second.Cached {
		t.Fatal("second run must hit")
	}
	if diff := cmp.Diff(first.Tokens, second.Tokens); diff != "" {
		t.Errorf("tokens differ (-fresh +cached):\n%s", diff)
	}
	if diff := cmp.Diff(first.Bag.Items(), second.Bag.Items()); diff != "" {
		t.Errorf("diagnostics differ (-fresh +cached):\n%s", diff)
	}

	// у другого режима другой ключ
	strict := TokenizeSource(context.Background(), "a.mlx", src, Options{MaxDiagnostics: 10, Cache: cache})
	if strict.Cached || strict.Tokens != nil || !strict.Failed() {
		t.Fatalf("strict run must miss and fail, got cached=%v tokens=%d", strict.Cached, len(strict.Tokens))
	}
}

func TestTokenCacheKey(t *testing.T) {
	cache := &TokenCache{dir: t.TempDir()}
	a := cache.Key([]byte("x"), lexer.ModeStrict)
	if a != cache.Key([]byte("x"), lexer.ModeStrict) {
		t.Error("key must be deterministic")
	}
	if a == cache.Key([]byte("y"), lexer.ModeStrict) || a == cache.Key([]byte("x"), lexer.ModeLenient) {
		t.Error("key must depend on content and mode")
	}
	var nilCache *TokenCache
	if nilCache.Key([]byte("x"), lexer.ModeStrict) != (CacheKey{}) {
		t.Error("nil cache returns zero key")
	}
}

func TestTokenCacheCorruptEntry(t *testing.T) {
	cache, err := OpenTokenCache(t.TempDir(), "minilex")
	if err != nil {
		t.Fatal(err)
	}
	src := []byte("x y")
	opts := Options{MaxDiagnostics: 10, Cache: cache}
	TokenizeSource(context.Background(), "a.mlx", src, opts)

	key := cache.Key(src, lexer.ModeStrict)
	if err := os.WriteFile(cache.pathFor(key), []byte{0xc1, 0x00, 0x13}, 0o600); err != nil {
		t.Fatal(err)
	}
	res := TokenizeSource(context.Background(), "a.mlx", src, opts)
	if res.Cached || len(res.Tokens) != 2 {
		t.Fatalf("corrupt entry must be a miss, got cached=%v tokens=%d", res.Cached, len(res.Tokens))
	}
	if res.Bag.Len() != 1 || res.Bag.Items()[0].Code != diag.IOCacheError || res.Bag.HasErrors() {
		t.Errorf("expected a single cache warning, got %+v", res.Bag.Items())
	}

	// запись перезаписана корректной
	again := TokenizeSource(context.Background(), "a.mlx", src, opts)
	if !again.Cached || again.Bag.Len() != 0 {
		t.Errorf("expected clean hit after rewrite, cached=%v diags=%d", again.Cached, again.Bag.Len())
	}
}

func TestTokenCacheOutOfBoundsIsMiss(t *testing.T) {
	cache, err := OpenTokenCache(t.TempDir(), "minilex")
	if err != nil {
		t.Fatal(err)
	}
	src := []byte("ab")
	key := cache.Key(src, lexer.ModeStrict)
	bad := &CachePayload{Schema: tokenCacheSchemaVersion, Tokens: []CachedToken{{Kind: "Identifier", Start: 0, End: 9}}}
	if err := cache.Put(key, bad); err != nil {
		t.Fatal(err)
	}
	res := TokenizeSource(context.Background(), "a.mlx", src, Options{MaxDiagnostics: 10, Cache: cache})
	if res.Cached || len(res.Tokens) != 1 || res.Tokens[0].Text != "ab" {
		t.Fatalf("expected fresh scan, got cached=%v %+v", res.Cached, res.Tokens)
	}
}

func TestTokenCacheUnknownKindIsMiss(t *testing.T) {
	cache, err := OpenTokenCache(t.TempDir(), "minilex")
	if err != nil {
		t.Fatal(err)
	}
	src := []byte("ab")
	key := cache.Key(src, lexer.ModeStrict)
	stale := &CachePayload{Schema: tokenCacheSchemaVersion, Tokens: []CachedToken{{Kind: "KwFloat", Start: 0, End: 2}}}
	if err := cache.Put(key, stale); err != nil {
		t.Fatal(err)
	}
	res := TokenizeSource(context.Background(), "a.mlx", src, Options{MaxDiagnostics: 10, Cache: cache})
	if res.Cached || len(res.Tokens) != 1 || res.Tokens[0].Kind != token.Ident {
		t.Fatalf("expected fresh scan, got cached=%v %+v", res.Cached, res.Tokens)
	}
}

func TestTokenCacheDropAll(t *testing.T) {
	cache, err := OpenTokenCache(t.TempDir(), "minilex")
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{MaxDiagnostics: 10, Cache: cache}
	TokenizeSource(context.Background(), "a.mlx", []byte("x"), opts)
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if res := TokenizeSource(context.Background(), "a.mlx", []byte("x"), opts); res.Cached {
		t.Error("expected miss after DropAll")
	}
}

func TestOpenTokenCacheXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	cache, err := OpenTokenCache("", "minilex")
	if err != nil {
		t.Fatal(err)
	}
	if cache.Dir() != base+string(os.PathSeparator)+"minilex" {
		t.Errorf("unexpected dir %q", cache.Dir())
	}
}
