package driver

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"

	"minilex/internal/diag"
	"minilex/internal/lexer"
	"minilex/internal/source"
	"minilex/internal/token"
)

// Current schema version - increment when CachePayload format changes
const tokenCacheSchemaVersion uint16 = 2

// CacheKey identifies a token stream: содержимое файла, режим лексера, версия схемы.
type CacheKey [8]byte

func (k CacheKey) String() string { return hex.EncodeToString(k[:]) }

// TokenCache хранит потоки токенов на диске, msgpack.
// Thread-safe for concurrent access.
type TokenCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedToken is a token without its text; text is recovered from the file
// content, which the key pins down. Kind is stored by name.
type CachedToken struct {
	Kind  string `msgpack:"k"`
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
	Pos   int    `msgpack:"p"`
}

// CachedDiag is a diagnostic with spans relative to the cached file.
type CachedDiag struct {
	Severity uint8        `msgpack:"sev"`
	Code     uint16       `msgpack:"code"`
	Message  string       `msgpack:"msg"`
	Start    uint32       `msgpack:"s"`
	End      uint32       `msgpack:"e"`
	Notes    []CachedNote `msgpack:"notes,omitempty"`
}

type CachedNote struct {
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
	Msg   string `msgpack:"msg"`
}

// CachePayload is one file's lexer output.
type CachePayload struct {
	Schema uint16        `msgpack:"schema"`
	Mode   uint8         `msgpack:"mode"`
	Tokens []CachedToken `msgpack:"tokens"`
	Diags  []CachedDiag  `msgpack:"diags,omitempty"`
}

// OpenTokenCache initializes a cache in dir, or at the standard location
// ($XDG_CACHE_HOME/<app>, ~/.cache/<app>) when dir is empty.
func OpenTokenCache(dir, app string) (*TokenCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &TokenCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *TokenCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Key hashes content together with the lexer mode and schema version.
func (c *TokenCache) Key(content []byte, mode lexer.Mode) CacheKey {
	var key CacheKey
	if c == nil {
		return key
	}
	d := xxhash.New()
	var hdr [3]byte
	binary.LittleEndian.PutUint16(hdr[:2], tokenCacheSchemaVersion)
	hdr[2] = byte(mode)
	_, _ = d.Write(hdr[:])
	_, _ = d.Write(content)
	binary.LittleEndian.PutUint64(key[:], d.Sum64())
	return key
}

func (c *TokenCache) pathFor(key CacheKey) string {
	hexKey := key.String()
	// подкаталог по первым двум символам, чтобы не раздувать один каталог
	return filepath.Join(c.dir, "tokens", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *TokenCache) Put(key CacheKey, payload *CachePayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	// после успешного Rename удалять нечего
	defer func() { _ = os.Remove(tmp) }()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads and deserializes a payload. A missing entry is (false, nil).
// Entries with another schema are misses too.
func (c *TokenCache) Get(key CacheKey, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if out.Schema != tokenCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *TokenCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "tokens"))
}

// lookup wraps Get; повреждённые записи считаются промахом и дают предупреждение.
func (c *TokenCache) lookup(key CacheKey, bag *diag.Bag) (*CachePayload, bool) {
	if c == nil {
		return nil, false
	}
	var payload CachePayload
	ok, err := c.Get(key, &payload)
	if err != nil {
		diag.ReportWarning(diag.BagReporter{Bag: bag}, diag.IOCacheError, source.Span{},
			"token cache: "+err.Error()).Emit()
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &payload, true
}

func (c *TokenCache) store(key CacheKey, mode lexer.Mode, toks []token.Token, bag *diag.Bag) {
	if c == nil {
		return
	}
	if bag.Dropped() > 0 {
		// неполный набор диагностик не кэшируем
		return
	}
	payload := &CachePayload{
		Schema: tokenCacheSchemaVersion,
		Mode:   uint8(mode),
		Tokens: make([]CachedToken, len(toks)),
	}
	for i, t := range toks {
		payload.Tokens[i] = CachedToken{Kind: t.Kind.String(), Start: t.Span.Start, End: t.Span.End, Pos: t.Pos}
	}
	for _, d := range bag.Items() {
		if d.Code == diag.IOCacheError {
			continue
		}
		cd := CachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		payload.Diags = append(payload.Diags, cd)
	}
	if err := c.Put(key, payload); err != nil {
		diag.ReportWarning(diag.BagReporter{Bag: bag}, diag.IOCacheError, source.Span{},
			"token cache: "+err.Error()).Emit()
	}
}

// restore rebuilds tokens and diagnostics for file. Spans that do not fit
// the content mean a corrupt entry; это промах.
func (p *CachePayload) restore(file *source.File, bag *diag.Bag) ([]token.Token, bool) {
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return nil, false
	}
	inBounds := func(s, e uint32) bool { return s <= e && e <= size }

	toks := make([]token.Token, 0, len(p.Tokens))
	for _, ct := range p.Tokens {
		kind, ok := token.ParseKind(ct.Kind)
		if !ok || ct.Start >= ct.End || !inBounds(ct.Start, ct.End) {
			return nil, false
		}
		toks = append(toks, token.Token{
			Kind: kind,
			Text: string(file.Content[ct.Start:ct.End]),
			Span: source.Span{File: file.ID, Start: ct.Start, End: ct.End},
			Pos:  ct.Pos,
		})
	}
	for _, cd := range p.Diags {
		if !inBounds(cd.Start, cd.End) {
			return nil, false
		}
		for _, n := range cd.Notes {
			if !inBounds(n.Start, n.End) {
				return nil, false
			}
		}
	}

	for _, cd := range p.Diags {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code),
			source.Span{File: file.ID, Start: cd.Start, End: cd.End}, cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(source.Span{File: file.ID, Start: n.Start, End: n.End}, n.Msg)
		}
		bag.Add(d)
	}
	return toks, true
}
