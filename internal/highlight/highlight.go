// Package highlight renders analysis reports and other snippets as
// syntax-highlighted HTML fragments.
package highlight

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/singleflight"
)

// maxEntries bounds the cache; it is reset when full.
const maxEntries = 512

// Highlighter caches rendered fragments by content digest.
type Highlighter struct {
	style *chroma.Style

	mu    sync.RWMutex
	sf    singleflight.Group
	cache map[string]string
}

// New creates a highlighter using the named chroma style, falling back to
// chroma's default style for unknown names.
func New(style string) *Highlighter {
	return &Highlighter{style: styles.Get(style)}
}

// JSON renders src as indented, highlighted JSON. Input that is not valid
// JSON is rendered as plain text.
func (h *Highlighter) JSON(src string) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(src)), "", "  "); err != nil {
		return h.Highlight("text", src)
	}
	return h.Highlight("json", buf.String())
}

// Highlight renders src with the lexer for lang.
func (h *Highlighter) Highlight(lang, src string) (string, error) {
	key := digest(lang, src)

	h.mu.RLock()
	cached, ok := h.cache[key]
	h.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := h.sf.Do(key, func() (any, error) {
		h.mu.RLock()
		cached, ok := h.cache[key]
		h.mu.RUnlock()
		if ok {
			return cached, nil
		}
		out, err := h.render(lang, src)
		if err != nil {
			return nil, err
		}
		h.mu.Lock()
		if h.cache == nil || len(h.cache) >= maxEntries {
			h.cache = map[string]string{}
		}
		h.cache[key] = out
		h.mu.Unlock()
		return out, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (h *Highlighter) render(lang, src string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iter, err := chroma.Coalesce(lexer).Tokenise(nil, src)
	if err != nil {
		return "", err
	}
	formatter := html.New(
		html.Standalone(false),
		html.TabWidth(2),
		html.WithPreWrapper(wrapper{}),
	)
	var buf bytes.Buffer
	if err := formatter.Format(&buf, h.style, iter); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// cached reports how many fragments are cached.
func (h *Highlighter) cached() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.cache)
}

func digest(lang, src string) string {
	sum := sha3.Sum256([]byte(lang + "\x00" + src))
	return hex.EncodeToString(sum[:16])
}

// wrapper emits a classed <pre> so the console stylesheet can size it.
type wrapper struct{}

func (wrapper) Start(code bool, styleAttr string) string {
	return `<pre class="geo-code"` + styleAttr + `>`
}

func (wrapper) End(code bool) string {
	return "</pre>"
}
