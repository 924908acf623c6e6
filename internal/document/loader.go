package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultCacheTTL is how long an extracted document stays cached.
const DefaultCacheTTL = 10 * time.Minute

// Document is an extracted file split into words.
type Document struct {
	Path    string
	Words   []string
	Size    int64
	ModTime time.Time
}

// Loader extracts documents and caches them by path, size and modification time,
// so re-importing an unchanged file skips extraction.
type Loader struct {
	cache *cache.Cache
}

// NewLoader returns a Loader whose entries expire after ttl.
func NewLoader(ttl time.Duration) *Loader {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Loader{cache: cache.New(ttl, 2*ttl)}
}

// Load extracts the document at path. Callers must not modify the returned words.
func (l *Loader) Load(path string) (Document, error) {
	if !Supported(path) {
		return Document{}, &UnsupportedTypeError{Ext: strings.ToLower(filepath.Ext(path))}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Document{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Document{}, fmt.Errorf("%s is a directory", path)
	}
	key := fmt.Sprintf("%s|%d|%d", abs, info.Size(), info.ModTime().UnixNano())
	if cached, ok := l.cache.Get(key); ok {
		if doc, ok := cached.(Document); ok {
			return doc, nil
		}
	}
	content, err := Extract(abs)
	if err != nil {
		return Document{}, err
	}
	doc := Document{
		Path:    abs,
		Words:   Tokenize(content),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	l.cache.SetDefault(key, doc)
	return doc, nil
}

// Cached returns the number of cached documents.
func (l *Loader) Cached() int {
	return l.cache.ItemCount()
}
