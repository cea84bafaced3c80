// Package filecache provides a file backed Cache.
//
// Each key maps to one file under the cache directory. The file modification
// time is the entry's write timestamp, so entries survive process restarts
// without any index of their own.
package filecache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/survata/survata-go/cache"
	"github.com/survata/survata-go/cache/dummycache"
	"github.com/survata/survata-go/errortypes"
	"github.com/survata/survata-go/util/timeutil"
)

// Cache is a file backed cache
type Cache struct {
	dir   string
	clock timeutil.Time
}

var _ cache.Cache = &Cache{}

// New creates the cache directory if needed and returns a cache over it.
func New(dir string, clock timeutil.Time) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, clock: clock}, nil
}

// NewOrEmpty returns a file backed cache, or a permanently empty cache when
// the storage area cannot be created. Callers must not depend on persistence
// succeeding.
func NewOrEmpty(dir string, clock timeutil.Time) cache.Cache {
	c, err := New(dir, clock)
	if err != nil {
		werr := &errortypes.CacheUnavailable{
			Message: fmt.Sprintf("cannot create %s, degrading to empty cache: %v", dir, err),
		}
		glog.Errorf("filecache: %v", werr)
		return dummycache.New()
	}
	return c
}

// Get returns the payload under key if its file is no older than maxAge.
func (c *Cache) Get(key string, maxAge time.Duration) ([]byte, bool) {
	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if c.clock.Now().Sub(info.ModTime()) > maxAge {
		return nil, false
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		glog.Errorf("filecache: cannot read %s: %v", path, err)
		return nil, false
	}
	return payload, true
}

// Put stores payload under key, overwriting any prior entry. Write failures
// are logged and absorbed; the entry simply does not persist.
func (c *Cache) Put(key string, payload []byte) {
	path := c.path(key)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		glog.Errorf("filecache: cannot write %s: %v", path, err)
		return
	}
	// mtime is the entry's write timestamp; stamp it from the injected clock
	now := c.clock.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		glog.V(2).Infof("filecache: cannot stamp %s: %v", path, err)
	}
}

func (c *Cache) path(key string) string {
	// keys are fixed identifiers, not user input; sanitize separators anyway
	key = strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(c.dir, key)
}
