// Package dummycache provides a permanently empty Cache.
//
// It stands in for the file cache when the durable storage area cannot be
// created. Callers must not depend on persistence succeeding, so reads miss
// and writes are discarded instead of surfacing an error.
package dummycache

import (
	"time"

	"github.com/survata/survata-go/cache"
)

// Cache is a permanently empty cache: every Get misses and Put discards
type Cache struct{}

var _ cache.Cache = &Cache{}

// New creates new dummy cache
func New() *Cache {
	return &Cache{}
}

// Get always misses.
func (c *Cache) Get(key string, maxAge time.Duration) ([]byte, bool) {
	return nil, false
}

// Put discards the payload.
func (c *Cache) Put(key string, payload []byte) {
}
