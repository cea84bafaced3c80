package cache

import "time"

// Cache is a durable key/value blob store with expiry-by-age reads.
//
// Absence is a normal result, never an error: Get returns false both for a
// missing key and for an entry older than maxAge. Stale entries are not
// deleted; they are ignored on read and overwritten by the next Put.
type Cache interface {
	// Get returns the payload stored under key if the entry is no older
	// than maxAge.
	Get(key string, maxAge time.Duration) ([]byte, bool)

	// Put stores payload under key with the current time as its write
	// timestamp, overwriting any prior entry.
	Put(key string, payload []byte)
}
