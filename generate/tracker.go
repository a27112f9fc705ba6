package generate

import (
	"github.com/jellydator/ttlcache/v3"
)

// defaultTrackCapacity bounds the identifiers remembered per run.
const defaultTrackCapacity = 100_000

// IDTracker remembers identifiers emitted during a run so repeats can be
// reported. Entries never expire; once capacity is reached the least
// recently seen identifiers are evicted.
type IDTracker struct {
	cache *ttlcache.Cache[string, struct{}]
}

// NewIDTracker creates a tracker holding at most capacity identifiers.
func NewIDTracker(capacity int) *IDTracker {
	if capacity <= 0 {
		capacity = defaultTrackCapacity
	}
	c := ttlcache.New[string, struct{}](
		ttlcache.WithTTL[string, struct{}](ttlcache.NoTTL),
		ttlcache.WithCapacity[string, struct{}](uint64(capacity)),
	)
	return &IDTracker{cache: c}
}

// Observe records id under namespace and reports whether it was already seen.
func (t *IDTracker) Observe(namespace, id string) bool {
	key := namespace + "\x00" + id
	if t.cache.Get(key) != nil {
		return true
	}
	t.cache.Set(key, struct{}{}, ttlcache.DefaultTTL)
	return false
}

// Len returns the number of identifiers currently remembered.
func (t *IDTracker) Len() int {
	return t.cache.Len()
}
