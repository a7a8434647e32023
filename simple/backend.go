package simple

import (
	"context"
)

// Backend adapts a cached Source to the plugin contract. Created through
// NewPlugin; one Backend serves exactly one session.
type Backend struct {
	cache *cache
}

// Close releases the materialized record and the underlying source.
func (b *Backend) Close() error {
	return b.cache.close()
}

// NotMyFile forwards the probe to the source. The result may require
// materializing data and is cached, so the probe runs at most once per
// backend.
func (b *Backend) NotMyFile(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return b.cache.notMyFile()
}
