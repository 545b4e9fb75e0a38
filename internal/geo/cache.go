// Package geo matches photo capture times against track-log waypoints using
// a time-bucketed cache: each waypoint lands in the bucket
// floor(timestamp/W)*W, and a query unions its own bucket with both
// neighbors. With the bucket width equal to the match tolerance W, every
// waypoint within W of the query is guaranteed to be in one of the three
// buckets, including across bucket boundaries.
package geo

import (
	"errors"
	"time"
)

// Cache indexes waypoints by time bucket. Build it fully with Ingest, then
// Seal it before querying; a sealed cache is safe for concurrent reads.
type Cache struct {
	window  int64 // bucket width and match tolerance, seconds
	buckets map[int64][]Waypoint
	sealed  bool
}

var errSealed = errors.New("geo cache is sealed")

func NewCache(window time.Duration) *Cache {
	w := int64(window / time.Second)
	if w < 1 {
		w = 1
	}
	return &Cache{
		window:  w,
		buckets: make(map[int64][]Waypoint),
	}
}

// bucketKey floors t to its bucket. Go's % truncates toward zero, so
// pre-epoch timestamps need the remainder shifted back into range.
func (c *Cache) bucketKey(t int64) int64 {
	r := t % c.window
	if r < 0 {
		r += c.window
	}
	return t - r
}

// Ingest parses one track log and pours its waypoints into the cache,
// skipping points without a usable timestamp. Returns the number ingested.
// Pouring is additive and order-independent across logs.
func (c *Cache) Ingest(data []byte) (int, error) {
	if c.sealed {
		return 0, errSealed
	}
	points, err := ParseGPX(data)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, wp := range points {
		if wp.Time.IsZero() {
			continue
		}
		key := c.bucketKey(wp.Time.Unix())
		c.buckets[key] = append(c.buckets[key], wp)
		count++
	}
	return count, nil
}

// Seal marks the ingestion phase complete. Queries before any concurrent use
// must happen after Seal.
func (c *Cache) Seal() {
	c.sealed = true
}

// Len returns the total number of cached waypoints.
func (c *Cache) Len() int {
	n := 0
	for _, bucket := range c.buckets {
		n += len(bucket)
	}
	return n
}

// Nearest returns the cached waypoint closest in time to t, looking at the
// query's bucket and both neighbors. A timestamp exactly on a bucket boundary
// still sees candidates on either side. Ties go to the first-encountered
// waypoint in ingestion order; callers must not read meaning into tie order.
func (c *Cache) Nearest(t time.Time) (Waypoint, bool) {
	ts := t.Unix()
	key := c.bucketKey(ts)
	keys := [3]int64{key - c.window, key, key + c.window}

	var best Waypoint
	bestDiff := int64(-1)
	for _, k := range keys {
		for _, wp := range c.buckets[k] {
			diff := wp.Time.Unix() - ts
			if diff < 0 {
				diff = -diff
			}
			if bestDiff < 0 || diff < bestDiff {
				best = wp
				bestDiff = diff
			}
		}
	}
	if bestDiff < 0 {
		return Waypoint{}, false
	}
	return best, true
}
