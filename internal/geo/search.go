package geo

import "time"

// Searcher answers "closest waypoint to t" queries. The implementation is
// chosen once at startup and passed to every per-file call.
type Searcher interface {
	Search(t time.Time) (Waypoint, bool)
}

// NullSearcher never matches; used when geotagging is disabled or no track
// logs are available.
type NullSearcher struct{}

func (NullSearcher) Search(time.Time) (Waypoint, bool) {
	return Waypoint{}, false
}

// CacheSearcher answers from a sealed Cache.
type CacheSearcher struct {
	Cache *Cache
}

func (s CacheSearcher) Search(t time.Time) (Waypoint, bool) {
	return s.Cache.Nearest(t)
}
