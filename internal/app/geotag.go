package app

import (
	"context"
	"time"

	"camclone/internal/geo"
	"camclone/internal/logging"
)

// DefaultMatchWindow is the maximum time gap between a photo's capture time
// and a matched waypoint. It is also the cache bucket width; the two must be
// the same value or boundary waypoints are missed.
const DefaultMatchWindow = 5 * time.Minute

// DefaultMaxTrackLogs bounds how many logs one run downloads.
const DefaultMaxTrackLogs = 50

// BuildGeoSearcher downloads track logs overlapping [start−window,
// end+window], pours them into a cache and seals it before anything queries.
// A log that fails to parse is skipped with a warning; if nothing ingests,
// every query simply misses, which is not an error.
func BuildGeoSearcher(ctx context.Context, source TrackLogSource, window time.Duration, start, end time.Time, logger logging.Logger) geo.Searcher {
	if source == nil {
		return geo.NullSearcher{}
	}

	stop := logger.Measure("Building geo cache")
	defer stop()

	fetchStart := start
	if !fetchStart.IsZero() {
		fetchStart = fetchStart.Add(-window)
	}
	logs, err := source.Fetch(ctx, fetchStart, end.Add(window), DefaultMaxTrackLogs)
	if err != nil {
		logger.Warnf("track log fetch failed, geotagging disabled: %v", err)
		return geo.NullSearcher{}
	}

	cache := geo.NewCache(window)
	ingested := 0
	for i, log := range logs {
		n, err := cache.Ingest(log)
		if err != nil {
			logger.Warnf("track log %d unparsable, skipped: %v", i, err)
			continue
		}
		ingested += n
	}
	cache.Seal()
	logger.Verbosef("Ingested %d waypoints from %d track logs", ingested, len(logs))

	if ingested == 0 {
		return geo.NullSearcher{}
	}
	return geo.CacheSearcher{Cache: cache}
}
