package geo

import (
	"encoding/xml"
	"time"
)

// Waypoint is a single track-log sample. Elevation defaults to 0 when the
// log omits it.
type Waypoint struct {
	Lat  float64
	Lon  float64
	Ele  float64
	Time time.Time
}

type gpxDoc struct {
	XMLName xml.Name   `xml:"gpx"`
	Tracks  []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Ele  float64 `xml:"ele"`
	Time string  `xml:"time"`
}

// ParseGPX decodes a GPX document into waypoints. A point with a missing or
// unparsable timestamp gets a zero Time and is dropped later at ingestion;
// only a malformed document as a whole is an error.
func ParseGPX(data []byte) ([]Waypoint, error) {
	var doc gpxDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	var points []Waypoint
	for _, track := range doc.Tracks {
		for _, segment := range track.Segments {
			for _, p := range segment.Points {
				wp := Waypoint{Lat: p.Lat, Lon: p.Lon, Ele: p.Ele}
				if p.Time != "" {
					if t, err := time.Parse(time.RFC3339, p.Time); err == nil {
						wp.Time = t.UTC()
					}
				}
				points = append(points, wp)
			}
		}
	}
	return points, nil
}
