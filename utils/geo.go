package utils

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// serviceRegion is a coarse polygon around the Kakamega/Mumias supply area.
// Points are (lng, lat). Captured coordinates outside it are almost certainly
// GPS noise and get flagged, not rejected.
var serviceRegion = orb.Polygon{
	{
		{34.30, -0.10},
		{35.10, -0.10},
		{35.10, 0.70},
		{34.30, 0.70},
		{34.30, -0.10},
	},
}

// InServiceRegion reports whether a captured coordinate falls inside the
// operating area.
func InServiceRegion(lat, lng float64) bool {
	return planar.PolygonContains(serviceRegion, orb.Point{lng, lat})
}

// SplitCoordinate parses a "lat,lng" or "lat,lng,bearing" cell from an
// imported sheet. Each part is validated independently; parts that fail to
// parse or fall outside valid ranges come back nil.
func SplitCoordinate(s string) (lat, lng, bearing *float64) {
	parts := strings.Split(s, ",")
	parse := func(i int) *float64 {
		if i >= len(parts) {
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return nil
		}
		return &v
	}
	lat, lng, bearing = parse(0), parse(1), parse(2)
	if lat != nil && (*lat < -90 || *lat > 90) {
		lat = nil
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		lng = nil
	}
	return
}
