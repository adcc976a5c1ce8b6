package trail

import (
	"errors"
	"fmt"

	"magictrail.dev/internal/sim/catalogs"
)

type Route struct {
	points []catalogs.Waypoint
}

func NewRoute(points []catalogs.Waypoint) (*Route, error) {
	if len(points) < 2 {
		return nil, errors.New("route needs at least two waypoints")
	}
	for i := 1; i < len(points); i++ {
		if points[i].DistanceFromStart <= points[i-1].DistanceFromStart {
			return nil, fmt.Errorf("route: waypoint %s: distance must increase", points[i].ID)
		}
	}
	return &Route{points: append([]catalogs.Waypoint(nil), points...)}, nil
}

func (r *Route) Len() int      { return len(r.points) }
func (r *Route) Terminal() int { return len(r.points) - 1 }
func (r *Route) Total() int    { return r.points[len(r.points)-1].DistanceFromStart }

func (r *Route) At(i int) (catalogs.Waypoint, bool) {
	if i < 0 || i >= len(r.points) {
		return catalogs.Waypoint{}, false
	}
	return r.points[i], true
}

func (r *Route) Waypoints() []catalogs.Waypoint {
	return append([]catalogs.Waypoint(nil), r.points...)
}

// DistanceToNext is the remaining distance from traveled to the waypoint
// after index, never negative. Past the terminal it is zero.
func (r *Route) DistanceToNext(index, traveled int) int {
	next := index + 1
	if next < 1 || next >= len(r.points) {
		return 0
	}
	return max(0, r.points[next].DistanceFromStart-traveled)
}

// Arrives reports whether covering miles reaches the next waypoint.
func Arrives(distanceToNext, miles int) bool {
	return distanceToNext-miles <= 0
}
