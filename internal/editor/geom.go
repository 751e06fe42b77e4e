package editor

import (
	"math"

	"github.com/paulmach/orb"

	"areacatalog/internal/domain"
)

// toOrbPoint converts a LatLng into an orb.Point in [lng, lat] order,
// the coordinate convention §3 mandates.
func toOrbPoint(p domain.LatLng) orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// closedRingFromPoints builds a single ring from loop points, closing
// it if the caller didn't already repeat the first vertex last (I6).
func closedRingFromPoints(points []domain.LatLng) orb.Ring {
	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, toOrbPoint(p))
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring
}

// polygonFromPoints builds a single-ring Polygon from a point loop.
func polygonFromPoints(points []domain.LatLng) orb.Polygon {
	return orb.Polygon{closedRingFromPoints(points)}
}

// dedupConsecutive drops consecutive points that coincide within
// epsilon (and a last point that coincides with the first), used by
// removeWhiskers on a cut polyline.
func dedupConsecutive(points []domain.LatLng, epsilon float64) []domain.LatLng {
	out := make([]domain.LatLng, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && near(out[len(out)-1], p, epsilon) {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && near(out[0], out[len(out)-1], epsilon) {
		out = out[:len(out)-1]
	}
	return out
}

func near(a, b domain.LatLng, epsilon float64) bool {
	return math.Abs(a.Lat-b.Lat) <= epsilon && math.Abs(a.Lng-b.Lng) <= epsilon
}

// removeWhiskers implements §4.5's approximate whisker-removal
// heuristic: collapse coincident runs, then iteratively drop interior
// vertices where the polyline backtracks on itself (adjacent unit edge
// vectors with dot product below -0.99). This is documented in §9 as
// an intentional approximation of true intersection-based trimming.
func removeWhiskers(points []domain.LatLng) []domain.LatLng {
	const coincidentEpsilon = 1e-8
	const backtrackDot = -0.99

	cleaned := dedupConsecutive(points, coincidentEpsilon)

	for {
		if len(cleaned) < 3 {
			return cleaned
		}
		changed := false
		next := make([]domain.LatLng, 0, len(cleaned))
		next = append(next, cleaned[0])
		for i := 1; i < len(cleaned)-1; i++ {
			prev, cur, nxt := cleaned[i-1], cleaned[i], cleaned[i+1]
			if unitDot(prev, cur, nxt) < backtrackDot {
				changed = true
				continue // drop cur: the path backtracks through it
			}
			next = append(next, cur)
		}
		next = append(next, cleaned[len(cleaned)-1])
		cleaned = next
		if !changed {
			return cleaned
		}
	}
}

// countDistinctPoints counts points that remain distinct from their
// immediate predecessor, the check splitAsChildren/splitReplace apply
// to a whisker-cleaned cut before attempting to split with it (§4.5
// step 2: "if fewer than two points remain, signal InvalidGeometry").
func countDistinctPoints(points []domain.LatLng) int {
	if len(points) == 0 {
		return 0
	}
	n := 1
	for i := 1; i < len(points); i++ {
		if points[i] != points[i-1] {
			n++
		}
	}
	return n
}

func unitDot(prev, cur, nxt domain.LatLng) float64 {
	e1x, e1y := cur.Lng-prev.Lng, cur.Lat-prev.Lat
	e2x, e2y := nxt.Lng-cur.Lng, nxt.Lat-cur.Lat
	l1 := math.Hypot(e1x, e1y)
	l2 := math.Hypot(e2x, e2y)
	if l1 == 0 || l2 == 0 {
		return 1
	}
	return (e1x*e2x + e1y*e2y) / (l1 * l2)
}

// halfPlanePolygons builds the two half-plane polygons on each side of
// the infinite line extending through the first and last point of
// line, long enough to cover bound entirely (§4.5's "long chord").
func halfPlanePolygons(line []domain.LatLng, bound orb.Bound) (orb.Polygon, orb.Polygon) {
	a := toOrbPoint(line[0])
	b := toOrbPoint(line[len(line)-1])

	diag := math.Hypot(bound.Max[0]-bound.Min[0], bound.Max[1]-bound.Min[1])
	length := diag*10 + 1

	dx, dy := b[0]-a[0], b[1]-a[1]
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		norm = 1
	}
	dx, dy = dx/norm, dy/norm
	nx, ny := -dy, dx

	p1 := orb.Point{a[0] - dx*length, a[1] - dy*length}
	p2 := orb.Point{b[0] + dx*length, b[1] + dy*length}

	left := orb.Polygon{orb.Ring{
		p1, p2,
		orb.Point{p2[0] + nx*length, p2[1] + ny*length},
		orb.Point{p1[0] + nx*length, p1[1] + ny*length},
		p1,
	}}
	right := orb.Polygon{orb.Ring{
		p1, p2,
		orb.Point{p2[0] - nx*length, p2[1] - ny*length},
		orb.Point{p1[0] - nx*length, p1[1] - ny*length},
		p1,
	}}
	return left, right
}

// geometryBound returns the bound of a Polygon or MultiPolygon.
func geometryBound(g orb.Geometry) orb.Bound {
	return g.Bound()
}

// splitPieces flattens a Union/Intersection/Difference result into its
// constituent Polygon pieces, dropping degenerate (near-zero-area)
// ones. Used after intersecting a target with each half-plane.
func splitPieces(g orb.Geometry) []orb.Polygon {
	const minPieceArea = 1e-14

	var polys []orb.Polygon
	switch v := g.(type) {
	case orb.Polygon:
		if len(v) > 0 {
			polys = append(polys, v)
		}
	case orb.MultiPolygon:
		polys = append(polys, v...)
	}

	out := polys[:0]
	for _, p := range polys {
		if len(p) == 0 || len(p[0]) < 4 {
			continue
		}
		if ringArea(p[0]) < minPieceArea {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ringArea is the unsigned shoelace area of a ring in squared degrees.
func ringArea(ring orb.Ring) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += ring[i][0]*ring[j][1] - ring[j][0]*ring[i][1]
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

// nearRingBoundary reports whether pt lies within tolerance of any
// edge of ring (point-to-segment distance), used by carveInnerChild's
// endpoint-incidence check.
func nearRingBoundary(pt orb.Point, ring orb.Ring, tolerance float64) bool {
	for i := 0; i+1 < len(ring); i++ {
		if distanceToSegment(pt, ring[i], ring[i+1]) <= tolerance {
			return true
		}
	}
	return false
}

func distanceToSegment(pt, a, b orb.Point) float64 {
	abx, aby := b[0]-a[0], b[1]-a[1]
	length2 := abx*abx + aby*aby
	if length2 == 0 {
		return math.Hypot(pt[0]-a[0], pt[1]-a[1])
	}
	t := ((pt[0]-a[0])*abx + (pt[1]-a[1])*aby) / length2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	projX, projY := a[0]+t*abx, a[1]+t*aby
	return math.Hypot(pt[0]-projX, pt[1]-projY)
}
