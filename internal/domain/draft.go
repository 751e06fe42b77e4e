package domain

// LatLng is a WGS84 coordinate in decimal degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// DraftShape is a transient polyline or polygon expressed as a lat/lng
// vertex sequence plus a closed flag (§3). The core never stores a
// DraftShape by id; edit operations accept the value only.
type DraftShape struct {
	Points []LatLng
	Closed bool
}

// ViolationCode names a draft validity failure from the Draft Validator
// (§4.3).
type ViolationCode string

const (
	ViolationTooFewVertices  ViolationCode = "TOO_FEW_VERTICES"
	ViolationZeroArea        ViolationCode = "ZERO_AREA"
	ViolationSelfIntersection ViolationCode = "SELF_INTERSECTION"
)

const zeroAreaTolerance = 1e-14

// ValidateDraft runs the pure geometric predicates of §4.3 against a
// draft and returns every violation found; an empty/nil result means
// the draft is valid for the purpose it was validated for (closed or
// open).
func ValidateDraft(d DraftShape) []ViolationCode {
	distinct := countDistinct(d.Points)

	if d.Closed {
		if distinct < 3 {
			return []ViolationCode{ViolationTooFewVertices}
		}
	} else if distinct < 2 {
		return []ViolationCode{ViolationTooFewVertices}
	}

	if !d.Closed {
		return nil
	}

	var violations []ViolationCode
	if signedArea(d.Points) < zeroAreaTolerance {
		violations = append(violations, ViolationZeroArea)
	}
	if hasSelfIntersection(d.Points) {
		violations = append(violations, ViolationSelfIntersection)
	}
	return violations
}

// countDistinct returns the number of distinct coordinates among
// points, ignoring an explicit closing vertex that repeats the first.
func countDistinct(points []LatLng) int {
	n := len(points)
	if n > 1 && points[0] == points[n-1] {
		n--
	}
	seen := make(map[LatLng]struct{}, n)
	for _, p := range points[:n] {
		seen[p] = struct{}{}
	}
	return len(seen)
}

// signedArea returns the absolute value of the shoelace-formula signed
// area of the ring described by points, in squared degrees. The ring
// need not be explicitly closed.
func signedArea(points []LatLng) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += points[i].Lng*points[j].Lat - points[j].Lng*points[i].Lat
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

// hasSelfIntersection reports whether any pair of non-adjacent edges of
// the (implicitly closed) ring properly cross. Endpoint touching of
// adjacent edges is not a violation; collinear overlaps are treated as
// degenerate in-line and not counted (§4.3).
func hasSelfIntersection(points []LatLng) bool {
	n := len(points)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := points[i], points[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i || (j+1)%n == i || j == (i+1)%n {
				continue // adjacent edges share an endpoint
			}
			b1, b2 := points[j], points[(j+1)%n]
			if segmentsProperlyIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// segmentsProperlyIntersect implements the 4-orientation cross-product
// test (§4.3); collinear configurations are never counted as crossings.
func segmentsProperlyIntersect(p1, p2, p3, p4 LatLng) bool {
	o1 := orientation(p1, p2, p3)
	o2 := orientation(p1, p2, p4)
	o3 := orientation(p3, p4, p1)
	o4 := orientation(p3, p4, p2)
	return o1 != 0 && o2 != 0 && o3 != 0 && o4 != 0 && o1 != o2 && o3 != o4
}

// orientation returns the sign of the cross product of (b-a) and
// (c-a): positive for CCW, negative for CW, zero for collinear.
func orientation(a, b, c LatLng) int {
	cross := (b.Lng-a.Lng)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lng-a.Lng)
	switch {
	case cross > 0:
		return 1
	case cross < 0:
		return -1
	default:
		return 0
	}
}
