// Package planarkernel implements ports.Kernel as a planar boolean-ops
// kernel: orb geometry in, orb geometry out, with github.com/ctessum/polyclip-go
// (a Go port of the Martinez-Rueda polygon clipping algorithm) doing
// the actual union/difference/intersection work.
package planarkernel

import (
	"sort"

	"github.com/ctessum/polyclip-go"
	"github.com/paulmach/orb"

	"areacatalog/internal/domain"
)

// Kernel is the default in-process geometry kernel.
type Kernel struct{}

// New returns a Kernel. It holds no state; every call is pure.
func New() Kernel { return Kernel{} }

// Union combines geoms into their set union.
func (Kernel) Union(geoms ...orb.Geometry) (orb.Geometry, error) {
	if len(geoms) == 0 {
		return orb.MultiPolygon{}, nil
	}
	acc, err := toPolyclip(geoms[0])
	if err != nil {
		return nil, err
	}
	for _, g := range geoms[1:] {
		p, err := toPolyclip(g)
		if err != nil {
			return nil, err
		}
		acc = acc.Construct(polyclip.UNION, p)
	}
	return fromPolyclip(acc), nil
}

// Difference returns a minus b.
func (Kernel) Difference(a, b orb.Geometry) (orb.Geometry, error) {
	pa, err := toPolyclip(a)
	if err != nil {
		return nil, err
	}
	pb, err := toPolyclip(b)
	if err != nil {
		return nil, err
	}
	return fromPolyclip(pa.Construct(polyclip.DIFFERENCE, pb)), nil
}

// Intersection returns the overlap of a and b.
func (Kernel) Intersection(a, b orb.Geometry) (orb.Geometry, error) {
	pa, err := toPolyclip(a)
	if err != nil {
		return nil, err
	}
	pb, err := toPolyclip(b)
	if err != nil {
		return nil, err
	}
	return fromPolyclip(pa.Construct(polyclip.INTERSECTION, pb)), nil
}

// Normalize runs a self-union, the standard trick to dissolve
// degenerate or overlapping rings produced by an upstream operation
// into a clean polygon/multipolygon.
func (k Kernel) Normalize(g orb.Geometry) (orb.Geometry, error) {
	p, err := toPolyclip(g)
	if err != nil {
		return nil, err
	}
	return fromPolyclip(p.Construct(polyclip.UNION, polyclip.Polygon{})), nil
}

func toPolyclip(g orb.Geometry) (polyclip.Polygon, error) {
	switch v := g.(type) {
	case orb.Polygon:
		return polygonToPolyclip(v), nil
	case orb.MultiPolygon:
		var out polyclip.Polygon
		for _, poly := range v {
			out = append(out, polygonToPolyclip(poly)...)
		}
		return out, nil
	case nil:
		return polyclip.Polygon{}, nil
	default:
		return nil, domain.NewError(domain.KindInvalidGeometry, "kernel: unsupported geometry type %T", g)
	}
}

func polygonToPolyclip(poly orb.Polygon) polyclip.Polygon {
	out := make(polyclip.Polygon, 0, len(poly))
	for _, ring := range poly {
		out = append(out, ringToContour(ring))
	}
	return out
}

func ringToContour(ring orb.Ring) polyclip.Contour {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	c := make(polyclip.Contour, 0, n)
	for _, p := range ring[:n] {
		c = append(c, polyclip.Point{X: p[0], Y: p[1]})
	}
	return c
}

// fromPolyclip reassembles a flat set of result contours into an orb
// Polygon (single outer ring, any number of holes) or MultiPolygon
// (more than one outer ring). A contour is a hole when its first point
// lies inside an odd number of the other contours (ray casting), else an
// outer ring; outer rings are oriented CCW and holes CW, and each hole
// is assigned to the smallest-area outer ring that contains one of its
// points.
func fromPolyclip(p polyclip.Polygon) orb.Geometry {
	type outer struct {
		ring  orb.Ring
		area  float64
		holes []orb.Ring
	}

	var outers []*outer
	var holes []orb.Ring

	for i, contour := range p {
		if len(contour) < 3 {
			continue
		}
		ring := contourToRing(contour)
		area := contourSignedArea(contour)
		depth := 0
		for j, other := range p {
			if j != i && len(other) >= 3 && ringContainsPoint(contourToRing(other), ring[0]) {
				depth++
			}
		}
		if (depth%2 == 1) == (area > 0) {
			ring.Reverse()
			area = -area
		}
		if depth%2 == 0 {
			outers = append(outers, &outer{ring: ring, area: area})
		} else {
			holes = append(holes, ring)
		}
	}

	sort.Slice(outers, func(i, j int) bool { return outers[i].area < outers[j].area })

	for _, h := range holes {
		for _, o := range outers {
			if ringContainsPoint(o.ring, h[0]) {
				o.holes = append(o.holes, h)
				break
			}
		}
	}

	if len(outers) == 0 {
		return orb.MultiPolygon{}
	}
	if len(outers) == 1 {
		return orb.Polygon(append([]orb.Ring{outers[0].ring}, outers[0].holes...))
	}

	mp := make(orb.MultiPolygon, 0, len(outers))
	for _, o := range outers {
		mp = append(mp, orb.Polygon(append([]orb.Ring{o.ring}, o.holes...)))
	}
	return mp
}

func contourToRing(c polyclip.Contour) orb.Ring {
	ring := make(orb.Ring, 0, len(c)+1)
	for _, p := range c {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring
}

func contourSignedArea(c polyclip.Contour) float64 {
	n := len(c)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return sum / 2
}

func ringContainsPoint(ring orb.Ring, pt orb.Point) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := ring[i], ring[j]
		if (pi[1] > pt[1]) != (pj[1] > pt[1]) {
			xIntersect := (pj[0]-pi[0])*(pt[1]-pi[1])/(pj[1]-pi[1]) + pi[0]
			if pt[0] < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}
