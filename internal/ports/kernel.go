// Package ports declares the editor's external collaborators: the
// geometry kernel and the persistence adapter (§6). The core editor
// depends only on these interfaces; internal/adapters/* provide
// concrete implementations.
package ports

import "github.com/paulmach/orb"

// Kernel is the external 2D polygon library the spec assumes is
// available and constrains only the inputs fed into it (§1, §6): union,
// difference, intersection (used for half-plane cuts), and
// normalization into the module's Polygon/MultiPolygon conventions.
type Kernel interface {
	// Union combines geoms into their set union. The kernel decides
	// whether the result collapses to a single Polygon or remains a
	// MultiPolygon.
	Union(geoms ...orb.Geometry) (orb.Geometry, error)

	// Difference returns a minus b. Subtracting a polygon fully
	// contained in a's interior produces an interior ring (a hole).
	Difference(a, b orb.Geometry) (orb.Geometry, error)

	// Intersection returns the overlap of a and b, used by the split
	// operations to clip a target polygon against a half-plane.
	Intersection(a, b orb.Geometry) (orb.Geometry, error)

	// Normalize closes rings, orients exterior rings CCW and interior
	// rings CW (I6), and collapses a single-part MultiPolygon to a
	// Polygon (I5).
	Normalize(g orb.Geometry) (orb.Geometry, error)
}
