// Package propagate implements the Ancestor Propagator (§4.4): after a
// leaf geometry change, walk the parent chain rebuilding each real
// ancestor's geometry as the union of its explicit children.
package propagate

import (
	"time"

	"github.com/paulmach/orb"

	"areacatalog/internal/domain"
	"areacatalog/internal/ports"
)

// Propagator walks the area store's parent chain and re-unions
// ancestors, using the external Kernel for the actual geometry union.
type Propagator struct {
	store  *domain.AreaStore
	kernel ports.Kernel
	now    func() time.Time
}

// New builds a Propagator over store, using kernel for union/normalize.
// now defaults to time.Now if nil.
func New(store *domain.AreaStore, kernel ports.Kernel, now func() time.Time) *Propagator {
	if now == nil {
		now = time.Now
	}
	return &Propagator{store: store, kernel: kernel, now: now}
}

// Propagate walks upward from startParentID, rebuilding each real
// ancestor's geometry from its current explicit-child set. It stops at
// a root or, in theory, an implicit ancestor (not reachable in
// practice since the walk only follows real parent ids). An ancestor
// with no explicit children right now is left unchanged and the walk
// continues upward (§4.4).
func (p *Propagator) Propagate(startParentID string) ([]domain.ModifiedPair, error) {
	var pairs []domain.ModifiedPair

	current := startParentID
	for current != "" {
		ancestor, ok := p.store.GetExplicit(current)
		if !ok {
			break
		}
		children := p.store.ExplicitChildren(current)
		if len(children) == 0 {
			current = ancestor.ParentID
			continue
		}

		geoms := make([]orb.Geometry, 0, len(children))
		for _, c := range children {
			geoms = append(geoms, c.Geometry)
		}
		union, err := p.kernel.Union(geoms...)
		if err != nil {
			return pairs, domain.NewError(domain.KindInvalidGeometry, "propagate union at %s: %v", current, err)
		}
		union, err = p.kernel.Normalize(union)
		if err != nil {
			return pairs, domain.NewError(domain.KindInvalidGeometry, "propagate normalize at %s: %v", current, err)
		}

		before := ancestor
		after := ancestor
		after.Geometry = union
		after.UpdatedAt = p.now()

		p.store.Update(after)
		pairs = append(pairs, domain.ModifiedPair{Before: before, After: after})

		current = ancestor.ParentID
	}

	return pairs, nil
}
