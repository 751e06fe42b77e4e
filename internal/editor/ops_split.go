package editor

import (
	"github.com/paulmach/orb"

	"areacatalog/internal/domain"
)

// boundaryTolerance is the distance (in degrees) within which a cut
// path's endpoint is considered incident to a ring's boundary, used by
// carveInnerChild. It is coarser than the configured vertex-equality
// epsilon since cut endpoints are user-drawn clicks, not
// programmatically generated coordinates.
const boundaryTolerance = 1e-6

// SplitAsChildren implements split-as-children (§4.5): an open cut
// drawn across areaID partitions its geometry into two or more pieces
// along the long chord through the cut's first and last point; each
// piece becomes a new explicit child at the next level down. areaID is
// now the new children's parent, so its own geometry (and its
// ancestors') is recomputed by propagating from areaID upward (§4.5
// step 5): it is no longer a leaf once the children exist, so future
// reads see the explicit children instead of an implicit one.
//
// areaID may name an implicit area — the one documented exception to
// "implicit areas cannot be directly mutated" (§4 intro): the actual
// target resolves to the implicit area's real parent (its parent_id),
// whose own geometry is what actually gets cut and reparented under.
func (e *Engine) SplitAsChildren(areaID string, cut domain.DraftShape) ([]domain.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return nil, err
	}
	if cut.Closed {
		return nil, domain.ErrDraftNotClosed
	}
	resolved, ok := e.areas.Get(areaID)
	if !ok {
		return nil, domain.ErrAreaNotFound
	}
	targetID := areaID
	if resolved.Implicit {
		targetID = resolved.ParentID
	}
	target, ok := e.areas.GetExplicit(targetID)
	if !ok {
		return nil, domain.ErrAreaNotFound
	}
	if len(e.areas.ExplicitChildren(targetID)) > 0 {
		return nil, domain.ErrAreaHasChildren
	}
	childLevel, ok := e.levels.GetChildOf(target.LevelKey)
	if !ok {
		return nil, domain.ErrNoChildLevel
	}
	if violations := domain.ValidateDraft(cut); len(violations) > 0 {
		return nil, domain.NewError(domain.KindInvalidGeometry, "cut violations: %v", violations)
	}

	cleaned := removeWhiskers(cut.Points)
	if countDistinctPoints(cleaned) < 2 {
		return nil, domain.ErrInvalidGeometry
	}

	pieces, err := e.cutIntoPieces(target.Geometry, cleaned)
	if err != nil {
		return nil, err
	}
	if len(pieces) < 2 {
		return nil, nil
	}

	now := e.now()
	created := make([]domain.Area, 0, len(pieces))
	for i, piece := range pieces {
		norm, err := e.cfg.Kernel.Normalize(piece)
		if err != nil {
			return nil, domain.NewError(domain.KindInvalidGeometry, "split piece %d: %v", i, err)
		}
		child := domain.Area{
			ID:          e.newID(),
			DisplayName: target.DisplayName,
			LevelKey:    childLevel.Key,
			ParentID:    targetID,
			Geometry:    norm,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		e.areas.Add(child)
		created = append(created, child)
	}

	pairs, err := e.propagator.Propagate(targetID)
	if err != nil {
		return nil, err
	}

	entry := domain.HistoryEntry{Created: created, Modified: pairs}
	if err := e.finish(entry); err != nil {
		return created, err
	}
	return created, nil
}

// SplitReplace implements split-replace (§4.5): like SplitAsChildren,
// but areaID itself is removed and the pieces become new siblings
// under areaID's former parent at areaID's own level, rather than
// children one level down.
func (e *Engine) SplitReplace(areaID string, cut domain.DraftShape) ([]domain.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return nil, err
	}
	if cut.Closed {
		return nil, domain.ErrDraftNotClosed
	}
	target, ok := e.areas.GetExplicit(areaID)
	if !ok {
		return nil, domain.ErrAreaNotFound
	}
	if len(e.areas.ExplicitChildren(areaID)) > 0 {
		return nil, domain.ErrAreaHasChildren
	}
	if violations := domain.ValidateDraft(cut); len(violations) > 0 {
		return nil, domain.NewError(domain.KindInvalidGeometry, "cut violations: %v", violations)
	}

	cleaned := removeWhiskers(cut.Points)
	if countDistinctPoints(cleaned) < 2 {
		return nil, domain.ErrInvalidGeometry
	}

	pieces, err := e.cutIntoPieces(target.Geometry, cleaned)
	if err != nil {
		return nil, err
	}
	if len(pieces) < 2 {
		return nil, nil
	}

	now := e.now()
	created := make([]domain.Area, 0, len(pieces))
	for i, piece := range pieces {
		norm, err := e.cfg.Kernel.Normalize(piece)
		if err != nil {
			return nil, domain.NewError(domain.KindInvalidGeometry, "split piece %d: %v", i, err)
		}
		sibling := domain.Area{
			ID:          e.newID(),
			DisplayName: target.DisplayName,
			LevelKey:    target.LevelKey,
			ParentID:    target.ParentID,
			Geometry:    norm,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		e.areas.Add(sibling)
		created = append(created, sibling)
	}
	e.areas.Delete(areaID)

	pairs, err := e.propagator.Propagate(target.ParentID)
	if err != nil {
		return nil, err
	}

	entry := domain.HistoryEntry{Created: created, Deleted: []domain.Area{target}, Modified: pairs}
	if err := e.finish(entry); err != nil {
		return created, err
	}
	return created, nil
}

// cutIntoPieces intersects geom with each of the two half-plane
// polygons defined by the long chord through cut, returning the
// non-degenerate polygon pieces found on either side.
func (e *Engine) cutIntoPieces(geom orb.Geometry, cut []domain.LatLng) ([]orb.Polygon, error) {
	left, right := halfPlanePolygons(cut, geometryBound(geom))

	var pieces []orb.Polygon
	for _, half := range []orb.Polygon{left, right} {
		inter, err := e.cfg.Kernel.Intersection(geom, half)
		if err != nil {
			return nil, domain.NewError(domain.KindInvalidGeometry, "cut intersection: %v", err)
		}
		pieces = append(pieces, splitPieces(inter)...)
	}
	return pieces, nil
}

// CarveInnerChild implements carve-inner-child (§4.5): an open cut
// whose two endpoints must land on areaID's own boundary (I-ORD's
// endpoint-incidence requirement, resolved in favor of the stricter
// reading per the open question) divides the area into two pieces.
// Both pieces become new explicit children of areaID at the next level
// down — the smaller-area piece is the carved-out inner child, the
// larger is the outer remainder — and areaID's own geometry is then
// recomputed by propagation so it stays the union of its (now two)
// explicit children, per I3.
func (e *Engine) CarveInnerChild(areaID string, cut domain.DraftShape) (domain.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return domain.Area{}, err
	}
	if cut.Closed {
		return domain.Area{}, domain.ErrDraftNotClosed
	}
	target, ok := e.areas.GetExplicit(areaID)
	if !ok {
		return domain.Area{}, domain.ErrAreaNotFound
	}
	if len(e.areas.ExplicitChildren(areaID)) > 0 {
		return domain.Area{}, domain.ErrAreaHasChildren
	}
	childLevel, ok := e.levels.GetChildOf(target.LevelKey)
	if !ok {
		return domain.Area{}, domain.ErrNoChildLevel
	}
	if violations := domain.ValidateDraft(cut); len(violations) > 0 {
		return domain.Area{}, domain.NewError(domain.KindInvalidGeometry, "cut violations: %v", violations)
	}

	poly, ok := target.Geometry.(orb.Polygon)
	if !ok || len(poly) == 0 {
		return domain.Area{}, domain.NewError(domain.KindInvalidGeometry, "area %s geometry is not a single polygon", areaID)
	}
	first, last := cut.Points[0], cut.Points[len(cut.Points)-1]
	if !nearRingBoundary(toOrbPoint(first), poly[0], boundaryTolerance) ||
		!nearRingBoundary(toOrbPoint(last), poly[0], boundaryTolerance) {
		return domain.Area{}, domain.NewError(domain.KindInvalidGeometry, "cut endpoints are not incident to area %s's boundary", areaID)
	}

	pieces, err := e.cutIntoPieces(target.Geometry, cut.Points)
	if err != nil {
		return domain.Area{}, err
	}
	if len(pieces) != 2 {
		return domain.Area{}, domain.NewError(domain.KindInvalidGeometry, "cut must split area %s into exactly two pieces, got %d", areaID, len(pieces))
	}

	inner, remainder := pieces[0], pieces[1]
	if ringArea(inner[0]) > ringArea(remainder[0]) {
		inner, remainder = remainder, inner
	}

	innerGeom, err := e.cfg.Kernel.Normalize(inner)
	if err != nil {
		return domain.Area{}, domain.NewError(domain.KindInvalidGeometry, "carve inner piece: %v", err)
	}
	remainderGeom, err := e.cfg.Kernel.Normalize(remainder)
	if err != nil {
		return domain.Area{}, domain.NewError(domain.KindInvalidGeometry, "carve remainder piece: %v", err)
	}

	now := e.now()
	child := domain.Area{
		ID:          e.newID(),
		DisplayName: target.DisplayName + " (carved)",
		LevelKey:    childLevel.Key,
		ParentID:    areaID,
		Geometry:    innerGeom,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	e.areas.Add(child)

	outer := domain.Area{
		ID:          e.newID(),
		DisplayName: target.DisplayName,
		LevelKey:    childLevel.Key,
		ParentID:    areaID,
		Geometry:    remainderGeom,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	e.areas.Add(outer)

	pairs, err := e.propagator.Propagate(areaID)
	if err != nil {
		return domain.Area{}, err
	}

	entry := domain.HistoryEntry{
		Created:  []domain.Area{child, outer},
		Modified: pairs,
	}
	if err := e.finish(entry); err != nil {
		return child, err
	}
	return child, nil
}

// PunchHole implements punch-hole (§4.5): a closed loop fully interior
// to areaID is subtracted from its geometry, producing an enclave not
// assigned to any area (no child is created).
func (e *Engine) PunchHole(areaID string, hole domain.DraftShape) (domain.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return domain.Area{}, err
	}
	if !hole.Closed {
		return domain.Area{}, domain.ErrDraftNotClosed
	}
	target, ok := e.areas.GetExplicit(areaID)
	if !ok {
		return domain.Area{}, domain.ErrAreaNotFound
	}
	if len(e.areas.ExplicitChildren(areaID)) > 0 {
		return domain.Area{}, domain.ErrAreaHasChildren
	}
	if violations := domain.ValidateDraft(hole); len(violations) > 0 {
		return domain.Area{}, domain.NewError(domain.KindInvalidGeometry, "hole violations: %v", violations)
	}

	holePoly := polygonFromPoints(hole.Points)
	diff, err := e.cfg.Kernel.Difference(target.Geometry, holePoly)
	if err != nil {
		return domain.Area{}, domain.NewError(domain.KindInvalidGeometry, "punch hole: %v", err)
	}
	norm, err := e.cfg.Kernel.Normalize(diff)
	if err != nil {
		return domain.Area{}, domain.NewError(domain.KindInvalidGeometry, "punch hole normalize: %v", err)
	}

	before := target
	after := target
	after.Geometry = norm
	after.UpdatedAt = e.now()
	e.areas.Update(after)

	ancestorPairs, err := e.propagator.Propagate(before.ParentID)
	if err != nil {
		return domain.Area{}, err
	}
	pairs := append([]domain.ModifiedPair{{Before: before, After: after}}, ancestorPairs...)

	entry := domain.HistoryEntry{Modified: pairs}
	if err := e.finish(entry); err != nil {
		return after, err
	}
	return after, nil
}

// ExpandWithChild implements expand-with-child (§4.5).
//
// Open question (§9, resolved in DESIGN.md): the corrected intent is
// implemented, not the literal narrative text. Two new explicit
// children are created under areaID — a "twin" holding areaID's own
// pre-expansion geometry, and a second child holding the newly drawn
// expansion — and areaID's own geometry is then recomputed by
// propagation as the union of both, per I3, so the parent visibly
// grows while its prior footprint and its new territory are each
// accounted for as real children.
func (e *Engine) ExpandWithChild(areaID string, expansion domain.DraftShape) (domain.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return domain.Area{}, err
	}
	target, ok := e.areas.GetExplicit(areaID)
	if !ok {
		return domain.Area{}, domain.ErrAreaNotFound
	}
	childLevel, ok := e.levels.GetChildOf(target.LevelKey)
	if !ok {
		return domain.Area{}, domain.ErrNoChildLevel
	}
	expandedGeom, err := e.materializeDraft(expansion)
	if err != nil {
		return domain.Area{}, err
	}

	now := e.now()
	twin := domain.Area{
		ID:          e.newID(),
		DisplayName: target.DisplayName,
		LevelKey:    childLevel.Key,
		ParentID:    areaID,
		Geometry:    target.Geometry,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	e.areas.Add(twin)

	growth := domain.Area{
		ID:          e.newID(),
		DisplayName: target.DisplayName + " (expansion)",
		LevelKey:    childLevel.Key,
		ParentID:    areaID,
		Geometry:    expandedGeom,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	e.areas.Add(growth)

	pairs, err := e.propagator.Propagate(areaID)
	if err != nil {
		return domain.Area{}, err
	}

	entry := domain.HistoryEntry{Created: []domain.Area{twin, growth}, Modified: pairs}
	if err := e.finish(entry); err != nil {
		return target, err
	}
	after, _ := e.areas.GetExplicit(areaID)
	return after, nil
}

// SharedEdgeMove implements shared-edge-move (§4.5): a vertex of areaID
// is relocated, together with the coinciding vertex of every sibling
// under the same parent, keeping the boundaries between them seamless.
// Siblings are matched by scanning their exterior rings for a vertex
// within the configured epsilon (§6: epsilon governs vertex-equality
// tests); interior rings are not searched.
func (e *Engine) SharedEdgeMove(areaID string, from domain.LatLng, to domain.LatLng) ([]domain.Area, error) {
	if err := e.requireInitialized(); err != nil {
		return nil, err
	}
	target, ok := e.areas.GetExplicit(areaID)
	if !ok {
		return nil, domain.ErrAreaNotFound
	}
	if len(e.areas.ExplicitChildren(areaID)) > 0 {
		return nil, domain.ErrAreaHasChildren
	}
	targetPoly, ok := target.Geometry.(orb.Polygon)
	if !ok || len(targetPoly) == 0 {
		return nil, domain.NewError(domain.KindInvalidGeometry, "area %s geometry is not a single polygon", areaID)
	}

	fromPt, toPt := toOrbPoint(from), toOrbPoint(to)
	newTargetRing, moved := moveVertex(targetPoly[0], fromPt, toPt, e.epsilon())
	if !moved {
		return nil, domain.NewError(domain.KindInvalidGeometry, "vertex not found on area %s", areaID)
	}

	affected := []struct {
		before domain.Area
		after  domain.Area
	}{}

	newTargetGeom, err := e.cfg.Kernel.Normalize(orb.Polygon{newTargetRing})
	if err != nil {
		return nil, domain.NewError(domain.KindInvalidGeometry, "shared edge move: %v", err)
	}
	targetAfter := target
	targetAfter.Geometry = newTargetGeom
	targetAfter.UpdatedAt = e.now()
	affected = append(affected, struct {
		before domain.Area
		after  domain.Area
	}{target, targetAfter})

	for _, sib := range e.areas.ExplicitChildren(target.ParentID) {
		if sib.ID == areaID {
			continue
		}
		sibPoly, ok := sib.Geometry.(orb.Polygon)
		if !ok || len(sibPoly) == 0 {
			continue
		}
		newRing, moved := moveVertex(sibPoly[0], fromPt, toPt, e.epsilon())
		if !moved {
			continue
		}
		newGeom, err := e.cfg.Kernel.Normalize(orb.Polygon{newRing})
		if err != nil {
			return nil, domain.NewError(domain.KindInvalidGeometry, "shared edge move sibling %s: %v", sib.ID, err)
		}
		sibAfter := sib
		sibAfter.Geometry = newGeom
		sibAfter.UpdatedAt = e.now()
		affected = append(affected, struct {
			before domain.Area
			after  domain.Area
		}{sib, sibAfter})
	}

	result := make([]domain.Area, 0, len(affected))
	pairs := make([]domain.ModifiedPair, 0, len(affected))
	for _, pair := range affected {
		e.areas.Update(pair.after)
		result = append(result, pair.after)
		pairs = append(pairs, domain.ModifiedPair{Before: pair.before, After: pair.after})
	}

	ancestorPairs, err := e.propagator.Propagate(target.ParentID)
	if err != nil {
		return nil, err
	}
	pairs = append(pairs, ancestorPairs...)

	entry := domain.HistoryEntry{Modified: pairs}
	if err := e.finish(entry); err != nil {
		return result, err
	}
	return result, nil
}

// moveVertex returns a copy of ring with every vertex within tolerance
// of from replaced by to, and whether any match was found. All
// coincident occurrences of from in the ring are moved together, since
// the closing vertex repeats the first.
func moveVertex(ring orb.Ring, from, to orb.Point, tolerance float64) (orb.Ring, bool) {
	moved := false
	out := make(orb.Ring, len(ring))
	for i, p := range ring {
		if nearPoint(p, from, tolerance) {
			out[i] = to
			moved = true
		} else {
			out[i] = p
		}
	}
	if !moved {
		return ring, false
	}
	return out, true
}

func nearPoint(a, b orb.Point, tolerance float64) bool {
	dx, dy := a[0]-b[0], a[1]-b[1]
	return dx*dx+dy*dy <= tolerance*tolerance
}
