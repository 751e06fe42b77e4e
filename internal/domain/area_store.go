package domain

// AreaStore owns the explicit areas and synthesizes implicit ones. It
// maintains the primary id->Area map plus two secondary indexes,
// parent_id->ids and level_key->ids (§4.2).
type AreaStore struct {
	levels *LevelStore

	byID     map[string]Area
	children map[string]map[string]struct{} // parent id -> child ids
	byLevel  map[string]map[string]struct{} // level key -> ids
}

// NewAreaStore creates an empty store bound to a LevelStore for
// implicit-child resolution.
func NewAreaStore(levels *LevelStore) *AreaStore {
	return &AreaStore{
		levels:   levels,
		byID:     make(map[string]Area),
		children: make(map[string]map[string]struct{}),
		byLevel:  make(map[string]map[string]struct{}),
	}
}

// Get resolves a real or implicit area id (§4.2).
func (s *AreaStore) Get(id string) (Area, bool) {
	if a, ok := s.byID[id]; ok {
		return a, true
	}
	parentID, childLevelKey, ok := ParseImplicitID(id)
	if !ok {
		return Area{}, false
	}
	parent, ok := s.byID[parentID]
	if !ok {
		return Area{}, false
	}
	childLevel, ok := s.levels.GetChildOf(parent.LevelKey)
	if !ok || childLevel.Key != childLevelKey {
		return Area{}, false
	}
	if s.hasExplicitChildren(parentID) {
		return Area{}, false
	}
	return NewImplicitArea(parent, childLevelKey), true
}

// GetExplicit returns the real, stored area for id only; it never
// resolves implicit ids.
func (s *AreaStore) GetExplicit(id string) (Area, bool) {
	a, ok := s.byID[id]
	return a, ok
}

func (s *AreaStore) hasExplicitChildren(parentID string) bool {
	ids, ok := s.children[parentID]
	return ok && len(ids) > 0
}

// GetChildren implements the implicit-child projection of §4.2: real
// explicit children if there are any, else a single synthesized
// implicit child if the parent's level has a child level, else empty.
func (s *AreaStore) GetChildren(parentID string) []Area {
	ids, ok := s.children[parentID]
	if ok && len(ids) > 0 {
		out := make([]Area, 0, len(ids))
		for id := range ids {
			out = append(out, s.byID[id])
		}
		return out
	}
	parent, ok := s.byID[parentID]
	if !ok {
		return nil
	}
	childLevel, ok := s.levels.GetChildOf(parent.LevelKey)
	if !ok {
		return nil
	}
	return []Area{NewImplicitArea(parent, childLevel.Key)}
}

// ExplicitChildren returns only the real stored children of parentID,
// the view every edit-engine precondition that cares about "does this
// area have explicit children" consults (§4.2).
func (s *AreaStore) ExplicitChildren(parentID string) []Area {
	ids, ok := s.children[parentID]
	if !ok {
		return nil
	}
	out := make([]Area, 0, len(ids))
	for id := range ids {
		out = append(out, s.byID[id])
	}
	return out
}

// GetRoots returns all real areas with no parent.
func (s *AreaStore) GetRoots() []Area {
	var out []Area
	for _, a := range s.byID {
		if a.ParentID == "" {
			out = append(out, a)
		}
	}
	return out
}

// GetAll returns every real area.
func (s *AreaStore) GetAll() []Area {
	out := make([]Area, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, a)
	}
	return out
}

// GetByLevel returns every real area at the given level.
func (s *AreaStore) GetByLevel(levelKey string) []Area {
	ids, ok := s.byLevel[levelKey]
	if !ok {
		return nil
	}
	out := make([]Area, 0, len(ids))
	for id := range ids {
		out = append(out, s.byID[id])
	}
	return out
}

// Add inserts a new real area, maintaining both secondary indexes.
func (s *AreaStore) Add(a Area) {
	s.byID[a.ID] = a
	s.index(a)
}

// Update replaces a stored area's value, re-indexing if its parent or
// level changed.
func (s *AreaStore) Update(a Area) {
	if old, ok := s.byID[a.ID]; ok {
		s.unindex(old)
	}
	s.byID[a.ID] = a
	s.index(a)
}

// Delete removes id from both indexes; a missing id is a no-op (§4.2).
func (s *AreaStore) Delete(id string) {
	old, ok := s.byID[id]
	if !ok {
		return
	}
	s.unindex(old)
	delete(s.byID, id)
}

func (s *AreaStore) index(a Area) {
	if a.ParentID != "" {
		set, ok := s.children[a.ParentID]
		if !ok {
			set = make(map[string]struct{})
			s.children[a.ParentID] = set
		}
		set[a.ID] = struct{}{}
	}
	set, ok := s.byLevel[a.LevelKey]
	if !ok {
		set = make(map[string]struct{})
		s.byLevel[a.LevelKey] = set
	}
	set[a.ID] = struct{}{}
}

func (s *AreaStore) unindex(a Area) {
	if a.ParentID != "" {
		if set, ok := s.children[a.ParentID]; ok {
			delete(set, a.ID)
		}
	}
	if set, ok := s.byLevel[a.LevelKey]; ok {
		delete(set, a.ID)
	}
}
