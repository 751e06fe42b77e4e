package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// Area is the persisted entity: a polygonal region at a level in the
// hierarchy. Implicit is true for the virtual records NewImplicitArea
// synthesizes at query time; those are never stored and never written
// to the persistence adapter (I4, §3 ImplicitArea).
type Area struct {
	ID          string
	DisplayName string
	LevelKey    string
	ParentID    string // empty means no parent
	Geometry    orb.Geometry
	Metadata    map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Implicit    bool
}

// HasParent reports whether the area has a parent.
func (a Area) HasParent() bool { return a.ParentID != "" }

const implicitIDPrefix = "implicit:"

// ImplicitID builds the deterministic identifier for the virtual child
// of parentID at childLevelKey, so repeated queries return equal
// virtual records (§3).
func ImplicitID(parentID, childLevelKey string) string {
	return fmt.Sprintf("%s%s:%s", implicitIDPrefix, parentID, childLevelKey)
}

// ParseImplicitID extracts (parentID, childLevelKey) from an implicit
// area id, or ok=false if id is not in implicit form.
func ParseImplicitID(id string) (parentID, childLevelKey string, ok bool) {
	if !strings.HasPrefix(id, implicitIDPrefix) {
		return "", "", false
	}
	rest := id[len(implicitIDPrefix):]
	idx := strings.LastIndex(rest, ":")
	if idx < 0 {
		return "", "", false
	}
	return rest[:idx], rest[idx+1:], true
}

// IsImplicitID reports whether id is shaped like an implicit area id,
// independent of whether it currently resolves to anything.
func IsImplicitID(id string) bool {
	return strings.HasPrefix(id, implicitIDPrefix)
}

// NewImplicitArea synthesizes the virtual child of parent at
// childLevel: same geometry and timestamps as parent, empty display
// name, Implicit set.
func NewImplicitArea(parent Area, childLevelKey string) Area {
	return Area{
		ID:          ImplicitID(parent.ID, childLevelKey),
		DisplayName: "",
		LevelKey:    childLevelKey,
		ParentID:    parent.ID,
		Geometry:    parent.Geometry,
		CreatedAt:   parent.CreatedAt,
		UpdatedAt:   parent.UpdatedAt,
		Implicit:    true,
	}
}
