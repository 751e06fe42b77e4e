// Package editor is the Edit Engine (§4.5): the public surface of the
// area catalog editor. It validates preconditions, mutates the Area
// Store, invokes the Ancestor Propagator, assembles History/Change Set
// records, and dispatches the Change Set to the persistence adapter.
package editor

import (
	"time"

	"github.com/paulmach/orb"

	"areacatalog/internal/domain"
	"areacatalog/internal/ports"
	"areacatalog/internal/propagate"
)

// Engine is the transactional editor described by the spec.
type Engine struct {
	cfg         Config
	levels      *domain.LevelStore
	areas       *domain.AreaStore
	history     *domain.History
	propagator  *propagate.Propagator
	initialized bool
}

// New validates the level configuration and constructs an
// uninitialized Engine. Call Init to load the catalog before issuing
// any other operation.
func New(cfg Config) (*Engine, error) {
	cfg = cfg.normalized()

	levels, err := domain.NewLevelStore(cfg.Levels)
	if err != nil {
		return nil, err
	}

	areas := domain.NewAreaStore(levels)
	e := &Engine{
		cfg:        cfg,
		levels:     levels,
		areas:      areas,
		history:    domain.NewHistory(cfg.MaxUndoSteps),
		propagator: propagate.New(areas, cfg.Kernel, cfg.Now),
	}
	return e, nil
}

// Init loads the catalog from the persistence adapter. Every area
// loaded must be consistent with the level store (I1); any
// inconsistency surfaces as DataIntegrity and leaves the engine
// uninitialized.
func (e *Engine) Init() error {
	loaded, err := e.cfg.Adapter.LoadAll()
	if err != nil {
		return domain.NewError(domain.KindStorageError, "load catalog: %v", err)
	}

	for _, a := range loaded {
		e.areas.Add(a)
	}
	for _, a := range loaded {
		if err := e.checkAreaConsistency(a); err != nil {
			return err
		}
	}

	e.initialized = true
	return nil
}

func (e *Engine) checkAreaConsistency(a domain.Area) error {
	level, ok := e.levels.Get(a.LevelKey)
	if !ok {
		return domain.NewError(domain.KindDataIntegrity, "area %s references unknown level %s", a.ID, a.LevelKey)
	}
	if a.ParentID != "" {
		parent, ok := e.areas.GetExplicit(a.ParentID)
		if !ok {
			return domain.NewError(domain.KindDataIntegrity, "area %s references missing parent %s", a.ID, a.ParentID)
		}
		parentLevel, _ := e.levels.Get(parent.LevelKey)
		if parentLevel.Key != level.ParentLevelKey {
			return domain.NewError(domain.KindDataIntegrity, "area %s level %s does not chain from parent level %s", a.ID, a.LevelKey, parentLevel.Key)
		}
	} else if level.ParentLevelKey != "" {
		return domain.NewError(domain.KindDataIntegrity, "area %s has no parent but level %s is not a root level", a.ID, a.LevelKey)
	}
	return nil
}

func (e *Engine) requireInitialized() error {
	if !e.initialized {
		return domain.ErrNotInitialized
	}
	return nil
}

func (e *Engine) now() time.Time { return e.cfg.Now() }

func (e *Engine) newID() string { return e.cfg.IDs.NewID() }

// finish pushes a non-empty entry to History and dispatches its
// Change Set to the adapter, per §5's ordering: in-memory state is
// already mutated, history already recorded, before the one outbound
// call. A StorageError from the adapter is returned without undoing
// the in-memory mutation or the pushed entry (§7); the caller may call
// Undo.
func (e *Engine) finish(entry domain.HistoryEntry) error {
	if entry.IsEmpty() {
		return nil
	}
	e.history.Push(entry)
	if err := e.cfg.Adapter.BatchWrite(domain.ChangeSetFrom(entry)); err != nil {
		return domain.NewError(domain.KindStorageError, "batch write: %v", err)
	}
	return nil
}

// materializeDraft validates a closed draft and converts it to a
// normalized Polygon, the shared preamble of save-as-area and
// update-area-geometry.
func (e *Engine) materializeDraft(d domain.DraftShape) (orb.Geometry, error) {
	if !d.Closed {
		return nil, domain.ErrDraftNotClosed
	}
	if violations := domain.ValidateDraft(d); len(violations) > 0 {
		return nil, domain.NewError(domain.KindInvalidGeometry, "draft violations: %v", violations)
	}
	poly := polygonFromPoints(d.Points)
	return e.cfg.Kernel.Normalize(poly)
}

// Levels exposes the query-API level operations (§6).
func (e *Engine) Levels() *domain.LevelStore { return e.levels }

// GetArea, GetChildren, GetRoots, GetAllAreas, GetByLevel are the
// read-only query operations of §6: pure, never suspend, never mutate,
// and never fail with "not found" (they return a neutral zero value).
func (e *Engine) GetArea(id string) (domain.Area, bool) {
	return e.areas.Get(id)
}

func (e *Engine) GetChildren(parentID string) []domain.Area {
	return e.areas.GetChildren(parentID)
}

func (e *Engine) GetRoots() []domain.Area {
	return e.areas.GetRoots()
}

func (e *Engine) GetAllAreas() []domain.Area {
	return e.areas.GetAll()
}

func (e *Engine) GetByLevel(levelKey string) []domain.Area {
	return e.areas.GetByLevel(levelKey)
}

// ValidateDraft runs the Draft Validator (§4.3) without mutating state.
func (e *Engine) ValidateDraft(d domain.DraftShape) []domain.ViolationCode {
	return domain.ValidateDraft(d)
}

// kernel, ids and epsilon expose the configured Kernel, IDGenerator and
// epsilon to other files in this package without re-threading cfg
// everywhere.
func (e *Engine) kernel() ports.Kernel       { return e.cfg.Kernel }
func (e *Engine) ids() ports.IDGenerator     { return e.cfg.IDs }
func (e *Engine) epsilon() float64           { return e.cfg.Epsilon }
