package propagate

import (
	"testing"

	"github.com/paulmach/orb"

	"areacatalog/internal/adapters/planarkernel"
	"areacatalog/internal/domain"
)

func testLevels(t *testing.T) *domain.LevelStore {
	t.Helper()
	levels, err := domain.NewLevelStore([]domain.Level{
		{Key: "prefecture", Name: "Prefecture"},
		{Key: "city", Name: "City", ParentLevelKey: "prefecture"},
	})
	if err != nil {
		t.Fatalf("NewLevelStore: %v", err)
	}
	return levels
}

func boundApprox(t *testing.T, got, want orb.Bound) {
	t.Helper()
	const tol = 1e-6
	if absf(got.Min[0]-want.Min[0]) > tol || absf(got.Min[1]-want.Min[1]) > tol ||
		absf(got.Max[0]-want.Max[0]) > tol || absf(got.Max[1]-want.Max[1]) > tol {
		t.Errorf("bound = %v, want %v", got, want)
	}
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func rect(lngMin, latMin, lngMax, latMax float64) orb.Polygon {
	ring := orb.Ring{
		{lngMin, latMin}, {lngMax, latMin}, {lngMax, latMax}, {lngMin, latMax}, {lngMin, latMin},
	}
	return orb.Polygon{ring}
}

func TestPropagate_RebuildsAncestorFromExplicitChildren(t *testing.T) {
	store := domain.NewAreaStore(testLevels(t))
	store.Add(domain.Area{ID: "P", LevelKey: "prefecture", Geometry: rect(0, 0, 1, 1)})
	store.Add(domain.Area{ID: "C1", ParentID: "P", LevelKey: "city", Geometry: rect(0, 0, 0.5, 1)})
	store.Add(domain.Area{ID: "C2", ParentID: "P", LevelKey: "city", Geometry: rect(0.5, 0, 1, 1)})

	p := New(store, planarkernel.New(), nil)
	pairs, err := p.Propagate("P")
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1 (just P)", len(pairs))
	}
	if pairs[0].Before.ID != "P" || pairs[0].After.ID != "P" {
		t.Fatalf("pair = %+v, want before/after for P", pairs[0])
	}

	updated, ok := store.GetExplicit("P")
	if !ok {
		t.Fatal("P missing from store")
	}
	boundApprox(t, updated.Geometry.Bound(), rect(0, 0, 1, 1).Bound())
}

func TestPropagate_SkipsAncestorWithNoExplicitChildren(t *testing.T) {
	store := domain.NewAreaStore(testLevels(t))
	original := rect(0, 0, 1, 1)
	store.Add(domain.Area{ID: "P", LevelKey: "prefecture", Geometry: original})

	p := New(store, planarkernel.New(), nil)
	pairs, err := p.Propagate("P")
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if len(pairs) != 0 {
		t.Fatalf("got %d pairs, want 0: P has no explicit children, so it should be left unchanged", len(pairs))
	}
	unchanged, _ := store.GetExplicit("P")
	boundApprox(t, unchanged.Geometry.Bound(), original.Bound())
}

func TestPropagate_WalksMultipleLevels(t *testing.T) {
	levels, err := domain.NewLevelStore([]domain.Level{
		{Key: "country", Name: "Country"},
		{Key: "province", Name: "Province", ParentLevelKey: "country"},
		{Key: "prefecture", Name: "Prefecture", ParentLevelKey: "province"},
	})
	if err != nil {
		t.Fatalf("NewLevelStore: %v", err)
	}
	store := domain.NewAreaStore(levels)
	store.Add(domain.Area{ID: "C", LevelKey: "country", Geometry: rect(0, 0, 1, 1)})
	store.Add(domain.Area{ID: "Pr", ParentID: "C", LevelKey: "province", Geometry: rect(0, 0, 1, 1)})
	store.Add(domain.Area{ID: "Pf1", ParentID: "Pr", LevelKey: "prefecture", Geometry: rect(0, 0, 0.5, 1)})
	store.Add(domain.Area{ID: "Pf2", ParentID: "Pr", LevelKey: "prefecture", Geometry: rect(0.5, 0, 1, 1)})

	p := New(store, planarkernel.New(), nil)
	pairs, err := p.Propagate("Pr")
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	ids := map[string]bool{}
	for _, pair := range pairs {
		ids[pair.Before.ID] = true
	}
	if !ids["Pr"] || !ids["C"] {
		t.Fatalf("expected pairs for both Pr and C, got %v", pairs)
	}
}

func TestPropagate_EmptyStartIsNoop(t *testing.T) {
	store := domain.NewAreaStore(testLevels(t))
	p := New(store, planarkernel.New(), nil)
	pairs, err := p.Propagate("")
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if len(pairs) != 0 {
		t.Fatalf("got %d pairs, want 0 for an empty start id (root area)", len(pairs))
	}
}
