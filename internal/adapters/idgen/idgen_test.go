package idgen

import "testing"

func TestGenerator_NewID_Unique(t *testing.T) {
	g := New()
	a := g.NewID()
	b := g.NewID()
	if a == "" || b == "" {
		t.Fatal("NewID should never return an empty string")
	}
	if a == b {
		t.Fatalf("two calls returned the same id: %q", a)
	}
}
