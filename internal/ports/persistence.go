package ports

import "areacatalog/internal/domain"

// PersistenceAdapter is the external collaborator that durably stores
// the catalog (§6). The editor calls it at most once per operation,
// after in-memory state has already been mutated; failures surface as
// StorageError without rolling back the in-memory mutation (§5, §7).
type PersistenceAdapter interface {
	// LoadAll returns every real area, self-consistent with the level
	// store per I1; an inconsistent set surfaces as DataIntegrity.
	LoadAll() ([]domain.Area, error)

	// BatchWrite durably applies a ChangeSet. Atomicity and ordering
	// are the adapter's concern; the editor assumes neither.
	BatchWrite(cs domain.ChangeSet) error
}

// IDGenerator supplies collision-free area identifiers. Any
// collision-free policy suffices (§1); the default adapter wraps
// uuid.NewString.
type IDGenerator interface {
	NewID() string
}
