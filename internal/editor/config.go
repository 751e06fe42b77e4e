package editor

import (
	"os"
	"strconv"
	"time"

	"areacatalog/internal/domain"
	"areacatalog/internal/ports"
)

const (
	defaultMaxUndoSteps = 100
	defaultEpsilon      = 1e-8
)

// Config is the editor's configuration surface (§6): the persistence
// adapter handle, the level list, and the two tunables with defaults.
type Config struct {
	Adapter      ports.PersistenceAdapter
	Kernel       ports.Kernel
	IDs          ports.IDGenerator
	Levels       []domain.Level
	MaxUndoSteps int // default 100
	Epsilon      float64 // default 1e-8 degrees

	// Now is exposed for tests that need deterministic timestamps; it
	// defaults to time.Now.
	Now func() time.Time
}

// FromEnv overlays MaxUndoSteps/Epsilon from AREACATALOG_MAX_UNDO_STEPS
// and AREACATALOG_EPSILON if set, following the teacher's
// env-var-with-default config pattern (internal/config.VaultPath).
func (c Config) FromEnv() Config {
	if v := os.Getenv("AREACATALOG_MAX_UNDO_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxUndoSteps = n
		}
	}
	if v := os.Getenv("AREACATALOG_EPSILON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.Epsilon = f
		}
	}
	return c
}

func (c Config) normalized() Config {
	if c.MaxUndoSteps <= 0 {
		c.MaxUndoSteps = defaultMaxUndoSteps
	}
	if c.Epsilon <= 0 {
		c.Epsilon = defaultEpsilon
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// DefaultDBPath is the default SQLite path for the persistence adapter,
// overridable by AREACATALOG_DB_PATH.
func DefaultDBPath() string {
	if v := os.Getenv("AREACATALOG_DB_PATH"); v != "" {
		return v
	}
	return "areacatalog.db"
}

// DefaultLevels is the three-tier country/region/district hierarchy
// the CLI, MCP, and TUI front ends configure the engine with; none of
// them reads a level configuration from anywhere else.
func DefaultLevels() []domain.Level {
	return []domain.Level{
		{Key: "country", Name: "Country"},
		{Key: "region", Name: "Region", ParentLevelKey: "country"},
		{Key: "district", Name: "District", ParentLevelKey: "region"},
	}
}
