// Package persist implements the durable memory-collection store.
//
// The contract is deliberately coarse: whole-collection read and
// whole-collection overwrite (read-modify-write). A Save that returns nil
// is immediately visible to the next Load, and readers never observe a
// partially written collection.
package persist

import (
	"fmt"

	"github.com/fernvale/murmur/internal/models"
)

// Store drivers.
const (
	DriverDocument = "document"
	DriverSQLite   = "sqlite"
)

// Collection is the durable ordered collection of memory records.
// Consumers should depend on this interface rather than a concrete driver.
type Collection interface {
	// Load returns every record in insertion order. A store that has never
	// been written reads as empty, not as an error.
	Load() ([]models.Memory, error)
	// Save atomically replaces the entire collection.
	Save(memories []models.Memory) error
	Close() error
}

// Open creates a Collection for the configured driver.
func Open(driver, path string) (Collection, error) {
	switch driver {
	case DriverDocument, "":
		return NewDocument(path)
	case DriverSQLite:
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("persist: unknown driver: %s", driver)
}

// Compile-time driver checks.
var (
	_ Collection = (*Document)(nil)
	_ Collection = (*SQLite)(nil)
)
