package archive

import (
	memorystore "github.com/Ulrike-Hampacher/Badlayout-Chromax/internal/infra/archive/memory"
)

// NewMemory returns an in-memory archive.Store suitable for tests.
func NewMemory() Store { return memorystore.New() }
