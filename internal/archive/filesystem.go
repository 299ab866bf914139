package archive

import (
	"github.com/Ulrike-Hampacher/Badlayout-Chromax/internal/infra/archive/fs"
)

// NewFilesystem constructs a filesystem-backed archive.Store rooted at the
// provided path. Returns the interface so call sites do not bind to the
// concrete implementation.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}
