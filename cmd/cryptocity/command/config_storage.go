package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/cryptocity/internal/city"
	"github.com/pixil98/cryptocity/internal/storage"
	"github.com/pixil98/cryptocity/internal/tutorial"
)

// StorageConfig points at optional asset directories. Missing sections fall
// back to the built in puzzles and monoliths.
type StorageConfig struct {
	Puzzles   AssetConfig[*tutorial.Puzzle]   `json:"puzzles"`
	Monoliths AssetConfig[*city.MonolithSpec] `json:"monoliths"`
	Archive   AssetConfig[*tutorial.Puzzle]   `json:"archive"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Puzzles.validate("puzzles"))
	el.Add(c.Monoliths.validate("monoliths"))
	el.Add(c.Archive.validate("archive"))
	return el.Err()
}

func (c *StorageConfig) buildPuzzleStore() (storage.Storer[*tutorial.Puzzle], error) {
	return c.Puzzles.buildStore(tutorial.BuiltinPuzzles)
}

// buildArchive returns nil when no archive directory is configured.
func (c *StorageConfig) buildArchive() (storage.Storer[*tutorial.Puzzle], error) {
	if !c.Archive.configured() {
		return nil, nil
	}
	return c.Archive.BuildFileStore()
}

func (c *StorageConfig) buildMonoliths() (map[string]*city.MonolithSpec, error) {
	st, err := c.Monoliths.buildStore(city.DefaultMonoliths)
	if err != nil {
		return nil, err
	}
	return st.GetAll(), nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) configured() bool {
	return c.Path != ""
}

func (c *AssetConfig[T]) validate(name string) error {
	if !c.configured() {
		return nil
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}

func (c *AssetConfig[T]) buildStore(builtin func() map[string]T) (storage.Storer[T], error) {
	if !c.configured() {
		return storage.NewMemoryStore(builtin()), nil
	}
	st, err := c.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("loading assets from %q: %w", c.Path, err)
	}
	return st, nil
}
