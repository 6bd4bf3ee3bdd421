// Package catalog loads every world descriptor found under a directory.
package catalog

import (
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/smell-of-curry/ambf-world/ambfworld/world"
)

// Entry is the result of loading one descriptor file. Exactly one of World and
// Err is set.
type Entry struct {
	Path     string
	World    *world.World
	Warnings world.Warnings
	Err      error
}

// OK ...
func (e Entry) OK() bool {
	return e.Err == nil
}

// Catalog holds the entries of one directory, sorted by path.
type Catalog struct {
	entries []Entry
}

// New ...
func New(entries []Entry) *Catalog {
	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})
	return &Catalog{entries: sorted}
}

// Entries returns a copy of all entries.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Find ...
func (c *Catalog) Find(p string) (Entry, bool) {
	return lo.Find(c.entries, func(e Entry) bool {
		return e.Path == p
	})
}

// Failed returns the entries that could not be loaded.
func (c *Catalog) Failed() []Entry {
	return lo.Filter(c.entries, func(e Entry, _ int) bool {
		return !e.OK()
	})
}

// Paths ...
func (c *Catalog) Paths() []string {
	return lo.Map(c.entries, func(e Entry, _ int) string {
		return e.Path
	})
}

// ReadAll loads every .yaml and .yml file under root. A descriptor that fails
// to load is recorded on its entry; only walk and read failures are returned.
// bar, when non-nil, is advanced once per file.
func ReadAll(fsys fs.FS, root string, loader *world.Loader, bar *progressbar.ProgressBar) (*Catalog, error) {
	files, err := descriptorFiles(fsys, root)
	if err != nil {
		return nil, err
	}
	if bar != nil && len(files) > 0 {
		bar.ChangeMax(len(files))
	}

	entries := make([]Entry, 0, len(files))
	for _, p := range files {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", p, err)
		}
		w, warnings, err := loader.Load(data)
		entries = append(entries, Entry{
			Path:     p,
			World:    w,
			Warnings: warnings,
			Err:      err,
		})
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return New(entries), nil
}

// descriptorFiles ...
func descriptorFiles(fsys fs.FS, root string) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch path.Ext(p) {
		case ".yaml", ".yml":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}
