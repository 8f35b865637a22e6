package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SizeUnknown marks an Item whose byte size could not be determined.
const SizeUnknown int64 = -1

// Item is one selected input file. Its identity is Path; duplicates are allowed.
type Item struct {
	Name string
	Path string // absolute
	Size int64  // bytes, or SizeUnknown
	Kind Kind
}

// NewItem builds an Item from a filesystem path. The path is made absolute and
// the size is read with a best-effort stat.
func NewItem(path string) (Item, error) {
	if path == "" {
		return Item{}, fmt.Errorf("empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Item{}, fmt.Errorf("resolve %q: %w", path, err)
	}
	size := SizeUnknown
	if fi, err := os.Stat(abs); err == nil && !fi.IsDir() {
		size = fi.Size()
	}
	return Item{
		Name: filepath.Base(abs),
		Path: abs,
		Size: size,
		Kind: Classify(abs),
	}, nil
}

// Exists reports whether the item's file is present on disk.
func (it Item) Exists() bool {
	fi, err := os.Stat(it.Path)
	return err == nil && !fi.IsDir()
}

var (
	// ErrNoItems is returned by Homogeneous for an empty list.
	ErrNoItems = errors.New("no items")
	// ErrMixedKinds is returned by Homogeneous when videos and images are mixed.
	ErrMixedKinds = errors.New("cannot mix videos and images")
	// ErrUnsupportedKind is returned by Homogeneous for unrecognized files.
	ErrUnsupportedKind = errors.New("unsupported file type")
)

// Homogeneous returns the single Kind shared by items.
func Homogeneous(items []Item) (Kind, error) {
	if len(items) == 0 {
		return KindUnknown, ErrNoItems
	}
	kind := KindUnknown
	for _, it := range items {
		k := it.Kind
		if k == "" {
			k = Classify(it.Path)
		}
		if k == KindUnknown {
			return KindUnknown, fmt.Errorf("%w: %s", ErrUnsupportedKind, it.Name)
		}
		if kind == KindUnknown {
			kind = k
			continue
		}
		if k != kind {
			return KindUnknown, ErrMixedKinds
		}
	}
	return kind, nil
}

// Paths returns the Path of every item, in order.
func Paths(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Path
	}
	return out
}
