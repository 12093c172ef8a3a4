// Package inspect summarizes and compares decoded archives.
package inspect

import (
	"cmp"
	"slices"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/rsc"
)

// Item describes one record of an archive.
type Item struct {
	// Offset is the position of the record in the archive.
	Offset int

	// Used is false for holes; the remaining fields are then zero except
	// Size and Digest.
	Used      bool
	Path      string
	Type      rsc.ResourceType
	Encrypted bool
	Modified  time.Time

	// Size is the length of the content (or hole filler) in bytes.
	Size int

	// Digest is the SHA-256 digest of the content.
	Digest digest.Digest
}

// Items lists entries in archive order. Offsets are only meaningful when
// entries includes every record, holes included.
func Items(entries []rsc.Entry) []Item {
	items := make([]Item, 0, len(entries))
	off := 0
	for _, e := range entries {
		item := Item{Offset: off, Used: e.Used()}
		switch e := e.(type) {
		case *rsc.Resource:
			item.Path = e.Path
			item.Type = e.Type
			item.Encrypted = e.Encrypted
			item.Modified = e.Modified
			item.Size = len(e.Content)
			item.Digest = digest.FromBytes(e.Content)
		case *rsc.Hole:
			item.Size = len(e.Filler)
			item.Digest = digest.FromBytes(e.Filler)
		}
		items = append(items, item)
		off += e.RawSize()
	}
	return items
}

// ChangeKind classifies a difference between two archives.
type ChangeKind uint8

// Change kinds reported by Diff.
const (
	Added ChangeKind = iota + 1
	Removed
	Modified
	Retyped
)

// String returns the human-readable name of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	case Retyped:
		return "retyped"
	default:
		return "unknown"
	}
}

// Change is a per-path difference.
type Change struct {
	Path string
	Kind ChangeKind

	// Old and New are the content digests on either side. Old is empty for
	// Added and New is empty for Removed.
	Old, New digest.Digest
}

// Diff compares the resources of two archives by path. Holes are ignored.
// Content changes take precedence over type changes. Changes are sorted by
// path.
//
// When a path occurs more than once in an archive the last record wins, as
// it does for the engine reading the archive.
func Diff(before, after []rsc.Entry) []Change {
	oldItems := byPath(before)
	newItems := byPath(after)

	var changes []Change
	for path, o := range oldItems {
		n, ok := newItems[path]
		switch {
		case !ok:
			changes = append(changes, Change{Path: path, Kind: Removed, Old: o.Digest})
		case o.Digest != n.Digest:
			changes = append(changes, Change{Path: path, Kind: Modified, Old: o.Digest, New: n.Digest})
		case o.Type != n.Type:
			changes = append(changes, Change{Path: path, Kind: Retyped, Old: o.Digest, New: n.Digest})
		}
	}
	for path, n := range newItems {
		if _, ok := oldItems[path]; !ok {
			changes = append(changes, Change{Path: path, Kind: Added, New: n.Digest})
		}
	}

	slices.SortFunc(changes, func(a, b Change) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return changes
}

func byPath(entries []rsc.Entry) map[string]Item {
	m := make(map[string]Item)
	for _, item := range Items(entries) {
		if item.Used {
			m[item.Path] = item
		}
	}
	return m
}
