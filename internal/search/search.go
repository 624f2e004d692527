// Package search provides the filterable, sortable view over a catalog
// snapshot. Queries are recomputed synchronously; collection sizes are
// small enough that a linear pass per query is the right trade.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"

	"github.com/xxxsen/retronav/internal/catalog"
	"github.com/xxxsen/retronav/internal/model"
)

// SortKey selects the presentation ordering of a query result.
type SortKey string

const (
	SortByTitle        SortKey = "title"
	SortByYear         SortKey = "year"
	SortByManufacturer SortKey = "manufacturer"
)

// ParseSortKey maps a user-supplied sort name onto a SortKey, defaulting to
// title.
func ParseSortKey(v string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(v))) {
	case SortByYear:
		return SortByYear
	case SortByManufacturer:
		return SortByManufacturer
	default:
		return SortByTitle
	}
}

// Query describes one view over a system's entries.
type Query struct {
	System       string
	Filter       string
	Year         string
	Manufacturer string
	Sort         SortKey
	HideClones   bool
}

// Index wraps a snapshot for querying. Rebuild the index by wrapping the
// new snapshot; it holds no derived state of its own.
type Index struct {
	snap *catalog.Snapshot
}

// New builds an index over the given snapshot.
func New(snap *catalog.Snapshot) *Index {
	return &Index{snap: snap}
}

// Query returns the matching entries of the query's system, stably sorted
// by the requested key with filename tie-break. The result is a fresh
// slice; the snapshot is never mutated.
func (ix *Index) Query(q Query) []model.RomEntry {
	source := ix.snap.System(q.System)
	result := make([]model.RomEntry, 0, len(source))

	filter := strings.ToLower(strings.TrimSpace(q.Filter))
	yearFilter := strings.TrimSpace(q.Year)
	manufFilter := strings.ToLower(strings.TrimSpace(q.Manufacturer))

	for _, entry := range source {
		if q.HideClones && entry.Clone {
			continue
		}
		if yearFilter != "" && !strings.Contains(entry.Year, yearFilter) {
			continue
		}
		if manufFilter != "" && !strings.Contains(strings.ToLower(entry.Manufacturer), manufFilter) {
			continue
		}
		if filter != "" && !matches(entry, filter) {
			continue
		}
		result = append(result, entry)
	}

	key := q.Sort
	if key == "" {
		key = SortByTitle
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := sortValue(result[i], key), sortValue(result[j], key)
		if a != b {
			return a < b
		}
		return result[i].Filename < result[j].Filename
	})
	return result
}

// matches reports whether the lower-cased filter occurs in any searchable
// field of the entry.
func matches(entry model.RomEntry, filter string) bool {
	return strings.Contains(strings.ToLower(entry.Title), filter) ||
		strings.Contains(entry.Year, filter) ||
		strings.Contains(strings.ToLower(entry.Manufacturer), filter)
}

func sortValue(entry model.RomEntry, key SortKey) string {
	switch key {
	case SortByYear:
		return entry.Year
	case SortByManufacturer:
		return collate(entry.Manufacturer)
	default:
		return collate(entry.Title)
	}
}

var pinyinArgs = pinyin.NewArgs()

// collate lower-cases a title and latinises Han runes through pinyin so
// mixed-script collections order deterministically alongside latin titles.
func collate(v string) string {
	lowered := strings.ToLower(v)
	if !strings.ContainsFunc(lowered, func(r rune) bool { return unicode.Is(unicode.Han, r) }) {
		return lowered
	}
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.Is(unicode.Han, r) {
			if py := pinyin.SinglePinyin(r, pinyinArgs); len(py) > 0 {
				b.WriteString(py[0])
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
