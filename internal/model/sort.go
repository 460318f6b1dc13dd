package model

import (
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// SortField defines what to sort by.
type SortField int

const (
	SortByPath SortField = iota
	SortByName
	SortBySize
)

func (f SortField) String() string {
	switch f {
	case SortByName:
		return "Name"
	case SortBySize:
		return "Size"
	default:
		return "Path"
	}
}

// SortOrder defines ascending or descending.
type SortOrder int

const (
	SortAsc SortOrder = iota
	SortDesc
)

// SortConfig holds sort preferences.
type SortConfig struct {
	Field SortField
	Order SortOrder
}

// DefaultSort returns the default sort config (path ascending), which keeps
// entries from the same folder together.
func DefaultSort() SortConfig {
	return SortConfig{
		Field: SortByPath,
		Order: SortAsc,
	}
}

// Toggle returns the config after a sort key press: the same field flips the
// order, a new field starts ascending (descending for size).
func (c SortConfig) Toggle(field SortField) SortConfig {
	if c.Field == field {
		if c.Order == SortDesc {
			c.Order = SortAsc
		} else {
			c.Order = SortDesc
		}
		return c
	}
	c.Field = field
	c.Order = SortAsc
	if field == SortBySize {
		c.Order = SortDesc
	}
	return c
}

// SortEntries sorts entries in place according to cfg. Ties always fall
// back to ascending path order.
func SortEntries(entries []Entry, cfg SortConfig) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]

		// For descending order, swap a and b so the same less-than
		// comparisons produce the reverse result. This preserves
		// strict weak ordering (equal items return false, not true).
		x, y := a, b
		if cfg.Order == SortDesc {
			x, y = b, a
		}

		switch cfg.Field {
		case SortByName:
			xn, yn := strings.ToLower(x.Name), strings.ToLower(y.Name)
			if xn != yn {
				return natural.Less(xn, yn)
			}
		case SortBySize:
			if x.Size != y.Size {
				return x.Size < y.Size
			}
		default:
			if x.Path != y.Path {
				return natural.Less(x.Path, y.Path)
			}
			return false
		}
		return natural.Less(a.Path, b.Path)
	})
}
