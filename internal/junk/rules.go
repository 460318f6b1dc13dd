package junk

import "strings"

// RuleKind selects how a rule compares a filename against its pattern.
type RuleKind int

const (
	// KindExact matches the name byte for byte.
	KindExact RuleKind = iota
	// KindPrefix matches names that start with the pattern and are longer than it.
	KindPrefix
	// KindFold matches the name case-insensitively.
	KindFold
)

func (k RuleKind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindPrefix:
		return "prefix"
	case KindFold:
		return "ignore-case"
	default:
		return "unknown"
	}
}

// Rule is one static classification rule.
type Rule struct {
	Name    string
	Pattern string
	Kind    RuleKind
	// AllowDir marks rules whose targets are folders deleted as whole trees.
	AllowDir bool
}

// Matches reports whether name fires this rule.
func (r Rule) Matches(name string) bool {
	switch r.Kind {
	case KindExact:
		return name == r.Pattern
	case KindPrefix:
		return len(name) > len(r.Pattern) && strings.HasPrefix(name, r.Pattern)
	case KindFold:
		return strings.EqualFold(name, r.Pattern)
	default:
		return false
	}
}

// DefaultRules returns the built-in rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "ds-store", Pattern: ".DS_Store", Kind: KindExact},
		{Name: "apple-double", Pattern: "._", Kind: KindPrefix},
		{Name: "thumbs-db", Pattern: "Thumbs.db", Kind: KindFold},
		{Name: "desktop-ini", Pattern: "Desktop.ini", Kind: KindFold},
		{Name: "recycle-bin", Pattern: "$RECYCLE.BIN", Kind: KindFold, AllowDir: true},
		{Name: "system-volume-information", Pattern: "System Volume Information", Kind: KindFold, AllowDir: true},
	}
}
