// Package junk decides whether a filesystem entry is operating-system metadata
// that can be removed from a volume.
package junk

// Classifier evaluates a fixed rule set against filenames.
// The zero value has no rules and matches nothing; use New or Default.
type Classifier struct {
	rules []Rule
}

var defaultClassifier = New(DefaultRules()...)

// New creates a classifier over the given rules.
func New(rules ...Rule) *Classifier {
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &Classifier{rules: cp}
}

// Default returns the classifier for the built-in rules.
func Default() *Classifier {
	return defaultClassifier
}

// Rules returns a copy of the rule set.
func (c *Classifier) Rules() []Rule {
	cp := make([]Rule, len(c.rules))
	copy(cp, c.rules)
	return cp
}

// Classify checks name (the final path component only) against every rule
// and returns the first rule that fired.
func (c *Classifier) Classify(name string) (Rule, bool) {
	var (
		hit   Rule
		found bool
	)
	for _, r := range c.rules {
		if r.Matches(name) && !found {
			hit = r
			found = true
		}
	}
	return hit, found
}

// Accept is Classify plus the folder policy: a directory only qualifies when
// the rule that matched it allows folders.
func (c *Classifier) Accept(name string, isDir bool) (Rule, bool) {
	r, ok := c.Classify(name)
	if !ok {
		return Rule{}, false
	}
	if isDir && !r.AllowDir {
		return Rule{}, false
	}
	return r, true
}

// IsJunk reports whether name matches any built-in rule.
func IsJunk(name string) bool {
	_, ok := defaultClassifier.Classify(name)
	return ok
}
