package expr

import (
	"fmt"
	"strings"
)

// Selector renders a Minecraft target selector, ported from
// original_source/acaciamc/mccmdgen/mcselector.py's MCSelector: a base
// selector variable ("e" for Engroup/Enfilter's "all entities of a
// template") plus an ordered, refinable argument list.
type Selector struct {
	Var  string
	args []selectorArg
}

type selectorArg struct {
	Key   string
	Value string
}

// NewSelector constructs a selector over the given base variable.
func NewSelector(v string) *Selector {
	return &Selector{Var: v}
}

// clone returns a copy with its own argument slice: every refining method
// below builds a new Selector rather than mutating the one it was called
// on, so an Enfilter chain never aliases an earlier stage's arguments.
func (s *Selector) clone() *Selector {
	return &Selector{Var: s.Var, args: append([]selectorArg{}, s.args...)}
}

func (s *Selector) add(key, value string) *Selector {
	c := s.clone()
	c.args = append(c.args, selectorArg{Key: key, Value: value})
	return c
}

// Tag refines by requiring a tag (`.tag(name)`).
func (s *Selector) Tag(name string) *Selector { return s.add("tag", name) }

// TagNot refines by excluding a tag (`.tag_n(name)`).
func (s *Selector) TagNot(name string) *Selector { return s.add("tag", "!"+name) }

// EntityType refines by entity type (`.type(name)`).
func (s *Selector) EntityType(name string) *Selector { return s.add("type", name) }

// EntityTypeNot excludes an entity type (`.type_n(name)`).
func (s *Selector) EntityTypeNot(name string) *Selector { return s.add("type", "!"+name) }

// Limit caps the result count (`.limit(n)`).
func (s *Selector) Limit(n int) *Selector { return s.add("c", fmt.Sprintf("%d", n)) }

// Distance refines by a distance range (`.distance(lo, hi)`); an empty
// bound is omitted the way Minecraft's own "lo..hi" range syntax allows.
func (s *Selector) Distance(lo, hi string) *Selector { return s.add("distance", rangeStr(lo, hi)) }

// Scores refines by a scoreboard-range predicate (`.scores(objective, lo, hi)`).
func (s *Selector) Scores(objective, lo, hi string) *Selector {
	return s.add("scores", fmt.Sprintf("{%s=%s}", objective, rangeStr(lo, hi)))
}

func rangeStr(lo, hi string) string {
	switch {
	case lo != "" && hi != "":
		return lo + ".." + hi
	case lo != "":
		return lo + ".."
	case hi != "":
		return ".." + hi
	default:
		return ""
	}
}

// Text renders this selector's final `@e[...]` form. Repeated tag
// arguments stay as repeated "tag=" pairs (Minecraft allows several),
// every other key is comma-joined in the order first seen.
func (s *Selector) Text() string {
	merged := map[string][]string{}
	var order []string
	for _, a := range s.args {
		if _, ok := merged[a.Key]; !ok {
			order = append(order, a.Key)
		}
		merged[a.Key] = append(merged[a.Key], a.Value)
	}
	parts := make([]string, 0, len(order))
	for _, k := range order {
		if k == "tag" {
			items := make([]string, len(merged[k]))
			for i, v := range merged[k] {
				items[i] = "tag=" + v
			}
			parts = append(parts, strings.Join(items, ","))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", k, strings.Join(merged[k], ",")))
	}
	return fmt.Sprintf("@%s[%s]", s.Var, strings.Join(parts, ","))
}
