package expr

import "testing"

func TestSelector_TextJoinsArgsInFirstSeenOrder(t *testing.T) {
	s := NewSelector("e").EntityType("cow").Limit(3)
	want := "@e[type=cow,c=3]"
	if got := s.Text(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestSelector_RepeatedTagsStayAsRepeatedPairs(t *testing.T) {
	s := NewSelector("e").Tag("a").Tag("b")
	want := "@e[tag=a,tag=b]"
	if got := s.Text(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestSelector_TagNotPrefixesBang(t *testing.T) {
	s := NewSelector("e").TagNot("hostile")
	want := "@e[tag=!hostile]"
	if got := s.Text(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestSelector_IsImmutableAcrossChaining(t *testing.T) {
	base := NewSelector("e").Tag("a")
	refined := base.Tag("b")
	if base.Text() == refined.Text() {
		t.Fatalf("chaining must not mutate the receiver: base=%q refined=%q", base.Text(), refined.Text())
	}
	if base.Text() != "@e[tag=a]" {
		t.Fatalf("base selector was mutated, got %q", base.Text())
	}
}

func TestSelector_DistanceRangeOmitsEmptyBound(t *testing.T) {
	s := NewSelector("e").Distance("", "5")
	want := "@e[distance=..5]"
	if got := s.Text(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	s2 := NewSelector("e").Distance("3", "")
	want2 := "@e[distance=3..]"
	if got := s2.Text(); got != want2 {
		t.Fatalf("want %q, got %q", want2, got)
	}
}

func TestSelector_ScoresWrapsObjectiveRange(t *testing.T) {
	s := NewSelector("e").Scores("health", "1", "10")
	want := "@e[scores={health=1..10}]"
	if got := s.Text(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
