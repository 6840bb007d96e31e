package patch

import (
	"testing"
)

func TestFind_ExactLeftmost(t *testing.T) {
	m := Find("ab ab", "ab")
	if !m.Found || m.Strategy != StrategyExact {
		t.Fatalf("match = %+v", m)
	}
	if m.Span.Start != 0 || m.Span.End != 2 {
		t.Fatalf("span = %+v, want {0 2}", m.Span)
	}
}

func TestFind_ExactBeatsEarlierFuzzy(t *testing.T) {
	// "a  b" would match "ab"-ish queries under looser tiers, but the
	// literal occurrence later in the document wins because tiers are
	// tried in order, not by position.
	m := Find("a  b and ab", "ab")
	if m.Strategy != StrategyExact {
		t.Fatalf("strategy = %v, want exact", m.Strategy)
	}
	if m.Span.Start != 9 || m.Span.End != 11 {
		t.Fatalf("span = %+v, want {9 11}", m.Span)
	}
}

func TestFind_NormalizedSpan(t *testing.T) {
	doc := `x = "a  b"; y`
	m := Find(doc, "a b")
	if !m.Found || m.Strategy != StrategyNormalized {
		t.Fatalf("match = %+v", m)
	}
	if got := doc[m.Span.Start:m.Span.End]; got != `a  b` {
		t.Fatalf("span text = %q", got)
	}
}

func TestFind_NormalizedIndentation(t *testing.T) {
	doc := "keep1\n<a>\n   <b>x</b>\n</a>\nkeep2"
	search := "<a>\n <b>x</b>\n</a>"
	m := Find(doc, search)
	if !m.Found || m.Strategy != StrategyNormalized {
		t.Fatalf("match = %+v", m)
	}
	if got := doc[m.Span.Start:m.Span.End]; got != "<a>\n   <b>x</b>\n</a>" {
		t.Fatalf("span text = %q", got)
	}
}

func TestFind_LineWindowOnly(t *testing.T) {
	// Three leading spaces in the doc, four in the search: the exact tier
	// misses, and the normalized tier misses too because the doc drops the
	// run between ">" and "<" entirely while the search keeps a leading
	// space.
	doc := "x>\n   <a>hi</a>\ny"
	m := Find(doc, "    <a>hi</a>")
	if !m.Found || m.Strategy != StrategyLineWindow {
		t.Fatalf("match = %+v", m)
	}
	if got := doc[m.Span.Start:m.Span.End]; got != "   <a>hi</a>" {
		t.Fatalf("span text = %q", got)
	}
}

func TestFind_LineWindowMultiLine(t *testing.T) {
	doc := "q>\n  <a>\n  <b>\nz"
	m := Find(doc, " <a>\n<b>")
	if !m.Found || m.Strategy != StrategyLineWindow {
		t.Fatalf("match = %+v", m)
	}
	if got := doc[m.Span.Start:m.Span.End]; got != "  <a>\n  <b>" {
		t.Fatalf("span text = %q", got)
	}
}

func TestFind_LineWindowSkipsBlankStart(t *testing.T) {
	doc := "x>\n\n   <a>hi</a>\ny"
	m := Find(doc, "    <a>hi</a>")
	if !m.Found || m.Strategy != StrategyLineWindow {
		t.Fatalf("match = %+v", m)
	}
	// The window starts at the content line, not the blank line above it.
	if got := doc[m.Span.Start:m.Span.End]; got != "   <a>hi</a>" {
		t.Fatalf("span text = %q", got)
	}
}

func TestFind_EmptySearchNeverMatches(t *testing.T) {
	if m := Find("anything", ""); m.Found {
		t.Fatalf("empty search matched: %+v", m)
	}
	if m := Find("anything", " \t\n"); m.Found {
		t.Fatalf("whitespace search matched: %+v", m)
	}
}

func TestFind_NotFound(t *testing.T) {
	m := Find("abc", "zzz")
	if m.Found || m.Strategy != StrategyNone {
		t.Fatalf("match = %+v", m)
	}
}

func TestStrategy_String(t *testing.T) {
	cases := map[Strategy]string{
		StrategyNone:       "none",
		StrategyExact:      "exact",
		StrategyNormalized: "normalized",
		StrategyLineWindow: "line-window",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("String(%d) = %q, want %q", int(s), got, want)
		}
	}
}
