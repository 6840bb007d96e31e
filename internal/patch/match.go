package patch

import "strings"

// Strategy identifies which matching tier located the search text.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyExact
	StrategyNormalized
	StrategyLineWindow
)

func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategyNormalized:
		return "normalized"
	case StrategyLineWindow:
		return "line-window"
	}
	return "none"
}

// Span is a half-open byte range in a document.
type Span struct {
	Start int
	End   int
}

// Match is the result of locating one search text in a document.
type Match struct {
	Found    bool
	Strategy Strategy
	Span     Span
}

// Find locates search in doc: exact substring first, then whitespace-
// normalized, then a line-window scan. The earliest occurrence at the first
// tier that succeeds wins — never the "closest" match. Empty and
// all-whitespace searches never match.
func Find(doc, search string) Match {
	if strings.TrimSpace(search) == "" {
		return Match{}
	}
	if idx := strings.Index(doc, search); idx >= 0 {
		return Match{Found: true, Strategy: StrategyExact, Span: Span{Start: idx, End: idx + len(search)}}
	}
	if sp, ok := findNormalized(doc, search); ok {
		return Match{Found: true, Strategy: StrategyNormalized, Span: sp}
	}
	if sp, ok := findLineWindow(doc, search); ok {
		return Match{Found: true, Strategy: StrategyLineWindow, Span: sp}
	}
	return Match{}
}

// findNormalized matches in normalized space and projects the hit back onto
// the original document, so the replacement splices into the real text and
// everything outside the span stays byte-for-byte intact.
func findNormalized(doc, search string) (Span, bool) {
	ns := normalize(search)
	if ns.text == "" {
		return Span{}, false
	}
	nd := normalize(doc)
	idx := strings.Index(nd.text, ns.text)
	if idx < 0 {
		return Span{}, false
	}
	return nd.span(idx, idx+len(ns.text)), true
}

// findLineWindow scans contiguous line runs top to bottom and matches the
// first run whose normalized text equals the normalized search. The run's
// full line span is the match. Runs never start on a blank line: a leading
// blank contributes nothing and would only widen the span.
func findLineWindow(doc, search string) (Span, bool) {
	ns := strings.TrimSpace(normalize(search).text)
	if ns == "" {
		return Span{}, false
	}

	lines := strings.Split(doc, "\n")
	offsets := make([]int, len(lines))
	pos := 0
	for i, line := range lines {
		offsets[i] = pos
		pos += len(line) + 1
	}

	for i := range lines {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		var win strings.Builder
		for j := i; j < len(lines); j++ {
			if j > i {
				win.WriteByte('\n')
			}
			win.WriteString(lines[j])
			nw := strings.TrimSpace(normalize(win.String()).text)
			if nw == ns {
				return Span{Start: offsets[i], End: offsets[j] + len(lines[j])}, true
			}
			// Growing the window can retract at most one pending space
			// (a run dropped once both its neighbors turn out to be
			// delimiters), so past that margin the window cannot shrink
			// back to the target.
			if len(nw) > len(ns)+1 {
				break
			}
		}
	}
	return Span{}, false
}
