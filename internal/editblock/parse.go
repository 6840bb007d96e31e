// Package editblock parses SEARCH/REPLACE edit blocks from model output.
package editblock

import (
	"regexp"
	"strings"
)

// Kind discriminates the two edit block forms.
type Kind int

const (
	// FullReplace replaces the entire document with Content.
	FullReplace Kind = iota
	// SearchReplace applies Pairs to the document in order.
	SearchReplace
)

func (k Kind) String() string {
	switch k {
	case FullReplace:
		return "replace"
	case SearchReplace:
		return "patch"
	}
	return "unknown"
}

// Pair is one search/replace instruction within a patch block.
type Pair struct {
	Search  string
	Replace string
}

// Block is one edit instruction for a single file extracted from model
// output. A block with Complete == false is still streaming and must not
// be applied.
type Block struct {
	Path     string
	Kind     Kind
	Content  string // FullReplace: the entire new document
	Pairs    []Pair // SearchReplace: ordered pairs
	Complete bool
}

// Delimiter lines recognized inside a fenced patch block.
const (
	markerSearch  = "<<<<<<< SEARCH"
	markerDivider = "======="
	markerReplace = ">>>>>>> REPLACE"
)

var fenceOpenRe = regexp.MustCompile("^```(\\w*)\\s*(?:file=(\\S+))?\\s*$")

// Parse extracts edit blocks from model output. It recognizes a file marker
// (a path line immediately before an opening fence, or a file= attribute on
// the fence itself) followed by either a fenced full-replace body or fenced
// SEARCH/REPLACE pairs:
//
//	index.html
//	```html
//	<<<<<<< SEARCH
//	<h1>Old</h1>
//	=======
//	<h1>New</h1>
//	>>>>>>> REPLACE
//	```
//
// Parse is safe to call on a partial buffer: a block whose terminating
// delimiter has not arrived yet is returned with Complete == false. Blocks
// are returned in order of appearance; only the final block of a buffer can
// be incomplete. Malformed pairs are dropped silently and parsing continues.
func Parse(text string) []Block {
	lines := strings.Split(text, "\n")
	var blocks []Block
	candidate := ""

	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		m := fenceOpenRe.FindStringSubmatch(trimmed)
		if m == nil {
			if trimmed != "" {
				candidate = trimmed
			}
			i++
			continue
		}

		path := m[2]
		if path == "" {
			path = pathCandidate(candidate)
		}
		candidate = ""
		if path == "" {
			// A fence with no target file is prose, not an edit.
			i = skipFence(lines, i+1)
			continue
		}

		var b Block
		body := i + 1
		for body < len(lines) && strings.TrimSpace(lines[body]) == "" {
			body++
		}
		if body < len(lines) && strings.TrimSpace(lines[body]) == markerSearch {
			// Blank padding before the marker does not make this a full replace.
			b, i = parsePatch(lines, body, path)
		} else {
			b, i = parseReplace(lines, i+1, path)
		}
		if b.Kind == SearchReplace && b.Complete && len(b.Pairs) == 0 {
			// Fence closed but every pair inside it was malformed.
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// Ready returns the blocks that are complete and safe to apply.
func Ready(blocks []Block) []Block {
	var out []Block
	for _, b := range blocks {
		if b.Complete {
			out = append(out, b)
		}
	}
	return out
}

// parseReplace consumes a full-replace fence body starting at lines[i].
// Returns the block and the index of the first unconsumed line.
func parseReplace(lines []string, i int, path string) (Block, int) {
	b := Block{Path: path, Kind: FullReplace}
	var buf strings.Builder
	first := true
	for ; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "```" {
			b.Content = buf.String()
			b.Complete = true
			return b, i + 1
		}
		if !first {
			buf.WriteByte('\n')
		}
		buf.WriteString(lines[i])
		first = false
	}
	b.Content = buf.String()
	return b, i
}

// parsePatch consumes SEARCH/REPLACE pairs starting at the opening
// SEARCH marker at lines[i]. A pair whose delimiters never balance is
// dropped; the fence closing mid-pair drops only that pair.
func parsePatch(lines []string, i int, path string) (Block, int) {
	b := Block{Path: path, Kind: SearchReplace}

	const (
		wantSearch = iota // between pairs: expect SEARCH or closing fence
		inSearch
		inReplace
	)
	state := wantSearch
	var search, replace strings.Builder
	searchFirst, replaceFirst := true, true

	reset := func() {
		search.Reset()
		replace.Reset()
		searchFirst, replaceFirst = true, true
	}

	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		switch state {
		case wantSearch:
			switch {
			case trimmed == markerSearch:
				state = inSearch
			case trimmed == "```":
				b.Complete = true
				return b, i + 1
			}
			// Anything else between pairs is ignored.

		case inSearch:
			switch {
			case trimmed == markerDivider:
				state = inReplace
			case trimmed == markerSearch:
				// Opener without a closer: drop the open pair, start over.
				reset()
			case trimmed == "```":
				b.Complete = true
				return b, i + 1
			default:
				if !searchFirst {
					search.WriteByte('\n')
				}
				search.WriteString(lines[i])
				searchFirst = false
			}

		case inReplace:
			switch {
			case trimmed == markerReplace:
				b.Pairs = append(b.Pairs, Pair{Search: search.String(), Replace: replace.String()})
				reset()
				state = wantSearch
			case trimmed == markerSearch:
				reset()
				state = inSearch
			case trimmed == "```":
				b.Complete = true
				return b, i + 1
			default:
				if !replaceFirst {
					replace.WriteByte('\n')
				}
				replace.WriteString(lines[i])
				replaceFirst = false
			}
		}
	}
	return b, i
}

// skipFence advances past the closing fence of a block we are not keeping.
func skipFence(lines []string, i int) int {
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == "```" {
			return i + 1
		}
		i++
	}
	return i
}

// pathCandidate strips markdown decoration from a line and returns it if it
// plausibly names a file: no whitespace, and at least one '.' or '/'.
func pathCandidate(line string) string {
	s := strings.TrimSpace(line)
	s = strings.Trim(s, "#*_`")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ":")
	s = strings.Trim(s, "*_`")
	if s == "" || strings.ContainsAny(s, " \t") {
		return ""
	}
	if !strings.ContainsAny(s, "./") {
		return ""
	}
	return s
}
