package patch

// isSpace reports ASCII whitespace. Normalization is byte-oriented: the
// engine targets generated HTML/CSS/JS where formatting drift is spaces,
// tabs, and newlines.
func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// isDelim reports markup delimiter characters. Whitespace sitting directly
// between two delimiters carries no meaning in the target languages, so it
// is removed outright during normalization and ">\n  <" matches "><".
func isDelim(c byte) bool {
	switch c {
	case '<', '>', '{', '}', ';', ',':
		return true
	}
	return false
}

// normalized is a whitespace-normalized view of a string with per-byte
// offset maps back into the original text.
type normalized struct {
	text   string
	starts []int // starts[i]: original offset of the first byte behind text[i]
	ends   []int // ends[i]: original offset just past the last byte behind text[i]
}

// normalize collapses every whitespace run to a single space, dropping runs
// flanked by markup delimiters on both sides. The offset maps let a match
// found in normalized space be projected back to an exact original span.
func normalize(s string) *normalized {
	var buf []byte
	var starts, ends []int

	i := 0
	for i < len(s) {
		c := s[i]
		if !isSpace(c) {
			buf = append(buf, c)
			starts = append(starts, i)
			ends = append(ends, i+1)
			i++
			continue
		}
		j := i
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		prevDelim := len(buf) > 0 && isDelim(buf[len(buf)-1])
		nextDelim := j < len(s) && isDelim(s[j])
		if !(prevDelim && nextDelim) {
			buf = append(buf, ' ')
			starts = append(starts, i)
			ends = append(ends, j)
		}
		i = j
	}

	return &normalized{text: string(buf), starts: starts, ends: ends}
}

// span maps the half-open normalized range [from, to) back to original
// document offsets.
func (n *normalized) span(from, to int) Span {
	return Span{Start: n.starts[from], End: n.ends[to-1]}
}
