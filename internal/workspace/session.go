package workspace

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/stitchkit/stitch/internal/editblock"
	"github.com/stitchkit/stitch/internal/patch"
)

// Record is the outcome of applying one completed block to the workspace.
type Record struct {
	Path       string   `json:"path"`
	Kind       string   `json:"kind"`
	Success    bool     `json:"success"`
	Pairs      int      `json:"pairs,omitempty"`
	Strategies []string `json:"strategies,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// Session accumulates streamed text and applies each edit block to its
// workspace exactly once, at the moment the block completes.
type Session struct {
	ID string

	mu      sync.Mutex
	ws      *Workspace
	buf     strings.Builder
	applied int
	records []Record
}

// NewSession returns a session applying into ws. A nil ws gets a fresh
// empty workspace.
func NewSession(ws *Workspace) *Session {
	if ws == nil {
		ws = New()
	}
	return &Session{ID: uuid.NewString(), ws: ws}
}

// Workspace returns the document set the session applies into.
func (s *Session) Workspace() *Workspace { return s.ws }

// Feed appends a chunk of streamed text, re-parses the settled part of the
// buffer, and applies the blocks that completed since the previous call.
// Chunk boundaries may fall anywhere, so a closing fence on the buffer's
// final line is not trusted until a newline follows it: the next chunk could
// extend that line into ordinary body text. Within the settled buffer,
// completed blocks are a stable prefix, and each is applied once, in arrival
// order. The returned records cover only this call's newly completed blocks.
func (s *Session) Feed(chunk string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.WriteString(chunk)
	return s.advance(s.settled())
}

// Finish declares the stream over. The final line cannot grow any further,
// so a closing fence sitting on it now counts, and any block it completes is
// applied. Finish is safe to call more than once.
func (s *Session) Finish() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf.Len() > 0 && !strings.HasSuffix(s.buf.String(), "\n") {
		s.buf.WriteByte('\n')
	}
	return s.advance(s.buf.String())
}

// settled returns the prefix of the buffer whose parse can no longer change
// as chunks arrive: everything up to and including the last newline. The
// buffer only ever grows past that point by whole new lines, which keeps the
// completed blocks of the settled text an append-only sequence.
func (s *Session) settled() string {
	text := s.buf.String()
	if strings.HasSuffix(text, "\n") {
		return text
	}
	cut := strings.LastIndexByte(text, '\n')
	if cut < 0 {
		return ""
	}
	return text[:cut+1]
}

// advance applies every completed block of text beyond those already applied.
func (s *Session) advance(text string) []Record {
	ready := editblock.Ready(editblock.Parse(text))
	var fresh []Record
	for _, b := range ready[s.applied:] {
		rec := s.applyBlock(b)
		s.records = append(s.records, rec)
		fresh = append(fresh, rec)
	}
	s.applied = len(ready)
	return fresh
}

// Pending lists blocks the session has not applied yet: those still missing
// their terminating delimiter, and a block whose closing fence sits on the
// buffer's final line without a newline confirming it.
func (s *Session) Pending() []editblock.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []editblock.Block
	for _, b := range editblock.Parse(s.settled()) {
		if !b.Complete {
			pending = append(pending, b)
		}
	}
	return pending
}

// Records returns every record produced by the session so far.
func (s *Session) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...)
}

func (s *Session) applyBlock(b editblock.Block) Record {
	rec := Record{Path: b.Path, Kind: b.Kind.String()}
	switch b.Kind {
	case editblock.FullReplace:
		s.ws.Put(b.Path, b.Content)
		rec.Success = true
	case editblock.SearchReplace:
		rec.Pairs = len(b.Pairs)
		doc, ok := s.ws.Get(b.Path)
		if !ok {
			rec.Errors = []string{fmt.Sprintf("%s: no such document", b.Path)}
			return rec
		}
		out := patch.Apply(b.Path, doc, b.Pairs)
		for _, step := range out.Steps {
			rec.Strategies = append(rec.Strategies, step.Strategy.String())
		}
		for _, e := range out.Errors {
			rec.Errors = append(rec.Errors, e.Error())
		}
		if out.Success {
			s.ws.Put(b.Path, out.Content)
			rec.Success = true
		}
	}
	return rec
}
