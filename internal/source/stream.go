package source

import (
	"bufio"
	"context"
	"io"
)

// LineReader delivers lines from a reader as they arrive, for follow mode.
// Blank lines are preserved: edit blocks depend on them.
type LineReader struct {
	lines chan string
	done  chan struct{}
}

// NewLineReader starts a background goroutine reading lines from r. The
// line channel closes when r is exhausted.
func NewLineReader(r io.Reader) *LineReader {
	lr := &LineReader{
		lines: make(chan string, 16),
		done:  make(chan struct{}),
	}
	go lr.readLoop(r)
	return lr
}

func (lr *LineReader) readLoop(r io.Reader) {
	defer close(lr.lines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256*1024), 1024*1024)
	for scanner.Scan() {
		select {
		case lr.lines <- scanner.Text():
		case <-lr.done:
			return
		}
	}
}

// Next blocks until a line arrives, returning false when the input ends or
// ctx is done.
func (lr *LineReader) Next(ctx context.Context) (string, bool) {
	select {
	case line, ok := <-lr.lines:
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

// Stop signals the background goroutine to exit. The goroutine may remain
// blocked on Scan until the reader produces input or closes; Stop is
// best-effort.
func (lr *LineReader) Stop() {
	select {
	case <-lr.done:
		// already stopped
	default:
		close(lr.done)
	}
}
