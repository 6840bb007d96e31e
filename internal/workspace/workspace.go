// Package workspace holds an in-memory document set and applies streamed
// edit blocks to it as they complete.
package workspace

import (
	"sort"
	"sync"
)

// Workspace is a mutex-guarded set of documents keyed by path. It is an
// explicit object: callers that need isolation create their own.
type Workspace struct {
	mu   sync.RWMutex
	docs map[string]string
}

// New returns an empty workspace.
func New() *Workspace {
	return &Workspace{docs: make(map[string]string)}
}

// FromFiles returns a workspace seeded with the given documents.
func FromFiles(files map[string]string) *Workspace {
	w := New()
	for path, content := range files {
		w.docs[path] = content
	}
	return w
}

// Get returns the document at path and whether it exists.
func (w *Workspace) Get(path string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	content, ok := w.docs[path]
	return content, ok
}

// Put creates or overwrites the document at path.
func (w *Workspace) Put(path, content string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.docs[path] = content
}

// Paths returns the document paths in sorted order.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.docs))
	for path := range w.docs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Snapshot returns a copy of every document. Mutating the copy does not
// affect the workspace.
func (w *Workspace) Snapshot() map[string]string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make(map[string]string, len(w.docs))
	for path, content := range w.docs {
		out[path] = content
	}
	return out
}
