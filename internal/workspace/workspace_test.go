package workspace

import (
	"testing"
)

func TestWorkspace_PutGet(t *testing.T) {
	w := New()
	w.Put("index.html", "<p>hi</p>")
	got, ok := w.Get("index.html")
	if !ok || got != "<p>hi</p>" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
}

func TestWorkspace_GetMissing(t *testing.T) {
	w := New()
	if _, ok := w.Get("nope.css"); ok {
		t.Fatal("expected miss")
	}
}

func TestWorkspace_PutOverwrites(t *testing.T) {
	w := New()
	w.Put("a.txt", "old")
	w.Put("a.txt", "new")
	if got, _ := w.Get("a.txt"); got != "new" {
		t.Fatalf("Get = %q", got)
	}
}

func TestWorkspace_PathsSorted(t *testing.T) {
	w := New()
	w.Put("style.css", "")
	w.Put("app.js", "")
	w.Put("index.html", "")
	paths := w.Paths()
	want := []string{"app.js", "index.html", "style.css"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("paths = %v, want %v", paths, want)
		}
	}
}

func TestWorkspace_SnapshotIsCopy(t *testing.T) {
	w := FromFiles(map[string]string{"a.txt": "original"})
	snap := w.Snapshot()
	snap["a.txt"] = "mutated"
	if got, _ := w.Get("a.txt"); got != "original" {
		t.Fatalf("Get = %q, want original", got)
	}
}
