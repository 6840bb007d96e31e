// Package docs holds the built-in reference articles behind `stitch docs`.
package docs

import "fmt"

// Topic is one article: the slug a user passes on the command line plus the
// text the command prints for it.
type Topic struct {
	Name    string // argument to `stitch docs <name>`
	Title   string // heading shown in the topic listing
	Summary string // one-liner for the listing
	Content string // article body, plain text
}

var byName = func() map[string]Topic {
	m := make(map[string]Topic, len(topics))
	for _, t := range topics {
		m[t.Name] = t
	}
	return m
}()

// All returns every topic in listing order.
func All() []Topic {
	return append([]Topic(nil), topics...)
}

// Get returns the topic a docs argument names.
func Get(name string) (Topic, error) {
	t, ok := byName[name]
	if !ok {
		return Topic{}, fmt.Errorf("unknown topic %q — run 'stitch docs' to list available topics", name)
	}
	return t, nil
}
