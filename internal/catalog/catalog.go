// Package catalog provides the read-only product catalog: names, identifiers
// and unit prices, loaded once per session.
package catalog

import (
	"sort"
	"strings"
)

// Entry is one catalog product.
type Entry struct {
	ID     int64
	Name   string
	Price  float64
	Priced bool
}

// Catalog is immutable after construction and safe to share between goroutines.
type Catalog struct {
	entries map[string]Entry
	names   []string
}

// New indexes entries by canonical name. Empty names are skipped and the
// first entry wins on duplicates.
func New(entries []Entry) *Catalog {
	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		e.Name = Canonical(e.Name)
		if e.Name == "" {
			continue
		}
		if _, dup := c.entries[e.Name]; dup {
			continue
		}
		c.entries[e.Name] = e
		c.names = append(c.names, e.Name)
	}
	sort.Strings(c.names)
	return c
}

// Canonical trims and uppercases a product name.
func Canonical(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Names returns every product name, sorted.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.names...)
}

// Entries returns every entry in name order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.entries[name])
	}
	return out
}

func (c *Catalog) Lookup(name string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	e, ok := c.entries[Canonical(name)]
	return e, ok
}

// Price returns the unit price of name when the catalog has one.
func (c *Catalog) Price(name string) (float64, bool) {
	e, ok := c.Lookup(name)
	if !ok || !e.Priced {
		return 0, false
	}
	return e.Price, true
}
