// Package catalog holds the ordered, read-only table of recommendable titles.
//
// Positions are 0-based and line up with the rows and columns of the
// similarity matrix. Titles are not required to be unique; lookups return the
// first occurrence.
package catalog

import (
	"fmt"
	"strings"

	"reelmatch/internal/textutil"
)

// Item is one recommendable title.
type Item struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
}

// Catalog is immutable after New and safe for concurrent reads.
type Catalog struct {
	items  []Item
	first  map[string]int
	folded []string
}

// New validates that item positions are exactly 0..n-1 in order and builds
// the lookup index.
func New(items []Item) (*Catalog, error) {
	owned := make([]Item, len(items))
	copy(owned, items)

	c := &Catalog{
		items:  owned,
		first:  make(map[string]int, len(owned)),
		folded: make([]string, len(owned)),
	}
	for idx, item := range owned {
		if item.Position != idx {
			return nil, fmt.Errorf("catalog item %d has position %d; positions must be contiguous from 0", idx, item.Position)
		}
		if _, seen := c.first[item.Title]; !seen {
			c.first[item.Title] = idx
		}
		c.folded[idx] = textutil.FoldTitle(item.Title)
	}
	return c, nil
}

// FromTitles builds a catalog whose positions follow slice order.
func FromTitles(titles []string) (*Catalog, error) {
	items := make([]Item, len(titles))
	for idx, title := range titles {
		items[idx] = Item{Position: idx, Title: title}
	}
	return New(items)
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Lookup returns the position of the first item whose title equals title exactly.
func (c *Catalog) Lookup(title string) (int, bool) {
	if c == nil {
		return 0, false
	}
	pos, ok := c.first[title]
	return pos, ok
}

// Title returns the title stored at position.
func (c *Catalog) Title(position int) (string, bool) {
	if c == nil || position < 0 || position >= len(c.items) {
		return "", false
	}
	return c.items[position].Title, true
}

// Items returns a copy of every item in position order.
func (c *Catalog) Items() []Item {
	if c == nil {
		return nil
	}
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Titles returns every title in position order.
func (c *Catalog) Titles() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.items))
	for idx, item := range c.items {
		out[idx] = item.Title
	}
	return out
}

// Search returns items whose folded title contains the folded query, in
// position order. An empty query matches everything. limit <= 0 means no limit.
func (c *Catalog) Search(query string, limit int) []Item {
	if c == nil {
		return nil
	}
	needle := textutil.FoldTitle(query)
	var out []Item
	for idx, folded := range c.folded {
		if needle != "" && !strings.Contains(folded, needle) {
			continue
		}
		out = append(out, c.items[idx])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
