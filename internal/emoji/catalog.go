// Package emoji holds the reaction emoji catalog and its keyword search.
package emoji

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"

	"nostr-widgets/internal/types"
)

//go:embed catalog.yaml
var catalogYAML []byte

// DefaultFilter is the tab that shows presets instead of search results
const DefaultFilter = "default"

// maxFuzzyDistance bounds Levenshtein matches used when nothing matches literally
const maxFuzzyDistance = 2

// Group is a filter tab; selecting it searches Filter
type Group struct {
	Filter string `yaml:"filter"`
	Label  string `yaml:"label"`
	Icon   string `yaml:"icon"`
}

// Catalog is an immutable, searchable emoji set
type Catalog struct {
	entries  []types.EmojiOption
	byName   map[string]int
	defaults []string
	groups   []Group
}

type catalogFile struct {
	Defaults []string            `yaml:"defaults"`
	Groups   []Group             `yaml:"groups"`
	Emoji    []types.EmojiOption `yaml:"emoji"`
}

// Load parses a catalog document
func Load(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse emoji catalog: %w", err)
	}

	c := &Catalog{
		byName:   make(map[string]int, len(f.Emoji)),
		defaults: f.Defaults,
		groups:   f.Groups,
	}
	for _, e := range f.Emoji {
		if e.Name == "" {
			continue
		}
		if _, dup := c.byName[e.Name]; dup {
			return nil, fmt.Errorf("emoji catalog: duplicate entry %q", e.Name)
		}
		for i, k := range e.Keywords {
			e.Keywords[i] = strings.ToLower(k)
		}
		c.byName[e.Name] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Default returns the embedded catalog. Panics if the embedded file is malformed.
func Default() *Catalog {
	c, err := Load(catalogYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Len reports the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup returns the catalog entry for a glyph
func (c *Catalog) Lookup(name string) (types.EmojiOption, bool) {
	i, ok := c.byName[name]
	if !ok {
		return types.EmojiOption{}, false
	}
	return c.entries[i], true
}

// Defaults returns the fixed reaction set used to fill compact presets
func (c *Catalog) Defaults() []types.EmojiOption {
	out := make([]types.EmojiOption, 0, len(c.defaults))
	for _, name := range c.defaults {
		if e, ok := c.Lookup(name); ok {
			out = append(out, e)
		} else {
			out = append(out, types.EmojiOption{Name: name, Keywords: []string{}})
		}
	}
	return out
}

// Groups returns the filter tabs, led by the preset tab
func (c *Catalog) Groups() []Group {
	out := make([]Group, 0, len(c.groups)+1)
	out = append(out, Group{Filter: DefaultFilter, Label: "Recent", Icon: "🕘"})
	return append(out, c.groups...)
}

type rank int

const (
	rankExact rank = iota
	rankPrefix
	rankSubstring
	rankFuzzy
	rankNone
)

// Search returns entries matching term, best first. Keyword (and group) matches rank
// exact > prefix > substring; catalog order breaks ties. When nothing matches literally,
// keywords within a small edit distance are returned. limit <= 0 means no limit.
func (c *Catalog) Search(term string, limit int) []types.EmojiOption {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	type hit struct {
		idx  int
		rank rank
	}
	var hits []hit
	for i, e := range c.entries {
		if r := literalRank(e, term); r != rankNone {
			hits = append(hits, hit{i, r})
		}
	}

	if len(hits) == 0 && len([]rune(term)) >= 3 {
		for i, e := range c.entries {
			if fuzzyMatch(e, term) {
				hits = append(hits, hit{i, rankFuzzy})
			}
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].rank < hits[b].rank
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]types.EmojiOption, len(hits))
	for i, h := range hits {
		out[i] = c.entries[h.idx]
	}
	return out
}

func literalRank(e types.EmojiOption, term string) rank {
	if e.Name == term {
		return rankExact
	}
	best := rankNone
	check := func(word string) {
		switch {
		case word == term:
			best = rankExact
		case best > rankPrefix && strings.HasPrefix(word, term):
			best = rankPrefix
		case best > rankSubstring && strings.Contains(word, term):
			best = rankSubstring
		}
	}
	check(e.Group)
	for _, k := range e.Keywords {
		if best == rankExact {
			break
		}
		check(k)
	}
	return best
}

func fuzzyMatch(e types.EmojiOption, term string) bool {
	for _, k := range e.Keywords {
		if levenshtein.ComputeDistance(k, term) <= maxFuzzyDistance {
			return true
		}
	}
	return false
}
