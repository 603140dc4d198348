package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

var ErrNotFound = errors.New("tool not found in catalog")

// Fit holds 0-10 affinity weights used by the fallback ranking heuristic.
type Fit struct {
	Simple    int `yaml:"simple" json:"simple"`
	Medium    int `yaml:"medium" json:"medium"`
	Complex   int `yaml:"complex" json:"complex"`
	CI        int `yaml:"ci" json:"ci"`
	Framework int `yaml:"framework" json:"framework"`
	SmallTeam int `yaml:"smallTeam" json:"smallTeam"`
	LargeTeam int `yaml:"largeTeam" json:"largeTeam"`
}

type ReleaseNote struct {
	Version    string   `yaml:"version" json:"version"`
	Date       string   `yaml:"date" json:"date"`
	Highlights []string `yaml:"highlights" json:"highlights"`
}

type Tool struct {
	Name             string        `yaml:"name" json:"name"`
	Aliases          []string      `yaml:"aliases" json:"aliases,omitempty"`
	Category         string        `yaml:"category" json:"category"`
	License          string        `yaml:"license" json:"license"`
	DocumentationURL string        `yaml:"documentationUrl" json:"documentationUrl"`
	Tags             []string      `yaml:"tags" json:"tags"`
	Strengths        []string      `yaml:"strengths" json:"strengths"`
	Weaknesses       []string      `yaml:"weaknesses" json:"weaknesses"`
	Fit              Fit           `yaml:"fit" json:"-"`
	ReleaseNotes     []ReleaseNote `yaml:"releaseNotes" json:"-"`
}

type Trend struct {
	Title     string   `yaml:"title" json:"title"`
	Direction string   `yaml:"direction" json:"direction"`
	Summary   string   `yaml:"summary" json:"summary"`
	Tools     []string `yaml:"tools" json:"tools"`
}

type document struct {
	Tools  []Tool  `yaml:"tools"`
	Trends []Trend `yaml:"trends"`
}

// Catalog is an immutable, case-insensitive index of reference tool data.
type Catalog struct {
	tools  []Tool
	index  map[string]int
	trends []Trend
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := &Catalog{index: make(map[string]int), trends: doc.Trends}
	for _, tool := range doc.Tools {
		name := strings.TrimSpace(tool.Name)
		if name == "" {
			return nil, fmt.Errorf("parse catalog: tool without name")
		}
		key := normalize(name)
		if _, dup := c.index[key]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate tool %q", name)
		}
		c.index[key] = len(c.tools)
		for _, alias := range tool.Aliases {
			if a := normalize(alias); a != "" {
				if _, taken := c.index[a]; !taken {
					c.index[a] = len(c.tools)
				}
			}
		}
		c.tools = append(c.tools, tool)
	}
	return c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		cat, err := Parse(embeddedCatalog)
		if err != nil {
			panic(err)
		}
		defaultCat = cat
	})
	return defaultCat
}

// Lookup finds a tool by name or alias, ignoring case and surrounding space.
func (c *Catalog) Lookup(name string) (Tool, bool) {
	i, ok := c.index[normalize(name)]
	if !ok {
		return Tool{}, false
	}
	return c.tools[i], true
}

// List returns every tool in catalog order.
func (c *Catalog) List() []Tool {
	out := make([]Tool, len(c.tools))
	copy(out, c.tools)
	return out
}

// Search matches query against names, aliases, categories and tags. Name-prefix
// matches rank first, then other name matches, then the rest; ties keep catalog order.
func (c *Catalog) Search(query string) []Tool {
	q := normalize(query)
	if q == "" {
		return c.List()
	}
	type hit struct {
		rank int
		pos  int
	}
	var hits []hit
	for i, tool := range c.tools {
		name := normalize(tool.Name)
		switch {
		case strings.HasPrefix(name, q):
			hits = append(hits, hit{rank: 0, pos: i})
		case strings.Contains(name, q) || anyContains(tool.Aliases, q):
			hits = append(hits, hit{rank: 1, pos: i})
		case strings.Contains(normalize(tool.Category), q) || anyContains(tool.Tags, q):
			hits = append(hits, hit{rank: 2, pos: i})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].rank < hits[b].rank })
	out := make([]Tool, 0, len(hits))
	for _, h := range hits {
		out = append(out, c.tools[h.pos])
	}
	return out
}

func (c *Catalog) Trends() []Trend {
	out := make([]Trend, len(c.trends))
	copy(out, c.trends)
	return out
}

// ReleaseNotes returns the notes for a tool, newest first as authored.
func (c *Catalog) ReleaseNotes(name string) ([]ReleaseNote, error) {
	tool, ok := c.Lookup(name)
	if !ok {
		return nil, ErrNotFound
	}
	return tool.ReleaseNotes, nil
}

// DocumentationURL returns the documentation link for name, or "" when unknown.
func (c *Catalog) DocumentationURL(name string) string {
	tool, _ := c.Lookup(name)
	return tool.DocumentationURL
}

func anyContains(values []string, q string) bool {
	for _, v := range values {
		if strings.Contains(normalize(v), q) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
