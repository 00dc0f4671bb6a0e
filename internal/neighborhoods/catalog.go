// Package neighborhoods is the read-only id→name lookup used by the
// rendering surfaces. The reliability engine never consults it.
package neighborhoods

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/storm-data-reliability/internal/reliability"
)

// Neighborhood is one catalog entry.
type Neighborhood struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Catalog maps neighborhood ids to display names.
type Catalog struct {
	names map[string]string
	ids   []string
}

// stHimark is the built-in St. Himark neighborhood table.
var stHimark = []Neighborhood{
	{"1", "Palace Hills"},
	{"2", "Northwest"},
	{"3", "Old Town"},
	{"4", "Safe Town"},
	{"5", "Southwest"},
	{"6", "Downtown"},
	{"7", "Wilson Forest"},
	{"8", "Scenic Vista"},
	{"9", "Broadview"},
	{"10", "Chapparal"},
	{"11", "Terrapin Springs"},
	{"12", "Pepper Mill"},
	{"13", "Cheddarford"},
	{"14", "Easton"},
	{"15", "Weston"},
	{"16", "Southton"},
	{"17", "Oak Willow"},
	{"18", "East Parton"},
	{"19", "West Parton"},
}

// Default returns the built-in 19-neighborhood catalog.
func Default() *Catalog {
	c, _ := New(stHimark)
	return c
}

// New builds a catalog. Ids must be non-empty and unique. They are kept in
// the same order the engine emits profiles.
func New(entries []Neighborhood) (*Catalog, error) {
	c := &Catalog{names: make(map[string]string, len(entries))}
	for _, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return nil, errors.New("neighborhood id is required")
		}
		if _, dup := c.names[id]; dup {
			return nil, fmt.Errorf("duplicate neighborhood id %q", id)
		}
		c.names[id] = strings.TrimSpace(e.Name)
		c.ids = append(c.ids, id)
	}
	sort.SliceStable(c.ids, func(i, j int) bool { return reliability.NeighborhoodLess(c.ids[i], c.ids[j]) })
	return c, nil
}

type catalogFile struct {
	Neighborhoods []Neighborhood `yaml:"neighborhoods"`
}

// Load reads a YAML catalog of the form:
//
//	neighborhoods:
//	  - id: "1"
//	    name: Palace Hills
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read neighborhood catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse neighborhood catalog: %w", err)
	}
	if len(f.Neighborhoods) == 0 {
		return nil, fmt.Errorf("parse neighborhood catalog: %s lists no neighborhoods", path)
	}
	return New(f.Neighborhoods)
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Name returns the display name, or "Location <id>" for unknown ids.
func (c *Catalog) Name(id string) string {
	if name, ok := c.names[id]; ok && name != "" {
		return name
	}
	return "Location " + id
}

// Known reports whether id is in the catalog.
func (c *Catalog) Known(id string) bool {
	_, ok := c.names[id]
	return ok
}

// IDs returns the catalog ids in natural order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.ids...)
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.ids) }
