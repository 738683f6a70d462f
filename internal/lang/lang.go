// Package lang loads key-to-string message catalogs. Catalogs are plain
// JSON maps; the presentation layer loads one at startup and passes strings
// down, so the core never renders text itself.
package lang

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed catalogs/*.json
var catalogFS embed.FS

// nameKey is the catalog entry holding the human-readable language name.
const nameKey = "language_name"

// DefaultCode is used when no language preference is saved.
const DefaultCode = "en"

// Catalog is a loaded message catalog.
type Catalog struct {
	Code    string
	Name    string
	entries map[string]string
}

// Info describes an available catalog.
type Info struct {
	Code string
	Name string
}

// Load reads the embedded catalog for code. Unknown codes are an error so
// the caller can fall back to DefaultCode.
func Load(code string) (*Catalog, error) {
	data, err := catalogFS.ReadFile("catalogs/" + code + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown language %q: %w", code, err)
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse language %q: %w", code, err)
	}

	name := entries[nameKey]
	if name == "" {
		name = code
	}

	return &Catalog{Code: code, Name: name, entries: entries}, nil
}

// MustLoad loads code, falling back to the default catalog. The embedded
// default catalog is always present.
func MustLoad(code string) *Catalog {
	if c, err := Load(code); err == nil {
		return c
	}
	c, err := Load(DefaultCode)
	if err != nil {
		panic(err)
	}
	return c
}

// List returns the available catalogs sorted by code.
func List() []Info {
	entries, err := catalogFS.ReadDir("catalogs")
	if err != nil {
		return nil
	}

	var infos []Info
	for _, entry := range entries {
		code := strings.TrimSuffix(entry.Name(), ".json")
		if code == entry.Name() {
			continue
		}
		info := Info{Code: code, Name: code}
		if c, err := Load(code); err == nil {
			info.Name = c.Name
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Code < infos[j].Code })
	return infos
}

// T returns the message for key, or the key itself when missing so gaps in
// a catalog stay visible instead of breaking output.
func (c *Catalog) T(key string) string {
	if s, ok := c.entries[key]; ok {
		return s
	}
	return key
}

// Tf returns the message for key with {name} placeholders substituted.
func (c *Catalog) Tf(key string, args map[string]string) string {
	s := c.T(key)
	for k, v := range args {
		s = strings.ReplaceAll(s, "{"+k+"}", v)
	}
	return s
}
