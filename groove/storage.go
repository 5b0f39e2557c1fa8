package groove

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// DefaultDir returns the per-user groove directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".stix", "grooves"), nil
}

// Store reads and writes grooves as JSON files, one per groove, named after
// the sanitized groove name.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the groove, creating the directory on first use.
func (s *Store) Save(g *Groove) error {
	name := fileName(g.Name)
	if name == "" {
		return fmt.Errorf("groove name %q has no usable characters", g.Name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}

// Load reads a groove by its display name. Missing grid fields fall back to
// the defaults, and unusable notes are dropped while indexing.
func (s *Store) Load(name string) (*Groove, error) {
	file := fileName(name)
	if file == "" {
		return nil, fmt.Errorf("groove name %q has no usable characters", name)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, file))
	if err != nil {
		return nil, err
	}
	var g Groove
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode %v: %w", file, err)
	}
	g.reindex()
	return &g, nil
}

// List returns the display names of every saved groove, sorted. Unreadable
// files are skipped.
func (s *Store) List() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			log.Printf("groove store: read %v: %v", e.Name(), err)
			continue
		}
		var g Groove
		if err := json.Unmarshal(data, &g); err != nil {
			log.Printf("groove store: decode %v: %v", e.Name(), err)
			continue
		}
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Delete removes a saved groove by display name.
func (s *Store) Delete(name string) error {
	file := fileName(name)
	if file == "" {
		return fmt.Errorf("groove name %q has no usable characters", name)
	}
	path := filepath.Join(s.dir, file)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no saved groove named %q", name)
	}
	return os.Remove(path)
}

// fileName maps a display name to a filesystem name: letters, digits,
// underscores and dashes survive, spaces turn into underscores. An empty
// result means the name cannot be stored.
func fileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	safe := strings.TrimRight(b.String(), " ")
	if safe == "" {
		return ""
	}
	return strings.ReplaceAll(safe, " ", "_") + ".json"
}
