package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ersonp/carelog/internal/domain/entities"
)

// ChildrenConfig holds the registered children (read/write).
type ChildrenConfig struct {
	Children map[string]ChildEntry `yaml:"children,omitempty"`
}

// ChildEntry holds configuration for a specific child.
type ChildEntry struct {
	ID          string `yaml:"id"`
	FamilyID    string `yaml:"family_id"`
	Timezone    string `yaml:"timezone,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Child converts the entry into the domain value.
func (e ChildEntry) Child(name string) entities.Child {
	return entities.Child{
		ID:       e.ID,
		FamilyID: e.FamilyID,
		Name:     name,
		Timezone: e.Timezone,
	}
}

// LoadChildren loads the children registry from the .carelog directory.
func LoadChildren(basePath string) (*ChildrenConfig, error) {
	data, err := os.ReadFile(ChildrenFilePath(basePath))
	if os.IsNotExist(err) {
		// Return empty config if file doesn't exist
		return &ChildrenConfig{
			Children: make(map[string]ChildEntry),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading children file: %w", err)
	}

	var cfg ChildrenConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing children file: %w", err)
	}

	if cfg.Children == nil {
		cfg.Children = make(map[string]ChildEntry)
	}

	return &cfg, nil
}

// Save writes the children registry.
func (c *ChildrenConfig) Save(basePath string) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling children config: %w", err)
	}

	if err := os.WriteFile(ChildrenFilePath(basePath), data, 0600); err != nil {
		return fmt.Errorf("writing children file: %w", err)
	}

	return nil
}

// Add registers a child under its sanitized name and returns that name.
func (c *ChildrenConfig) Add(name string, entry ChildEntry) (string, error) {
	if entry.ID == "" {
		return "", errors.New("child id is required")
	}
	if entry.FamilyID == "" {
		return "", errors.New("family id is required")
	}
	if entry.Timezone != "" {
		if _, err := LoadLocation(entry.Timezone); err != nil {
			return "", err
		}
	}
	if c.Children == nil {
		c.Children = make(map[string]ChildEntry)
	}
	key := SanitizeChildName(name)
	c.Children[key] = entry
	return key, nil
}

// Remove removes a child from the registry.
func (c *ChildrenConfig) Remove(name string) {
	if c.Children != nil {
		delete(c.Children, SanitizeChildName(name))
	}
}

// Names returns the registered names sorted.
func (c *ChildrenConfig) Names() []string {
	names := make([]string, 0, len(c.Children))
	for name := range c.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the child registered under name. An empty name selects the
// only registered child.
func (c *ChildrenConfig) Get(name string) (entities.Child, error) {
	if len(c.Children) == 0 {
		return entities.Child{}, errors.New("no children configured (run 'carelog children add' first)")
	}

	if name == "" {
		if len(c.Children) == 1 {
			for key, entry := range c.Children {
				return entry.Child(key), nil
			}
		}
		return entities.Child{}, fmt.Errorf("several children configured, pick one with --child (available: %s)", c.available())
	}

	key := SanitizeChildName(name)
	entry, ok := c.Children[key]
	if !ok {
		return entities.Child{}, fmt.Errorf("child %q not found (available: %s)", name, c.available())
	}

	return entry.Child(key), nil
}

// available lists up to five registered names.
func (c *ChildrenConfig) available() string {
	names := c.Names()
	if len(names) > 5 {
		names = append(names[:5], "...")
	}
	return strings.Join(names, ", ")
}

// Exists checks if a child is registered.
func (c *ChildrenConfig) Exists(name string) bool {
	if c.Children == nil {
		return false
	}
	_, ok := c.Children[SanitizeChildName(name)]
	return ok
}
