package views

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/siftlab/sift/internal/filter"
)

// SavedView is a named condition set a user can re-apply later. Conditions
// are stored verbatim; serialization must not lose any field.
type SavedView struct {
	ID         string             `yaml:"id"`
	Name       string             `yaml:"name"`
	Dataset    string             `yaml:"dataset"`
	Conditions []filter.Condition `yaml:"conditions"`
	CreatedAt  time.Time          `yaml:"created_at"`
	UpdatedAt  time.Time          `yaml:"updated_at"`
}

// Manager manages saved filter views persisted to a YAML file.
type Manager struct {
	path  string
	views []SavedView
}

// NewManager creates a manager backed by views.yaml under configDir.
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "views.yaml")

	m := &Manager{
		path:  path,
		views: []SavedView{},
	}

	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load saved views: %w", err)
		}
	}

	return m, nil
}

// Load reads saved views from the YAML file.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read views file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.views); err != nil {
		return fmt.Errorf("failed to parse views: %w", err)
	}

	return nil
}

// Save writes saved views to the YAML file.
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.views)
	if err != nil {
		return fmt.Errorf("failed to marshal views: %w", err)
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write views file: %w", err)
	}

	return nil
}

// Add saves a new named view. The condition slice is copied so later edits
// in the builder do not bleed into the saved set.
func (m *Manager) Add(name, dataset string, conds []filter.Condition) (*SavedView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("view name is required")
	}
	if len(conds) == 0 {
		return nil, fmt.Errorf("view has no conditions")
	}
	for _, v := range m.views {
		if strings.EqualFold(v.Name, name) && v.Dataset == dataset {
			return nil, fmt.Errorf("view %q already exists", name)
		}
	}

	now := time.Now()
	view := SavedView{
		ID:         uuid.NewString(),
		Name:       name,
		Dataset:    dataset,
		Conditions: append([]filter.Condition(nil), conds...),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	m.views = append(m.views, view)
	if err := m.Save(); err != nil {
		return nil, err
	}

	return &view, nil
}

// Remove deletes a view by ID.
func (m *Manager) Remove(id string) error {
	for i, v := range m.views {
		if v.ID == id {
			m.views = append(m.views[:i], m.views[i+1:]...)
			return m.Save()
		}
	}
	return fmt.Errorf("view not found: %s", id)
}

// Get returns a view by ID.
func (m *Manager) Get(id string) (*SavedView, bool) {
	for i := range m.views {
		if m.views[i].ID == id {
			return &m.views[i], true
		}
	}
	return nil, false
}

// List returns views for a dataset, newest first. An empty dataset name
// returns everything.
func (m *Manager) List(dataset string) []SavedView {
	var out []SavedView
	for _, v := range m.views {
		if dataset == "" || v.Dataset == dataset {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}
