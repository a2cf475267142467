package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plugingenius/plugingenius-cli/pkg/metrics"
	"github.com/plugingenius/plugingenius-cli/pkg/models"
	"github.com/plugingenius/plugingenius-cli/pkg/presenter"
)

// SavedPluginsKey holds the JSON array of saved records
const SavedPluginsKey = "savedPlugins"

// Projects is the saved projects list kept in a KV store
type Projects struct {
	kv      KV
	mu      sync.Mutex
	now     func() time.Time
	newID   func() (uuid.UUID, error)
	metrics *metrics.Recorder
}

// ProjectsOption configures Projects
type ProjectsOption func(*Projects)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) ProjectsOption {
	return func(p *Projects) { p.now = now }
}

func WithProjectMetrics(m *metrics.Recorder) ProjectsOption {
	return func(p *Projects) { p.metrics = m }
}

func NewProjects(kv KV, opts ...ProjectsOption) *Projects {
	p := &Projects{
		kv:    kv,
		now:   time.Now,
		newID: uuid.NewV7,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Save appends a summary of a to the list and returns it
func (p *Projects) Save(ctx context.Context, a *models.PluginArtifact) (saved models.SavedPlugin, err error) {
	defer func() { p.metrics.RecordSave(err) }()

	if err := presenter.Validate(a); err != nil {
		return models.SavedPlugin{}, err
	}

	id, err := p.newID()
	if err != nil {
		return models.SavedPlugin{}, fmt.Errorf("failed to generate id: %w", err)
	}

	saved = models.SavedPlugin{
		ID:          id.String(),
		Name:        a.Name,
		Slug:        a.Slug,
		Category:    a.Category,
		Description: a.Description,
		SavedAt:     p.now().UTC(),
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	list, err := p.load(ctx)
	if err != nil {
		return models.SavedPlugin{}, err
	}
	list = append(list, saved)
	if err := p.store(ctx, list); err != nil {
		return models.SavedPlugin{}, err
	}
	return saved, nil
}

// List returns every saved record in save order
func (p *Projects) List(ctx context.Context) ([]models.SavedPlugin, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	list, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].SavedAt.Before(list[j].SavedAt) })
	return list, nil
}

// Get finds a record by id
func (p *Projects) Get(ctx context.Context, id string) (models.SavedPlugin, error) {
	list, err := p.List(ctx)
	if err != nil {
		return models.SavedPlugin{}, err
	}
	for _, sp := range list {
		if sp.ID == id {
			return sp, nil
		}
	}
	return models.SavedPlugin{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
}

// Delete removes a record by id
func (p *Projects) Delete(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	list, err := p.load(ctx)
	if err != nil {
		return err
	}

	kept := list[:0]
	found := false
	for _, sp := range list {
		if sp.ID == id {
			found = true
			continue
		}
		kept = append(kept, sp)
	}
	if !found {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return p.store(ctx, kept)
}

func (p *Projects) load(ctx context.Context) ([]models.SavedPlugin, error) {
	raw, err := p.kv.Get(ctx, SavedPluginsKey)
	if errors.Is(err, ErrNotFound) {
		return []models.SavedPlugin{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load saved projects: %w", err)
	}

	var list []models.SavedPlugin
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("failed to decode saved projects: %w", err)
	}
	if list == nil {
		list = []models.SavedPlugin{}
	}
	return list, nil
}

func (p *Projects) store(ctx context.Context, list []models.SavedPlugin) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode saved projects: %w", err)
	}
	if err := p.kv.Set(ctx, SavedPluginsKey, string(data)); err != nil {
		return fmt.Errorf("failed to store saved projects: %w", err)
	}
	return nil
}
