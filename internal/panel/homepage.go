package panel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hanzi-archive/curator/internal/models"
)

// HomepageAPI is the slice of the backend client the homepage panel needs.
type HomepageAPI interface {
	ListHomepage(ctx context.Context) ([]models.HomepageItem, error)
	UpdateHomepage(ctx context.Context, key, value string) (*models.HomepageItem, error)
}

// Defaults applied when a schema key has no stored row.
const (
	DefaultIcon  = "UploadOutlined"
	DefaultColor = "#1890ff"
)

// The homepage copy is a fixed set of logical entities, each owning a known
// set of content keys. The schema is explicit rather than inferred from key
// shape, and fetched rows are validated against it.
const (
	FeatureCount = 6
	GalleryCount = 4
)

var heroKeys = []string{"hero_title", "hero_subtitle", "hero_button_text", "hero_background_image"}

// Hero is the composite hero entity.
type Hero struct {
	Title           string
	Subtitle        string
	ButtonText      string
	BackgroundImage string
}

// Feature is the composite feature entity with index N (1-based), assembled
// from the feature_N_* keys.
type Feature struct {
	Index       int
	Title       string
	Description string
	Icon        string
	Color       string
}

// GalleryEntry is the composite gallery entity with index N (1-based).
type GalleryEntry struct {
	Index int
	Title string
	Image string
}

// Homepage is the marketing-copy management panel.
type Homepage struct {
	api     HomepageAPI
	schema  map[string]bool
	mu      sync.RWMutex
	items   map[string]models.HomepageItem
	editing string // at most one row editable at a time
	gate    busyGate
}

func NewHomepage(api HomepageAPI) *Homepage {
	h := &Homepage{
		api:    api,
		schema: make(map[string]bool),
		items:  make(map[string]models.HomepageItem),
	}
	for _, key := range heroKeys {
		h.schema[key] = true
	}
	for n := 1; n <= FeatureCount; n++ {
		for _, field := range []string{"title", "description", "icon", "color"} {
			h.schema[fmt.Sprintf("feature_%d_%s", n, field)] = true
		}
	}
	for n := 1; n <= GalleryCount; n++ {
		for _, field := range []string{"title", "image"} {
			h.schema[fmt.Sprintf("gallery_%d_%s", n, field)] = true
		}
	}
	return h
}

// FetchAll replaces the flat row set on success. Rows whose keys fall
// outside the schema are kept but flagged, so a drifted backend is visible
// instead of silently shaping the page.
func (p *Homepage) FetchAll(ctx context.Context) error {
	rows, err := p.api.ListHomepage(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch homepage content: %w", err)
	}

	items := make(map[string]models.HomepageItem, len(rows))
	for _, row := range rows {
		if !p.schema[row.ContentKey] {
			slog.Warn("Homepage row outside known schema", "key", row.ContentKey)
		}
		items[row.ContentKey] = row
	}

	p.mu.Lock()
	p.items = items
	p.editing = ""
	p.mu.Unlock()
	return nil
}

// StartEdit marks one row editable. Only one row may be in edit state.
func (p *Homepage) StartEdit(key string) error {
	if !p.schema[key] {
		return fmt.Errorf("%w: unknown content key %q", ErrValidation, key)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.editing != "" && p.editing != key {
		return fmt.Errorf("%w: already editing %q", ErrBusy, p.editing)
	}
	p.editing = key
	return nil
}

// CancelEdit releases the edit lock without saving.
func (p *Homepage) CancelEdit() {
	p.mu.Lock()
	p.editing = ""
	p.mu.Unlock()
}

// Save puts the edited row and merges the server's canonical response back
// into the flat set by key. The edit lock is released only on success.
func (p *Homepage) Save(ctx context.Context, value string) error {
	p.mu.RLock()
	key := p.editing
	p.mu.RUnlock()
	if key == "" {
		return fmt.Errorf("%w: no row is being edited", ErrValidation)
	}

	if !p.gate.acquire() {
		return ErrBusy
	}
	defer p.gate.release()

	item, err := p.api.UpdateHomepage(ctx, key, value)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.items[item.ContentKey] = *item
	p.editing = ""
	p.mu.Unlock()
	return nil
}

// EditingKey returns the key currently being edited, or "".
func (p *Homepage) EditingKey() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.editing
}

func (p *Homepage) value(key, fallback string) string {
	if item, ok := p.items[key]; ok && item.ContentValue != "" {
		return item.ContentValue
	}
	return fallback
}

// Hero assembles the hero entity, defaulting absent keys to empty strings.
func (p *Homepage) Hero() Hero {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Hero{
		Title:           p.value("hero_title", ""),
		Subtitle:        p.value("hero_subtitle", ""),
		ButtonText:      p.value("hero_button_text", ""),
		BackgroundImage: p.value("hero_background_image", ""),
	}
}

// Features assembles the six feature entities. Absent keys default to empty
// strings, the default icon, and the default color.
func (p *Homepage) Features() []Feature {
	p.mu.RLock()
	defer p.mu.RUnlock()

	features := make([]Feature, 0, FeatureCount)
	for n := 1; n <= FeatureCount; n++ {
		features = append(features, Feature{
			Index:       n,
			Title:       p.value(fmt.Sprintf("feature_%d_title", n), ""),
			Description: p.value(fmt.Sprintf("feature_%d_description", n), ""),
			Icon:        p.value(fmt.Sprintf("feature_%d_icon", n), DefaultIcon),
			Color:       p.value(fmt.Sprintf("feature_%d_color", n), DefaultColor),
		})
	}
	return features
}

// Gallery assembles the four gallery entities.
func (p *Homepage) Gallery() []GalleryEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entries := make([]GalleryEntry, 0, GalleryCount)
	for n := 1; n <= GalleryCount; n++ {
		entries = append(entries, GalleryEntry{
			Index: n,
			Title: p.value(fmt.Sprintf("gallery_%d_title", n), ""),
			Image: p.value(fmt.Sprintf("gallery_%d_image", n), ""),
		})
	}
	return entries
}

// Items returns a copy of the flat row set.
func (p *Homepage) Items() []models.HomepageItem {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.HomepageItem, 0, len(p.items))
	for _, item := range p.items {
		out = append(out, item)
	}
	return out
}

// Busy reports whether a mutation is in flight.
func (p *Homepage) Busy() bool { return p.gate.Busy() }
