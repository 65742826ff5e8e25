// Package category manages the built-in and user-defined task categories.
package category

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harrisonrobin/dayplan/pkg/colors"
	"github.com/harrisonrobin/dayplan/pkg/logging"
	"github.com/harrisonrobin/dayplan/pkg/model"
	"github.com/harrisonrobin/dayplan/pkg/storage"
)

var (
	// ErrEmptyName is returned by AddCustom for a blank name.
	ErrEmptyName = errors.New("category name cannot be empty")

	// ErrDuplicateName is returned by AddCustom when the name is taken, ignoring case.
	ErrDuplicateName = errors.New("a category with this name already exists")
)

// Defaults are the built-in categories, present for the life of the process.
var Defaults = []model.Category{
	{ID: "default-work", Name: "Work", IsDefault: true, ColorKey: "error"},
	{ID: "default-personal", Name: "Personal", IsDefault: true, ColorKey: "success"},
	{ID: "default-meeting", Name: "Meeting", IsDefault: true, ColorKey: "info"},
	{ID: "default-school", Name: "School", IsDefault: true, ColorKey: "warning"},
	{ID: "default-teamtime", Name: "Team Time", IsDefault: true, ColorKey: "teamTime"},
	{ID: "default-friends", Name: "Friends", IsDefault: true, ColorKey: "friends"},
}

// Registry reads and appends custom categories through a storage.Storage.
type Registry struct {
	storage storage.Storage
	key     string
	now     func() time.Time
}

func NewRegistry(s storage.Storage) *Registry {
	return &Registry{storage: s, key: storage.CategoriesKey, now: time.Now}
}

// Custom returns the stored custom categories in creation order. Read and
// parse failures are logged and yield none.
func (r *Registry) Custom(ctx context.Context) []model.Category {
	custom, err := r.load(ctx)
	if err != nil {
		logging.Warn("category", "%v", err)
		return []model.Category{}
	}
	return custom
}

// load is the strict read used before rewriting the collection.
func (r *Registry) load(ctx context.Context) ([]model.Category, error) {
	raw, ok, err := r.storage.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom categories: %w", err)
	}
	if !ok || raw == "" {
		return []model.Category{}, nil
	}

	var custom []model.Category
	if err := json.Unmarshal([]byte(raw), &custom); err != nil {
		return nil, fmt.Errorf("failed to parse custom categories: %w", err)
	}
	if custom == nil {
		custom = []model.Category{}
	}
	return custom, nil
}

// All returns the defaults followed by the custom categories.
func (r *Registry) All(ctx context.Context) []model.Category {
	custom := r.Custom(ctx)
	all := make([]model.Category, 0, len(Defaults)+len(custom))
	all = append(all, Defaults...)
	return append(all, custom...)
}

// AddCustom validates and persists a new custom category. An empty color
// picks a preset not yet in use.
func (r *Registry) AddCustom(ctx context.Context, name, color string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, ErrEmptyName
	}

	custom, err := r.load(ctx)
	if err != nil {
		return model.Category{}, err
	}
	if _, exists := colors.FindCategory(name, Defaults); exists {
		return model.Category{}, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	if _, exists := colors.FindCategory(name, custom); exists {
		return model.Category{}, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	if strings.TrimSpace(color) == "" {
		color = colors.SuggestColor(custom)
	}

	cat := model.Category{
		ID:        r.newID(),
		Name:      name,
		Color:     strings.TrimSpace(color),
		IsDefault: false,
	}

	updated := append(custom, cat)
	data, err := json.Marshal(updated)
	if err != nil {
		return model.Category{}, fmt.Errorf("failed to marshal categories: %w", err)
	}
	if err := r.storage.Set(ctx, r.key, string(data)); err != nil {
		return model.Category{}, fmt.Errorf("failed to save categories: %w", err)
	}

	logging.Info("category", "added custom category %q (%s)", cat.Name, cat.Color)
	return cat, nil
}

func (r *Registry) newID() string {
	return fmt.Sprintf("custom-%d-%s", r.now().UnixMilli(), uuid.NewString()[:5])
}

// Names returns the category names in order, for filters and chart axes.
func Names(categories []model.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}
