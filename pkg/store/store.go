// Package store adapts a storage.Storage into whole-collection task reads and writes.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harrisonrobin/dayplan/pkg/logging"
	"github.com/harrisonrobin/dayplan/pkg/model"
	"github.com/harrisonrobin/dayplan/pkg/storage"
)

// TaskStore owns the persisted task collection. There is no partial update:
// callers load everything, compute the new collection and save it back.
type TaskStore struct {
	storage storage.Storage
	key     string
}

func NewTaskStore(s storage.Storage) *TaskStore {
	return &TaskStore{storage: s, key: storage.TasksKey}
}

// Load returns every stored task. An absent key is an empty collection;
// read and parse failures are returned so callers never save over data they
// could not read.
func (s *TaskStore) Load(ctx context.Context) ([]model.Task, error) {
	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if !ok || raw == "" {
		return []model.Task{}, nil
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse stored tasks: %w", err)
	}
	return normalize(tasks), nil
}

// LoadAll is Load for read-only views: failures are logged and treated as an
// empty collection.
func (s *TaskStore) LoadAll(ctx context.Context) []model.Task {
	tasks, err := s.Load(ctx)
	if err != nil {
		logging.Warn("store", "%v", err)
		return []model.Task{}
	}
	return tasks
}

// SaveAll replaces the stored collection with tasks.
func (s *TaskStore) SaveAll(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	logging.Debug("store", "saved %d tasks", len(tasks))
	return nil
}

func normalize(tasks []model.Task) []model.Task {
	if tasks == nil {
		return []model.Task{}
	}
	for i := range tasks {
		if tasks[i].TimeSlotIDs == nil {
			tasks[i].TimeSlotIDs = []string{}
		}
		if tasks[i].TimeSlots == nil {
			tasks[i].TimeSlots = []string{}
		}
	}
	return tasks
}
