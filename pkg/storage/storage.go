// Package storage defines the key-value port the planner persists through.
package storage

import (
	"context"
	"errors"
)

// Logical keys.
const (
	TasksKey      = "tasks"
	CategoriesKey = "@user_categories_v2"
)

// ErrCorrupt is returned when persisted state cannot be parsed.
var ErrCorrupt = errors.New("corrupt state file")

// Storage holds serialized values by key. Get reports ok=false for absent keys;
// absence is never an error. Set replaces the whole value atomically.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
