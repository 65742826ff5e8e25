// Package planner applies task mutations as whole-collection read-modify-write
// cycles against the task store.
//
// There is no locking: the service assumes a single writer. Two processes
// mutating the same state concurrently can lose each other's writes.
package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harrisonrobin/dayplan/pkg/analytics"
	"github.com/harrisonrobin/dayplan/pkg/binder"
	"github.com/harrisonrobin/dayplan/pkg/category"
	"github.com/harrisonrobin/dayplan/pkg/colors"
	"github.com/harrisonrobin/dayplan/pkg/filter"
	"github.com/harrisonrobin/dayplan/pkg/logging"
	"github.com/harrisonrobin/dayplan/pkg/model"
	"github.com/harrisonrobin/dayplan/pkg/store"
	"github.com/harrisonrobin/dayplan/pkg/timegrid"
	"github.com/harrisonrobin/dayplan/pkg/util"
)

// timestampLayout matches the ISO form written by existing task data.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Payload is the user-editable part of a task.
type Payload struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

type Service struct {
	tasks      *store.TaskStore
	categories *category.Registry

	slots     []timegrid.Slot
	slotIndex map[string]int
	theme     colors.Theme
	dark      bool

	now   func() time.Time
	newID func() string
}

type Option func(*Service)

// WithStartHour lays the day out from the given hour instead of timegrid.DefaultStartHour.
func WithStartHour(hour int) Option {
	return func(s *Service) {
		s.slots = timegrid.Generate(hour)
	}
}

func WithTheme(theme colors.Theme, dark bool) Option {
	return func(s *Service) {
		s.theme = theme
		s.dark = dark
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

func New(tasks *store.TaskStore, categories *category.Registry, opts ...Option) *Service {
	s := &Service{
		tasks:      tasks,
		categories: categories,
		slots:      timegrid.GenerateTimeSlots(),
		theme:      colors.DefaultTheme(),
		now:        time.Now,
		newID:      newTaskID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.slotIndex = timegrid.Index(s.slots)
	return s
}

// maxIDAttempts bounds retries of an injected generator that keeps colliding.
const maxIDAttempts = 8

// uniqueID returns an id not in taken, falling back to a random UUID.
func (s *Service) uniqueID(taken map[string]bool) string {
	for i := 0; i < maxIDAttempts; i++ {
		if id := s.newID(); id != "" && !taken[id] {
			return id
		}
	}
	for {
		if id := uuid.NewString(); !taken[id] {
			return id
		}
	}
}

func taskIDs(tasks []model.Task) map[string]bool {
	ids := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		ids[t.ID] = true
	}
	return ids
}

func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Slots returns the day template in display order.
func (s *Service) Slots() []timegrid.Slot {
	return append([]timegrid.Slot{}, s.slots...)
}

// Create validates and stores a new task on day.
func (s *Service) Create(ctx context.Context, day time.Time, p Payload, slotIDs []string) (model.Task, error) {
	p, err := s.validatePayload(ctx, p)
	if err != nil {
		return model.Task{}, err
	}
	if len(slotIDs) == 0 {
		return model.Task{}, ErrNoSlots
	}
	ids, err := s.normalizeSlots(slotIDs)
	if err != nil {
		return model.Task{}, err
	}

	all, err := s.tasks.Load(ctx)
	if err != nil {
		return model.Task{}, err
	}
	if conflict, ok := binder.FindConflict(ids, binder.TasksForDate(all, day), ""); ok {
		return model.Task{}, &ConflictError{Task: *conflict}
	}

	task := model.Task{
		ID:        s.uniqueID(taskIDs(all)),
		Task:      p.Text,
		Category:  p.Category,
		Date:      util.FormatDateKey(day),
		Timestamp: s.now().UTC().Format(timestampLayout),
	}
	s.setSlots(&task, ids)

	if err := s.tasks.SaveAll(ctx, append(all, task)); err != nil {
		return model.Task{}, err
	}
	logging.Info("planner", "created task %s on %s (%s)", task.ID, task.Date, strings.Join(task.TimeSlots, ", "))
	return task, nil
}

// Update replaces the text, category and slots of task id. Empty slotIDs keep
// the current slots.
func (s *Service) Update(ctx context.Context, id string, p Payload, slotIDs []string) (model.Task, error) {
	p, err := s.validatePayload(ctx, p)
	if err != nil {
		return model.Task{}, err
	}

	all, err := s.tasks.Load(ctx)
	if err != nil {
		return model.Task{}, err
	}
	pos := indexOf(all, id)
	if pos < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	if len(slotIDs) == 0 {
		slotIDs = all[pos].TimeSlotIDs
	}
	if len(slotIDs) == 0 {
		return model.Task{}, ErrNoSlots
	}
	ids, err := s.normalizeSlots(slotIDs)
	if err != nil {
		return model.Task{}, err
	}

	day, err := util.ParseDateKey(all[pos].Date, time.Local)
	if err != nil {
		return model.Task{}, fmt.Errorf("task %s has unusable date %q: %w", id, all[pos].Date, err)
	}
	if conflict, ok := binder.FindConflict(ids, binder.TasksForDate(all, day), id); ok {
		return model.Task{}, &ConflictError{Task: *conflict}
	}

	updated := all[pos]
	updated.Task = p.Text
	updated.Category = p.Category
	s.setSlots(&updated, ids)

	next := append([]model.Task{}, all...)
	next[pos] = updated
	if err := s.tasks.SaveAll(ctx, next); err != nil {
		return model.Task{}, err
	}
	logging.Info("planner", "updated task %s", id)
	return updated, nil
}

// Delete removes task id.
func (s *Service) Delete(ctx context.Context, id string) error {
	all, err := s.tasks.Load(ctx)
	if err != nil {
		return err
	}
	pos := indexOf(all, id)
	if pos < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	next := make([]model.Task, 0, len(all)-1)
	next = append(next, all[:pos]...)
	next = append(next, all[pos+1:]...)
	if err := s.tasks.SaveAll(ctx, next); err != nil {
		return err
	}
	logging.Info("planner", "deleted task %s", id)
	return nil
}

// DeleteInSlots removes every task on day that occupies any of slotIDs and
// returns the removed tasks. Nothing is written when nothing matches.
func (s *Service) DeleteInSlots(ctx context.Context, day time.Time, slotIDs []string) ([]model.Task, error) {
	if len(slotIDs) == 0 {
		return nil, ErrNoSlots
	}

	all, err := s.tasks.Load(ctx)
	if err != nil {
		return nil, err
	}
	doomed := binder.TasksCoveringAny(binder.TasksForDate(all, day), slotIDs)
	if len(doomed) == 0 {
		return nil, nil
	}

	drop := make(map[string]bool, len(doomed))
	for _, t := range doomed {
		drop[t.ID] = true
	}
	next := make([]model.Task, 0, len(all))
	for _, t := range all {
		if !drop[t.ID] {
			next = append(next, t)
		}
	}
	if err := s.tasks.SaveAll(ctx, next); err != nil {
		return nil, err
	}
	logging.Info("planner", "deleted %d tasks on %s", len(doomed), util.FormatDateKey(day))
	return doomed, nil
}

// DayView is one day laid over the slot template.
type DayView struct {
	Date   string             `json:"date"`
	Slots  []binder.BoundSlot `json:"slots"`
	Tasks  []model.Task       `json:"tasks"`
	Colors map[string]string  `json:"colors"`
	Hours  float64            `json:"hours"`
}

// Day returns the bound slot view of day.
func (s *Service) Day(ctx context.Context, day time.Time) DayView {
	tasks := binder.TasksForDate(s.tasks.LoadAll(ctx), day)
	filter.Sort(tasks)

	all := s.categories.All(ctx)
	palette := make(map[string]string)
	for _, t := range tasks {
		if _, ok := palette[t.Category]; !ok {
			palette[t.Category] = colors.ResolveCategoryColor(t.Category, all, s.theme, s.dark)
		}
	}

	return DayView{
		Date:   util.FormatDateKey(day),
		Slots:  binder.BindTasksToSlots(s.slots, tasks),
		Tasks:  tasks,
		Colors: palette,
		Hours:  analytics.TotalHours(tasks),
	}
}

// TaskForSlot returns the task occupying slotID on day.
func (s *Service) TaskForSlot(ctx context.Context, day time.Time, slotID string) (model.Task, bool) {
	task, ok := binder.FindTaskCoveringSlot(binder.TasksForDate(s.tasks.LoadAll(ctx), day), slotID)
	if !ok {
		return model.Task{}, false
	}
	return *task, true
}

// Find returns task id.
func (s *Service) Find(ctx context.Context, id string) (model.Task, error) {
	all := s.tasks.LoadAll(ctx)
	if pos := indexOf(all, id); pos >= 0 {
		return all[pos], nil
	}
	return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// List returns the tasks matching q and category, sorted.
func (s *Service) List(ctx context.Context, q filter.Query, category string) []model.Task {
	return filter.Apply(s.tasks.LoadAll(ctx), q, category)
}

// Dashboard computes the analytics view for q and category.
func (s *Service) Dashboard(ctx context.Context, q filter.Query, category string) analytics.Dashboard {
	return analytics.BuildDashboard(s.tasks.LoadAll(ctx), q, category, s.categories.All(ctx), s.theme, s.dark)
}

// All returns the full stored collection.
func (s *Service) All(ctx context.Context) []model.Task {
	return s.tasks.LoadAll(ctx)
}

// ImportResult reports what Import did with each incoming task.
type ImportResult struct {
	Added   []model.Task `json:"added"`
	Skipped []Skipped    `json:"skipped"`
}

type Skipped struct {
	Task   model.Task `json:"task"`
	Reason string     `json:"reason"`
}

// Import merges tasks into the store in a single write. Derived fields are
// recomputed, ids are reissued on collision, and tasks that are invalid or
// overlap an existing task are skipped. Known category names are
// canonicalized; unknown ones are kept.
func (s *Service) Import(ctx context.Context, incoming []model.Task) (ImportResult, error) {
	all, err := s.tasks.Load(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	seen := taskIDs(all)
	categories := s.categories.All(ctx)

	var result ImportResult
	skip := func(t model.Task, err error) {
		result.Skipped = append(result.Skipped, Skipped{Task: t, Reason: err.Error()})
		logging.Debug("planner", "skipping imported task %q: %v", t.Task, err)
	}

	for _, t := range incoming {
		t.Task = strings.TrimSpace(t.Task)
		t.Category = strings.TrimSpace(t.Category)
		if t.Task == "" {
			skip(t, ErrEmptyText)
			continue
		}
		if t.Category == "" {
			skip(t, ErrNoCategory)
			continue
		}
		if cat, ok := colors.FindCategory(t.Category, categories); ok {
			t.Category = cat.Name
		}
		if len(t.TimeSlotIDs) == 0 {
			skip(t, ErrNoSlots)
			continue
		}
		day, err := util.ParseDateKey(t.Date, time.Local)
		if err != nil {
			skip(t, err)
			continue
		}
		ids, err := s.normalizeSlots(t.TimeSlotIDs)
		if err != nil {
			skip(t, err)
			continue
		}
		if conflict, ok := binder.FindConflict(ids, binder.TasksForDate(all, day), ""); ok {
			skip(t, &ConflictError{Task: *conflict})
			continue
		}

		if t.ID == "" || seen[t.ID] {
			t.ID = s.uniqueID(seen)
		}
		if t.Timestamp == "" {
			t.Timestamp = s.now().UTC().Format(timestampLayout)
		}
		t.Date = util.FormatDateKey(day)
		s.setSlots(&t, ids)

		seen[t.ID] = true
		all = append(all, t)
		result.Added = append(result.Added, t)
	}

	if len(result.Added) == 0 {
		return result, nil
	}
	if err := s.tasks.SaveAll(ctx, all); err != nil {
		return ImportResult{}, err
	}
	logging.Info("planner", "imported %d tasks, skipped %d", len(result.Added), len(result.Skipped))
	return result, nil
}

// validatePayload trims the payload and canonicalizes the category name.
func (s *Service) validatePayload(ctx context.Context, p Payload) (Payload, error) {
	p.Text = strings.TrimSpace(p.Text)
	p.Category = strings.TrimSpace(p.Category)
	if p.Text == "" {
		return p, ErrEmptyText
	}
	if p.Category == "" {
		return p, ErrNoCategory
	}
	cat, ok := colors.FindCategory(p.Category, s.categories.All(ctx))
	if !ok {
		return p, fmt.Errorf("%w: %s", ErrUnknownCategory, p.Category)
	}
	p.Category = cat.Name
	return p, nil
}

// normalizeSlots drops duplicates and orders ids as the template does.
func (s *Service) normalizeSlots(slotIDs []string) ([]string, error) {
	seen := make(map[string]bool, len(slotIDs))
	ids := make([]string, 0, len(slotIDs))
	for _, id := range slotIDs {
		id = strings.TrimSpace(id)
		if _, ok := s.slotIndex[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return s.slotIndex[ids[i]] < s.slotIndex[ids[j]]
	})
	return ids, nil
}

func (s *Service) setSlots(t *model.Task, ids []string) {
	t.TimeSlotIDs = ids
	t.TimeSlots = make([]string, len(ids))
	for i, id := range ids {
		t.TimeSlots[i] = s.slots[s.slotIndex[id]].DisplayText
	}
	t.TotalTime = model.HoursForSlots(len(ids))
}

func indexOf(tasks []model.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
