package planner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/dayplan/pkg/category"
	"github.com/harrisonrobin/dayplan/pkg/filter"
	"github.com/harrisonrobin/dayplan/pkg/model"
	"github.com/harrisonrobin/dayplan/pkg/storage"
	"github.com/harrisonrobin/dayplan/pkg/store"
)

type flakyStorage struct {
	storage.Storage
	failWrites bool
}

func (f *flakyStorage) Set(ctx context.Context, key, value string) error {
	if f.failWrites {
		return errors.New("quota exceeded")
	}
	return f.Storage.Set(ctx, key, value)
}

func newTestService(t *testing.T) (*Service, *flakyStorage) {
	t.Helper()
	backend := &flakyStorage{Storage: storage.NewMemory()}
	n := 0
	svc := New(store.NewTaskStore(backend), category.NewRegistry(backend),
		WithClock(func() time.Time { return time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("task-%d", n)
		}),
	)
	return svc, backend
}

var march5 = time.Date(2024, time.March, 5, 0, 0, 0, 0, time.Local)

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	task, err := svc.Create(ctx, march5, Payload{Text: "Write report", Category: "Work"}, []string{"slot-9-0", "slot-9-30"})
	require.NoError(t, err)

	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, "2024-03-05", task.Date)
	assert.Equal(t, 1.0, task.TotalTime)
	assert.Equal(t, []string{"9:00 AM", "9:30 AM"}, task.TimeSlots)
	assert.Equal(t, "2024-03-01T12:00:00.000Z", task.Timestamp)
	assert.True(t, task.Consistent())

	all := svc.All(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, task, all[0])
}

func TestCreate_NormalizesInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	task, err := svc.Create(ctx, march5, Payload{Text: "  Standup ", Category: "meeting"},
		[]string{"slot-10-0", "slot-9-30", "slot-10-0"})
	require.NoError(t, err)

	assert.Equal(t, "Standup", task.Task)
	assert.Equal(t, "Meeting", task.Category)
	assert.Equal(t, []string{"slot-9-30", "slot-10-0"}, task.TimeSlotIDs)
	assert.Equal(t, []string{"9:30 AM", "10:00 AM"}, task.TimeSlots)
	assert.Equal(t, 1.0, task.TotalTime)
}

func TestCreate_ConflictRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	a, err := svc.Create(ctx, march5, Payload{Text: "A", Category: "Work"}, []string{"slot-9-0", "slot-9-30"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, march5, Payload{Text: "B", Category: "Personal"}, []string{"slot-9-30", "slot-10-0"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotConflict)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, a.ID, conflict.Task.ID)

	assert.Len(t, svc.All(ctx), 1)
}

func TestCreate_SameSlotOtherDay(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, march5, Payload{Text: "A", Category: "Work"}, []string{"slot-9-0"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, march5.AddDate(0, 0, 1), Payload{Text: "B", Category: "Work"}, []string{"slot-9-0"})
	require.NoError(t, err)
	assert.Len(t, svc.All(ctx), 2)
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name    string
		payload Payload
		slots   []string
		want    error
	}{
		{"empty text", Payload{Text: "  ", Category: "Work"}, []string{"slot-9-0"}, ErrEmptyText},
		{"no category", Payload{Text: "x"}, []string{"slot-9-0"}, ErrNoCategory},
		{"unknown category", Payload{Text: "x", Category: "Nope"}, []string{"slot-9-0"}, ErrUnknownCategory},
		{"no slots", Payload{Text: "x", Category: "Work"}, nil, ErrNoSlots},
		{"bad slot", Payload{Text: "x", Category: "Work"}, []string{"slot-25-0"}, ErrUnknownSlot},
		{"off-grid slot", Payload{Text: "x", Category: "Work"}, []string{"slot-9-15"}, ErrUnknownSlot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, march5, tt.payload, tt.slots)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, svc.All(ctx))
}

func TestCreate_CustomCategory(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t)
	_, err := category.NewRegistry(backend).AddCustom(ctx, "Gym", "#FF6B6B")
	require.NoError(t, err)

	task, err := svc.Create(ctx, march5, Payload{Text: "Legs", Category: "gym"}, []string{"slot-7-0"})
	require.NoError(t, err)
	assert.Equal(t, "Gym", task.Category)

	view := svc.Day(ctx, march5)
	assert.Equal(t, "#FF6B6B", view.Colors["Gym"])
}

func TestCreate_WriteFailure(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t)
	backend.failWrites = true

	task, err := svc.Create(ctx, march5, Payload{Text: "A", Category: "Work"}, []string{"slot-9-0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, model.Task{}, task)

	backend.failWrites = false
	assert.Empty(t, svc.All(ctx))
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	a, err := svc.Create(ctx, march5, Payload{Text: "A", Category: "Work"}, []string{"slot-9-0", "slot-9-30"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, march5, Payload{Text: "B", Category: "Work"}, []string{"slot-11-0"})
	require.NoError(t, err)

	t.Run("own slots are not a conflict", func(t *testing.T) {
		got, err := svc.Update(ctx, a.ID, Payload{Text: "A2", Category: "School"}, []string{"slot-9-30", "slot-10-0", "slot-10-30"})
		require.NoError(t, err)
		assert.Equal(t, "A2", got.Task)
		assert.Equal(t, "School", got.Category)
		assert.Equal(t, 1.5, got.TotalTime)
		assert.Equal(t, a.Timestamp, got.Timestamp)
		assert.Equal(t, a.Date, got.Date)
		assert.True(t, got.Consistent())
	})

	t.Run("empty slots keep existing", func(t *testing.T) {
		got, err := svc.Update(ctx, a.ID, Payload{Text: "A3", Category: "School"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"slot-9-30", "slot-10-0", "slot-10-30"}, got.TimeSlotIDs)
	})

	t.Run("conflict with other task", func(t *testing.T) {
		_, err := svc.Update(ctx, a.ID, Payload{Text: "A4", Category: "Work"}, []string{"slot-11-0"})
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, b.ID, conflict.Task.ID)

		stored, err := svc.Find(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "A3", stored.Task)
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := svc.Update(ctx, "nope", Payload{Text: "x", Category: "Work"}, nil)
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	assert.Len(t, svc.All(ctx), 2)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t)

	a, err := svc.Create(ctx, march5, Payload{Text: "A", Category: "Work"}, []string{"slot-9-0"})
	require.NoError(t, err)

	backend.failWrites = true
	require.Error(t, svc.Delete(ctx, a.ID))
	assert.Len(t, svc.All(ctx), 1)

	backend.failWrites = false
	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.Empty(t, svc.All(ctx))

	assert.ErrorIs(t, svc.Delete(ctx, a.ID), ErrTaskNotFound)
}

func TestDeleteInSlots(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, march5, Payload{Text: "A", Category: "Work"}, []string{"slot-9-0", "slot-9-30"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, march5, Payload{Text: "B", Category: "Work"}, []string{"slot-11-0"})
	require.NoError(t, err)
	other, err := svc.Create(ctx, march5.AddDate(0, 0, 1), Payload{Text: "C", Category: "Work"}, []string{"slot-9-30"})
	require.NoError(t, err)

	removed, err := svc.DeleteInSlots(ctx, march5, []string{"slot-9-30"})
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "A", removed[0].Task)

	removed, err = svc.DeleteInSlots(ctx, march5, []string{"slot-20-0"})
	require.NoError(t, err)
	assert.Empty(t, removed)

	_, err = svc.DeleteInSlots(ctx, march5, nil)
	assert.ErrorIs(t, err, ErrNoSlots)

	all := svc.All(ctx)
	require.Len(t, all, 2)
	_, err = svc.Find(ctx, other.ID)
	assert.NoError(t, err)
}

func TestDayAndTaskForSlot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, march5, Payload{Text: "Late", Category: "Personal"}, []string{"slot-20-0"})
	require.NoError(t, err)
	early, err := svc.Create(ctx, march5, Payload{Text: "Early", Category: "Work"}, []string{"slot-8-0", "slot-8-30"})
	require.NoError(t, err)

	view := svc.Day(ctx, march5)
	assert.Equal(t, "2024-03-05", view.Date)
	assert.Len(t, view.Slots, 48)
	assert.Equal(t, "6:00 AM", view.Slots[0].DisplayText)
	require.Len(t, view.Tasks, 2)
	assert.Equal(t, "Early", view.Tasks[0].Task)
	assert.Equal(t, 1.5, view.Hours)
	assert.Equal(t, "#B00020", view.Colors["Work"])

	occupied := 0
	for _, s := range view.Slots {
		if s.HasTask {
			occupied++
		}
	}
	assert.Equal(t, 3, occupied)

	got, ok := svc.TaskForSlot(ctx, march5, "slot-8-30")
	require.True(t, ok)
	assert.Equal(t, early.ID, got.ID)

	_, ok = svc.TaskForSlot(ctx, march5.AddDate(0, 0, 1), "slot-8-30")
	assert.False(t, ok)
}

func TestWithStartHour(t *testing.T) {
	backend := storage.NewMemory()
	svc := New(store.NewTaskStore(backend), category.NewRegistry(backend), WithStartHour(22))
	slots := svc.Slots()
	assert.Equal(t, "slot-22-0", slots[0].ID)
	assert.Equal(t, "slot-21-30", slots[47].ID)
}

func TestListAndDashboard(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, march5, Payload{Text: "A", Category: "Work"}, []string{"slot-9-0", "slot-9-30"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, march5.AddDate(0, 0, 2), Payload{Text: "B", Category: "Personal"}, []string{"slot-9-0"})
	require.NoError(t, err)

	q := filter.QueryFor(filter.Week, march5)
	assert.Len(t, svc.List(ctx, q, model.AllCategories), 2)
	assert.Len(t, svc.List(ctx, q, "Personal"), 1)

	d := svc.Dashboard(ctx, q, model.AllCategories)
	assert.Equal(t, 2, d.Summary.Tasks)
	assert.Equal(t, 1.5, d.Summary.Hours)
	assert.Equal(t, 2, d.Summary.ActiveDays)
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	existing, err := svc.Create(ctx, march5, Payload{Text: "A", Category: "Work"}, []string{"slot-9-0"})
	require.NoError(t, err)

	result, err := svc.Import(ctx, []model.Task{
		{ID: existing.ID, Task: "Same id", Category: "Work", Date: "Wed Mar 06 2024", TimeSlotIDs: []string{"slot-9-0"}},
		{Task: "Overlap", Category: "Work", Date: "2024-03-05", TimeSlotIDs: []string{"slot-9-0"}},
		{Task: "Ghost category", Category: "Archived", Date: "2024-03-05", TimeSlotIDs: []string{"slot-13-30", "slot-13-0"}},
		{Task: "", Category: "Work", Date: "2024-03-05", TimeSlotIDs: []string{"slot-15-0"}},
		{Task: "Bad date", Category: "Work", Date: "soon", TimeSlotIDs: []string{"slot-15-0"}},
	})
	require.NoError(t, err)

	require.Len(t, result.Added, 2)
	assert.NotEqual(t, existing.ID, result.Added[0].ID)
	assert.Equal(t, "2024-03-06", result.Added[0].Date)
	assert.Equal(t, []string{"slot-13-0", "slot-13-30"}, result.Added[1].TimeSlotIDs)
	assert.Equal(t, 1.0, result.Added[1].TotalTime)
	assert.Equal(t, "Archived", result.Added[1].Category)
	assert.Len(t, result.Skipped, 3)

	assert.Len(t, svc.All(ctx), 3)
}

func TestImport_CanonicalizesCategory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	result, err := svc.Import(ctx, []model.Task{
		{Task: "Lower", Category: "work", Date: "2024-03-05", TimeSlotIDs: []string{"slot-9-0"}},
	})
	require.NoError(t, err)
	require.Len(t, result.Added, 1)
	assert.Equal(t, "Work", result.Added[0].Category)

	d := svc.Dashboard(ctx, filter.QueryFor(filter.Day, march5), model.AllCategories)
	assert.Equal(t, 0.5, d.Summary.Hours)
	require.Len(t, d.Hours, 1)
	assert.Equal(t, "Work", d.Hours[0].Label)
	assert.Equal(t, 0.5, d.Hours[0].Value)
}

func TestWrites_UnreadableStoreUntouched(t *testing.T) {
	ctx := context.Background()
	const stored = `[{"id":"old","task":"Keep me","category":"Work","date":"2024-03-05","timeSlotIds":["slot-9-0"],"totalTime":"0.5"}]`

	writes := map[string]func(svc *Service) error{
		"create": func(svc *Service) error {
			_, err := svc.Create(ctx, march5, Payload{Text: "new", Category: "Work"}, []string{"slot-10-0"})
			return err
		},
		"update": func(svc *Service) error {
			_, err := svc.Update(ctx, "old", Payload{Text: "x", Category: "Work"}, nil)
			return err
		},
		"delete": func(svc *Service) error {
			return svc.Delete(ctx, "old")
		},
		"delete in slots": func(svc *Service) error {
			_, err := svc.DeleteInSlots(ctx, march5, []string{"slot-9-0"})
			return err
		},
		"import": func(svc *Service) error {
			_, err := svc.Import(ctx, []model.Task{{Task: "new", Category: "Work", Date: "2024-03-05", TimeSlotIDs: []string{"slot-11-0"}}})
			return err
		},
	}

	for name, write := range writes {
		t.Run(name, func(t *testing.T) {
			svc, backend := newTestService(t)
			require.NoError(t, backend.Set(ctx, storage.TasksKey, stored))

			err := write(svc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to parse stored tasks")

			raw, ok, err := backend.Get(ctx, storage.TasksKey)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, stored, raw)
		})
	}

	svc, backend := newTestService(t)
	require.NoError(t, backend.Set(ctx, storage.TasksKey, stored))
	assert.Empty(t, svc.All(ctx), "views still degrade to an empty collection")
}

func TestCreate_RegeneratesCollidingID(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	ids := []string{"dup", "dup", "fresh"}
	svc := New(store.NewTaskStore(backend), category.NewRegistry(backend),
		WithIDGenerator(func() string {
			id := ids[0]
			if len(ids) > 1 {
				ids = ids[1:]
			}
			return id
		}),
	)

	a, err := svc.Create(ctx, march5, Payload{Text: "A", Category: "Work"}, []string{"slot-9-0"})
	require.NoError(t, err)
	assert.Equal(t, "dup", a.ID)

	b, err := svc.Create(ctx, march5, Payload{Text: "B", Category: "Work"}, []string{"slot-10-0"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", b.ID)

	stuck := New(store.NewTaskStore(backend), category.NewRegistry(backend),
		WithIDGenerator(func() string { return "dup" }))
	c, err := stuck.Create(ctx, march5, Payload{Text: "C", Category: "Work"}, []string{"slot-11-0"})
	require.NoError(t, err)
	assert.NotEqual(t, "dup", c.ID)
	assert.NotEmpty(t, c.ID)
}
