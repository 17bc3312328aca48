package tracker_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/zenith/internal/model"
	"github.com/nhle/zenith/internal/tracker"
)

func ptr[T any](v T) *T { return &v }

func TestTasks_SavePromotesDraftAndLogsCreated(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTracker(t)

	saved, err := tr.Tasks.Save(ctx, newTask("p1", "Draft proposal"), alex)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(saved.ID, model.TempIDPrefix))
	assert.False(t, saved.CreatedAt.IsZero())

	feed, err := tr.Logs.Activities(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, model.ActionCreated, feed[0].Action)
	assert.Equal(t, "Draft proposal", feed[0].TargetName)
	assert.Equal(t, alex.ID, feed[0].UserID)
	assert.Equal(t, alex.Name, feed[0].UserName)
}

func TestTasks_ResaveLogsUpdated(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTracker(t)

	saved, err := tr.Tasks.Save(ctx, newTask("p1", "v1"), alex)
	require.NoError(t, err)
	saved.Title = "v2"
	_, err = tr.Tasks.Save(ctx, saved, alex)
	require.NoError(t, err)

	tasks, err := tr.Tasks.List(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "v2", tasks[0].Title)

	feed, err := tr.Logs.Activities(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, model.ActionUpdated, feed[0].Action)
	assert.Equal(t, "v2", feed[0].TargetName)
}

func TestTasks_SaveRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTracker(t)

	tests := []struct {
		name   string
		mutate func(*model.Task)
	}{
		{"blank title", func(t *model.Task) { t.Title = "" }},
		{"unknown status", func(t *model.Task) { t.Status = "Blocked" }},
		{"unknown priority", func(t *model.Task) { t.Priority = "urgent" }},
		{"complexity too high", func(t *model.Task) { t.Complexity = ptr(11) }},
		{"complexity too low", func(t *model.Task) { t.Complexity = ptr(0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := newTask("p1", "ok")
			tt.mutate(&task)
			_, err := tr.Tasks.Save(ctx, task, alex)
			assert.ErrorIs(t, err, tracker.ErrInvalidInput)
		})
	}

	feed, err := tr.Logs.Activities(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestTasks_ProjectIsImmutable(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTracker(t)

	saved, err := tr.Tasks.Save(ctx, newTask("p1", "x"), alex)
	require.NoError(t, err)

	saved.ProjectID = "p2"
	_, err = tr.Tasks.Save(ctx, saved, alex)
	assert.ErrorIs(t, err, tracker.ErrImmutableField)
}

func TestTasks_MoveAnyDirection(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTracker(t)

	saved, err := tr.Tasks.Save(ctx, newTask("p1", "x"), alex)
	require.NoError(t, err)

	for _, status := range []model.TaskStatus{model.StatusDone, model.StatusTodo, model.StatusInProgress} {
		moved, err := tr.Tasks.Move(ctx, saved.ID, status, alex)
		require.NoError(t, err)
		assert.Equal(t, status, moved.Status)
		assert.Equal(t, saved.ID, moved.ID)
	}

	_, err = tr.Tasks.Move(ctx, "missing", model.StatusDone, alex)
	assert.ErrorIs(t, err, tracker.ErrNotFound)
}

func TestTasks_DeleteLogsNothing(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTracker(t)

	saved, err := tr.Tasks.Save(ctx, newTask("p1", "x"), alex)
	require.NoError(t, err)
	require.NoError(t, tr.Tasks.Delete(ctx, saved.ID))
	require.NoError(t, tr.Tasks.Delete(ctx, saved.ID))

	tasks, err := tr.Tasks.List(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	feed, err := tr.Logs.Activities(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}

func TestTasks_BulkUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTracker(t)

	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		saved, err := tr.Tasks.Save(ctx, newTask("p1", title), alex)
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}

	updated, err := tr.Tasks.BulkUpdate(ctx, []string{ids[0], "missing", ids[2]}, tracker.TaskPatch{
		Status:     ptr(model.StatusDone),
		Priority:   ptr(model.PriorityHigh),
		AssigneeID: ptr("2"),
	}, alex)
	require.NoError(t, err)
	require.Len(t, updated, 2)

	tasks, err := tr.Tasks.List(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, tasks[0].Status)
	assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
	assert.True(t, tasks[0].AssignedTo("2"))
	assert.Equal(t, model.StatusTodo, tasks[1].Status)
	assert.Equal(t, model.StatusDone, tasks[2].Status)

	cleared, err := tr.Tasks.BulkUpdate(ctx, ids[:1], tracker.TaskPatch{AssigneeID: ptr("")}, alex)
	require.NoError(t, err)
	assert.Nil(t, cleared[0].AssigneeID)

	require.NoError(t, tr.Tasks.BulkDelete(ctx, ids[:2]))
	tasks, err = tr.Tasks.List(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, ids[2], tasks[0].ID)
}

func TestTasks_SaveStoresCreatedAtInUTC(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTracker(t)

	task := newTask("p1", "Plan launch")
	task.CreatedAt = time.Date(2026, 5, 2, 8, 0, 0, 0, time.FixedZone("JST", 9*60*60))
	task.DueDate = model.NewDate(2026, time.June, 1)

	saved, err := tr.Tasks.Save(ctx, task, alex)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, saved.CreatedAt.Location())

	got, err := tr.Tasks.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, *got)
}
