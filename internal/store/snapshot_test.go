package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/zenith/internal/model"
	"github.com/nhle/zenith/internal/store"
	"github.com/nhle/zenith/tests/testutil"
)

func TestSnapshot_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := testutil.NewTestStore(t)

	_, err := src.Seed(ctx)
	require.NoError(t, err)
	_, err = src.UpsertProject(ctx, model.Project{ID: "p1", Name: "Apollo", OwnerID: "1", Members: []string{"2"}})
	require.NoError(t, err)
	_, err = src.SaveTaskWithActivity(ctx, sampleTask("t1", "p1", "Plan"),
		model.Activity{ID: "a1", ProjectID: "p1", UserID: "1", UserName: "Alex Rivera", TargetName: "Plan"}, 30)
	require.NoError(t, err)
	require.NoError(t, src.AppendComment(ctx, model.Comment{ID: "c1", TaskID: "t1", UserID: "1", Text: "hi"}))
	require.NoError(t, src.SetValue(ctx, store.KeyCurrentUser, `{"id":"1","name":"Alex Rivera","email":"alex@pm.ai","avatar":""}`))

	snap, err := src.Export(ctx)
	require.NoError(t, err)
	assert.Contains(t, snap, store.KeyCurrentUser)
	assert.NotContains(t, snap, store.KeyAuthToken)

	dst := testutil.NewTestStore(t)
	report, err := dst.Import(ctx, snap)
	require.NoError(t, err)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, 3, report.Counts[store.KeyUsers])
	assert.Equal(t, 1, report.Counts[store.KeyTasks])

	again, err := dst.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, again)
}

func TestImport_CorruptBlobsDegrade(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	_, err := s.UpsertTask(ctx, sampleTask("old", "p1", "stale"))
	require.NoError(t, err)

	report, err := s.Import(ctx, store.Snapshot{
		store.KeyUsers:       `[{"id":"1","name":"Alex","email":"alex@pm.ai"}, 42, {"id":"1","name":"dup"}, {"name":"no id"}]`,
		store.KeyTasks:       `{"not":"an array"}`,
		store.KeyCurrentUser: `garbage`,
		store.KeyAuthToken:   `jwt-1-123`,
	})
	require.NoError(t, err)
	assert.Len(t, report.Warnings, 6)
	assert.Equal(t, 1, report.Counts[store.KeyUsers])
	assert.Equal(t, 0, report.Counts[store.KeyTasks])

	users, err := s.GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alex", users[0].Name)

	tasks, err := s.GetTasksByProject(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = s.GetValue(ctx, store.KeyCurrentUser)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestImport_AbsentKeysUntouched(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	_, err := s.UpsertProject(ctx, model.Project{ID: "p1", Name: "Keep", OwnerID: "1"})
	require.NoError(t, err)

	_, err = s.Import(ctx, store.Snapshot{store.KeyUsers: `[]`})
	require.NoError(t, err)

	projects, err := s.GetProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestImport_LegacyTaskBlob(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	report, err := s.Import(ctx, store.Snapshot{
		store.KeyTasks: `[
			{"id":"1717","projectId":"p1","title":"Ship beta","description":"","status":"To Do","priority":"high",
			 "assigneeId":"2","dueDate":"2024-05-01","tags":["release"],"createdAt":"2024-04-20T08:15:00.000Z","isBlocked":false},
			{"id":"1718","projectId":"p1","title":"Write notes","description":"","status":"Done","priority":"low",
			 "dueDate":"","tags":[],"createdAt":"2024-04-21T10:00:00.000Z"},
			{"id":"1719","projectId":"p1","title":"Retro","status":"In Progress","priority":"medium",
			 "dueDate":"2024-06-30T22:00:00-02:00","tags":[],"createdAt":"2024-04-22T10:00:00.000Z"}
		]`,
	})
	require.NoError(t, err)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, 3, report.Counts[store.KeyTasks])

	tasks, err := s.GetTasksByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, model.NewDate(2024, time.May, 1), tasks[0].DueDate)
	assert.True(t, tasks[1].DueDate.IsZero())
	assert.Equal(t, model.NewDate(2024, time.June, 30), tasks[2].DueDate)

	snap, err := s.Export(ctx)
	require.NoError(t, err)
	var exported []map[string]any
	require.NoError(t, json.Unmarshal([]byte(snap[store.KeyTasks]), &exported))
	require.Len(t, exported, 3)
	assert.Equal(t, "2024-05-01", exported[0]["dueDate"])
	assert.NotContains(t, exported[1], "dueDate")
	assert.Equal(t, "2024-06-30", exported[2]["dueDate"])
}

func TestImport_InvalidRecordsSkipped(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	report, err := s.Import(ctx, store.Snapshot{
		store.KeyUsers: `[{"id":"1","name":"Alex","email":"alex@pm.ai"}]`,
		store.KeyProjects: `[
			{"id":"p1","name":"Apollo","ownerId":"1","members":[]},
			{"id":"p2","name":"Doomed","ownerId":"1","members":[],"riskLevel":"doomed"},
			{"id":"p3","name":"","ownerId":"1","members":[]}
		]`,
		store.KeyTasks: `[
			{"id":"t1","projectId":"p1","title":"Valid","status":"To Do","priority":"low","tags":[]},
			{"id":"t2","projectId":"p1","title":"Too hard","status":"To Do","priority":"low","tags":[],"complexity":42},
			{"id":"t3","projectId":"p1","title":"Odd status","status":"Later","priority":"low","tags":[]}
		]`,
	})
	require.NoError(t, err)
	assert.Len(t, report.Warnings, 4)
	assert.Equal(t, 1, report.Counts[store.KeyUsers])
	assert.Equal(t, 1, report.Counts[store.KeyProjects])
	assert.Equal(t, 1, report.Counts[store.KeyTasks])

	users, err := s.GetUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	tasks, err := s.GetTasksByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)
}
