package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/zenith/internal/model"
)

func task(status model.TaskStatus, priority model.Priority, assignee string) model.Task {
	t := model.Task{Status: status, Priority: priority}
	if assignee != "" {
		t.AssigneeID = &assignee
	}
	return t
}

func TestDashboard(t *testing.T) {
	blocked := true
	tasks := []model.Task{
		task(model.StatusTodo, model.PriorityHigh, ""),
		task(model.StatusInProgress, model.PriorityLow, ""),
		task(model.StatusDone, model.PriorityHigh, ""),
	}
	tasks[1].IsBlocked = &blocked

	got := Dashboard(tasks)
	assert.Equal(t, Summary{
		Total: 3, Todo: 1, InProgress: 1, Done: 1,
		HighPriority: 2, Blocked: 1, Completion: 33,
	}, got)
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0, Progress(nil))

	tasks := []model.Task{
		task(model.StatusDone, model.PriorityLow, ""),
		task(model.StatusDone, model.PriorityLow, ""),
		task(model.StatusTodo, model.PriorityLow, ""),
	}
	assert.Equal(t, 67, Progress(tasks))
}

func TestTeam(t *testing.T) {
	users := []model.User{{ID: "1", Name: "Alex"}, {ID: "2", Name: "Sarah"}, {ID: "3", Name: "Marcus"}}
	project := model.Project{OwnerID: "2", Members: []string{"1"}}

	var tasks []model.Task
	for range 7 {
		tasks = append(tasks, task(model.StatusInProgress, model.PriorityLow, "1"))
	}
	tasks = append(tasks,
		task(model.StatusDone, model.PriorityLow, "1"),
		task(model.StatusTodo, model.PriorityLow, "2"),
		task(model.StatusTodo, model.PriorityLow, "3"),
	)

	team := Team(project, tasks, users)
	require.Len(t, team, 2)

	assert.Equal(t, "1", team[0].User.ID)
	assert.False(t, team[0].Lead)
	assert.Equal(t, 8, team[0].Total)
	assert.Equal(t, 1, team[0].Done)
	assert.Equal(t, 7, team[0].Active)
	assert.Equal(t, 100.0, team[0].Saturation)

	assert.Equal(t, "2", team[1].User.ID)
	assert.True(t, team[1].Lead)
	assert.Equal(t, 1, team[1].Active)
	assert.InDelta(t, 20.0, team[1].Saturation, 1e-9)
}

func TestTeam_IdleMember(t *testing.T) {
	team := Team(model.Project{OwnerID: "1"}, nil, []model.User{{ID: "1"}})
	require.Len(t, team, 1)
	assert.Zero(t, team[0].Saturation)
}

func TestWorkload(t *testing.T) {
	users := []model.User{{ID: "1"}, {ID: "2"}}
	tasks := []model.Task{
		task(model.StatusTodo, model.PriorityLow, "1"),
		task(model.StatusTodo, model.PriorityLow, "1"),
		task(model.StatusTodo, model.PriorityLow, ""),
		task(model.StatusTodo, model.PriorityLow, "2"),
	}

	shares := Workload(tasks, users)
	require.Len(t, shares, 2)
	assert.Equal(t, 2, shares[0].Assigned)
	assert.InDelta(t, 50.0, shares[0].Percent, 1e-9)
	assert.InDelta(t, 25.0, shares[1].Percent, 1e-9)

	assert.Zero(t, Workload(nil, users)[0].Percent)
}
