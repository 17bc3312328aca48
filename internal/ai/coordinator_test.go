package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/zenith/internal/model"
)

var (
	project = model.Project{ID: "p1", Name: "Apollo"}
	users   = []model.User{{ID: "1", Name: "Alex Rivera"}, {ID: "2", Name: "Sarah Chen"}}
)

func sampleTasks() []model.Task {
	assignee := "2"
	return []model.Task{
		{Title: "Design", Status: model.StatusDone, Priority: model.PriorityHigh, AssigneeID: &assignee},
		{Title: "Build", Status: model.StatusTodo, Priority: model.PriorityLow},
	}
}

func TestSuggestSubtasks(t *testing.T) {
	gen := NewStaticGenerator("- [ ] one\n- [ ] two")
	c := NewCoordinator(gen, nil)

	out := c.SuggestSubtasks(context.Background(), "Launch", "Ship v1")
	assert.Equal(t, "- [ ] one\n- [ ] two", out)

	prompts := gen.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0].Messages[0].Content, `Given the task title "Launch" and description "Ship v1"`)
}

func TestFallbacks(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		gen    TextGenerator
		call   func(*Coordinator) string
		expect string
	}{
		{"subtasks empty", NewStaticGenerator("  "), func(c *Coordinator) string { return c.SuggestSubtasks(ctx, "a", "b") }, SubtasksEmpty},
		{"subtasks error", FailingGenerator(errors.New("boom")), func(c *Coordinator) string { return c.SuggestSubtasks(ctx, "a", "b") }, SubtasksFailed},
		{"subtasks nil", nil, func(c *Coordinator) string { return c.SuggestSubtasks(ctx, "a", "b") }, SubtasksFailed},
		{"health empty", NewStaticGenerator(""), func(c *Coordinator) string { return c.AnalyzeProjectHealth(ctx, "P", nil) }, HealthEmpty},
		{"health error", FailingGenerator(errors.New("boom")), func(c *Coordinator) string { return c.AnalyzeProjectHealth(ctx, "P", nil) }, HealthFailed},
		{"chat empty", NewStaticGenerator(""), func(c *Coordinator) string { return c.Chat(ctx, project, nil, users, "q") }, ChatEmpty},
		{"chat error", FailingGenerator(errors.New("boom")), func(c *Coordinator) string { return c.Chat(ctx, project, nil, users, "q") }, ChatFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.call(NewCoordinator(tt.gen, nil)))
		})
	}
}

func TestAnalyzeProjectHealth_Prompt(t *testing.T) {
	gen := NewStaticGenerator("Score: 80")
	c := NewCoordinator(gen, nil)

	assert.Equal(t, "Score: 80", c.AnalyzeProjectHealth(context.Background(), "Apollo", sampleTasks()))

	text := gen.Prompts()[0].Messages[0].Content
	assert.Contains(t, text, `Expert PM Analysis for "Apollo"`)
	assert.Contains(t, text, "- Design (Done, high priority)")
	assert.Contains(t, text, "- Build (To Do, low priority)")
	assert.Contains(t, text, "3 high-impact action items")
}

func TestProjectContext(t *testing.T) {
	out := ProjectContext(project, sampleTasks(), users)
	assert.Contains(t, out, "Project: Apollo")
	assert.Contains(t, out, "Users: Alex Rivera, Sarah Chen")
	assert.Contains(t, out, "Design [Status: Done, Assigned to: Sarah Chen]")
	assert.Contains(t, out, "Build [Status: To Do, Assigned to: Unassigned]")
}

func TestChat_KeepsTranscriptPerProject(t *testing.T) {
	ctx := context.Background()
	gen := NewStaticGenerator("first answer", "second answer")
	c := NewCoordinator(gen, nil)

	assert.Equal(t, "first answer", c.Chat(ctx, project, sampleTasks(), users, "Who is overloaded?"))
	assert.Equal(t, "second answer", c.Chat(ctx, project, sampleTasks(), users, "And now?"))

	prompts := gen.Prompts()
	require.Len(t, prompts, 2)
	assert.Contains(t, prompts[1].System, "AI Project Coordinator for Zenith Hub")
	require.Len(t, prompts[1].Messages, 3)
	assert.Equal(t, RoleAssistant, prompts[1].Messages[1].Role)
	assert.Equal(t, "first answer", prompts[1].Messages[1].Content)

	assert.Len(t, c.History("p1"), 4)
	assert.Empty(t, c.History("other"))

	c.ResetChat("p1")
	assert.Empty(t, c.History("p1"))
}

func TestChat_ConcurrentCallsKeepPairs(t *testing.T) {
	ctx := context.Background()
	c := NewCoordinator(NewStaticGenerator("answer"), nil)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Chat(ctx, project, sampleTasks(), users, fmt.Sprintf("question %d", i))
		}()
	}
	wg.Wait()

	history := c.History("p1")
	require.Len(t, history, 16)
	for i, m := range history {
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		assert.Equal(t, want, m.Role, "message %d", i)
	}
}

func TestChat_FailureLeavesTranscript(t *testing.T) {
	c := NewCoordinator(FailingGenerator(errors.New("down")), nil)
	c.Chat(context.Background(), project, nil, users, "q")
	assert.Empty(t, c.History("p1"))
}

func TestConversationContext_TrimKeepsAlternation(t *testing.T) {
	cc := NewConversationContext(6)
	for i := range 5 {
		cc.AddExchange(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	msgs := cc.GetMessages()
	require.Len(t, msgs, 6)
	assert.Equal(t, "q0", msgs[0].Content)
	assert.Equal(t, "a0", msgs[1].Content)
	assert.Equal(t, "q3", msgs[2].Content)
	assert.Equal(t, "a4", msgs[5].Content)
	for i, m := range msgs {
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		assert.Equal(t, want, m.Role)
	}

	cc.Reset()
	assert.Zero(t, cc.Len())
}
