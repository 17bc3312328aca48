package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nhle/zenith/internal/model"
)

// Fallback replies used when generation fails or returns nothing.
const (
	SubtasksEmpty   = "No suggestions available."
	SubtasksFailed  = "Unable to reach AI assistant."
	HealthEmpty     = "Insight unavailable."
	HealthFailed    = "Health check failed."
	ChatEmpty       = "I'm sorry, I couldn't analyze the project data."
	ChatFailed      = "Connection to AI Coordinator lost."
	coordinatorRole = "You are the AI Project Coordinator for Zenith Hub."
)

// Coordinator turns tracker data into prompts and always returns readable
// text: failures degrade to fixed fallback replies.
type Coordinator struct {
	gen         TextGenerator
	logger      *zap.Logger
	maxMessages int

	mu       sync.Mutex
	sessions map[string]*ConversationContext
}

// NewCoordinator creates a Coordinator. A nil generator makes every call
// return its failure fallback.
func NewCoordinator(gen TextGenerator, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		gen:         gen,
		logger:      logger,
		maxMessages: defaultMaxMessages,
		sessions:    make(map[string]*ConversationContext),
	}
}

// SuggestSubtasks asks for 3-5 checklist items breaking down a task.
func (c *Coordinator) SuggestSubtasks(ctx context.Context, title, description string) string {
	prompt := fmt.Sprintf(
		"Given the task title \"%s\" and description \"%s\", suggest 3 to 5 actionable subtasks "+
			"in a clear checklist format. Keep them concise and professional.",
		title, description)
	return c.generate(ctx, "suggest_subtasks", Text(prompt), SubtasksEmpty, SubtasksFailed)
}

// AnalyzeProjectHealth asks for a health score, a short status and three
// action items for a project.
func (c *Coordinator) AnalyzeProjectHealth(ctx context.Context, projectName string, tasks []model.Task) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Expert PM Analysis for \"%s\":\n", projectName)
	for _, t := range tasks {
		fmt.Fprintf(&sb, "- %s (%s, %s priority)\n", t.Title, t.Status, t.Priority)
	}
	sb.WriteString("\nProvide health score, 2-sentence status, and 3 high-impact action items.")

	return c.generate(ctx, "analyze_health", Text(sb.String()), HealthEmpty, HealthFailed)
}

// Chat answers a question about a project. Successful exchanges are kept
// in a per-project transcript and replayed on the next question.
func (c *Coordinator) Chat(
	ctx context.Context,
	project model.Project,
	tasks []model.Task,
	users []model.User,
	question string,
) string {
	transcript := c.transcript(project.ID)

	prompt := Prompt{
		System: coordinatorRole + "\nContext:\n" + ProjectContext(project, tasks, users) +
			"\nAnswer professionally, concisely, and specifically based on the project data.",
		Messages: append(transcript.GetMessages(),
			Message{Role: RoleUser, Content: "User Question: " + question}),
	}

	answer, ok := c.try(ctx, "coordinator_chat", prompt)
	switch {
	case !ok:
		return ChatFailed
	case answer == "":
		return ChatEmpty
	}
	transcript.AddExchange("User Question: "+question, answer)
	return answer
}

// ResetChat forgets the transcript of a project.
func (c *Coordinator) ResetChat(projectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, projectID)
}

// History returns the chat transcript of a project.
func (c *Coordinator) History(projectID string) []Message {
	return c.transcript(projectID).GetMessages()
}

func (c *Coordinator) transcript(projectID string) *ConversationContext {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.sessions[projectID]
	if !ok {
		t = NewConversationContext(c.maxMessages)
		c.sessions[projectID] = t
	}
	return t
}

// ProjectContext renders the project, its people and its tasks for the
// coordinator prompt.
func ProjectContext(project model.Project, tasks []model.Task, users []model.User) string {
	names := make([]string, 0, len(users))
	byID := make(map[string]string, len(users))
	for _, u := range users {
		names = append(names, u.Name)
		byID[u.ID] = u.Name
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Project: %s\n", project.Name)
	fmt.Fprintf(&sb, "Users: %s\n", strings.Join(names, ", "))
	sb.WriteString("Tasks:\n")
	for _, t := range tasks {
		assignee := "Unassigned"
		if t.AssigneeID != nil {
			if name, ok := byID[*t.AssigneeID]; ok {
				assignee = name
			}
		}
		fmt.Fprintf(&sb, "%s [Status: %s, Assigned to: %s]\n", t.Title, t.Status, assignee)
	}
	return sb.String()
}

func (c *Coordinator) generate(ctx context.Context, op string, prompt Prompt, empty, failed string) string {
	answer, ok := c.try(ctx, op, prompt)
	switch {
	case !ok:
		return failed
	case answer == "":
		return empty
	}
	return answer
}

// try reports ok=false when there is no generator or it failed.
func (c *Coordinator) try(ctx context.Context, op string, prompt Prompt) (string, bool) {
	if c.gen == nil {
		c.logger.Debug("no text generator configured", zap.String("op", op))
		return "", false
	}
	answer, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("text generation failed", zap.String("op", op), zap.Error(err))
		return "", false
	}
	return strings.TrimSpace(answer), true
}
