package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/byebyeanxiety/internal/agent"
	"github.com/HendryAvila/byebyeanxiety/internal/planner"
	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// ─── TaskCreateTool ──────────────────────────────────────────────────────────

// TaskCreateTool handles the task_create MCP tool.
type TaskCreateTool struct {
	planner *planner.Planner
}

// NewTaskCreateTool creates a TaskCreateTool.
func NewTaskCreateTool(p *planner.Planner) *TaskCreateTool {
	return &TaskCreateTool{planner: p}
}

// Definition returns the MCP tool definition for task_create.
func (t *TaskCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("task_create",
		mcp.WithDescription(
			"Create a task. Ask the user when it needs to be done to pick the category. "+
				"Without a due date, future_date tasks are due tomorrow and everything else today.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("description",
			mcp.Description("Optional details"),
		),
		mcp.WithString("category",
			mcp.Description("today_must (urgent), future_date (scheduled), long_term (habits/goals), someday_maybe (ideas/wishes)"),
			mcp.DefaultString(store.CategoryTodayMust),
			mcp.Enum(store.Categories()...),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date (YYYY-MM-DD)"),
		),
		mcp.WithString("start_date",
			mcp.Description("When to start working on it (YYYY-MM-DD)"),
		),
	)
}

// Handle processes the task_create tool call.
func (t *TaskCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, msg, err := t.planner.CreateTask(planner.TaskInput{
		Title:       req.GetString("title", ""),
		Description: req.GetString("description", ""),
		Category:    req.GetString("category", ""),
		DueDate:     req.GetString("due_date", ""),
		StartDate:   req.GetString("start_date", ""),
	})
	if err != nil {
		return failure("create task", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\nID: %s", msg, task.ID)), nil
}

// ─── TaskCompleteTool ────────────────────────────────────────────────────────

// TaskCompleteTool handles the task_complete MCP tool.
type TaskCompleteTool struct {
	planner *planner.Planner
	ak      *agent.AnxietyKiller
}

// NewTaskCompleteTool creates a TaskCompleteTool.
func NewTaskCompleteTool(p *planner.Planner, ak *agent.AnxietyKiller) *TaskCompleteTool {
	return &TaskCompleteTool{planner: p, ak: ak}
}

// Definition returns the MCP tool definition for task_complete.
func (t *TaskCompleteTool) Definition() mcp.Tool {
	return mcp.NewTool("task_complete",
		mcp.WithDescription(
			"Mark a task done (or not done). Replies with a short celebration, "+
				"and a bigger one when it finishes a whole todo list.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task id"),
		),
		mcp.WithBoolean("completed",
			mcp.Description("false to reopen the task (default: true)"),
		),
	)
}

// Handle processes the task_complete tool call.
func (t *TaskCompleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}
	completed := boolArg(req, "completed", true)

	c, err := t.planner.SetCompleted(id, completed)
	if err != nil {
		return failure("update task "+id, err), nil
	}
	if !c.Changed {
		state := "incomplete"
		if completed {
			state = "complete"
		}
		return mcp.NewToolResultText(fmt.Sprintf("'%s' is already %s.", c.Task.Title, state)), nil
	}

	var b strings.Builder
	if completed {
		b.WriteString(t.ak.Celebrate(ctx, c.Task.Title))
		if c.FinishedList != nil {
			b.WriteString("\n\n")
			b.WriteString(t.ak.CelebrateList(ctx, c.FinishedList.Name, c.FinishedTitles))
		}
	} else {
		b.WriteString(t.ak.Encourage(ctx, c.Task.Title))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ─── TodoListCreateTool ──────────────────────────────────────────────────────

// TodoListCreateTool handles the todolist_create MCP tool.
type TodoListCreateTool struct {
	planner *planner.Planner
}

// NewTodoListCreateTool creates a TodoListCreateTool.
func NewTodoListCreateTool(p *planner.Planner) *TodoListCreateTool {
	return &TodoListCreateTool{planner: p}
}

// Definition returns the MCP tool definition for todolist_create.
func (t *TodoListCreateTool) Definition() mcp.Tool {
	return mcp.NewTool("todolist_create",
		mcp.WithDescription("Create a todo list to organize related tasks into a project. Each task is added to today's must-do list."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("List name"),
		),
		mcp.WithString("description",
			mcp.Description("What the list is for"),
		),
		mcp.WithString("tasks",
			mcp.Description("Task titles, one per line"),
		),
	)
}

// Handle processes the todolist_create tool call.
func (t *TodoListCreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	l, msg, err := t.planner.CreateTodoList(req.GetString("name", ""), req.GetString("description", ""), linesArg(req, "tasks"))
	if err != nil {
		return failure("create todo list", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\nID: %s", msg, l.ID)), nil
}

// ─── TaskBreakdownTool ───────────────────────────────────────────────────────

// TaskBreakdownTool handles the task_breakdown MCP tool.
type TaskBreakdownTool struct {
	planner *planner.Planner
	store   *store.Store
	ak      *agent.AnxietyKiller
}

// NewTaskBreakdownTool creates a TaskBreakdownTool.
func NewTaskBreakdownTool(p *planner.Planner, s *store.Store, ak *agent.AnxietyKiller) *TaskBreakdownTool {
	return &TaskBreakdownTool{planner: p, store: s, ak: ak}
}

// Definition returns the MCP tool definition for task_breakdown.
func (t *TaskBreakdownTool) Definition() mcp.Tool {
	return mcp.NewTool("task_breakdown",
		mcp.WithDescription(
			"Break an overwhelming task into a todo list of small numbered steps. "+
				"Give the steps yourself, or leave them out and Anxiety Killer suggests 3-5.",
		),
		mcp.WithString("task_id",
			mcp.Description("Existing task to break down"),
		),
		mcp.WithString("title",
			mcp.Description("Task title, when there is no task_id"),
		),
		mcp.WithString("description",
			mcp.Description("Task details, used when suggesting steps"),
		),
		mcp.WithString("subtasks",
			mcp.Description("Steps, one per line"),
		),
	)
}

// Handle processes the task_breakdown tool call.
func (t *TaskBreakdownTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	description := req.GetString("description", "")
	if id := req.GetString("task_id", ""); id != "" {
		task, err := t.store.GetTask(id)
		if err != nil {
			return failure("load task "+id, err), nil
		}
		title = task.Title
		if description == "" {
			description = task.Description
		}
	}
	if strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("'task_id' or 'title' is required"), nil
	}

	steps := linesArg(req, "subtasks")
	if len(steps) == 0 {
		suggested, err := t.ak.SuggestBreakdown(ctx, title, description)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to suggest steps: %v", err)), nil
		}
		steps = suggested
	}
	if len(steps) == 0 {
		return mcp.NewToolResultError("I'd be happy to help break down tasks, but I need the subtasks list to work with."), nil
	}

	l, msg, err := t.planner.BreakDown(title, steps)
	if err != nil {
		return failure("break down task", err), nil
	}

	var b strings.Builder
	b.WriteString(msg)
	b.WriteString("\n\n")
	for i, s := range steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	fmt.Fprintf(&b, "\nList ID: %s", l.ID)
	return mcp.NewToolResultText(b.String()), nil
}
