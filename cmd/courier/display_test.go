package main

import (
	"strings"
	"testing"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/stretchr/testify/assert"
)

func TestPrintTask(t *testing.T) {
	task := &a2a.Task{
		ID:        "task-1",
		ContextID: "ctx-1",
		Status: a2a.TaskStatus{
			State:   a2a.TaskStateCompleted,
			Message: a2a.NewMessage(a2a.MessageRoleAgent, a2a.TextPart{Text: "all done"}),
		},
		History: []*a2a.Message{
			a2a.NewMessage(a2a.MessageRoleUser, a2a.TextPart{Text: "hi"}),
			a2a.NewMessage(a2a.MessageRoleAgent, a2a.TextPart{Text: "hello"}),
		},
		Artifacts: []*a2a.Artifact{
			{ID: "a1", Parts: []a2a.Part{a2a.TextPart{Text: "Hello, world!"}}},
		},
		Metadata: map[string]any{"source": "test"},
	}

	var sb strings.Builder
	printTask(&sb, task)
	out := sb.String()

	assert.Contains(t, out, "Task ID:    task-1")
	assert.Contains(t, out, "Context ID: ctx-1")
	assert.Contains(t, out, "State:      completed")
	assert.Contains(t, out, "Message:    all done")
	assert.Contains(t, out, "[user] hi")
	assert.Contains(t, out, "[agent] hello")
	assert.Contains(t, out, "- a1: Hello, world!")
	assert.Contains(t, out, "source: test")
}

func TestPrintTaskMinimal(t *testing.T) {
	task := &a2a.Task{
		ID:     "task-2",
		Status: a2a.TaskStatus{State: a2a.TaskStateWorking},
	}

	var sb strings.Builder
	printTask(&sb, task)
	out := sb.String()

	assert.Contains(t, out, "Task ID:    task-2")
	assert.Contains(t, out, "State:      working")
	assert.NotContains(t, out, "History:")
	assert.NotContains(t, out, "Artifacts:")
	assert.NotContains(t, out, "Metadata:")
}

func TestPartsText(t *testing.T) {
	parts := []a2a.Part{
		a2a.TextPart{Text: "one "},
		a2a.DataPart{Data: map[string]any{"k": "v"}},
		a2a.TextPart{Text: "two"},
	}
	assert.Equal(t, "one two", partsText(parts))
}
