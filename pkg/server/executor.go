// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server implements the reference A2A agent server.
//
// The Executor bridges a Responder function to the a2asrv.AgentExecutor
// interface, streaming the reply as chunked artifact events:
//   - New task: TaskStatusUpdateEvent with TaskStateSubmitted
//   - Before responding: TaskStatusUpdateEvent with TaskStateWorking
//   - Reply chunks: one TaskArtifactUpdateEvent per chunk, appending
//   - Artifact close: TaskArtifactUpdateEvent with LastChunk=true
//   - On success: final TaskStatusUpdateEvent with TaskStateCompleted
//   - On responder error: final TaskStatusUpdateEvent with TaskStateFailed
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2asrv"
	"github.com/a2aproject/a2a-go/a2asrv/eventqueue"
)

// Responder produces the reply text for an incoming user message.
type Responder func(ctx context.Context, input string) (string, error)

// Greeter returns a Responder that always answers with greeting,
// ignoring the input.
func Greeter(greeting string) Responder {
	return func(ctx context.Context, input string) (string, error) {
		return greeting, nil
	}
}

// Echo is a Responder that repeats the user's text.
func Echo(ctx context.Context, input string) (string, error) {
	return input, nil
}

// Executor implements a2asrv.AgentExecutor over a Responder.
type Executor struct {
	respond   Responder
	chunkSize int
}

// NewExecutor creates an executor. chunkSize controls how the reply is
// split into streamed artifact chunks; values below 1 disable chunking.
func NewExecutor(respond Responder, chunkSize int) *Executor {
	return &Executor{respond: respond, chunkSize: chunkSize}
}

// Execute implements a2asrv.AgentExecutor.
func (e *Executor) Execute(ctx context.Context, reqCtx *a2asrv.RequestContext, queue eventqueue.Queue) error {
	msg := reqCtx.Message
	if msg == nil {
		return fmt.Errorf("message not provided")
	}

	if reqCtx.StoredTask == nil {
		event := a2a.NewStatusUpdateEvent(reqCtx, a2a.TaskStateSubmitted, nil)
		if err := queue.Write(ctx, event); err != nil {
			return fmt.Errorf("failed to write submitted event: %w", err)
		}
	}

	if err := queue.Write(ctx, a2a.NewStatusUpdateEvent(reqCtx, a2a.TaskStateWorking, nil)); err != nil {
		return fmt.Errorf("failed to write working event: %w", err)
	}

	input := userText(msg)
	slog.Debug("Executing responder", "input", input)

	reply, err := e.respond(ctx, input)
	if err != nil {
		failed := failedStatusEvent(reqCtx, err)
		if writeErr := queue.Write(ctx, failed); writeErr != nil {
			return fmt.Errorf("failed to write error event: %w (original: %w)", writeErr, err)
		}
		return nil
	}

	if err := e.streamReply(ctx, reqCtx, queue, reply); err != nil {
		return err
	}

	completed := a2a.NewStatusUpdateEvent(reqCtx, a2a.TaskStateCompleted, nil)
	completed.Final = true
	if err := queue.Write(ctx, completed); err != nil {
		return fmt.Errorf("failed to write completed event: %w", err)
	}
	return nil
}

// streamReply emits the reply as an artifact, one event per chunk.
func (e *Executor) streamReply(ctx context.Context, reqCtx *a2asrv.RequestContext, queue eventqueue.Queue, reply string) error {
	chunks := chunkText(reply, e.chunkSize)

	first := a2a.NewArtifactEvent(reqCtx, a2a.TextPart{Text: chunks[0]})
	if err := queue.Write(ctx, first); err != nil {
		return fmt.Errorf("failed to write artifact event: %w", err)
	}
	artifactID := first.Artifact.ID

	for _, chunk := range chunks[1:] {
		event := a2a.NewArtifactUpdateEvent(reqCtx, artifactID, a2a.TextPart{Text: chunk})
		event.Append = true
		if err := queue.Write(ctx, event); err != nil {
			return fmt.Errorf("failed to write artifact event: %w", err)
		}
	}

	closing := a2a.NewArtifactUpdateEvent(reqCtx, artifactID)
	closing.Append = true
	closing.LastChunk = true
	if err := queue.Write(ctx, closing); err != nil {
		return fmt.Errorf("failed to write artifact close event: %w", err)
	}
	return nil
}

// Cancel implements a2asrv.AgentExecutor.
func (e *Executor) Cancel(ctx context.Context, reqCtx *a2asrv.RequestContext, queue eventqueue.Queue) error {
	event := a2a.NewStatusUpdateEvent(reqCtx, a2a.TaskStateCanceled, nil)
	event.Final = true
	return queue.Write(ctx, event)
}

func failedStatusEvent(reqCtx *a2asrv.RequestContext, cause error) *a2a.TaskStatusUpdateEvent {
	msg := a2a.NewMessageForTask(a2a.MessageRoleAgent, reqCtx, a2a.TextPart{Text: cause.Error()})
	ev := a2a.NewStatusUpdateEvent(reqCtx, a2a.TaskStateFailed, msg)
	ev.Final = true
	return ev
}

// userText concatenates the text parts of a message.
func userText(msg *a2a.Message) string {
	var sb strings.Builder
	for _, part := range msg.Parts {
		if tp, ok := part.(a2a.TextPart); ok {
			sb.WriteString(tp.Text)
		}
	}
	return sb.String()
}

// chunkText splits s into chunks of at most size runes. It always
// returns at least one element so the artifact exists even for an
// empty reply.
func chunkText(s string, size int) []string {
	if size < 1 || len(s) <= size {
		return []string{s}
	}
	runes := []rune(s)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

var _ a2asrv.AgentExecutor = (*Executor)(nil)
