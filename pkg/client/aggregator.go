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

package client

import (
	"context"
	"iter"
	"log/slog"
	"strings"

	"github.com/a2aproject/a2a-go/a2a"
)

// messageArtifactID keys text from direct message replies, which carry
// no artifact of their own.
const messageArtifactID a2a.ArtifactID = "message"

// ArtifactText is the accumulated text of a single streamed artifact.
type ArtifactText struct {
	ID   a2a.ArtifactID
	Text string
}

// StreamResult is the outcome of consuming a streaming response.
// Artifacts preserve the order in which artifact IDs were first seen.
type StreamResult struct {
	TaskID    a2a.TaskID
	ContextID string
	State     a2a.TaskState
	Artifacts []ArtifactText
	Events    int
}

// Aggregator folds a streaming event sequence into per-artifact text.
// Artifact chunks with the append flag extend the accumulated text;
// chunks without it replace the text for that artifact ID only. Status
// updates track task identity and state, and a final status update
// terminates consumption.
//
// An Aggregator is single-use and not safe for concurrent use.
type Aggregator struct {
	// OnArtifact, when set, is invoked after every artifact chunk with
	// the artifact ID and its accumulated text so far. Used for live
	// console rendering.
	OnArtifact func(id a2a.ArtifactID, text string)

	logger *slog.Logger

	order     []a2a.ArtifactID
	texts     map[a2a.ArtifactID]string
	taskID    a2a.TaskID
	contextID string
	state     a2a.TaskState
	events    int
	done      bool
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		logger: slog.Default(),
		texts:  make(map[a2a.ArtifactID]string),
	}
}

// Consume drains the event sequence, applying every event until the
// sequence ends, a final status update arrives, or the sequence yields
// an error. On error the partial result accumulated so far is returned
// together with the error.
func (g *Aggregator) Consume(ctx context.Context, events iter.Seq2[a2a.Event, error]) (*StreamResult, error) {
	for event, err := range events {
		if err != nil {
			g.logger.Error("Stream terminated with error", "taskID", g.taskID, "error", err)
			return g.Result(), err
		}
		if err := ctx.Err(); err != nil {
			return g.Result(), err
		}
		if g.Apply(event) {
			break
		}
	}
	return g.Result(), nil
}

// Apply folds a single event into the aggregate. It reports whether the
// stream is complete and no further events should be consumed.
func (g *Aggregator) Apply(event a2a.Event) (done bool) {
	if g.done {
		return true
	}
	g.events++

	switch e := event.(type) {
	case *a2a.Task:
		g.observeTask(e.ID, e.ContextID)
		g.state = e.Status.State
		// Snapshot artifacts are complete values, not deltas.
		for _, artifact := range e.Artifacts {
			if artifact == nil {
				continue
			}
			g.setArtifact(artifact.ID, partText(artifact.Parts))
		}

	case *a2a.TaskStatusUpdateEvent:
		g.observeTask(e.TaskID, e.ContextID)
		g.state = e.Status.State
		if e.Final {
			g.done = true
		}

	case *a2a.TaskArtifactUpdateEvent:
		g.observeTask(e.TaskID, e.ContextID)
		if e.Artifact == nil {
			g.logger.Debug("Skipping artifact update without an artifact", "taskID", g.taskID)
			return g.done
		}
		text := partText(e.Artifact.Parts)
		if e.Append {
			g.setArtifact(e.Artifact.ID, g.texts[e.Artifact.ID]+text)
		} else {
			g.setArtifact(e.Artifact.ID, text)
		}

	case *a2a.Message:
		// Direct message replies carry no artifact; surface the text
		// under a synthetic artifact ID so callers see one code path.
		g.setArtifact(messageArtifactID, partText(e.Parts))

	default:
		g.logger.Debug("Skipping unrecognized stream event", "taskID", g.taskID, "event", event)
	}

	return g.done
}

// Result returns the aggregate state accumulated so far. It may be
// called mid-stream for partial results.
func (g *Aggregator) Result() *StreamResult {
	artifacts := make([]ArtifactText, 0, len(g.order))
	for _, id := range g.order {
		artifacts = append(artifacts, ArtifactText{ID: id, Text: g.texts[id]})
	}
	return &StreamResult{
		TaskID:    g.taskID,
		ContextID: g.contextID,
		State:     g.state,
		Artifacts: artifacts,
		Events:    g.events,
	}
}

// observeTask records task identity from the first event that carries it.
func (g *Aggregator) observeTask(id a2a.TaskID, contextID string) {
	if g.taskID == "" && id != "" {
		g.taskID = id
	}
	if g.contextID == "" && contextID != "" {
		g.contextID = contextID
	}
}

func (g *Aggregator) setArtifact(id a2a.ArtifactID, text string) {
	if _, seen := g.texts[id]; !seen {
		g.order = append(g.order, id)
	}
	g.texts[id] = text
	if g.OnArtifact != nil {
		g.OnArtifact(id, text)
	}
}

// partText concatenates the text of all text parts in order. Non-text
// parts contribute nothing.
func partText(parts []a2a.Part) string {
	var sb strings.Builder
	for _, part := range parts {
		if tp, ok := part.(a2a.TextPart); ok {
			sb.WriteString(tp.Text)
		}
	}
	return sb.String()
}
