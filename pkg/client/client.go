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

// Package client wraps the a2a-go SDK client with the call patterns this
// tool needs: agent card resolution, unary send with task extraction,
// streaming consumption, and bounded task polling.
package client

import (
	"context"
	"fmt"
	"iter"
	"net/http"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2aclient"
	"github.com/a2aproject/a2a-go/a2aclient/agentcard"
)

// Client is a connection to one remote agent, created from its resolved
// agent card.
type Client struct {
	client *a2aclient.Client
	card   *a2a.AgentCard
}

// Option configures Dial.
type Option func(*dialOptions)

type dialOptions struct {
	httpClient *http.Client
}

// WithHTTPClient sets the HTTP client used for card resolution and
// transport. Defaults to http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *dialOptions) {
		o.httpClient = hc
	}
}

// Dial resolves the agent card published at baseURL and connects to the
// agent it describes.
func Dial(ctx context.Context, baseURL string, opts ...Option) (*Client, error) {
	var o dialOptions
	for _, opt := range opts {
		opt(&o)
	}

	resolver := agentcard.DefaultResolver
	if o.httpClient != nil {
		resolver = agentcard.NewResolver(o.httpClient)
	}

	card, err := resolver.Resolve(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve agent card at %s: %w", baseURL, err)
	}

	c, err := a2aclient.NewFromCard(ctx, card)
	if err != nil {
		return nil, fmt.Errorf("failed to create a2a client: %w", err)
	}

	return &Client{client: c, card: card}, nil
}

// Card returns the resolved agent card.
func (c *Client) Card() *a2a.AgentCard {
	return c.card
}

// SupportsStreaming reports whether the agent card advertises the
// streaming capability.
func (c *Client) SupportsStreaming() bool {
	return c.card != nil && c.card.Capabilities.Streaming
}

// SendText sends a single user text message and resolves the resulting
// task. Agents that reply with a bare message produce no task; that is
// reported as an error since callers here always want something to poll.
func (c *Client) SendText(ctx context.Context, text string) (*a2a.Task, error) {
	params := &a2a.MessageSendParams{
		Message: a2a.NewMessage(a2a.MessageRoleUser, a2a.TextPart{Text: text}),
	}
	result, err := c.client.SendMessage(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	taskInfo := result.TaskInfo()
	if taskInfo.TaskID == "" {
		return nil, fmt.Errorf("agent replied without a task")
	}
	return c.GetTask(ctx, taskInfo.TaskID, 0)
}

// StreamText sends a single user text message over the streaming
// transport and returns the raw event sequence. Feed it to an
// Aggregator to accumulate artifacts.
func (c *Client) StreamText(ctx context.Context, text string) iter.Seq2[a2a.Event, error] {
	params := &a2a.MessageSendParams{
		Message: a2a.NewMessage(a2a.MessageRoleUser, a2a.TextPart{Text: text}),
	}
	return c.client.SendStreamingMessage(ctx, params)
}

// GetTask fetches a task snapshot. historyLength limits how many
// history messages the server includes; zero requests no limit.
func (c *Client) GetTask(ctx context.Context, taskID a2a.TaskID, historyLength int) (*a2a.Task, error) {
	params := &a2a.TaskQueryParams{
		ID: taskID,
	}
	if historyLength > 0 {
		params.HistoryLength = &historyLength
	}
	task, err := c.client.GetTask(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", taskID, err)
	}
	return task, nil
}

// CancelTask requests cancellation of a task and returns its updated
// snapshot.
func (c *Client) CancelTask(ctx context.Context, taskID a2a.TaskID) (*a2a.Task, error) {
	task, err := c.client.CancelTask(ctx, &a2a.TaskIDParams{ID: taskID})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel task %s: %w", taskID, err)
	}
	return task, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Destroy()
}

var _ TaskQuerier = (*Client)(nil)
