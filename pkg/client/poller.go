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
	"fmt"
	"log/slog"
	"time"

	"github.com/a2aproject/a2a-go/a2a"
)

const (
	// DefaultMaxPolls bounds how many status queries a poll loop issues.
	DefaultMaxPolls = 30

	// DefaultPollInterval is the fixed delay between status queries.
	DefaultPollInterval = 2 * time.Second

	// DefaultPollHistory is how many history messages each query requests.
	DefaultPollHistory = 5
)

// TaskQuerier fetches task snapshots. *Client satisfies it.
type TaskQuerier interface {
	GetTask(ctx context.Context, taskID a2a.TaskID, historyLength int) (*a2a.Task, error)
}

// PollConfig controls a Poller. Zero values take defaults.
type PollConfig struct {
	MaxPolls      int
	Interval      time.Duration
	HistoryLength int
}

// SetDefaults fills unset fields.
func (c *PollConfig) SetDefaults() {
	if c.MaxPolls <= 0 {
		c.MaxPolls = DefaultMaxPolls
	}
	if c.Interval <= 0 {
		c.Interval = DefaultPollInterval
	}
	if c.HistoryLength <= 0 {
		c.HistoryLength = DefaultPollHistory
	}
}

// PollResult is the outcome of a poll loop. Terminal reports whether the
// task reached a terminal state within the poll budget; an exhausted
// budget is not an error, the caller gets the last snapshot observed.
type PollResult struct {
	Task     *a2a.Task
	Polls    int
	Terminal bool
}

// Poller repeatedly queries a task until it reaches a terminal state or
// the poll budget runs out. Query failures abort the loop; there is no
// retry or backoff, a task that cannot be fetched is reported as-is.
type Poller struct {
	querier TaskQuerier
	cfg     PollConfig
	logger  *slog.Logger

	// OnPoll, when set, is invoked after every successful query with the
	// poll number (1-based) and the snapshot. Used for progress output.
	OnPoll func(n int, task *a2a.Task)
}

// NewPoller creates a Poller over the given querier.
func NewPoller(querier TaskQuerier, cfg PollConfig) *Poller {
	cfg.SetDefaults()
	return &Poller{
		querier: querier,
		cfg:     cfg,
		logger:  slog.Default(),
	}
}

// Poll runs the loop for taskID. The first query is issued immediately;
// subsequent queries wait the configured interval. The wait is skipped
// after the final query of the budget.
func (p *Poller) Poll(ctx context.Context, taskID a2a.TaskID) (*PollResult, error) {
	var last *a2a.Task

	for n := 1; n <= p.cfg.MaxPolls; n++ {
		task, err := p.querier.GetTask(ctx, taskID, p.cfg.HistoryLength)
		if err != nil {
			p.logger.Error("Task query failed", "taskID", taskID, "poll", n, "error", err)
			return &PollResult{Task: last, Polls: n}, fmt.Errorf("failed to query task %s: %w", taskID, err)
		}
		last = task

		if p.OnPoll != nil {
			p.OnPoll(n, task)
		}

		if task.Status.State.Terminal() {
			return &PollResult{Task: task, Polls: n, Terminal: true}, nil
		}

		if n == p.cfg.MaxPolls {
			break
		}

		select {
		case <-ctx.Done():
			return &PollResult{Task: last, Polls: n}, ctx.Err()
		case <-time.After(p.cfg.Interval):
		}
	}

	p.logger.Info("Poll budget exhausted before task completed",
		"taskID", taskID, "polls", p.cfg.MaxPolls, "state", last.Status.State)
	return &PollResult{Task: last, Polls: p.cfg.MaxPolls}, nil
}
