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

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/a2aproject/a2a-go/a2a"

	"github.com/kadirpekel/courier/pkg/client"
)

// SendCmd sends a message and polls the resulting task to completion.
type SendCmd struct {
	Message string `arg:"" optional:"" help:"Text to send." default:"Hello!"`

	MaxPolls int           `help:"Maximum number of status queries." default:"0"`
	Interval time.Duration `help:"Delay between status queries." default:"0"`
	History  int           `help:"History messages to request per query." default:"0"`
}

func (c *SendCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	if c.MaxPolls > 0 {
		cfg.Poll.MaxPolls = c.MaxPolls
	}
	if c.Interval > 0 {
		cfg.Poll.Interval = c.Interval
	}
	if c.History > 0 {
		cfg.Poll.HistoryLength = c.History
	}

	ctx, cancel := signalContext()
	defer cancel()

	remote, err := dialRemote(ctx, cfg)
	if err != nil {
		return err
	}
	defer remote.Close()

	task, err := remote.SendText(ctx, c.Message)
	if err != nil {
		return err
	}
	fmt.Printf("Task created: %s (state: %s)\n", task.ID, task.Status.State)

	if task.Status.State.Terminal() {
		printTask(os.Stdout, task)
		return nil
	}

	poller := client.NewPoller(remote, client.PollConfig{
		MaxPolls:      cfg.Poll.MaxPolls,
		Interval:      cfg.Poll.Interval,
		HistoryLength: cfg.Poll.HistoryLength,
	})
	poller.OnPoll = func(n int, task *a2a.Task) {
		fmt.Printf("Poll %d/%d: state=%s\n", n, cfg.Poll.MaxPolls, task.Status.State)
	}

	result, err := poller.Poll(ctx, task.ID)
	if err != nil {
		return err
	}

	if !result.Terminal {
		fmt.Printf("Task did not reach a terminal state within %d polls; last known snapshot:\n", result.Polls)
	}
	fmt.Println()
	printTask(os.Stdout, result.Task)
	return nil
}
