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

	"github.com/a2aproject/a2a-go/a2a"
)

// TaskCmd fetches a single task snapshot from the remote agent.
type TaskCmd struct {
	ID      string `arg:"" help:"Task identifier."`
	URL     string `arg:"" optional:"" help:"Agent base URL (overrides config)."`
	History int    `help:"History messages to request." default:"20"`
}

func (c *TaskCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	if c.URL != "" {
		cfg.Remote.URL = c.URL
	}

	ctx, cancel := signalContext()
	defer cancel()

	remote, err := dialRemote(ctx, cfg)
	if err != nil {
		return err
	}
	defer remote.Close()

	task, err := remote.GetTask(ctx, a2a.TaskID(c.ID), c.History)
	if err != nil {
		return err
	}

	printTask(os.Stdout, task)
	return nil
}

// CancelCmd requests cancellation of a running task.
type CancelCmd struct {
	ID string `arg:"" help:"Task identifier."`
}

func (c *CancelCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	remote, err := dialRemote(ctx, cfg)
	if err != nil {
		return err
	}
	defer remote.Close()

	task, err := remote.CancelTask(ctx, a2a.TaskID(c.ID))
	if err != nil {
		return err
	}

	fmt.Printf("Task %s is now %s\n", task.ID, task.Status.State)
	return nil
}
