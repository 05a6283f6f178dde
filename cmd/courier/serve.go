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

	"github.com/a2aproject/a2a-go/a2asrv"

	"github.com/kadirpekel/courier/pkg/server"
	"github.com/kadirpekel/courier/pkg/task"
)

// ServeCmd runs the reference hello world agent.
type ServeCmd struct {
	Host       string `help:"Host to bind." default:""`
	Port       int    `help:"Port to bind." default:"0"`
	Greeting   string `help:"Greeting returned by the agent." default:""`
	Echo       bool   `help:"Echo the incoming message back instead of greeting."`
	ChunkSize  int    `help:"Streaming chunk size in runes." default:"0"`
	Storage    string `help:"Task storage driver (sqlite, postgres, mysql)." default:""`
	StorageDSN string `help:"Task storage data source name." default:""`
	Metrics    *bool  `help:"Expose Prometheus metrics on /metrics." negatable:""`
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	if c.Host != "" {
		cfg.Agent.Host = c.Host
	}
	if c.Port > 0 {
		cfg.Agent.Port = c.Port
	}
	if c.Greeting != "" {
		cfg.Agent.Greeting = c.Greeting
	}
	if c.ChunkSize > 0 {
		cfg.Agent.ChunkSize = c.ChunkSize
	}
	if c.Storage != "" {
		cfg.Storage.Driver = c.Storage
	}
	if c.StorageDSN != "" {
		cfg.Storage.DSN = c.StorageDSN
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	respond := server.Greeter(cfg.Agent.Greeting)
	if c.Echo {
		respond = server.Echo
	}
	executor := server.NewExecutor(respond, cfg.Agent.ChunkSize)

	var opts []server.HTTPServerOption
	if cfg.Storage.Driver != "" {
		store, err := task.Open(cfg.Storage.Driver, cfg.Storage.DSN)
		if err != nil {
			return fmt.Errorf("failed to open task store: %w", err)
		}
		defer store.Close()
		opts = append(opts, server.WithTaskStore(store))
		fmt.Printf("Task storage: %s\n", cfg.Storage.Driver)
	}

	withMetrics := c.Metrics == nil || *c.Metrics
	if withMetrics {
		opts = append(opts, server.WithMetrics(server.NewMetrics()))
	}

	srv := server.NewHTTPServer(&cfg.Agent, executor, opts...)

	addr := srv.Address()
	fmt.Printf("Starting %s on http://%s\n", cfg.Agent.Name, addr)
	fmt.Printf("Agent card: http://%s%s\n", addr, a2asrv.WellKnownAgentCardPath)
	fmt.Printf("Health:     http://%s/health\n", addr)
	if withMetrics {
		fmt.Printf("Metrics:    http://%s/metrics\n", addr)
	}

	return srv.Start(ctx)
}
