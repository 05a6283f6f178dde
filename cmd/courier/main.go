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

// Command courier is a CLI for talking to A2A agents.
//
// Usage:
//
//	courier stream "Summarize this week's reports"
//	courier send "Generate the report" --max-polls 30
//	courier task <task-id>
//	courier serve --port 9999
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	courier "github.com/kadirpekel/courier"
	"github.com/kadirpekel/courier/pkg/client"
	"github.com/kadirpekel/courier/pkg/config"
	"github.com/kadirpekel/courier/pkg/httpclient"
)

// CLI defines the command-line interface.
type CLI struct {
	Version VersionCmd `cmd:"" help:"Show version information."`
	Stream  StreamCmd  `cmd:"" help:"Send a message and stream the response."`
	Send    SendCmd    `cmd:"" help:"Send a message and poll the task to completion."`
	Task    TaskCmd    `cmd:"" help:"Fetch and display a task snapshot."`
	Cancel  CancelCmd  `cmd:"" help:"Cancel a running task."`
	Serve   ServeCmd   `cmd:"" help:"Run the reference agent server."`

	Config    string        `short:"c" help:"Path to config file." type:"path"`
	Server    string        `short:"s" help:"Agent base URL (overrides config)."`
	Timeout   time.Duration `help:"HTTP timeout for card resolution."`
	LogLevel  string        `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFile   string        `help:"Log file path (empty = stderr)."`
	LogFormat string        `help:"Log format (simple, verbose)." default:"simple"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(courier.GetVersion())
	return nil
}

// loadConfig loads the config file and applies global flag overrides.
func loadConfig(cli *CLI) (*config.Config, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.Server != "" {
		cfg.Remote.URL = cli.Server
	}
	if cli.Timeout > 0 {
		cfg.Remote.Timeout = cli.Timeout
	}
	return cfg, nil
}

// dialRemote connects to the configured agent. The timeout applies to
// card resolution only; streaming calls run unbounded.
func dialRemote(ctx context.Context, cfg *config.Config) (*client.Client, error) {
	httpClient := httpclient.New(cfg.Remote.Timeout)
	return client.Dial(ctx, cfg.Remote.URL, client.WithHTTPClient(httpClient))
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

func main() {
	_ = config.LoadEnvFiles()

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("courier"),
		kong.Description("courier - A2A agent client and reference server"),
		kong.UsageOnError(),
	)

	cleanup, err := initLoggerFromCLI(cli.LogLevel, cli.LogFile, cli.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	err = ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
