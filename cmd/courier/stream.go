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

	"github.com/a2aproject/a2a-go/a2a"

	"github.com/kadirpekel/courier/pkg/client"
)

// StreamCmd sends a message and renders the streamed response live.
type StreamCmd struct {
	Message string `arg:"" optional:"" help:"Text to send." default:"Hello! Please stream your response."`
}

func (c *StreamCmd) Run(cli *CLI) error {
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

	if !remote.SupportsStreaming() {
		return fmt.Errorf("agent %q does not advertise streaming; use the send command instead", remote.Card().Name)
	}

	fmt.Printf("Connected to %s at %s\n", remote.Card().Name, cfg.Remote.URL)

	agg := client.NewAggregator()
	agg.OnArtifact = func(id a2a.ArtifactID, text string) {
		fmt.Printf("\rArtifact '%s': %s", id, text)
	}

	result, consumeErr := agg.Consume(ctx, remote.StreamText(ctx, c.Message))
	if len(result.Artifacts) > 0 {
		fmt.Println()
	}

	if consumeErr != nil {
		fmt.Println("Stream interrupted; partial results follow.")
	} else {
		fmt.Println("Stream finished.")
	}

	if result.TaskID != "" {
		fmt.Printf("Task ID: %s\n", result.TaskID)
	}
	if result.State != "" {
		fmt.Printf("Final state: %s\n", result.State)
	}
	for _, artifact := range result.Artifacts {
		fmt.Printf("  - %s: %s\n", artifact.ID, artifact.Text)
	}

	return consumeErr
}
