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
	"io"
	"strings"

	"github.com/a2aproject/a2a-go/a2a"
)

// printTask renders a task snapshot in a compact human-readable form.
func printTask(w io.Writer, task *a2a.Task) {
	fmt.Fprintf(w, "Task ID:    %s\n", task.ID)
	if task.ContextID != "" {
		fmt.Fprintf(w, "Context ID: %s\n", task.ContextID)
	}
	fmt.Fprintf(w, "State:      %s\n", task.Status.State)
	if msg := messageText(task.Status.Message); msg != "" {
		fmt.Fprintf(w, "Message:    %s\n", msg)
	}

	if len(task.History) > 0 {
		fmt.Fprintln(w, "History:")
		for _, msg := range task.History {
			if msg == nil {
				continue
			}
			fmt.Fprintf(w, "  [%s] %s\n", msg.Role, messageText(msg))
		}
	}

	if len(task.Artifacts) > 0 {
		fmt.Fprintln(w, "Artifacts:")
		for _, artifact := range task.Artifacts {
			if artifact == nil {
				continue
			}
			fmt.Fprintf(w, "  - %s: %s\n", artifact.ID, partsText(artifact.Parts))
		}
	}

	if len(task.Metadata) > 0 {
		fmt.Fprintln(w, "Metadata:")
		for key, value := range task.Metadata {
			fmt.Fprintf(w, "  %s: %v\n", key, value)
		}
	}
}

func messageText(msg *a2a.Message) string {
	if msg == nil {
		return ""
	}
	return partsText(msg.Parts)
}

func partsText(parts []a2a.Part) string {
	var sb strings.Builder
	for _, part := range parts {
		if text, ok := part.(a2a.TextPart); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String()
}
