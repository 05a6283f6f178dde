// Package courier provides a client toolkit and reference server for the
// A2A (Agent-to-Agent) protocol.
//
// Courier ships a CLI for talking to any A2A-compliant agent: it can
// stream responses over SSE while assembling partial artifacts, send
// messages and poll the resulting task to completion, inspect task
// snapshots, and cancel running tasks. It also includes a small hello
// world agent server useful for testing clients end to end.
//
// # Quick Start
//
// Install Courier:
//
//	go install github.com/kadirpekel/courier/cmd/courier@latest
//
// Stream a response from an agent:
//
//	courier stream "Summarize this week's reports" --server http://localhost:9999
//
// Send a message and poll until the task settles:
//
//	courier send "Generate the report" --max-polls 30 --interval 2s
//
// Run the reference agent:
//
//	courier serve --port 9999
//
// # Using as Go Library
//
// Import specific packages:
//
//	import (
//	    "github.com/kadirpekel/courier/pkg/client"
//	    "github.com/kadirpekel/courier/pkg/server"
//	)
//
// The client package wraps the A2A SDK with a streaming aggregator and
// a task status poller; the server package provides a ready-to-mount
// HTTP server around any AgentExecutor.
package courier
