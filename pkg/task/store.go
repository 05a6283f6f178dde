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

// Package task provides SQL-backed task persistence for the server.
// Tasks survive restarts, so clients can keep polling a task that was
// created before the server came back up.
package task

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2asrv"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS agent_tasks (
    id VARCHAR(255) PRIMARY KEY,
    context_id VARCHAR(255) NOT NULL,
    status_json TEXT NOT NULL,
    history_json TEXT,
    artifacts_json TEXT,
    metadata_json TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`

const contextIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_agent_tasks_context_id ON agent_tasks(context_id)`

// SQLStore implements a2asrv.TaskStore on database/sql. Supported
// dialects: sqlite, postgres, mysql.
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// Open opens a database connection for the given driver and DSN and
// builds a store on it. The sqlite3 driver name is accepted as an alias
// for sqlite.
func Open(driver, dsn string) (*SQLStore, error) {
	dialect := driver
	if driver == "sqlite" {
		driver = "sqlite3"
	}
	if dialect == "sqlite3" {
		dialect = "sqlite"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	store, err := NewSQLStore(db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLStore builds a store over an existing connection and creates
// the schema if needed.
func NewSQLStore(db *sql.DB, dialect string) (*SQLStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if dialect == "sqlite3" {
		dialect = "sqlite"
	}
	switch dialect {
	case "sqlite", "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported dialect: %s (supported: sqlite, postgres, mysql)", dialect)
	}

	s := &SQLStore{db: db, dialect: dialect}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, stmt := range []string{schemaSQL, contextIndexSQL} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to initialize task schema: %w", err)
		}
	}
	return s, nil
}

// rebind rewrites ? placeholders to $N for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != "postgres" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&sb, "$%d", n)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Save upserts a task (implements a2asrv.TaskStore).
func (s *SQLStore) Save(ctx context.Context, task *a2a.Task) error {
	if task == nil {
		return fmt.Errorf("task is required")
	}

	statusJSON, err := json.Marshal(task.Status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	historyJSON, err := marshalOr(task.History, "[]")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	artifactsJSON, err := marshalOr(task.Artifacts, "[]")
	if err != nil {
		return fmt.Errorf("failed to marshal artifacts: %w", err)
	}
	metadataJSON, err := marshalOr(task.Metadata, "{}")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	upsert := `
INSERT INTO agent_tasks (id, context_id, status_json, history_json, artifacts_json, metadata_json, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    context_id = excluded.context_id,
    status_json = excluded.status_json,
    history_json = excluded.history_json,
    artifacts_json = excluded.artifacts_json,
    metadata_json = excluded.metadata_json,
    updated_at = excluded.updated_at`
	if s.dialect == "mysql" {
		upsert = `
INSERT INTO agent_tasks (id, context_id, status_json, history_json, artifacts_json, metadata_json, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    context_id = VALUES(context_id),
    status_json = VALUES(status_json),
    history_json = VALUES(history_json),
    artifacts_json = VALUES(artifacts_json),
    metadata_json = VALUES(metadata_json),
    updated_at = VALUES(updated_at)`
	}

	now := time.Now()
	_, err = s.db.ExecContext(ctx, s.rebind(upsert),
		string(task.ID), task.ContextID,
		string(statusJSON), historyJSON, artifactsJSON, metadataJSON,
		now, now)
	if err != nil {
		return fmt.Errorf("failed to save task %s: %w", task.ID, err)
	}
	return nil
}

// Get retrieves a task by ID (implements a2asrv.TaskStore). A missing
// task is reported as a2a.ErrTaskNotFound.
func (s *SQLStore) Get(ctx context.Context, taskID a2a.TaskID) (*a2a.Task, error) {
	query := s.rebind(`
SELECT id, context_id, status_json, history_json, artifacts_json, metadata_json
FROM agent_tasks
WHERE id = ?`)

	var id, contextID, statusJSON string
	var historyJSON, artifactsJSON, metadataJSON sql.NullString
	err := s.db.QueryRowContext(ctx, query, string(taskID)).Scan(
		&id, &contextID, &statusJSON, &historyJSON, &artifactsJSON, &metadataJSON)
	if err == sql.ErrNoRows {
		return nil, a2a.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task %s: %w", taskID, err)
	}

	task := &a2a.Task{
		ID:        a2a.TaskID(id),
		ContextID: contextID,
		History:   make([]*a2a.Message, 0),
		Artifacts: make([]*a2a.Artifact, 0),
	}
	if err := json.Unmarshal([]byte(statusJSON), &task.Status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status: %w", err)
	}
	if historyJSON.Valid && historyJSON.String != "" {
		if err := json.Unmarshal([]byte(historyJSON.String), &task.History); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history: %w", err)
		}
	}
	if artifactsJSON.Valid && artifactsJSON.String != "" {
		if err := json.Unmarshal([]byte(artifactsJSON.String), &task.Artifacts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal artifacts: %w", err)
		}
	}
	if metadataJSON.Valid && metadataJSON.String != "" && metadataJSON.String != "{}" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &task.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return task, nil
}

// Close closes the underlying connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// marshalOr marshals v, substituting empty for nil or empty collections.
func marshalOr(v any, empty string) (string, error) {
	switch val := v.(type) {
	case []*a2a.Message:
		if len(val) == 0 {
			return empty, nil
		}
	case []*a2a.Artifact:
		if len(val) == 0 {
			return empty, nil
		}
	case map[string]any:
		if len(val) == 0 {
			return empty, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var _ a2asrv.TaskStore = (*SQLStore)(nil)
