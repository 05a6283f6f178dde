package task

import (
	"context"
	"testing"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	store, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestTask(state a2a.TaskState) *a2a.Task {
	return &a2a.Task{
		ID:        a2a.TaskID(uuid.NewString()),
		ContextID: uuid.NewString(),
		Status:    a2a.TaskStatus{State: state},
	}
}

func TestStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task := newTestTask(a2a.TaskStateWorking)
	task.History = []*a2a.Message{
		a2a.NewMessage(a2a.MessageRoleUser, a2a.TextPart{Text: "hello"}),
	}
	task.Artifacts = []*a2a.Artifact{
		{ID: "a1", Parts: []a2a.Part{a2a.TextPart{Text: "result"}}},
	}
	task.Metadata = map[string]any{"origin": "test"}

	require.NoError(t, store.Save(ctx, task))

	got, err := store.Get(ctx, task.ID)
	require.NoError(t, err)

	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, task.ContextID, got.ContextID)
	assert.Equal(t, a2a.TaskStateWorking, got.Status.State)
	require.Len(t, got.History, 1)
	require.Len(t, got.Artifacts, 1)
	assert.Equal(t, a2a.ArtifactID("a1"), got.Artifacts[0].ID)
	assert.Equal(t, "test", got.Metadata["origin"])
}

func TestStoreSaveUpdatesExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task := newTestTask(a2a.TaskStateSubmitted)
	require.NoError(t, store.Save(ctx, task))

	task.Status.State = a2a.TaskStateCompleted
	require.NoError(t, store.Save(ctx, task))

	got, err := store.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, a2a.TaskStateCompleted, got.Status.State)
}

func TestStoreGetMissingTask(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "no-such-task")
	require.ErrorIs(t, err, a2a.ErrTaskNotFound)
}

func TestStoreNilTaskRejected(t *testing.T) {
	store := newTestStore(t)
	require.Error(t, store.Save(context.Background(), nil))
}

func TestStoreUnsupportedDialect(t *testing.T) {
	_, err := Open("oracle", "dsn")
	require.Error(t, err)
}

func TestStoreEmptyCollectionsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task := newTestTask(a2a.TaskStateSubmitted)
	require.NoError(t, store.Save(ctx, task))

	got, err := store.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, got.History)
	assert.Empty(t, got.Artifacts)
}
