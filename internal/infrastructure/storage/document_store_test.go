package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	domainPlanner "github.com/focusplanner/backend/internal/domain/planner"
	"github.com/focusplanner/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCouchDB = "focusplanner_test"

func setupDocumentStore(t *testing.T) (*DocumentStore, *fakeCouch) {
	t.Helper()

	fc, srv := newFakeCouch(t, "planner", "secret")
	store, err := NewDocumentStore(context.Background(), &config.CouchDBConfig{
		URL:      srv.URL,
		User:     "planner",
		Password: "secret",
		Database: testCouchDB,
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)
	return store, fc
}

func TestDocumentStore_ExistingDatabaseIsReused(t *testing.T) {
	fc, srv := newFakeCouch(t, "planner", "secret")
	fc.putRaw(testCouchDB, map[string]any{
		"_id": "l1", "type": "list", "name": "Existing", "createdAt": formatCouchTime(baseTime),
	})

	store, err := NewDocumentStore(context.Background(), &config.CouchDBConfig{
		URL: srv.URL, User: "planner", Password: "secret", Database: testCouchDB,
	})
	require.NoError(t, err)

	lists, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Existing", lists[0].Name)
	assert.True(t, baseTime.Equal(lists[0].CreatedAt))
}

func TestDocumentStore_WrongCredentials(t *testing.T) {
	_, srv := newFakeCouch(t, "planner", "secret")

	_, err := NewDocumentStore(context.Background(), &config.CouchDBConfig{
		URL: srv.URL, User: "planner", Password: "wrong", Database: testCouchDB,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainPlanner.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestDocumentStore_PaginatesFind(t *testing.T) {
	store, fc := setupDocumentStore(t)

	fc.putRaw(testCouchDB, map[string]any{
		"_id": "big", "type": "list", "name": "Big", "createdAt": formatCouchTime(baseTime),
	})
	total := findPageSize*2 + 17
	for i := 0; i < total; i++ {
		fc.putRaw(testCouchDB, map[string]any{
			"_id":       fmt.Sprintf("task-%04d", i),
			"type":      "task",
			"listId":    "big",
			"text":      fmt.Sprintf("item %d", i),
			"done":      false,
			"createdAt": formatCouchTime(baseTime.Add(time.Duration(i) * time.Second)),
		})
	}

	lists, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 1)
	require.Len(t, lists[0].Tasks, total)
	assert.Equal(t, "task-0000", lists[0].Tasks[0].ID)
	assert.Equal(t, fmt.Sprintf("task-%04d", total-1), lists[0].Tasks[total-1].ID)
}

func TestDocumentStore_HidesOrphanTasks(t *testing.T) {
	store, fc := setupDocumentStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateList(ctx, newList("l1", "Work", 0)))
	fc.putRaw(testCouchDB, map[string]any{
		"_id": "orphan", "type": "task", "listId": "gone", "text": "left behind",
		"done": false, "createdAt": formatCouchTime(baseTime),
	})

	lists, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Empty(t, lists[0].Tasks)

	_, err = store.ToggleTask(ctx, "gone", "orphan")
	assert.ErrorIs(t, err, domainPlanner.ErrTaskNotFound)
}

func TestDocumentStore_DeleteListRemovesAllDocuments(t *testing.T) {
	store, fc := setupDocumentStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateList(ctx, newList("l1", "Work", 0)))
	for i := 0; i < 3; i++ {
		require.NoError(t, store.CreateTask(ctx, newTask(fmt.Sprintf("t%d", i), "l1", "task", time.Duration(i)*time.Second)))
	}
	require.Equal(t, 4, fc.docCount())

	require.NoError(t, store.DeleteList(ctx, "l1"))
	assert.Equal(t, 0, fc.docCount())
}

func TestDocumentStore_QueryFailureIsUnavailable(t *testing.T) {
	store, fc := setupDocumentStore(t)
	fc.setFailFind(true)

	_, err := store.ListAll(context.Background())
	assert.ErrorIs(t, err, domainPlanner.ErrStoreUnavailable)
}

func TestDocumentStore_TimestampsSortLexically(t *testing.T) {
	early := formatCouchTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	late := formatCouchTime(time.Date(2024, 1, 1, 0, 0, 0, 500, time.FixedZone("X", 0)))

	assert.Less(t, early, late)
	assert.Len(t, early, len(late))
}

func TestDocumentStore_SortsMixedPrecisionTimestamps(t *testing.T) {
	store, fc := setupDocumentStore(t)
	ctx := context.Background()

	// 毫秒精度的旧文档与纳秒精度的新文档混排
	fc.putRaw(testCouchDB, map[string]any{
		"_id": "a-new", "type": "list", "name": "New",
		"createdAt": "2024-05-01T09:00:00.500000001Z",
	})
	fc.putRaw(testCouchDB, map[string]any{
		"_id": "b-legacy", "type": "list", "name": "Legacy",
		"createdAt": "2024-05-01T09:00:00.500Z",
	})
	fc.putRaw(testCouchDB, map[string]any{
		"_id": "t-new", "type": "task", "listId": "b-legacy", "text": "new", "done": false,
		"createdAt": "2024-05-01T09:00:01.250000000Z",
	})
	fc.putRaw(testCouchDB, map[string]any{
		"_id": "t-old", "type": "task", "listId": "b-legacy", "text": "old", "done": false,
		"createdAt": "2024-05-01T09:00:01.25Z",
	})

	lists, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "b-legacy", lists[0].ID)
	assert.Equal(t, "a-new", lists[1].ID)

	// 时间相同时按 _id 排序
	require.Len(t, lists[0].Tasks, 2)
	assert.Equal(t, "t-new", lists[0].Tasks[0].ID)
	assert.Equal(t, "t-old", lists[0].Tasks[1].ID)
}
