package client

import (
	"context"
	"sync"

	"tugasku/pkg/models"
)

// TaskList is the screen-level view state over a device's tasks. It owns
// its slice exclusively; refreshes are guarded by a generation counter so
// a slow stale response can never overwrite a newer one, and deletes are
// optimistic with rollback on failure.
type TaskList struct {
	cli *Client

	mu    sync.Mutex
	items []models.Task
	gen   uint64
}

// NewTaskList builds an empty view state bound to a client.
func NewTaskList(cli *Client) *TaskList {
	return &TaskList{cli: cli}
}

// Tasks returns a copy of the current items.
func (l *TaskList) Tasks() []models.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Task, len(l.items))
	copy(out, l.items)
	return out
}

// Refresh reloads the list from the server. Each call claims a new
// generation; if another Refresh started in the meantime, the older
// response is discarded instead of applied.
func (l *TaskList) Refresh(ctx context.Context, q TaskQuery) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	tasks, err := l.cli.ListTasks(ctx, q)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		// a newer refresh is in flight or already applied
		return nil
	}
	l.items = tasks
	return nil
}

// Delete removes the task from the local view immediately, then issues
// the delete request; on failure the removed item is re-inserted at its
// old position and the error surfaced.
func (l *TaskList) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	idx := -1
	var removed models.Task
	for i, t := range l.items {
		if t.ID == id {
			idx = i
			removed = t
			break
		}
	}
	if idx >= 0 {
		l.items = append(l.items[:idx], l.items[idx+1:]...)
	}
	l.mu.Unlock()

	err := l.cli.DeleteTask(ctx, id)
	if err != nil && idx >= 0 {
		l.mu.Lock()
		if idx > len(l.items) {
			idx = len(l.items)
		}
		l.items = append(l.items[:idx], append([]models.Task{removed}, l.items[idx:]...)...)
		l.mu.Unlock()
	}
	return err
}

// DeleteAll removes the given ids optimistically and issues the deletions
// concurrently. Items whose deletion failed are re-inserted; successful
// deletions stand. The returned error is the aggregate partial-failure
// error, alongside the per-item result.
func (l *TaskList) DeleteAll(ctx context.Context, ids []string) (BulkResult, error) {
	l.mu.Lock()
	removed := make(map[string]models.Task, len(ids))
	kept := l.items[:0:0]
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, t := range l.items {
		if want[t.ID] {
			removed[t.ID] = t
		} else {
			kept = append(kept, t)
		}
	}
	l.items = kept
	l.mu.Unlock()

	result, err := l.cli.BulkDeleteTasks(ctx, ids)

	failed := result.Failed()
	if len(failed) > 0 {
		l.mu.Lock()
		for _, id := range failed {
			if t, okay := removed[id]; okay {
				l.items = append(l.items, t)
			}
		}
		l.mu.Unlock()
	}
	return result, err
}
