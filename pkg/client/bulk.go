package client

import (
	"context"
	"fmt"
	"sync"
)

// BulkItem is the outcome of one deletion within a bulk call.
type BulkItem struct {
	ID  string
	Err error
}

// BulkResult holds per-item outcomes so callers can pick their own
// compensation policy instead of getting a single pass/fail.
type BulkResult []BulkItem

// Failed returns the ids whose deletion failed.
func (r BulkResult) Failed() []string {
	var out []string
	for _, item := range r {
		if item.Err != nil {
			out = append(out, item.ID)
		}
	}
	return out
}

// Err returns nil when every deletion succeeded, otherwise an aggregate
// error naming the failure count.
func (r BulkResult) Err() error {
	n := len(r.Failed())
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%d deletion(s) failed", n)
}

// BulkDeleteTasks deletes the given task ids concurrently and waits for
// all of them to settle. Successes are never rolled back: a partial
// failure leaves the collection partially deleted, and the aggregate
// error reports how many failed.
func (c *Client) BulkDeleteTasks(ctx context.Context, ids []string) (BulkResult, error) {
	result := make(BulkResult, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			result[i] = BulkItem{ID: id, Err: c.DeleteTask(ctx, id)}
		}(i, id)
	}
	wg.Wait()
	return result, result.Err()
}
