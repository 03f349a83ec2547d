package domain

import "context"

const TaskDeleteObject = "freight.delete_object"

// TaskDispatcher hands work to the asynchronous task queue. Send returns once the task
// is enqueued; execution happens elsewhere and its outcome is not reported back.
type TaskDispatcher interface {
	Send(ctx context.Context, taskName string, kwargs map[string]any) error
}
