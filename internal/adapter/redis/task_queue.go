package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/freight/internal/adapter/metrics"
	"github.com/pscheid92/freight/internal/domain"
	"github.com/pscheid92/freight/internal/platform/retry"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultQueueKey = "freight:tasks"

// DefaultSendPolicy retries an enqueue three times over roughly half a second.
var DefaultSendPolicy = retry.Policy{
	MaxAttempts:    3,
	InitialBackoff: 100 * time.Millisecond,
	MaxBackoff:     time.Second,
}

// taskEnvelope is the JSON document pushed onto the queue list.
type taskEnvelope struct {
	ID         uuid.UUID      `json:"id"`
	Task       string         `json:"task"`
	Kwargs     map[string]any `json:"kwargs"`
	EnqueuedAt time.Time      `json:"enqueued_at"`
}

// TaskQueue implements domain.TaskDispatcher by LPUSHing envelopes onto a Redis list.
// Workers are expected to BRPOP from the same key, giving FIFO order.
type TaskQueue struct {
	rdb     goredis.Cmdable
	key     string
	clock   clockwork.Clock
	policy  retry.Policy
	metrics *metrics.TaskMetrics
}

var _ domain.TaskDispatcher = (*TaskQueue)(nil)

type TaskQueueOption func(*TaskQueue)

func WithClock(clock clockwork.Clock) TaskQueueOption {
	return func(q *TaskQueue) { q.clock = clock }
}

func WithSendPolicy(p retry.Policy) TaskQueueOption {
	return func(q *TaskQueue) { q.policy = p }
}

func WithTaskMetrics(m *metrics.TaskMetrics) TaskQueueOption {
	return func(q *TaskQueue) { q.metrics = m }
}

func NewTaskQueue(rdb goredis.Cmdable, key string, opts ...TaskQueueOption) *TaskQueue {
	if key == "" {
		key = DefaultQueueKey
	}
	q := &TaskQueue{
		rdb:    rdb,
		key:    key,
		clock:  clockwork.NewRealClock(),
		policy: DefaultSendPolicy,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Send enqueues taskName with kwargs. The envelope is encoded once, so retries push the
// same task id.
func (q *TaskQueue) Send(ctx context.Context, taskName string, kwargs map[string]any) error {
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	env := taskEnvelope{
		ID:         uuid.New(),
		Task:       taskName,
		Kwargs:     kwargs,
		EnqueuedAt: q.clock.Now().UTC(),
	}
	payload, err := json.Marshal(env)
	if err != nil {
		q.observe(taskName, "error")
		return fmt.Errorf("failed to encode task %s: %w", taskName, err)
	}

	policy := q.policy
	policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
		slog.WarnContext(ctx, "Retrying task enqueue",
			"task", taskName, "task_id", env.ID, "attempt", attempt, "backoff", backoff, "error", err)
		if q.metrics != nil {
			q.metrics.Retries.WithLabelValues(taskName).Inc()
		}
	}

	err = retry.Do(ctx, policy, classifySendError, func(ctx context.Context) error {
		return q.rdb.LPush(ctx, q.key, payload).Err()
	})
	if err != nil {
		q.observe(taskName, "error")
		return fmt.Errorf("failed to enqueue task %s: %w", taskName, err)
	}

	q.observe(taskName, "success")
	slog.DebugContext(ctx, "Task enqueued", "task", taskName, "task_id", env.ID, "queue", q.key)
	return nil
}

func (q *TaskQueue) observe(taskName, result string) {
	if q.metrics != nil {
		q.metrics.Dispatched.WithLabelValues(taskName, result).Inc()
	}
}

// classifySendError stops on cancellation, an open circuit breaker and Redis error
// replies; everything else (network, timeouts) is retried.
func classifySendError(err error) retry.Action {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return retry.Stop
	case errors.Is(err, circuitbreaker.ErrOpen):
		return retry.Stop
	}
	var redisErr goredis.Error
	if errors.As(err, &redisErr) {
		return retry.Stop
	}
	return retry.Retry
}
