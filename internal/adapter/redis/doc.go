// Package redis is the Redis adapter. It builds the shared go-redis client with metrics
// and circuit breaker hooks, and implements domain.TaskDispatcher as a Redis list.
package redis
