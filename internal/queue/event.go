// Package queue defines message payloads exchanged over the message broker.
package queue

// TodoActivityEvent is published whenever a todo is created, updated or
// deleted. It carries enough information for downstream consumers to log
// or notify without querying the primary database.
type TodoActivityEvent struct {
	Action     string `json:"action"` // "created" | "updated" | "deleted"
	TodoID     uint64 `json:"todo_id"`
	Title      string `json:"title"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	OccurredAt string `json:"occurred_at"` // RFC3339 UTC
}
