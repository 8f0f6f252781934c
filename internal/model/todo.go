package model

import "time"

// Todo mirrors a row in the `todos` table. UserID references the
// account that created the todo; ownership is set at creation and
// never changes afterwards. DueDate is nullable because a todo does
// not have to carry a deadline.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – short task title (required).
//  Description – longer free-form text (required).
//  Completed   – whether the task is done. Defaults to false.
//  DueDate     – optional deadline (todos.due_date, nullable).
//  Priority    – free-form priority label such as "high" or "low".
//  Category    – optional grouping label, empty string when unset.
//  Tags        – list of tag strings (todos.tags JSON array).
//  UserID      – owning account (todos.user_id).
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Todo struct {
	ID          uint64     // todos.id
	Title       string     // todos.title
	Description string     // todos.description
	Completed   bool       // todos.completed
	DueDate     *time.Time // todos.due_date (nullable)
	Priority    string     // todos.priority
	Category    string     // todos.category
	Tags        []string   // todos.tags (JSON array)
	UserID      uint64     // todos.user_id
	CreatedAt   time.Time  // todos.created_at
	UpdatedAt   time.Time  // todos.updated_at
}
