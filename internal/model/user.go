package model

import "time"

// User represents an application account as stored in the `users`
// table. Each field corresponds to a column in the database. The json
// tags are omitted here because these structs are used internally by
// the repository layer; handlers define separate response types with
// appropriate JSON tags so that the password hash is never serialized
// to clients.
//
// TodoIDs and CommentIDs are denormalized back-reference lists stored
// as JSON columns. The canonical owner of a todo or comment is the
// user_id column on the resource row; the lists exist so that a user
// record can be returned together with the ids of everything it owns
// without a join.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique, case-sensitive login name.
//  Name         – optional display name.
//  PasswordHash – bcrypt hashed password. Never leaves the repository
//                 and handler internals.
//  TodoIDs      – ids of todos created by this user (users.todo_ids JSON).
//  CommentIDs   – ids of comments created by this user (users.comment_ids JSON).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Name         string    // users.name
	PasswordHash string    // users.password_hash
	TodoIDs      []uint64  // users.todo_ids (JSON array)
	CommentIDs   []uint64  // users.comment_ids (JSON array)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
