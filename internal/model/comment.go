package model

import "time"

// Comment mirrors a row in the `comments` table. Any authenticated
// user may create comments; UserID records the author.
type Comment struct {
	ID        uint64    // comments.id
	Message   string    // comments.message
	UserID    uint64    // comments.user_id
	CreatedAt time.Time // comments.created_at
}
