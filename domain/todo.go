package domain

import "time"

// Todo is a single list item. Every todo has exactly one owner, fixed at
// creation, and titles are unique across all users.
type Todo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether the todo belongs to the given user.
func (t *Todo) OwnedBy(userID string) bool {
	return t != nil && t.UserID == userID
}
