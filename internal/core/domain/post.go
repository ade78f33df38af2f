package domain

import "time"

// Post is a single entry on the community board. Posts are never edited in
// place; they are created by any authenticated user and removed by an admin.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}
