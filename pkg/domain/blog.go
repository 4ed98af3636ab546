package domain

import "time"

// BlogPost is a blog entry.
type BlogPost struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Published bool      `json:"published"`
}

// WrittenBy reports whether u authored the post.
func (p BlogPost) WrittenBy(u *User) bool {
	return u != nil && u.ID != "" && u.ID == p.AuthorID
}

// BlogPostInput is the payload for creating or editing a post.
type BlogPostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
