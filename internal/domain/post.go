package domain

import (
	"errors"
	"strings"
	"time"
)

// Post validation errors
var (
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrTitleTooLong  = errors.New("title must be at most 250 characters long")
	ErrEmptyAuthorID = errors.New("author ID cannot be empty")
)

// MaxTitleLength is the maximum number of characters in a post title.
const MaxTitleLength = 250

// Post is a blog post. UserID is nil once the author has been deleted.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    *int64    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewPost creates a new Post authored by userID.
func NewPost(title, content string, userID int64) (*Post, error) {
	if userID <= 0 {
		return nil, ErrEmptyAuthorID
	}

	now := time.Now().UTC()
	post := &Post{
		Title:     strings.TrimSpace(title),
		Content:   content,
		UserID:    &userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}
	return post, nil
}

// Validate checks title and content.
func (p *Post) Validate() error {
	if p.Title == "" {
		return ErrEmptyTitle
	}
	if len([]rune(p.Title)) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(p.Content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// OwnerID returns the author id, or 0 when the post has no author.
func (p *Post) OwnerID() int64 {
	if p.UserID == nil {
		return 0
	}
	return *p.UserID
}

// Ownership returns the ownership tuple used for authorization.
func (p *Post) Ownership() Ownership {
	return Ownership{ResourceID: p.ID, OwnerID: p.OwnerID()}
}
