package api

import (
	"time"

	"github.com/phrazzld/scribe-api/internal/api/shared"
	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/service"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	FirstName   string  `json:"firstName"   validate:"required,min=3,max=250"`
	LastName    string  `json:"lastName"    validate:"required,min=3,max=250"`
	Email       string  `json:"email"       validate:"required,email"`
	Password    string  `json:"password"    validate:"required,min=5,max=15"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02,dob"`
}

// LoginRequest is the JSON fallback for clients that cannot send an HTTP
// Basic Authorization header.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID          int64       `json:"id"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	DateOfBirth *string     `json:"dateOfBirth,omitempty"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	User UserResponse `json:"user"`

	// AccessToken is the bearer token used for API authorization
	AccessToken string `json:"accessToken"`

	// ExpiresAt is the RFC 3339 timestamp when the access token expires
	ExpiresAt string `json:"expiresAt"`
}

// UpdateUserRequest is a partial user update. Omitted fields are unchanged.
type UpdateUserRequest struct {
	FirstName   *string `json:"firstName"   validate:"omitempty,min=3,max=250"`
	LastName    *string `json:"lastName"    validate:"omitempty,min=3,max=250"`
	Email       *string `json:"email"       validate:"omitempty,email"`
	Password    *string `json:"password"    validate:"omitempty,min=5,max=15"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02,dob"`
	Role        *string `json:"role"        validate:"omitempty,oneof=user admin"`
}

// DeleteUserResponse is returned after a user is deleted.
type DeleteUserResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// PostResponse represents the response data for a post
type PostResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    *int64    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreatePostRequest defines the payload for creating a post.
type CreatePostRequest struct {
	Title   string `json:"title"   validate:"required,max=250"`
	Content string `json:"content" validate:"required"`
}

// UpdatePostRequest is a partial post update. Omitted fields are unchanged.
type UpdatePostRequest struct {
	Title   *string `json:"title"   validate:"omitempty,min=1,max=250"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

// PostListResponse is one page of posts.
type PostListResponse struct {
	Posts      []PostResponse `json:"posts"`
	TotalPosts int            `json:"totalPosts"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

// DeletePostResponse is returned after a post is deleted.
type DeletePostResponse struct {
	Message string       `json:"message"`
	Post    PostResponse `json:"post"`
}

func userToResponse(p domain.Principal) UserResponse {
	resp := UserResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Role:      p.Role,
	}
	if p.DateOfBirth != nil {
		dob := p.DateOfBirth.Format(shared.DateLayout)
		resp.DateOfBirth = &dob
	}
	return resp
}

func postToResponse(p *domain.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		UserID:    p.UserID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func pageToResponse(page service.PostPage) PostListResponse {
	posts := make([]PostResponse, 0, len(page.Posts))
	for _, p := range page.Posts {
		posts = append(posts, postToResponse(p))
	}
	return PostListResponse{
		Posts:      posts,
		TotalPosts: page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
}
