package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/phrazzld/scribe-api/internal/domain"
	"github.com/phrazzld/scribe-api/internal/store"
)

// MockPostStore implements store.PostStore for testing, with the same
// function-field override scheme as MockUserStore.
type MockPostStore struct {
	CreateFn      func(ctx context.Context, post *domain.Post) error
	GetByIDFn     func(ctx context.Context, id int64) (*domain.Post, error)
	ListFn        func(ctx context.Context, offset, limit int) ([]*domain.Post, int, error)
	UpdateFn      func(ctx context.Context, post *domain.Post) error
	DeleteFn      func(ctx context.Context, id int64) error
	ClearAuthorFn func(ctx context.Context, userID int64) (int64, error)

	Err error

	mu     sync.Mutex
	posts  map[int64]domain.Post
	nextID int64
}

// NewMockPostStore creates a new mock store with initialized defaults
func NewMockPostStore() *MockPostStore {
	return &MockPostStore{posts: make(map[int64]domain.Post)}
}

var _ store.PostStore = (*MockPostStore)(nil)

// Create implements store.PostStore
func (m *MockPostStore) Create(ctx context.Context, post *domain.Post) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, post)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.nextID++
	post.ID = m.nextID
	m.posts[post.ID] = *post
	return nil
}

// GetByID implements store.PostStore
func (m *MockPostStore) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, store.ErrPostNotFound
	}
	return &p, nil
}

// List implements store.PostStore
func (m *MockPostStore) List(ctx context.Context, offset, limit int) ([]*domain.Post, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, offset, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, 0, m.Err
	}
	all := make([]*domain.Post, 0, len(m.posts))
	for id := int64(1); id <= m.nextID; id++ {
		if p, ok := m.posts[id]; ok {
			all = append(all, &p)
		}
	}
	total := len(all)
	if offset >= total {
		return []*domain.Post{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// Update implements store.PostStore
func (m *MockPostStore) Update(ctx context.Context, post *domain.Post) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, post)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.posts[post.ID]; !ok {
		return store.ErrPostNotFound
	}
	m.posts[post.ID] = *post
	return nil
}

// Delete implements store.PostStore
func (m *MockPostStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.posts[id]; !ok {
		return store.ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

// ClearAuthor implements store.PostStore
func (m *MockPostStore) ClearAuthor(ctx context.Context, userID int64) (int64, error) {
	if m.ClearAuthorFn != nil {
		return m.ClearAuthorFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for id, p := range m.posts {
		if p.UserID != nil && *p.UserID == userID {
			p.UserID = nil
			m.posts[id] = p
			n++
		}
	}
	return n, nil
}

// WithTx returns the same mock; transactions are not simulated.
func (m *MockPostStore) WithTx(*sql.Tx) store.PostStore {
	return m
}
