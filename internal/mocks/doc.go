// Package mocks provides shared test doubles for the store interfaces.
//
// MockUserStore and MockPostStore are stateful in-memory fakes whose methods
// can be overridden one at a time through function fields:
//
//	users := mocks.NewMockUserStore()
//	users.GetByIDFn = func(ctx context.Context, id int64) (*domain.User, error) {
//	    return nil, errors.New("connection reset")
//	}
//
// TestifyMockUserStore is a testify/mock double for tests that assert on
// exact calls and arguments.
package mocks
