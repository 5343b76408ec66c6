package mocks

import (
	"context"

	"edxnotes/internal/notes"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is a mock for notes.Store.
type Store struct {
	mock.Mock
}

var _ notes.Store = (*Store)(nil)

func (m *Store) Insert(ctx context.Context, n *notes.Note) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *Store) FindByID(ctx context.Context, id primitive.ObjectID) (*notes.Note, error) {
	args := m.Called(ctx, id)
	if n, ok := args.Get(0).(*notes.Note); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) List(ctx context.Context, q notes.ListQuery) ([]*notes.Note, error) {
	args := m.Called(ctx, q)
	if list, ok := args.Get(0).([]*notes.Note); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Store) Count(ctx context.Context, q notes.ListQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}
