package service

import (
	"context"
	"errors"

	"github.com/rkarimov/smart-traffic/internal/auth/domain"
)

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user domain.User) error
	findByUsernameFunc func(ctx context.Context, username string) (domain.User, error)
	findByIDFunc       func(ctx context.Context, id domain.UserID) (domain.User, error)
	listFunc           func(ctx context.Context, skip, limit int) ([]domain.User, error)
	setActiveFunc      func(ctx context.Context, id domain.UserID, active bool) error
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return domain.User{}, errors.New("findByUsernameFunc not set")
}

func (m *mockUserRepo) FindByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.User{}, errors.New("findByIDFunc not set")
}

func (m *mockUserRepo) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, skip, limit)
	}
	return nil, nil
}

func (m *mockUserRepo) SetActive(ctx context.Context, id domain.UserID, active bool) error {
	if m.setActiveFunc != nil {
		return m.setActiveFunc(ctx, id, active)
	}
	return nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed_"+password {
		return errors.New("password mismatch")
	}
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "id-123", nil
}
