package docstore

import (
	"context"
	"errors"

	"github.com/communityboard/board/internal/core/domain"
)

// errAdminPresent aborts a seeding mutation without writing.
var errAdminPresent = errors.New("admin already exists")

// UserRepository implements ports.UserRepository over the shared document.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create appends user unless its username is already taken.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	_, err := r.store.Mutate(ctx, func(doc *domain.Document) error {
		if _, exists := doc.UserByUsername(user.Username); exists {
			return domain.ErrDuplicateUsername
		}
		doc.Users = append(doc.Users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.store.Snapshot().UserByUsername(username)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.store.Snapshot().UserByID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) HasAdmin(_ context.Context) (bool, error) {
	return r.store.Snapshot().HasAdmin(), nil
}

// CreateAdminIfAbsent inserts user when the document has no admin yet. The
// check runs inside the writer section, so concurrent callers insert at most
// one admin.
func (r *UserRepository) CreateAdminIfAbsent(ctx context.Context, user domain.User) (bool, error) {
	_, err := r.store.Mutate(ctx, func(doc *domain.Document) error {
		if doc.HasAdmin() {
			return errAdminPresent
		}
		if _, exists := doc.UserByUsername(user.Username); exists {
			return domain.ErrDuplicateUsername
		}
		doc.Users = append(doc.Users, user)
		return nil
	})
	if errors.Is(err, errAdminPresent) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
