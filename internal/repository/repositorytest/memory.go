// Package repositorytest provides in-memory repository implementations for
// tests.
package repositorytest

import (
	"context"
	"sync"

	"github.com/fathima-sithara/contacts-service/internal/models"
	"github.com/fathima-sithara/contacts-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *UserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) FindAll(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *UserRepo) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type ContactRepo struct {
	mu       sync.Mutex
	contacts map[primitive.ObjectID]*models.Contact
}

func NewContactRepo() *ContactRepo {
	return &ContactRepo{contacts: make(map[primitive.ObjectID]*models.Contact)}
}

func copyContact(c *models.Contact) *models.Contact {
	cp := *c
	cp.SharedWith = append([]models.ShareEntry(nil), c.SharedWith...)
	return &cp
}

func (r *ContactRepo) Create(_ context.Context, c *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = primitive.NewObjectID()
	r.contacts[c.ID] = copyContact(c)
	return nil
}

func (r *ContactRepo) FindVisible(_ context.Context, userID primitive.ObjectID) ([]models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Contact
	for _, c := range r.contacts {
		if c.Owner == userID || c.IsSharedWith(userID.Hex()) {
			out = append(out, *copyContact(c))
		}
	}
	return out, nil
}

func (r *ContactRepo) FindVisibleByID(_ context.Context, id, userID primitive.ObjectID) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || (c.Owner != userID && !c.IsSharedWith(userID.Hex())) {
		return nil, repository.ErrContactNotFound
	}
	return copyContact(c), nil
}

func (r *ContactRepo) FindOwnedByID(_ context.Context, id, owner primitive.ObjectID) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || c.Owner != owner {
		return nil, repository.ErrContactNotFound
	}
	return copyContact(c), nil
}

func (r *ContactRepo) Update(_ context.Context, c *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contacts[c.ID]; !ok {
		return repository.ErrContactNotFound
	}
	r.contacts[c.ID] = copyContact(c)
	return nil
}

func (r *ContactRepo) DeleteOwned(_ context.Context, id, owner primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || c.Owner != owner {
		return repository.ErrContactNotFound
	}
	delete(r.contacts, id)
	return nil
}
