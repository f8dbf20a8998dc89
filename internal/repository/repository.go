package repository

import (
	"context"
	"errors"

	"github.com/fathima-sithara/contacts-service/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrContactNotFound = errors.New("contact not found")
	ErrDuplicateEmail  = errors.New("email already exists")
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ContactRepository interface {
	Create(ctx context.Context, c *models.Contact) error
	// FindVisible returns every contact the user owns or is shared on.
	FindVisible(ctx context.Context, userID primitive.ObjectID) ([]models.Contact, error)
	// FindVisibleByID returns the contact only when the user owns it or has a
	// share entry; otherwise ErrContactNotFound.
	FindVisibleByID(ctx context.Context, id, userID primitive.ObjectID) (*models.Contact, error)
	// FindOwnedByID returns the contact only when the user owns it.
	FindOwnedByID(ctx context.Context, id, owner primitive.ObjectID) (*models.Contact, error)
	Update(ctx context.Context, c *models.Contact) error
	// DeleteOwned removes the contact when owned by the user, otherwise
	// ErrContactNotFound.
	DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) error
}
