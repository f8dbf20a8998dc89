package services

import (
	"context"
	"errors"
	"time"

	"github.com/fathima-sithara/contacts-service/internal/models"
)

// Sentinel errors form the outward error taxonomy. The HTTP layer maps each
// to a status code in one place; handlers never pick statuses themselves.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrAlreadyShared      = errors.New("contact already shared with this user")
	ErrRecipientNotFound  = errors.New("user with this email not found")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrValidation         = errors.New("validation failed")
	ErrUpstream           = errors.New("upstream service failure")
	ErrInternal           = errors.New("internal server error")
)

// Mailer sends transactional email. Failures are logged by callers, never
// surfaced to the requester.
type Mailer interface {
	SendResetEmail(ctx context.Context, toEmail, resetLink string) error
}

// PhotoStore stores uploaded photo bytes and returns a public URL.
type PhotoStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type AuthService interface {
	Signup(ctx context.Context, email, password, firstName, lastName string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, time.Time, *models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, tokenStr, newPassword string) error
}

// PhotoUpload carries the bytes of an explicitly supplied contact photo.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type CreateContactInput struct {
	FirstName     string
	LastName      string
	ContactNumber string
	EmailAddress  string
	Photo         *PhotoUpload
}

type UpdateContactInput struct {
	FirstName     *string
	LastName      *string
	ContactNumber *string
	EmailAddress  *string
	Photo         *PhotoUpload
}

type ContactService interface {
	Create(ctx context.Context, owner *models.User, in CreateContactInput) (*models.Contact, error)
	List(ctx context.Context, user *models.User) ([]models.Contact, error)
	Get(ctx context.Context, user *models.User, id string) (*models.Contact, error)
	Update(ctx context.Context, user *models.User, id string, in UpdateContactInput) (*models.Contact, error)
	Delete(ctx context.Context, user *models.User, id string) error
	Share(ctx context.Context, user *models.User, id, email string) (*models.Contact, error)
	Unshare(ctx context.Context, user *models.User, id, email string) (*models.Contact, error)
}

type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Role      *models.Role
	Status    *models.Status
}

type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
