package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fathima-sithara/contacts-service/internal/models"
	"github.com/fathima-sithara/contacts-service/internal/services"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var errBucketDown = errors.New("bucket unavailable")

type contactFixture struct {
	users    *memUserRepo
	contacts *memContactRepo
	photos   *fakePhotoStore
	svc      services.ContactService
	owner    *models.User
	other    *models.User
}

func newContactFixture(t *testing.T) *contactFixture {
	t.Helper()
	f := &contactFixture{
		users:    newMemUserRepo(),
		contacts: newMemContactRepo(),
		photos:   &fakePhotoStore{},
	}
	f.svc = services.NewContactService(f.contacts, f.users, f.photos, zap.NewNop())
	f.owner = seedUser(t, f.users, "owner@x.com")
	f.other = seedUser(t, f.users, "b@x.com")
	return f
}

func seedUser(t *testing.T, users *memUserRepo, email string) *models.User {
	t.Helper()
	u := &models.User{
		Email:        email,
		PasswordHash: "irrelevant",
		FirstName:    "Test",
		LastName:     "User",
		Role:         models.RoleUser,
		Status:       models.StatusActive,
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func seedContact(t *testing.T, f *contactFixture) *models.Contact {
	t.Helper()
	c, err := f.svc.Create(context.Background(), f.owner, services.CreateContactInput{
		FirstName:     "John",
		LastName:      "Doe",
		ContactNumber: "+15550001",
		EmailAddress:  "john@doe.com",
	})
	require.NoError(t, err)
	return c
}

func TestCreateContactRequiresFields(t *testing.T) {
	f := newContactFixture(t)
	_, err := f.svc.Create(context.Background(), f.owner, services.CreateContactInput{
		FirstName: "John",
	})
	require.ErrorIs(t, err, services.ErrValidation)
}

func TestOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	f := newContactFixture(t)
	c := seedContact(t, f)
	id := c.ID.Hex()
	name := "Jane"

	// a stranger sees not-found on every operation, never forbidden
	_, err := f.svc.Get(ctx, f.other, id)
	require.ErrorIs(t, err, services.ErrNotFound)
	_, err = f.svc.Update(ctx, f.other, id, services.UpdateContactInput{FirstName: &name})
	require.ErrorIs(t, err, services.ErrNotFound)
	err = f.svc.Delete(ctx, f.other, id)
	require.ErrorIs(t, err, services.ErrNotFound)
	_, err = f.svc.Share(ctx, f.other, id, "owner@x.com")
	require.ErrorIs(t, err, services.ErrNotFound)
	_, err = f.svc.Unshare(ctx, f.other, id, "owner@x.com")
	require.ErrorIs(t, err, services.ErrNotFound)
}

func TestMalformedIDIsNotFound(t *testing.T) {
	f := newContactFixture(t)
	_, err := f.svc.Get(context.Background(), f.owner, "not-an-object-id")
	require.ErrorIs(t, err, services.ErrNotFound)
}

func TestShareGrantsReadOnly(t *testing.T) {
	ctx := context.Background()
	f := newContactFixture(t)
	c := seedContact(t, f)
	id := c.ID.Hex()

	shared, err := f.svc.Share(ctx, f.owner, id, "B@X.com")
	require.NoError(t, err)
	require.Len(t, shared.SharedWith, 1)
	require.Equal(t, f.other.ID.Hex(), shared.SharedWith[0].UserID)
	require.Equal(t, "b@x.com", shared.SharedWith[0].Email)

	// sharee can read
	got, err := f.svc.Get(ctx, f.other, id)
	require.NoError(t, err)
	require.Equal(t, c.ID, got.ID)

	list, err := f.svc.List(ctx, f.other)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// but cannot mutate
	name := "Jane"
	_, err = f.svc.Update(ctx, f.other, id, services.UpdateContactInput{FirstName: &name})
	require.ErrorIs(t, err, services.ErrNotFound)
	require.ErrorIs(t, f.svc.Delete(ctx, f.other, id), services.ErrNotFound)
}

func TestShareDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newContactFixture(t)
	c := seedContact(t, f)
	id := c.ID.Hex()

	_, err := f.svc.Share(ctx, f.owner, id, "b@x.com")
	require.NoError(t, err)

	// case variations count as the same grant
	_, err = f.svc.Share(ctx, f.owner, id, "B@X.COM")
	require.ErrorIs(t, err, services.ErrAlreadyShared)

	got, err := f.svc.Get(ctx, f.owner, id)
	require.NoError(t, err)
	require.Len(t, got.SharedWith, 1)
}

func TestShareUnknownRecipient(t *testing.T) {
	f := newContactFixture(t)
	c := seedContact(t, f)
	_, err := f.svc.Share(context.Background(), f.owner, c.ID.Hex(), "nobody@x.com")
	require.ErrorIs(t, err, services.ErrRecipientNotFound)
}

func TestUnshareRevokesAccess(t *testing.T) {
	ctx := context.Background()
	f := newContactFixture(t)
	c := seedContact(t, f)
	id := c.ID.Hex()

	_, err := f.svc.Share(ctx, f.owner, id, "b@x.com")
	require.NoError(t, err)

	got, err := f.svc.Unshare(ctx, f.owner, id, "B@x.com")
	require.NoError(t, err)
	require.Empty(t, got.SharedWith)

	_, err = f.svc.Get(ctx, f.other, id)
	require.ErrorIs(t, err, services.ErrNotFound)
}

func TestShareOrderPreserved(t *testing.T) {
	ctx := context.Background()
	f := newContactFixture(t)
	c := seedContact(t, f)
	id := c.ID.Hex()

	third := seedUser(t, f.users, "c@x.com")
	_, err := f.svc.Share(ctx, f.owner, id, "b@x.com")
	require.NoError(t, err)
	got, err := f.svc.Share(ctx, f.owner, id, "c@x.com")
	require.NoError(t, err)

	require.Len(t, got.SharedWith, 2)
	require.Equal(t, "b@x.com", got.SharedWith[0].Email)
	require.Equal(t, third.ID.Hex(), got.SharedWith[1].UserID)
}

func TestPhotoUploadFailureAbortsCreate(t *testing.T) {
	f := newContactFixture(t)
	f.photos.fail = true

	_, err := f.svc.Create(context.Background(), f.owner, services.CreateContactInput{
		FirstName:     "John",
		LastName:      "Doe",
		ContactNumber: "+15550001",
		EmailAddress:  "john@doe.com",
		Photo:         &services.PhotoUpload{Filename: "p.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}},
	})
	require.ErrorIs(t, err, services.ErrUpstream)
}

func TestPhotoUploadFailureAbortsUpdate(t *testing.T) {
	ctx := context.Background()
	f := newContactFixture(t)
	c := seedContact(t, f)

	f.photos.fail = true
	_, err := f.svc.Update(ctx, f.owner, c.ID.Hex(), services.UpdateContactInput{
		Photo: &services.PhotoUpload{Filename: "p.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}},
	})
	require.ErrorIs(t, err, services.ErrUpstream)

	// the stored record keeps its previous state
	got, err := f.svc.Get(ctx, f.owner, c.ID.Hex())
	require.NoError(t, err)
	require.Empty(t, got.Photo)
}

func TestUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	f := newContactFixture(t)
	c := seedContact(t, f)
	name := "Jane"

	got, err := f.svc.Update(ctx, f.owner, c.ID.Hex(), services.UpdateContactInput{FirstName: &name})
	require.NoError(t, err)
	require.Equal(t, "Jane", got.FirstName)
	require.Equal(t, "Doe", got.LastName)
	require.Equal(t, "+15550001", got.ContactNumber)
}

func TestListOnlyVisibleContacts(t *testing.T) {
	ctx := context.Background()
	f := newContactFixture(t)
	seedContact(t, f)

	list, err := f.svc.List(ctx, f.other)
	require.NoError(t, err)
	require.Empty(t, list)

	list, err = f.svc.List(ctx, f.owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestOwnerImmutable(t *testing.T) {
	ctx := context.Background()
	f := newContactFixture(t)
	c := seedContact(t, f)
	name := "Jane"

	got, err := f.svc.Update(ctx, f.owner, c.ID.Hex(), services.UpdateContactInput{FirstName: &name})
	require.NoError(t, err)
	require.Equal(t, f.owner.ID, got.Owner)
	require.NotEqual(t, primitive.NilObjectID, got.Owner)
}
