package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"

	"github.com/disintegration/imaging"
	"github.com/fathima-sithara/contacts-service/internal/models"
	"github.com/fathima-sithara/contacts-service/internal/repository"
	"github.com/fathima-sithara/contacts-service/internal/utils"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// photos larger than this on either axis are downscaled before upload
const maxPhotoDimension = 1024

type contactService struct {
	contactRepo repository.ContactRepository
	userRepo    repository.UserRepository
	photos      PhotoStore
	logger      *zap.Logger
}

func NewContactService(
	contactRepo repository.ContactRepository,
	userRepo repository.UserRepository,
	photos PhotoStore,
	logger *zap.Logger,
) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		userRepo:    userRepo,
		photos:      photos,
		logger:      logger,
	}
}

func (s *contactService) Create(ctx context.Context, owner *models.User, in CreateContactInput) (*models.Contact, error) {
	if in.FirstName == "" || in.LastName == "" || in.ContactNumber == "" || in.EmailAddress == "" {
		return nil, ErrValidation
	}

	contact := &models.Contact{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		ContactNumber: in.ContactNumber,
		EmailAddress:  in.EmailAddress,
		Owner:         owner.ID,
		SharedWith:    []models.ShareEntry{},
	}

	if in.Photo != nil {
		url, err := s.uploadPhoto(ctx, owner.ID.Hex(), in.Photo)
		if err != nil {
			return nil, err
		}
		contact.Photo = url
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("%w: create contact: %v", ErrInternal, err)
	}
	return contact, nil
}

func (s *contactService) List(ctx context.Context, user *models.User) ([]models.Contact, error) {
	contacts, err := s.contactRepo.FindVisible(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: list contacts: %v", ErrInternal, err)
	}
	return contacts, nil
}

func (s *contactService) Get(ctx context.Context, user *models.User, id string) (*models.Contact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	contact, err := s.contactRepo.FindVisibleByID(ctx, oid, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find contact: %v", ErrInternal, err)
	}
	return contact, nil
}

func (s *contactService) Update(ctx context.Context, user *models.User, id string, in UpdateContactInput) (*models.Contact, error) {
	contact, err := s.findOwned(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		contact.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		contact.LastName = *in.LastName
	}
	if in.ContactNumber != nil {
		contact.ContactNumber = *in.ContactNumber
	}
	if in.EmailAddress != nil {
		contact.EmailAddress = *in.EmailAddress
	}
	if contact.FirstName == "" || contact.LastName == "" || contact.ContactNumber == "" || contact.EmailAddress == "" {
		return nil, ErrValidation
	}

	if in.Photo != nil {
		url, err := s.uploadPhoto(ctx, user.ID.Hex(), in.Photo)
		if err != nil {
			return nil, err
		}
		contact.Photo = url
	}

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("%w: update contact: %v", ErrInternal, err)
	}
	return contact, nil
}

func (s *contactService) Delete(ctx context.Context, user *models.User, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.contactRepo.DeleteOwned(ctx, oid, user.ID); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: delete contact: %v", ErrInternal, err)
	}
	return nil
}

func (s *contactService) Share(ctx context.Context, user *models.User, id, email string) (*models.Contact, error) {
	normalized := utils.NormalizeEmail(email)
	recipient, err := s.userRepo.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("%w: find recipient: %v", ErrInternal, err)
	}

	contact, err := s.findOwned(ctx, user, id)
	if err != nil {
		return nil, err
	}

	for _, entry := range contact.SharedWith {
		if entry.Email == normalized {
			return nil, ErrAlreadyShared
		}
	}

	contact.SharedWith = append(contact.SharedWith, models.ShareEntry{
		UserID: recipient.ID.Hex(),
		Email:  normalized,
	})
	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("%w: share contact: %v", ErrInternal, err)
	}
	return contact, nil
}

func (s *contactService) Unshare(ctx context.Context, user *models.User, id, email string) (*models.Contact, error) {
	contact, err := s.findOwned(ctx, user, id)
	if err != nil {
		return nil, err
	}

	normalized := utils.NormalizeEmail(email)
	kept := contact.SharedWith[:0]
	for _, entry := range contact.SharedWith {
		if entry.Email != normalized {
			kept = append(kept, entry)
		}
	}
	contact.SharedWith = kept

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("%w: unshare contact: %v", ErrInternal, err)
	}
	return contact, nil
}

func (s *contactService) findOwned(ctx context.Context, user *models.User, id string) (*models.Contact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	contact, err := s.contactRepo.FindOwnedByID(ctx, oid, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find contact: %v", ErrInternal, err)
	}
	return contact, nil
}

// uploadPhoto stores an explicitly supplied photo and returns its URL. An
// upload failure aborts the surrounding request on create and update alike;
// a photo the caller asked for is never silently dropped.
func (s *contactService) uploadPhoto(ctx context.Context, ownerID string, photo *PhotoUpload) (string, error) {
	data := photo.Data
	contentType := photo.ContentType

	if img, err := imaging.Decode(bytes.NewReader(data)); err == nil {
		b := img.Bounds()
		if b.Dx() > maxPhotoDimension || b.Dy() > maxPhotoDimension {
			resized := imaging.Fit(img, maxPhotoDimension, maxPhotoDimension, imaging.Lanczos)
			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err == nil {
				data = buf.Bytes()
				contentType = "image/jpeg"
			}
		}
	}

	key := fmt.Sprintf("contacts/%s/%s_%s", ownerID, uuid.NewString(), photo.Filename)
	url, err := s.photos.Upload(ctx, key, contentType, data)
	if err != nil {
		s.logger.Error("photo upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%w: photo upload: %v", ErrUpstream, err)
	}
	return url, nil
}
