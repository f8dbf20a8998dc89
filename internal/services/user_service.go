package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fathima-sithara/contacts-service/internal/models"
	"github.com/fathima-sithara/contacts-service/internal/repository"
	"github.com/fathima-sithara/contacts-service/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", ErrInternal, err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrInternal, err)
	}
	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrInternal, err)
	}
	return user, nil
}

// Update mutates profile, role and status. Activation happens here: an admin
// sets status to active. The password is never mutable through this path.
func (s *userService) Update(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, ErrValidation
		}
		user.Role = *in.Role
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, ErrValidation
		}
		user.Status = *in.Status
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: update user: %v", ErrInternal, err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.userRepo.Delete(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: delete user: %v", ErrInternal, err)
	}
	return nil
}
