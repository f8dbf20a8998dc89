package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fathima-sithara/contacts-service/internal/models"
	"github.com/fathima-sithara/contacts-service/internal/repository"
	"github.com/fathima-sithara/contacts-service/internal/token"
	"github.com/fathima-sithara/contacts-service/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
	mailer   Mailer
	appURL   string
	hashCost int
	logger   *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens *token.Manager,
	mailer Mailer,
	appURL string,
	hashCost int,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
		appURL:   appURL,
		hashCost: hashCost,
		logger:   logger,
	}
}

// Signup creates an inactive account. Activation is an admin action; until
// then the account cannot authenticate.
func (s *authService) Signup(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	hash, err := utils.HashPassword(password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	user := &models.User{
		Email:        utils.NormalizeEmail(email),
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         models.RoleUser,
		Status:       models.StatusInactive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrInternal, err)
	}
	return user, nil
}

// Login exchanges a correct email/password pair for a session token. Unknown
// users, inactive accounts and wrong passwords all produce the same error.
func (s *authService) Login(ctx context.Context, email, password string) (string, time.Time, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", time.Time{}, nil, ErrInvalidCredentials
		}
		return "", time.Time{}, nil, fmt.Errorf("%w: find user: %v", ErrInternal, err)
	}

	if user.Status != models.StatusActive {
		return "", time.Time{}, nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return "", time.Time{}, nil, ErrInvalidCredentials
	}

	tok, exp, err := s.tokens.GenerateSessionToken(user.ID.Hex())
	if err != nil {
		return "", time.Time{}, nil, fmt.Errorf("%w: sign token: %v", ErrInternal, err)
	}
	return tok, exp, user, nil
}

// ForgotPassword starts a reset flow. It returns nil for unknown emails too,
// so the caller's acknowledgement never reveals whether an account exists.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	normalized := utils.NormalizeEmail(email)
	user, err := s.userRepo.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("%w: find user: %v", ErrInternal, err)
	}

	tok, exp, err := s.tokens.GenerateResetToken(user.ID.Hex())
	if err != nil {
		return fmt.Errorf("%w: sign reset token: %v", ErrInternal, err)
	}

	// the stored copy lets a later reset-password call check the token is the
	// one most recently issued and still live, independent of the signature
	user.ResetToken = tok
	user.ResetTokenExpires = exp
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("%w: save reset token: %v", ErrInternal, err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, tok)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.mailer.SendResetEmail(sendCtx, normalized, resetLink); err != nil {
			s.logger.Warn("failed to send password reset email",
				zap.String("email", normalized), zap.Error(err))
		}
	}()

	return nil
}

// ResetPassword consumes a reset token exactly once. Bad signature, wrong
// purpose, token mismatch and expiry all yield the same error.
func (s *authService) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	userID, err := s.tokens.ParseReset(tokenStr)
	if err != nil {
		return ErrInvalidResetToken
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrInvalidResetToken
	}
	user, err := s.userRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("%w: find user: %v", ErrInternal, err)
	}

	if user.ResetToken == "" || user.ResetToken != tokenStr {
		return ErrInvalidResetToken
	}
	if !user.ResetTokenExpires.After(time.Now()) {
		return ErrInvalidResetToken
	}

	hash, err := utils.HashPassword(newPassword, s.hashCost)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	user.PasswordHash = hash
	user.ResetToken = ""
	user.ResetTokenExpires = time.Now().Add(-time.Hour)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("%w: save password: %v", ErrInternal, err)
	}
	return nil
}
