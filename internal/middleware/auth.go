package middleware

import (
	"strings"

	"github.com/fathima-sithara/contacts-service/internal/models"
	"github.com/fathima-sithara/contacts-service/internal/repository"
	"github.com/fathima-sithara/contacts-service/internal/token"
	"github.com/fathima-sithara/contacts-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const currentUserKey = "currentUser"

// a single outward message for every authentication failure, so callers
// cannot distinguish unknown accounts from inactive ones or bad tokens
const authFailedMsg = "please authenticate"

type Auth struct {
	tokens *token.Manager
	users  repository.UserRepository
}

func NewAuth(tokens *token.Manager, users repository.UserRepository) *Auth {
	return &Auth{tokens: tokens, users: users}
}

// RequireAuth extracts the bearer token, verifies it as a session token,
// loads the user and rejects inactive or unknown accounts. On success the
// loaded user is attached for CurrentUser.
func (a *Auth) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return utils.JSONError(c, fiber.StatusUnauthorized, authFailedMsg)
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return utils.JSONError(c, fiber.StatusUnauthorized, authFailedMsg)
		}

		userID, err := a.tokens.ParseSession(parts[1])
		if err != nil {
			return utils.JSONError(c, fiber.StatusUnauthorized, authFailedMsg)
		}
		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return utils.JSONError(c, fiber.StatusUnauthorized, authFailedMsg)
		}

		user, err := a.users.FindByID(c.Context(), oid)
		if err != nil {
			return utils.JSONError(c, fiber.StatusUnauthorized, authFailedMsg)
		}
		if user.Status != models.StatusActive {
			return utils.JSONError(c, fiber.StatusUnauthorized, authFailedMsg)
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// RequireRole gates a route on the ordered role ladder. It must run after
// RequireAuth.
func (a *Auth) RequireRole(min models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return utils.JSONError(c, fiber.StatusUnauthorized, authFailedMsg)
		}
		if !user.Role.Meets(min) {
			return utils.JSONError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// CurrentUser returns the identity attached by RequireAuth.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(currentUserKey).(*models.User)
	return user, ok
}
