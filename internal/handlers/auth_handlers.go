package handlers

import (
	"github.com/fathima-sithara/contacts-service/internal/middleware"
	"github.com/fathima-sithara/contacts-service/internal/services"
	"github.com/fathima-sithara/contacts-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// resetAckMsg is returned by forgot-password whether or not the email
// resolved to an account.
const resetAckMsg = "If an account exists, password reset instructions will be sent"

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type signupReq struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupReq
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation failed",
			"details": utils.FormatValidationErrors(err),
		})
	}

	if _, err := h.svc.Signup(c.Context(), req.Email, req.Password, req.FirstName, req.LastName); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created, waiting for admin approval",
	})
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation failed",
			"details": utils.FormatValidationErrors(err),
		})
	}

	tok, exp, user, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"token":      tok,
		"expires_at": exp.Unix(),
		"user":       user,
	})
}

type forgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordReq
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation failed",
			"details": utils.FormatValidationErrors(err),
		})
	}

	if err := h.svc.ForgotPassword(c.Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": resetAckMsg})
}

type resetPasswordReq struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordReq
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation failed",
			"details": utils.FormatValidationErrors(err),
		})
	}

	if err := h.svc.ResetPassword(c.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password has been reset"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.JSONError(c, fiber.StatusUnauthorized, "please authenticate")
	}
	return c.JSON(fiber.Map{"user": user})
}
