package handlers

import (
	"github.com/fathima-sithara/contacts-service/internal/models"
	"github.com/fathima-sithara/contacts-service/internal/services"
	"github.com/fathima-sithara/contacts-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	svc services.UserService
}

func NewUserHandler(svc services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.svc.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *UserHandler) GetByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return utils.JSONError(c, fiber.StatusBadRequest, "email is required")
	}
	user, err := h.svc.GetByEmail(c.Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

type updateUserReq struct {
	FirstName *string        `json:"firstName"`
	LastName  *string        `json:"lastName"`
	Role      *models.Role   `json:"role"`
	Status    *models.Status `json:"status"`
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var req updateUserReq
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}

	user, err := h.svc.Update(c.Context(), c.Params("id"), services.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Status:    req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
