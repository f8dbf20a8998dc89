package handlers

import (
	"io"
	"mime/multipart"

	"github.com/fathima-sithara/contacts-service/internal/middleware"
	"github.com/fathima-sithara/contacts-service/internal/services"
	"github.com/fathima-sithara/contacts-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	svc services.ContactService
}

func NewContactHandler(svc services.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

func (h *ContactHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.JSONError(c, fiber.StatusUnauthorized, "please authenticate")
	}

	in := services.CreateContactInput{
		FirstName:     c.FormValue("firstName"),
		LastName:      c.FormValue("lastName"),
		ContactNumber: c.FormValue("contactNumber"),
		EmailAddress:  c.FormValue("emailAddress"),
	}

	photo, err := readPhoto(c)
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
	}
	in.Photo = photo

	contact, err := h.svc.Create(c.Context(), user, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(contact)
}

func (h *ContactHandler) List(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.JSONError(c, fiber.StatusUnauthorized, "please authenticate")
	}
	contacts, err := h.svc.List(c.Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(contacts)
}

func (h *ContactHandler) Get(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.JSONError(c, fiber.StatusUnauthorized, "please authenticate")
	}
	contact, err := h.svc.Get(c.Context(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(contact)
}

type updateContactReq struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	ContactNumber *string `json:"contactNumber"`
	EmailAddress  *string `json:"emailAddress"`
}

func (h *ContactHandler) Update(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.JSONError(c, fiber.StatusUnauthorized, "please authenticate")
	}

	var in services.UpdateContactInput
	if form, err := c.MultipartForm(); err == nil {
		in.FirstName = formValue(form, "firstName")
		in.LastName = formValue(form, "lastName")
		in.ContactNumber = formValue(form, "contactNumber")
		in.EmailAddress = formValue(form, "emailAddress")
		photo, perr := readPhoto(c)
		if perr != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, perr.Error())
		}
		in.Photo = photo
	} else {
		var req updateContactReq
		if err := c.BodyParser(&req); err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
		}
		in = services.UpdateContactInput{
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			ContactNumber: req.ContactNumber,
			EmailAddress:  req.EmailAddress,
		}
	}

	contact, err := h.svc.Update(c.Context(), user, c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(contact)
}

func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.JSONError(c, fiber.StatusUnauthorized, "please authenticate")
	}
	if err := h.svc.Delete(c.Context(), user, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Contact deleted"})
}

type shareReq struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *ContactHandler) Share(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.JSONError(c, fiber.StatusUnauthorized, "please authenticate")
	}
	var req shareReq
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation failed",
			"details": utils.FormatValidationErrors(err),
		})
	}

	contact, err := h.svc.Share(c.Context(), user, c.Params("id"), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(contact)
}

func (h *ContactHandler) Unshare(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.JSONError(c, fiber.StatusUnauthorized, "please authenticate")
	}
	var req shareReq
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation failed",
			"details": utils.FormatValidationErrors(err),
		})
	}

	contact, err := h.svc.Unshare(c.Context(), user, c.Params("id"), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(contact)
}

func formValue(form *multipart.Form, key string) *string {
	vals, ok := form.Value[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

// readPhoto pulls the optional "photo" multipart file. A missing file is not
// an error; an invalid one is.
func readPhoto(c *fiber.Ctx) (*services.PhotoUpload, error) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return nil, nil
	}
	if err := utils.ValidatePhotoHeader(fileHeader); err != nil {
		return nil, err
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data := make([]byte, fileHeader.Size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}

	return &services.PhotoUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
