package utils

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs validator tags on a request DTO.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message,omitempty"`
}

// FormatValidationErrors converts validator.ValidationErrors into a slice of ValidationError
func FormatValidationErrors(err error) []ValidationError {
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make([]ValidationError, len(ve))
		for i, fe := range ve {
			out[i] = ValidationError{Field: fe.Field(), Tag: fe.Tag()}
			switch fe.Tag() {
			case "required":
				out[i].Message = fmt.Sprintf("%s is required", fe.Field())
			case "email":
				out[i].Message = fmt.Sprintf("%s must be a valid email address", fe.Field())
			case "min":
				out[i].Message = fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
			default:
				out[i].Message = fmt.Sprintf("Validation failed on field '%s' for tag '%s'", fe.Field(), fe.Tag())
			}
		}
		return out
	}
	return nil
}

const maxPhotoSize = 5 * 1024 * 1024

var allowedPhotoTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/gif":  true,
}

// ValidatePhotoHeader checks an uploaded contact photo before it is read.
func ValidatePhotoHeader(h *multipart.FileHeader) error {
	if h.Size == 0 || h.Size > maxPhotoSize {
		return errors.New("photo size not allowed")
	}
	if !allowedPhotoTypes[h.Header.Get("Content-Type")] {
		return errors.New("photo must be an image")
	}
	return nil
}
