package handlers

import (
	"errors"
	"fmt"
	"log"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var iranPhone = regexp.MustCompile(`^(\+98|0)?9\d{9}$`)

// newValidator returns a validator with the project's custom tags registered.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone_ir", func(fl validator.FieldLevel) bool {
		return iranPhone.MatchString(fl.Field().String())
	})
	return v
}

// parseAndValidate binds the JSON body into req and validates it. On failure
// the 400 response has already been written and handled is true.
func parseAndValidate(c *fiber.Ctx, v *validator.Validate, req any) (handled bool, err error) {
	if err := c.BodyParser(req); err != nil {
		log.Printf("Error parsing %s %s request body: %v", c.Method(), c.Path(), err)
		return true, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := v.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return true, respondError(c, err)
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return true, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return false, nil
}
