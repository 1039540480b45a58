package handlers

import (
	"booktank/internal/middleware"
	"booktank/internal/permissions"
	"booktank/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service, validate: newValidator()}
}

func (h *UserHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	userRoutes := router.Group("/user", authRequired)
	userRoutes.Get("/", middleware.AdminOnly(), h.HandleListUsers)
	userRoutes.Get("/:user_id", middleware.SelfOrAdmin("user_id"), h.HandleGetUser)
	userRoutes.Patch("/:user_id", middleware.SelfOnly("user_id"), h.HandleUpdateUser)
}

func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	id, err := permissions.ParseTargetID(c.Params("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// HandleUpdateUser lets users edit their own names and contact details.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id, err := permissions.ParseTargetID(c.Params("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	var req UserUpdateRequest
	if handled, err := parseAndValidate(c, h.validate, &req); handled {
		return err
	}

	user, err := h.service.Update(c.UserContext(), id, services.UserPatch{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
