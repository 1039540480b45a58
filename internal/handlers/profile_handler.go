package handlers

import (
	"log"

	"booktank/internal/middleware"
	"booktank/internal/permissions"
	"booktank/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles customer and author profiles and cities.
type ProfileHandler struct {
	service  *services.ProfileService
	validate *validator.Validate
}

func NewProfileHandler(service *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service, validate: newValidator()}
}

func (h *ProfileHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	profileRoutes := router.Group("/profile")

	profileRoutes.Get("/city", h.HandleListCities)
	profileRoutes.Post("/city", authRequired, middleware.AdminOnly(), h.HandleCreateCity)

	profileRoutes.Post("/customer", h.HandleCreateCustomer)
	profileRoutes.Get("/customer/:user_id", authRequired, middleware.SelfOrAdmin("user_id"), h.HandleGetCustomer)
	profileRoutes.Patch("/customer/:user_id", authRequired, middleware.AdminOnly(), h.HandleUpdateCustomer)
	profileRoutes.Delete("/customer/:user_id", authRequired, middleware.SelfOrAdmin("user_id"), h.HandleDeleteCustomer)

	profileRoutes.Post("/author", authRequired, middleware.AdminOnly(), h.HandleCreateAuthor)
	profileRoutes.Get("/author/:user_id", authRequired, h.HandleGetAuthor)
	profileRoutes.Patch("/author/:user_id", authRequired, middleware.SelfOrAdmin("user_id"), h.HandleUpdateAuthor)
}

func (h *ProfileHandler) HandleListCities(c *fiber.Ctx) error {
	cities, err := h.service.ListCities(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cities)
}

func (h *ProfileHandler) HandleCreateCity(c *fiber.Ctx) error {
	var req CityRequest
	if handled, err := parseAndValidate(c, h.validate, &req); handled {
		return err
	}
	city, err := h.service.CreateCity(c.UserContext(), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(city)
}

// HandleCreateCustomer is the public sign-up path that also creates the
// customer profile.
func (h *ProfileHandler) HandleCreateCustomer(c *fiber.Ctx) error {
	var req UserRequest
	if handled, err := parseAndValidate(c, h.validate, &req); handled {
		return err
	}
	customer, err := h.service.CreateCustomer(c.UserContext(), req.input())
	if err != nil {
		log.Printf("Error creating customer %s: %v", req.Username, err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

func (h *ProfileHandler) HandleGetCustomer(c *fiber.Ctx) error {
	id, err := permissions.ParseTargetID(c.Params("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	customer, err := h.service.GetCustomer(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customer)
}

func (h *ProfileHandler) HandleUpdateCustomer(c *fiber.Ctx) error {
	id, err := permissions.ParseTargetID(c.Params("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	var req CustomerUpdateRequest
	if handled, err := parseAndValidate(c, h.validate, &req); handled {
		return err
	}
	customer, err := h.service.UpdateCustomer(c.UserContext(), id, services.CustomerPatch{
		SubscriptionModel: req.SubscriptionModel,
		SubscriptionEnd:   req.SubscriptionEnd.ptr(),
		WalletMoney:       req.WalletMoney,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customer)
}

func (h *ProfileHandler) HandleDeleteCustomer(c *fiber.Ctx) error {
	id, err := permissions.ParseTargetID(c.Params("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteCustomer(c.UserContext(), id); err != nil {
		log.Printf("Error deleting customer %d: %v", id, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted successfully"})
}

func (h *ProfileHandler) HandleCreateAuthor(c *fiber.Ctx) error {
	var req AuthorRequest
	if handled, err := parseAndValidate(c, h.validate, &req); handled {
		return err
	}
	author, err := h.service.CreateAuthor(c.UserContext(), services.AuthorInput{
		User:       req.User.input(),
		CityID:     req.CityID,
		BankNumber: req.BankNumber,
	})
	if err != nil {
		log.Printf("Error creating author %s: %v", req.User.Username, err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(author)
}

func (h *ProfileHandler) HandleGetAuthor(c *fiber.Ctx) error {
	id, err := permissions.ParseTargetID(c.Params("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	author, err := h.service.GetAuthor(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(author)
}

func (h *ProfileHandler) HandleUpdateAuthor(c *fiber.Ctx) error {
	id, err := permissions.ParseTargetID(c.Params("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	var req AuthorUpdateRequest
	if handled, err := parseAndValidate(c, h.validate, &req); handled {
		return err
	}
	author, err := h.service.UpdateAuthor(c.UserContext(), id, services.AuthorPatch{
		CityID:     req.CityID,
		BankNumber: req.BankNumber,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(author)
}
