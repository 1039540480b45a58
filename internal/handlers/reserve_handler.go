package handlers

import (
	"strconv"

	"booktank/internal/apperrors"
	"booktank/internal/middleware"
	"booktank/internal/permissions"
	"booktank/internal/repositories"
	"booktank/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReserveHandler handles HTTP requests for reservations. Ownership checks
// happen in the service, which knows the reservation's customer.
type ReserveHandler struct {
	service  *services.ReserveService
	validate *validator.Validate
}

func NewReserveHandler(service *services.ReserveService) *ReserveHandler {
	return &ReserveHandler{service: service, validate: newValidator()}
}

func (h *ReserveHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	reserveRoutes := router.Group("/reserve", authRequired)
	reserveRoutes.Get("/", h.HandleListReserves)
	reserveRoutes.Post("/", h.HandleCreateReserve)
	reserveRoutes.Get("/:id", h.HandleGetReserve)
	reserveRoutes.Patch("/:id", h.HandleUpdateReserve)
	reserveRoutes.Delete("/:id", h.HandleDeleteReserve)
}

func (h *ReserveHandler) HandleCreateReserve(c *fiber.Ctx) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var req ReserveRequest
	if handled, err := parseAndValidate(c, h.validate, &req); handled {
		return err
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return respondError(c, apperrors.Validation("start and end are required"))
	}

	reserve, err := h.service.Create(c.UserContext(), principal, services.ReserveInput{
		CustomerID: req.CustomerID,
		BookID:     req.BookID,
		Start:      req.Start.Time,
		End:        req.End.Time,
		Price:      req.Price,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reserve)
}

// HandleListReserves accepts optional customer_id and book_id filters.
func (h *ReserveHandler) HandleListReserves(c *fiber.Ctx) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var filter repositories.ReserveFilter
	for key, dst := range map[string]*int64{"customer_id": &filter.CustomerID, "book_id": &filter.BookID} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return respondError(c, apperrors.MalformedRequest("invalid %s %q", key, raw))
		}
		*dst = v
	}

	reserves, err := h.service.List(c.UserContext(), principal, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reserves)
}

func (h *ReserveHandler) HandleGetReserve(c *fiber.Ctx) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := permissions.ParseTargetID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	reserve, err := h.service.Get(c.UserContext(), principal, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reserve)
}

func (h *ReserveHandler) HandleUpdateReserve(c *fiber.Ctx) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := permissions.ParseTargetID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	var req ReserveUpdateRequest
	if handled, err := parseAndValidate(c, h.validate, &req); handled {
		return err
	}

	reserve, err := h.service.Update(c.UserContext(), principal, id, services.ReservePatch{
		CustomerID: req.CustomerID,
		BookID:     req.BookID,
		Start:      req.Start.ptr(),
		End:        req.End.ptr(),
		Price:      req.Price,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reserve)
}

// HandleDeleteReserve succeeds whether or not the reservation exists.
func (h *ReserveHandler) HandleDeleteReserve(c *fiber.Ctx) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := permissions.ParseTargetID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), principal, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reserve deleted successfully"})
}
