package handlers

import (
	"log"

	"booktank/internal/middleware"
	"booktank/internal/permissions"
	"booktank/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// BookHandler handles HTTP requests for the catalog.
type BookHandler struct {
	service  *services.BookService
	validate *validator.Validate
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(service *services.BookService) *BookHandler {
	return &BookHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the book routes. Reads are public.
func (h *BookHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	bookRoutes := router.Group("/book")
	bookRoutes.Get("/", h.HandleGetBooks)
	bookRoutes.Get("/:id", h.HandleGetBookByID)
	bookRoutes.Post("/", authRequired, middleware.AuthorOrAdmin(), h.HandleCreateBook)
	bookRoutes.Patch("/:id", authRequired, middleware.AuthorOrAdmin(), h.HandleUpdateBook)
	bookRoutes.Delete("/:id", authRequired, middleware.AdminOnly(), h.HandleDeleteBook)
}

func (h *BookHandler) HandleGetBooks(c *fiber.Ctx) error {
	books, err := h.service.ListBooks(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(books)
}

func (h *BookHandler) HandleGetBookByID(c *fiber.Ctx) error {
	id, err := permissions.ParseTargetID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	book, err := h.service.GetBook(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(book)
}

// HandleCreateBook creates a book. Authors always create it under their own name.
func (h *BookHandler) HandleCreateBook(c *fiber.Ctx) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var req BookRequest
	if handled, err := parseAndValidate(c, h.validate, &req); handled {
		return err
	}

	book, err := h.service.CreateBook(c.UserContext(), principal, services.BookInput{
		Title:       req.Title,
		ISBN:        req.ISBN,
		Price:       req.Price,
		Description: req.Description,
		Unit:        req.Unit,
		AuthorIDs:   req.AuthorIDs,
		Blurbs:      req.Blurbs,
	})
	if err != nil {
		log.Printf("Error creating book %s: %v", req.ISBN, err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(book)
}

func (h *BookHandler) HandleUpdateBook(c *fiber.Ctx) error {
	id, err := permissions.ParseTargetID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	var req BookUpdateRequest
	if handled, err := parseAndValidate(c, h.validate, &req); handled {
		return err
	}

	book, err := h.service.UpdateBook(c.UserContext(), id, services.BookPatch{
		Title:       req.Title,
		ISBN:        req.ISBN,
		Price:       req.Price,
		Description: req.Description,
		Unit:        req.Unit,
		AuthorIDs:   req.AuthorIDs,
		Blurbs:      req.Blurbs,
	})
	if err != nil {
		log.Printf("Error updating book %d: %v", id, err)
		return respondError(c, err)
	}
	return c.JSON(book)
}

func (h *BookHandler) HandleDeleteBook(c *fiber.Ctx) error {
	id, err := permissions.ParseTargetID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteBook(c.UserContext(), id); err != nil {
		log.Printf("Error deleting book %d: %v", id, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Book deleted successfully"})
}
