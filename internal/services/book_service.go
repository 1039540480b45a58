package services

import (
	"context"
	"strings"
	"time"

	"booktank/internal/apperrors"
	"booktank/internal/models"
	"booktank/internal/permissions"
	"booktank/internal/repositories"
)

// BookInput describes a new book. AuthorIDs and Blurbs pair up by index.
type BookInput struct {
	Title       string
	ISBN        string
	Price       int64
	Description *string
	Unit        int64
	AuthorIDs   []int64
	Blurbs      []string
}

// BookPatch describes a partial update. Nil fields are left untouched; a
// non-nil AuthorIDs replaces every author link of the book.
type BookPatch struct {
	Title       *string
	ISBN        *string
	Price       *int64
	Description *string
	Unit        *int64
	AuthorIDs   *[]int64
	Blurbs      *[]string
}

// Empty reports whether the patch changes nothing.
func (p BookPatch) Empty() bool {
	return p == BookPatch{}
}

// BookService owns books and their author links.
type BookService struct {
	uow       repositories.UnitOfWork
	publisher EventPublisher
	now       func() time.Time
}

// NewBookService creates a new BookService. publisher may be nil.
func NewBookService(uow repositories.UnitOfWork, publisher EventPublisher) *BookService {
	return &BookService{uow: uow, publisher: publisher, now: time.Now}
}

// CreateBook stores a book and one link per author. When actor is an author
// the links are replaced by a single link to the actor, blurbed with their
// first name.
func (s *BookService) CreateBook(ctx context.Context, actor permissions.Principal, in BookInput) (models.Book, error) {
	if actor.Role != models.RoleAuthor {
		if len(in.AuthorIDs) != len(in.Blurbs) {
			return models.Book{}, apperrors.Validation("each author must have a corresponding blurb")
		}
	}
	if err := validateBookFields(&in.Title, &in.ISBN, in.Description, &in.Price, &in.Unit); err != nil {
		return models.Book{}, err
	}

	var book models.Book
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		authorIDs, blurbs := in.AuthorIDs, in.Blurbs
		if actor.Role == models.RoleAuthor {
			self, found, err := tx.Users().GetByID(actor.ID)
			if err != nil {
				return err
			}
			if !found {
				return apperrors.NotFound("author")
			}
			blurb := self.FirstName
			if blurb == "" {
				blurb = self.Username
			}
			authorIDs, blurbs = []int64{actor.ID}, []string{blurb}
		}

		if _, found, err := tx.Books().GetByISBN(in.ISBN); err != nil {
			return err
		} else if found {
			return apperrors.Conflict("book", "book with ISBN %s already exists", in.ISBN)
		}
		links, err := resolveAuthorLinks(tx, authorIDs, blurbs)
		if err != nil {
			return err
		}

		book = models.Book{
			Title:       in.Title,
			ISBN:        in.ISBN,
			Price:       in.Price,
			Description: in.Description,
			Unit:        in.Unit,
		}
		models.Touch(&book.CreatedAt, &book.UpdatedAt, s.now())
		if err := tx.Books().Create(&book); err != nil {
			return err
		}
		if err := tx.Books().ReplaceAuthors(book.ID, links); err != nil {
			return err
		}
		book, err = loadBook(tx, book.ID)
		return err
	})
	if err != nil {
		return models.Book{}, err
	}
	publish(ctx, s.publisher, EventBookCreated, book)
	return book, nil
}

// UpdateBook applies patch. An empty patch writes nothing.
func (s *BookService) UpdateBook(ctx context.Context, id int64, patch BookPatch) (models.Book, error) {
	if patch.AuthorIDs != nil {
		var blurbs []string
		if patch.Blurbs != nil {
			blurbs = *patch.Blurbs
		}
		if len(*patch.AuthorIDs) != len(blurbs) {
			return models.Book{}, apperrors.Validation("each author must have a corresponding blurb")
		}
	} else if patch.Blurbs != nil {
		return models.Book{}, apperrors.Validation("blurbs require author_ids")
	}
	if err := validateBookFields(patch.Title, patch.ISBN, patch.Description, patch.Price, patch.Unit); err != nil {
		return models.Book{}, err
	}

	var book models.Book
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		b, err := loadBook(tx, id)
		if err != nil {
			return err
		}
		if patch.Empty() {
			book = b
			return nil
		}

		if patch.ISBN != nil && *patch.ISBN != b.ISBN {
			other, found, err := tx.Books().GetByISBN(*patch.ISBN)
			if err != nil {
				return err
			}
			if found && other.ID != b.ID {
				return apperrors.Conflict("book", "ISBN must be unique")
			}
			b.ISBN = *patch.ISBN
		}
		if patch.Title != nil {
			b.Title = *patch.Title
		}
		if patch.Price != nil {
			b.Price = *patch.Price
		}
		if patch.Description != nil {
			b.Description = patch.Description
		}
		if patch.Unit != nil {
			b.Unit = *patch.Unit
		}
		models.Touch(&b.CreatedAt, &b.UpdatedAt, s.now())
		if err := tx.Books().Update(&b); err != nil {
			return err
		}

		if patch.AuthorIDs != nil {
			var blurbs []string
			if patch.Blurbs != nil {
				blurbs = *patch.Blurbs
			}
			links, err := resolveAuthorLinks(tx, *patch.AuthorIDs, blurbs)
			if err != nil {
				return err
			}
			if err := tx.Books().ReplaceAuthors(b.ID, links); err != nil {
				return err
			}
		}
		book, err = loadBook(tx, b.ID)
		return err
	})
	if err != nil {
		return models.Book{}, err
	}
	if !patch.Empty() {
		publish(ctx, s.publisher, EventBookUpdated, book)
	}
	return book, nil
}

// DeleteBook removes a book and its author links. Books that are still
// reserved cannot be deleted.
func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		if _, err := loadBook(tx, id); err != nil {
			return err
		}
		n, err := tx.Reserves().CountByBook(id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.Conflict("book", "cannot delete book with reservations")
		}
		deleted, err := tx.Books().Delete(id)
		if err != nil {
			return err
		}
		if !deleted {
			return apperrors.NotFound("book")
		}
		return nil
	})
	if err != nil {
		return err
	}
	publish(ctx, s.publisher, EventBookDeleted, map[string]int64{"id": id})
	return nil
}

func (s *BookService) GetBook(ctx context.Context, id int64) (models.Book, error) {
	var book models.Book
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		var err error
		book, err = loadBook(tx, id)
		return err
	})
	return book, err
}

func (s *BookService) ListBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		var err error
		books, err = tx.Books().List()
		return err
	})
	return books, err
}

func loadBook(tx repositories.Tx, id int64) (models.Book, error) {
	b, found, err := tx.Books().GetByID(id)
	if err != nil {
		return b, err
	}
	if !found {
		return b, apperrors.NotFound("book")
	}
	return b, nil
}

// resolveAuthorLinks pairs ids with blurbs after checking every author exists.
func resolveAuthorLinks(tx repositories.Tx, authorIDs []int64, blurbs []string) ([]models.BookAuthor, error) {
	if len(authorIDs) != len(blurbs) {
		return nil, apperrors.Validation("each author must have a corresponding blurb")
	}
	seen := make(map[int64]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		if _, dup := seen[id]; dup {
			return nil, apperrors.Validation("author %d is listed more than once", id)
		}
		seen[id] = struct{}{}
	}
	missing, err := tx.Authors().MissingIDs(authorIDs)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, apperrors.NotFound("author")
	}
	links := make([]models.BookAuthor, len(authorIDs))
	for i, id := range authorIDs {
		links[i] = models.BookAuthor{AuthorID: id, Blurb: blurbs[i]}
	}
	return links, nil
}

func validateBookFields(title, isbn, description *string, price, unit *int64) error {
	if title != nil {
		*title = strings.TrimSpace(*title)
		if *title == "" || len(*title) > 255 {
			return apperrors.Validation("title must be between 1 and 255 characters")
		}
	}
	if isbn != nil {
		*isbn = strings.TrimSpace(*isbn)
		if *isbn == "" || len(*isbn) > 13 {
			return apperrors.Validation("isbn must be between 1 and 13 characters")
		}
	}
	if description != nil && len(*description) > 2056 {
		return apperrors.Validation("description must be at most 2056 characters")
	}
	if price != nil && *price < 0 {
		return apperrors.Validation("price cannot be negative")
	}
	if unit != nil && *unit < 0 {
		return apperrors.Validation("unit cannot be negative")
	}
	return nil
}
