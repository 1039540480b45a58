package repositories

import (
	"context"
	"time"

	"booktank/internal/models"
)

// UserRepository defines the interface for user data access.
// Lookups return found=false instead of an error when the row is absent.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByID(id int64) (models.User, bool, error)
	GetByUsername(username string) (models.User, bool, error)
	GetByEmail(email string) (models.User, bool, error)
	GetByPhoneNumber(phone string) (models.User, bool, error)
	List() ([]models.User, error)
}

// CustomerRepository defines the interface for customer profile data access.
type CustomerRepository interface {
	Create(customer *models.Customer) error
	Update(customer *models.Customer) error
	GetByID(userID int64) (models.Customer, bool, error)
	Delete(userID int64) (bool, error)
}

// AuthorRepository defines the interface for author profile data access.
type AuthorRepository interface {
	Create(author *models.Author) error
	Update(author *models.Author) error
	GetByID(userID int64) (models.Author, bool, error)
	// MissingIDs returns the ids in ids that have no author row.
	MissingIDs(ids []int64) ([]int64, error)
}

// CityRepository defines the interface for city data access.
type CityRepository interface {
	Create(city *models.City) error
	GetByID(id int64) (models.City, bool, error)
	List() ([]models.City, error)
}

// BookRepository defines the interface for book data access.
// Returned books always carry their author links.
type BookRepository interface {
	Create(book *models.Book) error
	Update(book *models.Book) error
	GetByID(id int64) (models.Book, bool, error)
	GetByISBN(isbn string) (models.Book, bool, error)
	List() ([]models.Book, error)
	Delete(id int64) (bool, error)
	// ReplaceAuthors deletes every link of the book and inserts links.
	ReplaceAuthors(bookID int64, links []models.BookAuthor) error
}

// ReserveFilter narrows ReserveRepository.List. Zero fields match everything.
type ReserveFilter struct {
	CustomerID int64
	BookID     int64
}

// ReserveRepository defines the interface for reservation data access.
type ReserveRepository interface {
	Create(reserve *models.Reserve) error
	Update(reserve *models.Reserve) error
	GetByID(id int64) (models.Reserve, bool, error)
	List(filter ReserveFilter) ([]models.Reserve, error)
	Delete(id int64) (bool, error)
	// FindOverlapping returns reservations of bookID whose window shares an
	// instant with [start, end). excludeID is skipped when non-zero.
	FindOverlapping(bookID int64, start, end time.Time, excludeID int64) ([]models.Reserve, error)
	CountByBook(bookID int64) (int64, error)
	CountByCustomer(customerID int64) (int64, error)
}

// Tx hands out repositories bound to one transaction.
type Tx interface {
	Users() UserRepository
	Customers() CustomerRepository
	Authors() AuthorRepository
	Cities() CityRepository
	Books() BookRepository
	Reserves() ReserveRepository
}

// UnitOfWork runs fn inside a single transaction. The transaction commits when
// fn returns nil and rolls back otherwise, including on panic.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx Tx) error) error
}
