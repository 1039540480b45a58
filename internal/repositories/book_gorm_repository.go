package repositories

import (
	"booktank/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMBookRepository is a GORM implementation of BookRepository.
type GORMBookRepository struct {
	db *gorm.DB
}

// NewGORMBookRepository creates a new instance of GORMBookRepository.
func NewGORMBookRepository(db *gorm.DB) *GORMBookRepository {
	return &GORMBookRepository{
		db: db,
	}
}

func (r *GORMBookRepository) withAuthors() *gorm.DB {
	return r.db.Preload("Authors", func(db *gorm.DB) *gorm.DB {
		return db.Order("author_id")
	}).Preload("Authors.Author")
}

// Create inserts the book row only. Author links go through ReplaceAuthors.
func (r *GORMBookRepository) Create(book *models.Book) error {
	return translateError("book", "create", r.db.Omit(clause.Associations).Create(book).Error)
}

// Update writes every column of book but leaves its author links alone.
func (r *GORMBookRepository) Update(book *models.Book) error {
	return translateError("book", "update", r.db.Omit(clause.Associations).Save(book).Error)
}

func (r *GORMBookRepository) GetByID(id int64) (models.Book, bool, error) {
	return first[models.Book](r.withAuthors(), "book", "id = ?", id)
}

func (r *GORMBookRepository) GetByISBN(isbn string) (models.Book, bool, error) {
	return first[models.Book](r.withAuthors(), "book", "isbn = ?", isbn)
}

func (r *GORMBookRepository) List() ([]models.Book, error) {
	var books []models.Book
	if err := r.withAuthors().Order("id").Find(&books).Error; err != nil {
		return nil, translateError("book", "list", err)
	}
	return books, nil
}

// Delete removes the book's author links and then the book.
func (r *GORMBookRepository) Delete(id int64) (bool, error) {
	if err := r.db.Where("book_id = ?", id).Delete(&models.BookAuthor{}).Error; err != nil {
		return false, translateError("book", "delete", err)
	}
	res := r.db.Delete(&models.Book{}, "id = ?", id)
	if res.Error != nil {
		return false, translateError("book", "delete", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GORMBookRepository) ReplaceAuthors(bookID int64, links []models.BookAuthor) error {
	if err := r.db.Where("book_id = ?", bookID).Delete(&models.BookAuthor{}).Error; err != nil {
		return translateError("book", "unlink authors of", err)
	}
	if len(links) == 0 {
		return nil
	}
	for i := range links {
		links[i].BookID = bookID
	}
	if err := r.db.Omit(clause.Associations).Create(&links).Error; err != nil {
		return translateError("book", "link authors to", err)
	}
	return nil
}
