package repositories

import (
	"time"

	"booktank/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMReserveRepository is a GORM implementation of ReserveRepository.
type GORMReserveRepository struct {
	db *gorm.DB
}

// NewGORMReserveRepository creates a new instance of GORMReserveRepository.
func NewGORMReserveRepository(db *gorm.DB) *GORMReserveRepository {
	return &GORMReserveRepository{db: db}
}

func (r *GORMReserveRepository) Create(reserve *models.Reserve) error {
	return translateError("reserve", "create", r.db.Omit(clause.Associations).Create(reserve).Error)
}

func (r *GORMReserveRepository) Update(reserve *models.Reserve) error {
	return translateError("reserve", "update", r.db.Omit(clause.Associations).Save(reserve).Error)
}

func (r *GORMReserveRepository) GetByID(id int64) (models.Reserve, bool, error) {
	return first[models.Reserve](r.db, "reserve", "id = ?", id)
}

func (r *GORMReserveRepository) List(filter ReserveFilter) ([]models.Reserve, error) {
	q := r.db.Model(&models.Reserve{})
	if filter.CustomerID != 0 {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.BookID != 0 {
		q = q.Where("book_id = ?", filter.BookID)
	}
	var reserves []models.Reserve
	if err := q.Order("start_at").Order("id").Find(&reserves).Error; err != nil {
		return nil, translateError("reserve", "list", err)
	}
	return reserves, nil
}

func (r *GORMReserveRepository) Delete(id int64) (bool, error) {
	res := r.db.Delete(&models.Reserve{}, "id = ?", id)
	if res.Error != nil {
		return false, translateError("reserve", "delete", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GORMReserveRepository) FindOverlapping(bookID int64, start, end time.Time, excludeID int64) ([]models.Reserve, error) {
	q := r.db.Where("book_id = ? AND start_at < ? AND end_at > ?", bookID, end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var reserves []models.Reserve
	if err := q.Order("start_at").Find(&reserves).Error; err != nil {
		return nil, translateError("reserve", "check overlap of", err)
	}
	return reserves, nil
}

func (r *GORMReserveRepository) CountByBook(bookID int64) (int64, error) {
	var n int64
	if err := r.db.Model(&models.Reserve{}).Where("book_id = ?", bookID).Count(&n).Error; err != nil {
		return 0, translateError("reserve", "count", err)
	}
	return n, nil
}

func (r *GORMReserveRepository) CountByCustomer(customerID int64) (int64, error) {
	var n int64
	if err := r.db.Model(&models.Reserve{}).Where("customer_id = ?", customerID).Count(&n).Error; err != nil {
		return 0, translateError("reserve", "count", err)
	}
	return n, nil
}
