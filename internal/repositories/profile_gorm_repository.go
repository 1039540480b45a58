package repositories

import (
	"errors"

	"booktank/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCustomerRepository is a GORM implementation of CustomerRepository.
type GORMCustomerRepository struct {
	db *gorm.DB
}

func NewGORMCustomerRepository(db *gorm.DB) *GORMCustomerRepository {
	return &GORMCustomerRepository{db: db}
}

func (r *GORMCustomerRepository) Create(customer *models.Customer) error {
	return translateError("customer", "create", r.db.Omit(clause.Associations).Create(customer).Error)
}

func (r *GORMCustomerRepository) Update(customer *models.Customer) error {
	return translateError("customer", "update", r.db.Omit(clause.Associations).Save(customer).Error)
}

// GetByID loads the customer together with its user row.
func (r *GORMCustomerRepository) GetByID(userID int64) (models.Customer, bool, error) {
	return first[models.Customer](r.db.Preload("User"), "customer", "user_id = ?", userID)
}

func (r *GORMCustomerRepository) Delete(userID int64) (bool, error) {
	res := r.db.Delete(&models.Customer{}, "user_id = ?", userID)
	if res.Error != nil {
		return false, translateError("customer", "delete", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// GORMAuthorRepository is a GORM implementation of AuthorRepository.
type GORMAuthorRepository struct {
	db *gorm.DB
}

func NewGORMAuthorRepository(db *gorm.DB) *GORMAuthorRepository {
	return &GORMAuthorRepository{db: db}
}

func (r *GORMAuthorRepository) Create(author *models.Author) error {
	return translateError("author", "create", r.db.Omit(clause.Associations).Create(author).Error)
}

func (r *GORMAuthorRepository) Update(author *models.Author) error {
	return translateError("author", "update", r.db.Omit(clause.Associations).Save(author).Error)
}

// GetByID loads the author together with its user and city.
func (r *GORMAuthorRepository) GetByID(userID int64) (models.Author, bool, error) {
	return first[models.Author](r.db.Preload("User").Preload("City"), "author", "user_id = ?", userID)
}

func (r *GORMAuthorRepository) MissingIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var existing []int64
	if err := r.db.Model(&models.Author{}).Where("user_id IN ?", ids).Pluck("user_id", &existing).Error; err != nil {
		return nil, translateError("author", "look up", err)
	}
	known := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// GORMCityRepository is a GORM implementation of CityRepository.
type GORMCityRepository struct {
	db *gorm.DB
}

func NewGORMCityRepository(db *gorm.DB) *GORMCityRepository {
	return &GORMCityRepository{db: db}
}

func (r *GORMCityRepository) Create(city *models.City) error {
	return translateError("city", "create", r.db.Create(city).Error)
}

func (r *GORMCityRepository) GetByID(id int64) (models.City, bool, error) {
	var city models.City
	err := r.db.First(&city, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return city, false, nil
	}
	if err != nil {
		return city, false, translateError("city", "get", err)
	}
	return city, true, nil
}

func (r *GORMCityRepository) List() ([]models.City, error) {
	var cities []models.City
	if err := r.db.Order("name").Find(&cities).Error; err != nil {
		return nil, translateError("city", "list", err)
	}
	return cities, nil
}
