package repositories

import (
	"errors"

	"booktank/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// first loads a single row matching query. A missing row is reported through
// found rather than as an error.
func first[T any](db *gorm.DB, resource, query string, args ...any) (T, bool, error) {
	var out T
	err := db.Where(query, args...).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return out, false, nil
	}
	if err != nil {
		return out, false, translateError(resource, "get", err)
	}
	return out, true, nil
}

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user. A taken username, email or phone number is a conflict.
func (r *GORMUserRepository) Create(user *models.User) error {
	return translateError("user", "create", r.db.Omit(clause.Associations).Create(user).Error)
}

// Update writes every column of user.
func (r *GORMUserRepository) Update(user *models.User) error {
	return translateError("user", "update", r.db.Omit(clause.Associations).Save(user).Error)
}

func (r *GORMUserRepository) GetByID(id int64) (models.User, bool, error) {
	return first[models.User](r.db, "user", "id = ?", id)
}

func (r *GORMUserRepository) GetByUsername(username string) (models.User, bool, error) {
	return first[models.User](r.db, "user", "username = ?", username)
}

func (r *GORMUserRepository) GetByEmail(email string) (models.User, bool, error) {
	return first[models.User](r.db, "user", "email = ?", email)
}

func (r *GORMUserRepository) GetByPhoneNumber(phone string) (models.User, bool, error) {
	return first[models.User](r.db, "user", "phone_number = ?", phone)
}

// List returns every user ordered by id.
func (r *GORMUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("id").Find(&users).Error; err != nil {
		return nil, translateError("user", "list", err)
	}
	return users, nil
}
