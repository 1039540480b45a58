package repositories

import (
	"context"
	"errors"

	"booktank/internal/apperrors"

	"gorm.io/gorm"
)

// GORMUnitOfWork is a GORM implementation of UnitOfWork.
type GORMUnitOfWork struct {
	db *gorm.DB
}

// NewGORMUnitOfWork creates a new instance of GORMUnitOfWork.
func NewGORMUnitOfWork(db *gorm.DB) *GORMUnitOfWork {
	return &GORMUnitOfWork{db: db}
}

// Do runs fn in a transaction bound to ctx.
func (u *GORMUnitOfWork) Do(ctx context.Context, fn func(tx Tx) error) error {
	err := u.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(gormTx{db: db})
	})
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	// begin or commit failed
	return apperrors.Infrastructure("transaction failed", err)
}

type gormTx struct {
	db *gorm.DB
}

func (t gormTx) Users() UserRepository         { return NewGORMUserRepository(t.db) }
func (t gormTx) Customers() CustomerRepository { return NewGORMCustomerRepository(t.db) }
func (t gormTx) Authors() AuthorRepository     { return NewGORMAuthorRepository(t.db) }
func (t gormTx) Cities() CityRepository        { return NewGORMCityRepository(t.db) }
func (t gormTx) Books() BookRepository         { return NewGORMBookRepository(t.db) }
func (t gormTx) Reserves() ReserveRepository   { return NewGORMReserveRepository(t.db) }
