package services

import (
	"context"
	"time"

	"booktank/internal/apperrors"
	"booktank/internal/models"
	"booktank/internal/repositories"
)

// UserPatch lists the user fields a user may change on their own account.
// Nil fields are left untouched.
type UserPatch struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
}

// UserService exposes account lookups and self-service updates.
type UserService struct {
	uow repositories.UnitOfWork
	now func() time.Time
}

func NewUserService(uow repositories.UnitOfWork) *UserService {
	return &UserService{uow: uow, now: time.Now}
}

func (s *UserService) Get(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		u, found, err := tx.Users().GetByID(id)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.NotFound("user")
		}
		user = u
		return nil
	})
	return user, err
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		var err error
		users, err = tx.Users().List()
		return err
	})
	return users, err
}

// Update applies patch to the user. Email and phone number stay unique.
func (s *UserService) Update(ctx context.Context, id int64, patch UserPatch) (models.User, error) {
	var user models.User
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		u, found, err := tx.Users().GetByID(id)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.NotFound("user")
		}
		if patch == (UserPatch{}) {
			user = u
			return nil
		}
		if err := ensureUserFieldsFree(tx, u.ID, nil, patch.Email, patch.PhoneNumber); err != nil {
			return err
		}

		if patch.FirstName != nil {
			u.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			u.LastName = *patch.LastName
		}
		if patch.Email != nil {
			u.Email = patch.Email
		}
		if patch.PhoneNumber != nil {
			u.PhoneNumber = patch.PhoneNumber
		}
		models.Touch(&u.CreatedAt, &u.UpdatedAt, s.now())
		if err := tx.Users().Update(&u); err != nil {
			return err
		}
		user = u
		return nil
	})
	return user, err
}
