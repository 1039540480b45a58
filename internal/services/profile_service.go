package services

import (
	"context"
	"strings"
	"time"

	"booktank/internal/apperrors"
	"booktank/internal/models"
	"booktank/internal/repositories"
)

// AuthorInput creates an author account and its profile.
type AuthorInput struct {
	User       UserInput
	CityID     int64
	BankNumber *string
}

// AuthorPatch holds the author profile fields to change.
type AuthorPatch struct {
	CityID     *int64
	BankNumber *string
}

// CustomerPatch holds the customer profile fields to change.
type CustomerPatch struct {
	SubscriptionModel *models.SubscriptionModel
	SubscriptionEnd   *time.Time
	WalletMoney       *int64
}

// ProfileService owns customer and author profiles and the cities authors live in.
type ProfileService struct {
	uow repositories.UnitOfWork
	now func() time.Time
}

func NewProfileService(uow repositories.UnitOfWork) *ProfileService {
	return &ProfileService{uow: uow, now: time.Now}
}

func (s *ProfileService) CreateCity(ctx context.Context, name string) (models.City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.City{}, apperrors.Validation("city name is required")
	}
	city := models.City{Name: name}
	models.Touch(&city.CreatedAt, &city.UpdatedAt, s.now())
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		return tx.Cities().Create(&city)
	})
	return city, err
}

func (s *ProfileService) ListCities(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		var err error
		cities, err = tx.Cities().List()
		return err
	})
	return cities, err
}

// CreateCustomer registers a customer user and its profile in one transaction.
func (s *ProfileService) CreateCustomer(ctx context.Context, in UserInput) (models.Customer, error) {
	var customer models.Customer
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		now := s.now()
		user, err := createUser(tx, in, models.RoleCustomer, now)
		if err != nil {
			return err
		}
		customer = models.Customer{UserID: user.ID, SubscriptionModel: models.SubscriptionFree}
		models.Touch(&customer.CreatedAt, &customer.UpdatedAt, now)
		if err := tx.Customers().Create(&customer); err != nil {
			return err
		}
		customer.User = &user
		return nil
	})
	return customer, err
}

func (s *ProfileService) GetCustomer(ctx context.Context, userID int64) (models.Customer, error) {
	var customer models.Customer
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		var err error
		customer, err = loadCustomer(tx, userID)
		return err
	})
	return customer, err
}

func (s *ProfileService) UpdateCustomer(ctx context.Context, userID int64, patch CustomerPatch) (models.Customer, error) {
	var customer models.Customer
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		c, err := loadCustomer(tx, userID)
		if err != nil {
			return err
		}
		if patch == (CustomerPatch{}) {
			customer = c
			return nil
		}
		if patch.SubscriptionModel != nil {
			if !patch.SubscriptionModel.Valid() {
				return apperrors.Validation("unknown subscription model %q", *patch.SubscriptionModel)
			}
			c.SubscriptionModel = *patch.SubscriptionModel
		}
		if patch.SubscriptionEnd != nil {
			end := models.Naive(*patch.SubscriptionEnd)
			c.SubscriptionEnd = &end
		}
		if patch.WalletMoney != nil {
			if *patch.WalletMoney < 0 {
				return apperrors.Validation("wallet money cannot be negative")
			}
			c.WalletMoney = *patch.WalletMoney
		}
		models.Touch(&c.CreatedAt, &c.UpdatedAt, s.now())
		if err := tx.Customers().Update(&c); err != nil {
			return err
		}
		customer = c
		return nil
	})
	return customer, err
}

// DeleteCustomer removes the customer profile. It is refused while the
// customer still holds reservations.
func (s *ProfileService) DeleteCustomer(ctx context.Context, userID int64) error {
	return s.uow.Do(ctx, func(tx repositories.Tx) error {
		if _, err := loadCustomer(tx, userID); err != nil {
			return err
		}
		n, err := tx.Reserves().CountByCustomer(userID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.Conflict("customer", "cannot delete customer with active reservations")
		}
		_, err = tx.Customers().Delete(userID)
		return err
	})
}

// CreateAuthor registers an author user and its profile in one transaction.
func (s *ProfileService) CreateAuthor(ctx context.Context, in AuthorInput) (models.Author, error) {
	if err := validateBankNumber(in.BankNumber); err != nil {
		return models.Author{}, err
	}
	var author models.Author
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		city, found, err := tx.Cities().GetByID(in.CityID)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.NotFound("city")
		}

		now := s.now()
		user, err := createUser(tx, in.User, models.RoleAuthor, now)
		if err != nil {
			return err
		}
		author = models.Author{UserID: user.ID, CityID: city.ID, BankNumber: in.BankNumber}
		models.Touch(&author.CreatedAt, &author.UpdatedAt, now)
		if err := tx.Authors().Create(&author); err != nil {
			return err
		}
		author.User = &user
		author.City = &city
		return nil
	})
	return author, err
}

func (s *ProfileService) GetAuthor(ctx context.Context, userID int64) (models.Author, error) {
	var author models.Author
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		var err error
		author, err = loadAuthor(tx, userID)
		return err
	})
	return author, err
}

func (s *ProfileService) UpdateAuthor(ctx context.Context, userID int64, patch AuthorPatch) (models.Author, error) {
	if err := validateBankNumber(patch.BankNumber); err != nil {
		return models.Author{}, err
	}
	var author models.Author
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		a, err := loadAuthor(tx, userID)
		if err != nil {
			return err
		}
		if patch == (AuthorPatch{}) {
			author = a
			return nil
		}
		if patch.CityID != nil && *patch.CityID != a.CityID {
			city, found, err := tx.Cities().GetByID(*patch.CityID)
			if err != nil {
				return err
			}
			if !found {
				return apperrors.NotFound("city")
			}
			a.CityID = city.ID
			a.City = &city
		}
		if patch.BankNumber != nil {
			a.BankNumber = patch.BankNumber
		}
		models.Touch(&a.CreatedAt, &a.UpdatedAt, s.now())
		if err := tx.Authors().Update(&a); err != nil {
			return err
		}
		author = a
		return nil
	})
	return author, err
}

func loadCustomer(tx repositories.Tx, userID int64) (models.Customer, error) {
	c, found, err := tx.Customers().GetByID(userID)
	if err != nil {
		return c, err
	}
	if !found {
		return c, apperrors.NotFound("customer")
	}
	return c, nil
}

func loadAuthor(tx repositories.Tx, userID int64) (models.Author, error) {
	a, found, err := tx.Authors().GetByID(userID)
	if err != nil {
		return a, err
	}
	if !found {
		return a, apperrors.NotFound("author")
	}
	return a, nil
}

func validateBankNumber(bank *string) error {
	if bank != nil && len(*bank) > 16 {
		return apperrors.Validation("bank number must be at most 16 characters")
	}
	return nil
}
