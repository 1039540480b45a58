package services_test

import (
	"context"
	"time"

	"booktank/internal/models"
	"booktank/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// fakeUnitOfWork runs fn directly against mock repositories.
type fakeUnitOfWork struct {
	users     *MockUserRepository
	customers *MockCustomerRepository
	authors   *MockAuthorRepository
	cities    *MockCityRepository
	books     *MockBookRepository
	reserves  *MockReserveRepository
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		users:     new(MockUserRepository),
		customers: new(MockCustomerRepository),
		authors:   new(MockAuthorRepository),
		cities:    new(MockCityRepository),
		books:     new(MockBookRepository),
		reserves:  new(MockReserveRepository),
	}
}

func (u *fakeUnitOfWork) Do(_ context.Context, fn func(tx repositories.Tx) error) error {
	return fn(u)
}

func (u *fakeUnitOfWork) Users() repositories.UserRepository         { return u.users }
func (u *fakeUnitOfWork) Customers() repositories.CustomerRepository { return u.customers }
func (u *fakeUnitOfWork) Authors() repositories.AuthorRepository     { return u.authors }
func (u *fakeUnitOfWork) Cities() repositories.CityRepository        { return u.cities }
func (u *fakeUnitOfWork) Books() repositories.BookRepository         { return u.books }
func (u *fakeUnitOfWork) Reserves() repositories.ReserveRepository   { return u.reserves }

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id int64) (models.User, bool, error) {
	args := m.Called(id)
	return args.Get(0).(models.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepository) GetByUsername(username string) (models.User, bool, error) {
	args := m.Called(username)
	return args.Get(0).(models.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepository) GetByEmail(email string) (models.User, bool, error) {
	args := m.Called(email)
	return args.Get(0).(models.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepository) GetByPhoneNumber(phone string) (models.User, bool, error) {
	args := m.Called(phone)
	return args.Get(0).(models.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepository) List() ([]models.User, error) {
	args := m.Called()
	return args.Get(0).([]models.User), args.Error(1)
}

// MockCustomerRepository is a mock implementation of repositories.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(customer *models.Customer) error {
	return m.Called(customer).Error(0)
}

func (m *MockCustomerRepository) Update(customer *models.Customer) error {
	return m.Called(customer).Error(0)
}

func (m *MockCustomerRepository) GetByID(userID int64) (models.Customer, bool, error) {
	args := m.Called(userID)
	return args.Get(0).(models.Customer), args.Bool(1), args.Error(2)
}

func (m *MockCustomerRepository) Delete(userID int64) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

// MockAuthorRepository is a mock implementation of repositories.AuthorRepository
type MockAuthorRepository struct {
	mock.Mock
}

func (m *MockAuthorRepository) Create(author *models.Author) error {
	return m.Called(author).Error(0)
}

func (m *MockAuthorRepository) Update(author *models.Author) error {
	return m.Called(author).Error(0)
}

func (m *MockAuthorRepository) GetByID(userID int64) (models.Author, bool, error) {
	args := m.Called(userID)
	return args.Get(0).(models.Author), args.Bool(1), args.Error(2)
}

func (m *MockAuthorRepository) MissingIDs(ids []int64) ([]int64, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockCityRepository is a mock implementation of repositories.CityRepository
type MockCityRepository struct {
	mock.Mock
}

func (m *MockCityRepository) Create(city *models.City) error {
	return m.Called(city).Error(0)
}

func (m *MockCityRepository) GetByID(id int64) (models.City, bool, error) {
	args := m.Called(id)
	return args.Get(0).(models.City), args.Bool(1), args.Error(2)
}

func (m *MockCityRepository) List() ([]models.City, error) {
	args := m.Called()
	return args.Get(0).([]models.City), args.Error(1)
}

// MockBookRepository is a mock implementation of repositories.BookRepository
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(book *models.Book) error {
	return m.Called(book).Error(0)
}

func (m *MockBookRepository) Update(book *models.Book) error {
	return m.Called(book).Error(0)
}

func (m *MockBookRepository) GetByID(id int64) (models.Book, bool, error) {
	args := m.Called(id)
	return args.Get(0).(models.Book), args.Bool(1), args.Error(2)
}

func (m *MockBookRepository) GetByISBN(isbn string) (models.Book, bool, error) {
	args := m.Called(isbn)
	return args.Get(0).(models.Book), args.Bool(1), args.Error(2)
}

func (m *MockBookRepository) List() ([]models.Book, error) {
	args := m.Called()
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) Delete(id int64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookRepository) ReplaceAuthors(bookID int64, links []models.BookAuthor) error {
	return m.Called(bookID, links).Error(0)
}

// MockReserveRepository is a mock implementation of repositories.ReserveRepository
type MockReserveRepository struct {
	mock.Mock
}

func (m *MockReserveRepository) Create(reserve *models.Reserve) error {
	return m.Called(reserve).Error(0)
}

func (m *MockReserveRepository) Update(reserve *models.Reserve) error {
	return m.Called(reserve).Error(0)
}

func (m *MockReserveRepository) GetByID(id int64) (models.Reserve, bool, error) {
	args := m.Called(id)
	return args.Get(0).(models.Reserve), args.Bool(1), args.Error(2)
}

func (m *MockReserveRepository) List(filter repositories.ReserveFilter) ([]models.Reserve, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Reserve), args.Error(1)
}

func (m *MockReserveRepository) Delete(id int64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockReserveRepository) FindOverlapping(bookID int64, start, end time.Time, excludeID int64) ([]models.Reserve, error) {
	args := m.Called(bookID, start, end, excludeID)
	return args.Get(0).([]models.Reserve), args.Error(1)
}

func (m *MockReserveRepository) CountByBook(bookID int64) (int64, error) {
	args := m.Called(bookID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReserveRepository) CountByCustomer(customerID int64) (int64, error) {
	args := m.Called(customerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, eventType string, data any) error {
	return m.Called(eventType, data).Error(0)
}
