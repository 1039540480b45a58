package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"booktank/internal/models"
	"booktank/internal/services"
)

// Timestamp accepts RFC 3339 as well as offset-less date-times. The offset, if
// any, is dropped by the services, not converted.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}

func (t *Timestamp) ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}

type UserRequest struct {
	Username    string  `json:"username" validate:"required,min=3,max=150"`
	Password    string  `json:"password" validate:"required,min=8,max=72"`
	FirstName   string  `json:"first_name" validate:"max=150"`
	LastName    string  `json:"last_name" validate:"max=150"`
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,phone_ir"`
}

func (r UserRequest) input() services.UserInput {
	return services.UserInput{
		Username:    r.Username,
		Password:    r.Password,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
	}
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserUpdateRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=150"`
	LastName    *string `json:"last_name" validate:"omitempty,max=150"`
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,phone_ir"`
}

type BookRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	ISBN        string   `json:"isbn" validate:"required,max=13"`
	Price       int64    `json:"price" validate:"gte=0"`
	Description *string  `json:"description" validate:"omitempty,max=2056"`
	Unit        int64    `json:"unit" validate:"gte=0"`
	AuthorIDs   []int64  `json:"author_ids"`
	Blurbs      []string `json:"blurbs"`
}

type BookUpdateRequest struct {
	Title       *string   `json:"title" validate:"omitempty,max=255"`
	ISBN        *string   `json:"isbn" validate:"omitempty,max=13"`
	Price       *int64    `json:"price" validate:"omitempty,gte=0"`
	Description *string   `json:"description" validate:"omitempty,max=2056"`
	Unit        *int64    `json:"unit" validate:"omitempty,gte=0"`
	AuthorIDs   *[]int64  `json:"author_ids"`
	Blurbs      *[]string `json:"blurbs"`
}

type CityRequest struct {
	Name string `json:"name" validate:"required,max=150"`
}

type AuthorRequest struct {
	User       UserRequest `json:"user"`
	CityID     int64       `json:"city_id" validate:"required,gt=0"`
	BankNumber *string     `json:"bank_number" validate:"omitempty,max=16"`
}

type AuthorUpdateRequest struct {
	CityID     *int64  `json:"city_id" validate:"omitempty,gt=0"`
	BankNumber *string `json:"bank_number" validate:"omitempty,max=16"`
}

type CustomerUpdateRequest struct {
	SubscriptionModel *models.SubscriptionModel `json:"subscription_model"`
	SubscriptionEnd   *Timestamp                `json:"subscription_end"`
	WalletMoney       *int64                    `json:"wallet_money" validate:"omitempty,gte=0"`
}

type ReserveRequest struct {
	CustomerID int64     `json:"customer_id" validate:"required,gt=0"`
	BookID     int64     `json:"book_id" validate:"required,gt=0"`
	Start      Timestamp `json:"start"`
	End        Timestamp `json:"end"`
	Price      int64     `json:"price" validate:"gte=0"`
}

type ReserveUpdateRequest struct {
	CustomerID *int64     `json:"customer_id" validate:"omitempty,gt=0"`
	BookID     *int64     `json:"book_id" validate:"omitempty,gt=0"`
	Start      *Timestamp `json:"start"`
	End        *Timestamp `json:"end"`
	Price      *int64     `json:"price" validate:"omitempty,gte=0"`
}
