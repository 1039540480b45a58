package models

import "time"

// User represents an account of any role.
type User struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username    string    `json:"username" gorm:"uniqueIndex;not null;type:varchar(150)"`
	FirstName   string    `json:"first_name" gorm:"type:varchar(150)"`
	LastName    string    `json:"last_name" gorm:"type:varchar(150)"`
	Email       *string   `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	PhoneNumber *string   `json:"phone_number" gorm:"uniqueIndex;type:varchar(20)"`
	Password    []byte    `json:"-" gorm:"not null"` // bcrypt hash, never serialized
	Role        Role      `json:"role" gorm:"type:varchar(16);not null;default:customer"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime:false"`
}
