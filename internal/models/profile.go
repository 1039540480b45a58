package models

import "time"

// City is referenced by author profiles.
type City struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"not null;type:varchar(150)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime:false"`
}

// Author extends a User with role author. It shares the user's id as its key.
type Author struct {
	UserID     int64     `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	User       *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	CityID     int64     `json:"city_id" gorm:"not null;index"`
	City       *City     `json:"city,omitempty" gorm:"foreignKey:CityID;constraint:OnDelete:RESTRICT"`
	BankNumber *string   `json:"bank_number" gorm:"type:varchar(16)"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime:false"`
}

// Customer extends a User with role customer. It shares the user's id as its key.
type Customer struct {
	UserID            int64             `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	User              *User             `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	SubscriptionModel SubscriptionModel `json:"subscription_model" gorm:"type:varchar(16);not null;default:free"`
	SubscriptionEnd   *time.Time        `json:"subscription_end"`
	WalletMoney       int64             `json:"wallet_money" gorm:"not null;default:0"`
	CreatedAt         time.Time         `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt         time.Time         `json:"updated_at" gorm:"autoUpdateTime:false"`
}
