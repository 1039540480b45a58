package models

import "time"

// Reserve holds a book for a customer over the half-open window [Start, End).
type Reserve struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CustomerID int64     `json:"customer_id" gorm:"not null;index"`
	Customer   *Customer `json:"-" gorm:"foreignKey:CustomerID;references:UserID;constraint:OnDelete:RESTRICT"`
	BookID     int64     `json:"book_id" gorm:"not null;index"`
	Book       *Book     `json:"-" gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT"`
	Start      time.Time `json:"start" gorm:"column:start_at;not null;index"`
	End        time.Time `json:"end" gorm:"column:end_at;not null"`
	Price      int64     `json:"price" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime:false"`
}

// Overlaps reports whether r and the window [start, end) share any instant.
func (r Reserve) Overlaps(start, end time.Time) bool {
	return r.Start.Before(end) && start.Before(r.End)
}
