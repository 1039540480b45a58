package models

import "time"

// Book is a catalog entry. Authors are resolved through BookAuthor rows.
type Book struct {
	ID          int64        `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string       `json:"title" gorm:"not null;type:varchar(255)"`
	ISBN        string       `json:"isbn" gorm:"column:isbn;uniqueIndex;not null;type:varchar(13)"`
	Price       int64        `json:"price" gorm:"not null;default:0"`
	Description *string      `json:"description" gorm:"type:varchar(2056)"`
	Unit        int64        `json:"unit" gorm:"not null;default:0"`
	Authors     []BookAuthor `json:"authors" gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT"`
	CreatedAt   time.Time    `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"autoUpdateTime:false"`
}

// BookAuthor links a book to one of its authors and carries that author's blurb.
type BookAuthor struct {
	BookID   int64   `json:"book_id" gorm:"primaryKey;autoIncrement:false"`
	AuthorID int64   `json:"author_id" gorm:"primaryKey;autoIncrement:false"`
	Author   *Author `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:UserID;constraint:OnDelete:RESTRICT"`
	Blurb    string  `json:"blurb" gorm:"not null"`
}
