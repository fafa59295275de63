package model

import "time"

const StatusSale = "sale"

type Post struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"not null" json:"content"`
	Price     int64     `gorm:"not null" json:"price"`
	Category  string    `gorm:"not null;index" json:"category"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Status    string    `gorm:"default:sale" json:"status"`
	Views     int64     `gorm:"default:0" json:"views"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	Author User    `gorm:"foreignKey:AuthorID" json:"-"`
	Images []Image `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}
