package model

import "time"

type Image struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID      uint      `gorm:"not null;index" json:"post_id"`
	Filename    string    `gorm:"not null" json:"filename"`  // Sanitized name the client uploaded
	FilePath    string    `gorm:"not null" json:"file_path"` // Public path, resolved by the media store
	FileSize    int64     `gorm:"not null" json:"file_size"`
	UploadOrder int       `gorm:"not null" json:"upload_order"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
