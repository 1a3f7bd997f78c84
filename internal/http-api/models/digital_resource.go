package models

import "time"

// DigitalResource describes an uploaded file. The bytes live on disk under
// the opaque StoredFileName; only metadata is kept here.
type DigitalResource struct {
	ID               int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title            string    `json:"title" gorm:"not null"`
	Author           string    `json:"author"`
	Subject          string    `json:"subject"`
	StoredFileName   string    `json:"-" gorm:"not null;uniqueIndex"`
	OriginalFileName string    `json:"original_file_name" gorm:"not null"`
	UploadDate       time.Time `json:"upload_date" gorm:"autoCreateTime"`
}

func (DigitalResource) TableName() string {
	return "digital_resources"
}
