package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Library roles. Librarian is the privileged staff role.
const (
	RoleStudent   = "Student"
	RoleTeacher   = "Teacher"
	RoleLibrarian = "Librarian"
)

// ValidRole reports whether r is one of the known library roles.
func ValidRole(r string) bool {
	return r == RoleStudent || r == RoleTeacher || r == RoleLibrarian
}

type User struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username   string    `gorm:"uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"column:password_hash;not null" json:"-"` // Not shown in JSON
	Role       string    `gorm:"default:'Student';not null" json:"role"`
	AvatarFile string    `json:"-"` // stored avatar filename, empty when no picture uploaded
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}
