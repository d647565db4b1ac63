package user

import (
	"time"
)

// User represents a registered account in the system.
type User struct {
	ID            string `gorm:"primaryKey;type:text"`
	Email         string `gorm:"uniqueIndex;not null;type:text"`
	PasswordHash  string `gorm:"not null;type:text"`
	Active        bool   `gorm:"not null;default:true"`
	Staff         bool   `gorm:"not null;default:false"`
	TermsAccepted bool   `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Identity is the public view of an authenticated user.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
