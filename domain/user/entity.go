package user

import (
	"time"
)

// User represents a user account.
// Accounts start inactive and are activated by redeeming a verification token.
type User struct {
	ID           string `gorm:"primaryKey;type:text"`
	Username     string `gorm:"uniqueIndex;not null;type:text"`
	Email        string `gorm:"not null;type:text"`
	PasswordHash string `gorm:"not null;type:text"`
	Active       bool   `gorm:"not null;default:false"`
	Banned       bool   `gorm:"not null;default:false"`
	Admin        bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Claims represents the authenticated identity attached to a request.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}
