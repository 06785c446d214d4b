package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleManager
}

// User is an account that can sign in to the service.
// Managers are created through the invitation flow; admins are provisioned directly.
type User struct {
	ID               string   `json:"id" gorm:"primaryKey;size:36"`
	Email            string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash     string   `json:"-" gorm:"not null;size:255"`
	FullName         string   `json:"full_name" gorm:"not null;size:255"`
	Role             UserRole `json:"user_type" gorm:"column:user_type;not null;size:20;index"`
	OrganizationName string   `json:"organization_name" gorm:"size:255"`
	IsVerified       bool     `json:"is_verified" gorm:"not null;default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
