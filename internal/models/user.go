package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the task owner snapshot embedded in task payloads. Password
// and tenant code only exist server-side and never serialize.
type User struct {
	ID         int     `gorm:"primaryKey" json:"id"`
	Username   string  `gorm:"uniqueIndex:idx_tenant_username" json:"username"`
	Name       string  `json:"name,omitempty"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	Role       Role    `gorm:"type:text;default:'user'" json:"role,omitempty"`
	Password   string  `gorm:"column:password" json:"-"`
	TenantCode string  `gorm:"uniqueIndex:idx_tenant_username;index" json:"-"`

	DeviceToken string `gorm:"column:deviceToken" json:"-"`

	CreatedAt time.Time `gorm:"column:createdAt" json:"-"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"-"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
