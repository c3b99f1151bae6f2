package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole defines what a user can do inside the community
type UserRole string

const (
	RoleResidente     UserRole = "residente"
	RoleVigilante     UserRole = "vigilante"
	RoleAdministrador UserRole = "administrador"
)

// User represents a registered resident, guard or administrator
type User struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName   string    `json:"full_name" gorm:"size:150;not null"`
	Building   string    `json:"building" gorm:"size:100"`
	Apartment  string    `json:"apartment" gorm:"size:20"`
	Phone      string    `json:"phone" gorm:"size:30"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password   string    `json:"-" gorm:"size:255;not null"`
	Role       UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'residente'"`
	IneURL     string    `json:"ine_url" gorm:"size:500;default:''"` // credential photo in object storage
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserResponse is the safe version of User for API responses
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Building  string    `json:"building"`
	Apartment string    `json:"apartment"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	IneURL    string    `json:"ine_url"`
}

// ToResponse converts User to safe UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Building:  u.Building,
		Apartment: u.Apartment,
		Phone:     u.Phone,
		Email:     u.Email,
		Role:      u.Role,
		IneURL:    u.IneURL,
	}
}
