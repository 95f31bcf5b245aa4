package models

import "github.com/google/uuid"

type UserRole string

const RoleStoreOwner UserRole = "store_owner"

func (r UserRole) Valid() bool {
	return r == RoleStoreOwner
}

// User is a store owner who signs in through Google.
type User struct {
	Base
	GoogleID            string     `gorm:"type:text;uniqueIndex;not null" json:"-"`
	Email               string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name                string     `gorm:"type:varchar(100);not null" json:"name"`
	Picture             *string    `gorm:"type:text" json:"picture"`
	Role                UserRole   `gorm:"type:varchar(20);not null;default:'store_owner'" json:"role"`
	CustomerID          *uuid.UUID `gorm:"type:uuid;index" json:"customerId"`
	InvitationID        *uuid.UUID `gorm:"type:uuid;index" json:"invitationId"`
	OnboardingCompleted bool       `gorm:"not null;default:false" json:"onboardingCompleted"`
	IsActive            bool       `gorm:"not null;default:true" json:"isActive"`

	// Relationships. There is deliberately no Invitation field: that constraint
	// is attached after both tables exist.
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
