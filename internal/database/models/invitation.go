package models

import (
	"time"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationStatusPending   InvitationStatus = "pending"
	InvitationStatusSent      InvitationStatus = "sent"
	InvitationStatusAccepted  InvitationStatus = "accepted"
	InvitationStatusExpired   InvitationStatus = "expired"
	InvitationStatusCancelled InvitationStatus = "cancelled"
)

func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationStatusPending, InvitationStatusSent, InvitationStatusAccepted,
		InvitationStatusExpired, InvitationStatusCancelled:
		return true
	}
	return false
}

// Open reports whether the invitation can still be accepted or expire.
func (s InvitationStatus) Open() bool {
	return s == InvitationStatusPending || s == InvitationStatusSent
}

type Invitation struct {
	Base
	CustomerID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"customerId"`
	StoreID         *uuid.UUID       `gorm:"type:uuid" json:"storeId"`
	ContractID      *uuid.UUID       `gorm:"type:uuid" json:"contractId"`
	InvitationToken string           `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	Status          InvitationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ExpiresAt       time.Time        `gorm:"not null;index" json:"expiresAt"`
	InvitedBy       uuid.UUID        `gorm:"type:uuid;not null" json:"invitedBy"`
	InvitedAt       time.Time        `gorm:"not null" json:"invitedAt"`
	AcceptedAt      *time.Time       `json:"acceptedAt"`
	Notes           *string          `gorm:"type:text" json:"notes"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"-"`
	Store    *Store    `gorm:"foreignKey:StoreID" json:"-"`
	Contract *Contract `gorm:"foreignKey:ContractID" json:"-"`
	Inviter  *Admin    `gorm:"foreignKey:InvitedBy" json:"-"`
}

func (Invitation) TableName() string {
	return "invitations"
}

func (i *Invitation) IsExpired(now time.Time) bool {
	return i.Status.Open() && now.After(i.ExpiresAt)
}
