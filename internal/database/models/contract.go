package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ContractStatus string

const (
	ContractStatusPending   ContractStatus = "pending"
	ContractStatusActive    ContractStatus = "active"
	ContractStatusSuspended ContractStatus = "suspended"
	ContractStatusCancelled ContractStatus = "cancelled"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusPending, ContractStatusActive, ContractStatusSuspended, ContractStatusCancelled:
		return true
	}
	return false
}

type Contract struct {
	Base
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;index" json:"customerId"`
	PlanID     string          `gorm:"type:varchar(50);not null" json:"planId"`
	Status     ContractStatus  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	MonthlyFee decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"monthlyFee"`
	StartDate  *datatypes.Date `json:"startDate"`
	EndDate    *datatypes.Date `json:"endDate"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

func (Contract) TableName() string {
	return "contracts"
}
