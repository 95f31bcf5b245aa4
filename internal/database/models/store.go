package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Store struct {
	Base
	CustomerID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"customerId"`
	Name          string           `gorm:"type:varchar(100);not null" json:"name"`
	Description   *string          `gorm:"type:text" json:"description"`
	Address       *string          `gorm:"type:text" json:"address"`
	Phone         *string          `gorm:"type:varchar(20)" json:"phone"`
	Email         *string          `gorm:"type:varchar(255)" json:"email"`
	Website       *string          `gorm:"type:text" json:"website"`
	Category      *string          `gorm:"type:varchar(50)" json:"category"`
	BusinessHours datatypes.JSON   `json:"businessHours"`
	Latitude      *decimal.Decimal `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude     *decimal.Decimal `gorm:"type:decimal(11,8)" json:"longitude"`
	IsActive      bool             `gorm:"not null;default:true" json:"isActive"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

func (Store) TableName() string {
	return "stores"
}

// BusinessHours is the conventional weekly layout of the business_hours
// document. The column itself accepts any JSON shape.
type BusinessHours struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = Sunday
	OpenTime  string `json:"openTime"`  // "09:00"
	CloseTime string `json:"closeTime"` // "18:00"
	IsClosed  bool   `json:"isClosed"`
}

// WeeklyHours decodes the document as a weekly schedule. ok is false when the
// document is empty or has some other shape.
func (s *Store) WeeklyHours() (hours []BusinessHours, ok bool) {
	if len(s.BusinessHours) == 0 {
		return nil, false
	}
	if err := json.Unmarshal(s.BusinessHours, &hours); err != nil {
		return nil, false
	}
	for _, h := range hours {
		if h.DayOfWeek < 0 || h.DayOfWeek > 6 {
			return nil, false
		}
	}
	return hours, true
}

// SetWeeklyHours stores a weekly schedule as the business_hours document.
func (s *Store) SetWeeklyHours(hours []BusinessHours) error {
	data, err := json.Marshal(hours)
	if err != nil {
		return fmt.Errorf("encoding business hours: %w", err)
	}
	s.BusinessHours = datatypes.JSON(data)
	return nil
}
