package models

// Customer is the paying contract holder. It is distinct from a User.
type Customer struct {
	Base
	Name  string  `gorm:"type:varchar(100);not null" json:"name"`
	Email string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone *string `gorm:"type:varchar(20)" json:"phone"`

	// Relationships
	Contracts []Contract `gorm:"foreignKey:CustomerID" json:"-"`
	Stores    []Store    `gorm:"foreignKey:CustomerID" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}
