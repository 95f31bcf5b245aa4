package models

// Admin is an operator who signs in with username and password.
type Admin struct {
	Base
	Username     string `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:text;not null" json:"-"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	IsActive     bool   `gorm:"not null;default:true" json:"isActive"`
}

func (Admin) TableName() string {
	return "admins"
}
