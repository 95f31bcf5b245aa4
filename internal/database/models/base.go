package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with UUID primary key and timestamps
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// All lists every model in creation order. The users -> invitations foreign
// key is intentionally absent from the struct tags; see database.DeferredConstraints.
func All() []interface{} {
	return []interface{}{
		&Admin{},
		&Customer{},
		&Contract{},
		&Store{},
		&Invitation{},
		&User{},
	}
}
