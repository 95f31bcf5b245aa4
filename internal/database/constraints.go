package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var ErrDeferredConstraintsUnsupported = errors.New("dialect cannot add constraints to existing tables")

// DeferredConstraint is a foreign key added with ALTER TABLE once both the
// referencing and the referenced table exist.
type DeferredConstraint struct {
	Name      string
	Table     string
	Column    string
	RefTable  string
	RefColumn string
}

// DeferredConstraints breaks the users <-> invitations cycle: users.invitation_id
// is declared as a plain nullable column and constrained here.
var DeferredConstraints = []DeferredConstraint{
	{
		Name:      "fk_users_invitation",
		Table:     "users",
		Column:    "invitation_id",
		RefTable:  "invitations",
		RefColumn: "id",
	},
}

func (c DeferredConstraint) AddSQL() string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		quoteIdent(c.Table), quoteIdent(c.Name), quoteIdent(c.Column),
		quoteIdent(c.RefTable), quoteIdent(c.RefColumn))
}

// ApplyDeferredConstraints is idempotent: constraints already present are skipped.
func ApplyDeferredConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return ErrDeferredConstraintsUnsupported
	}

	for _, c := range DeferredConstraints {
		var count int64
		err := db.Raw(
			"SELECT count(*) FROM information_schema.table_constraints WHERE table_schema = current_schema() AND table_name = ? AND constraint_name = ?",
			c.Table, c.Name,
		).Scan(&count).Error
		if err != nil {
			return fmt.Errorf("checking constraint %s: %w", c.Name, err)
		}
		if count > 0 {
			continue
		}
		if err := db.Exec(c.AddSQL()).Error; err != nil {
			return fmt.Errorf("adding constraint %s: %w", c.Name, err)
		}
	}
	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
