package auth

import "github.com/google/uuid"

// UserType tells the two principal kinds apart inside a token.
type UserType string

const (
	UserTypeAdmin UserType = "admin"
	UserTypeUser  UserType = "user"
)

func (t UserType) Valid() bool {
	return t == UserTypeAdmin || t == UserTypeUser
}

// RoleAdmin is the role claim carried by every admin token.
const RoleAdmin = "admin"

// Principal is the identity a token is issued for.
type Principal struct {
	ID       uuid.UUID
	Email    string
	Role     string
	UserType UserType
}
