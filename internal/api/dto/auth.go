package dto

import (
	"strings"
	"time"

	"github.com/hugh/care-package/internal/api/validation"
	"github.com/hugh/care-package/internal/auth"
	"github.com/hugh/care-package/internal/database/models"
)

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r AdminLoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Username) == "" {
		errors["username"] = "Username is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

type CreateAdminRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r *CreateAdminRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = validation.SanitizeString(r.Name)
}

func (r CreateAdminRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Username == "" {
		errors["username"] = "Username is required"
	} else if !validation.IsValidUsername(r.Username) {
		errors["username"] = "Username must be 3-50 letters, digits, dots, dashes or underscores"
	}
	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Invalid email format"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if ok, msg := validation.IsValidPassword(r.Password); !ok {
		errors["password"] = msg
	}
	if r.Name == "" {
		errors["name"] = "Name is required"
	} else if len(r.Name) > validation.MaxNameLength {
		errors["name"] = "Name must be at most 100 characters"
	}

	return errors
}

// AdminDTO is the public view of an admin account.
type AdminDTO struct {
	ID        string        `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Role      string        `json:"role"`
	UserType  auth.UserType `json:"userType"`
	IsActive  bool          `json:"isActive"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func NewAdminDTO(a *models.Admin) AdminDTO {
	return AdminDTO{
		ID:        a.ID.String(),
		Username:  a.Username,
		Email:     a.Email,
		Name:      a.Name,
		Role:      auth.RoleAdmin,
		UserType:  auth.UserTypeAdmin,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// UserDTO is the public view of a store owner. The Google subject id is
// never exposed.
type UserDTO struct {
	ID                  string        `json:"id"`
	Email               string        `json:"email"`
	Name                string        `json:"name"`
	Picture             *string       `json:"picture"`
	Role                string        `json:"role"`
	UserType            auth.UserType `json:"userType"`
	CustomerID          *string       `json:"customerId"`
	OnboardingCompleted bool          `json:"onboardingCompleted"`
	IsActive            bool          `json:"isActive"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

func NewUserDTO(u *models.User) UserDTO {
	dto := UserDTO{
		ID:                  u.ID.String(),
		Email:               u.Email,
		Name:                u.Name,
		Picture:             u.Picture,
		Role:                string(u.Role),
		UserType:            auth.UserTypeUser,
		OnboardingCompleted: u.OnboardingCompleted,
		IsActive:            u.IsActive,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
	if u.CustomerID != nil {
		id := u.CustomerID.String()
		dto.CustomerID = &id
	}
	return dto
}

type AdminLoginResponse struct {
	Token string   `json:"token"`
	User  AdminDTO `json:"user"`
}

type AdminResponse struct {
	Admin AdminDTO `json:"admin"`
}

// MeResponse carries either an AdminDTO or a UserDTO.
type MeResponse struct {
	User interface{} `json:"user"`
}
