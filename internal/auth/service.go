package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hugh/care-package/internal/activity"
	"github.com/hugh/care-package/internal/database"
	"github.com/hugh/care-package/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrAdminNotFound      = errors.New("admin not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAdminExists        = errors.New("admin already exists")
	ErrUserConflict       = errors.New("email is linked to another account")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is deactivated")
	ErrPrincipalInactive  = errors.New("principal not found or inactive")
	ErrInvalidProfile     = errors.New("google profile is missing id or email")
)

const defaultUserName = "Unknown"

type Service struct {
	db       *gorm.DB
	jwt      *JWTService
	activity *activity.Recorder
}

func NewService(db *gorm.DB, jwt *JWTService, recorder *activity.Recorder) *Service {
	return &Service{db: db, jwt: jwt, activity: recorder}
}

type CreateAdminInput struct {
	Username string
	Email    string
	Password string
	Name     string
}

type AdminSession struct {
	Token string
	Admin *models.Admin
}

type UserSession struct {
	Token   string
	User    *models.User
	Created bool
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// equalizeTiming spends one bcrypt comparison so that unknown usernames
// take as long to reject as wrong passwords.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = HashPassword("care-package-timing-equalizer")
	})
	CheckPassword(password, dummyHash)
}

func (s *Service) AdminLogin(ctx context.Context, username, password string) (*AdminSession, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).
		Where("username = ?", username).
		First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			equalizeTiming(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("loading admin: %w", err)
	}

	if !CheckPassword(password, admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !admin.IsActive {
		return nil, ErrInactiveAccount
	}

	token, err := s.jwt.GenerateToken(adminPrincipal(&admin))
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.activity.Record(ctx, activity.TypeAdminLogin, fmt.Sprintf("Admin %s signed in", admin.Username))

	return &AdminSession{Token: token, Admin: &admin}, nil
}

func (s *Service) CreateAdmin(ctx context.Context, input CreateAdminInput) (*models.Admin, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("username = ? OR email = ?", input.Username, input.Email).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("checking existing admin: %w", err)
	}
	if count > 0 {
		return nil, ErrAdminExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	admin := models.Admin{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Name:         input.Name,
		IsActive:     true,
	}

	// The unique indexes settle races the pre-check cannot see.
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAdminExists
		}
		return nil, fmt.Errorf("creating admin: %w", err)
	}

	s.activity.Record(ctx, activity.TypeAdminCreated, fmt.Sprintf("Admin %s created", admin.Username))

	return &admin, nil
}

func (s *Service) UpsertGoogleUser(ctx context.Context, profile GoogleProfile) (*UserSession, error) {
	if profile.ID == "" || profile.Email == "" {
		return nil, ErrInvalidProfile
	}

	db := s.db.WithContext(ctx)
	created := false

	var user models.User
	err := db.Where("google_id = ?", profile.ID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			GoogleID: profile.ID,
			Email:    profile.Email,
			Name:     profile.Name,
			Picture:  optional(profile.Picture),
			Role:     models.RoleStoreOwner,
			IsActive: true,
		}
		if user.Name == "" {
			user.Name = defaultUserName
		}

		createErr := db.Create(&user).Error
		switch {
		case createErr == nil:
			created = true
		case database.IsUniqueViolation(createErr):
			// Lost a race with a concurrent sign-in for the same account, or
			// the email belongs to a different Google identity.
			if err := db.Where("google_id = ?", profile.ID).First(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrUserConflict
				}
				return nil, fmt.Errorf("reloading user: %w", err)
			}
			if err := s.refreshProfile(db, &user, profile); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("creating user: %w", createErr)
		}
	case err != nil:
		return nil, fmt.Errorf("loading user: %w", err)
	default:
		if err := s.refreshProfile(db, &user, profile); err != nil {
			return nil, err
		}
	}

	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	token, err := s.jwt.GenerateToken(userPrincipal(&user))
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	if created {
		s.activity.Record(ctx, activity.TypeUserRegistered, fmt.Sprintf("New store owner registered: %s", user.Email))
	} else {
		s.activity.Record(ctx, activity.TypeUserLogin, fmt.Sprintf("Store owner %s signed in", user.Email))
	}

	return &UserSession{Token: token, User: &user, Created: created}, nil
}

// refreshProfile copies the mutable profile fields onto an existing user.
// An empty name from the provider keeps the stored one.
func (s *Service) refreshProfile(db *gorm.DB, user *models.User, profile GoogleProfile) error {
	updates := map[string]interface{}{
		"picture": optional(profile.Picture),
	}
	if profile.Name != "" {
		updates["name"] = profile.Name
	}

	if err := db.Model(user).Updates(updates).Error; err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	user.Picture = optional(profile.Picture)
	if profile.Name != "" {
		user.Name = profile.Name
	}
	return nil
}

// ResolvePrincipal re-reads the account behind a token so that deactivation
// and deletion take effect before the token expires.
func (s *Service) ResolvePrincipal(ctx context.Context, claims *Claims) (*Principal, error) {
	switch claims.UserType {
	case UserTypeAdmin:
		admin, err := s.GetAdminByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, ErrAdminNotFound) {
				return nil, ErrPrincipalInactive
			}
			return nil, err
		}
		if !admin.IsActive {
			return nil, ErrPrincipalInactive
		}
		p := adminPrincipal(admin)
		return &p, nil
	case UserTypeUser:
		user, err := s.GetUserByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return nil, ErrPrincipalInactive
			}
			return nil, err
		}
		if !user.IsActive {
			return nil, ErrPrincipalInactive
		}
		p := userPrincipal(user)
		return &p, nil
	default:
		return nil, ErrPrincipalInactive
	}
}

func (s *Service) GetAdminByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	if err := s.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func adminPrincipal(a *models.Admin) Principal {
	return Principal{ID: a.ID, Email: a.Email, Role: RoleAdmin, UserType: UserTypeAdmin}
}

func userPrincipal(u *models.User) Principal {
	return Principal{ID: u.ID, Email: u.Email, Role: string(u.Role), UserType: UserTypeUser}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
