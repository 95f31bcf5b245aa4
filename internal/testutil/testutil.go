package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/care-package/internal/auth"
	"github.com/hugh/care-package/internal/database"
	"github.com/hugh/care-package/internal/database/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a migrated in-memory SQLite database. The pool is
// pinned to a single connection because every :memory: connection is a
// separate database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.NewGormConfig(logger.Default.LogMode(logger.Silent)))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db, DiscardLogger()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// DiscardLogger returns a logger that writes nowhere.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func shortID() string {
	return uuid.New().String()[:8]
}

// CreateTestAdmin creates an admin with a bcrypt hash of password.
func CreateTestAdmin(t *testing.T, db *gorm.DB, username, password string, active bool) *models.Admin {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	admin := &models.Admin{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Name:         "Test Admin " + username,
		IsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("failed to create test admin: %v", err)
	}

	// is_active defaults to true, so false has to be written separately.
	if !active {
		if err := db.Model(admin).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate test admin: %v", err)
		}
		admin.IsActive = false
	}

	return admin
}

// CreateTestUser creates a store owner identified by googleID.
func CreateTestUser(t *testing.T, db *gorm.DB, googleID string, active bool) *models.User {
	t.Helper()

	user := &models.User{
		GoogleID: googleID,
		Email:    googleID + "@example.com",
		Name:     "Owner " + googleID,
		Role:     models.RoleStoreOwner,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	if !active {
		if err := db.Model(user).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate test user: %v", err)
		}
		user.IsActive = false
	}

	return user
}

func CreateTestCustomer(t *testing.T, db *gorm.DB) *models.Customer {
	t.Helper()

	id := shortID()
	customer := &models.Customer{
		Name:  "Customer " + id,
		Email: "customer-" + id + "@example.com",
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("failed to create test customer: %v", err)
	}
	return customer
}

func CreateTestContract(t *testing.T, db *gorm.DB, customerID uuid.UUID, status models.ContractStatus) *models.Contract {
	t.Helper()

	contract := &models.Contract{
		CustomerID: customerID,
		PlanID:     "standard",
		Status:     status,
		MonthlyFee: decimal.RequireFromString("9800.00"),
	}
	if err := db.Create(contract).Error; err != nil {
		t.Fatalf("failed to create test contract: %v", err)
	}
	return contract
}

func CreateTestStore(t *testing.T, db *gorm.DB, customerID uuid.UUID, name string, active bool) *models.Store {
	t.Helper()

	store := &models.Store{
		CustomerID: customerID,
		Name:       name,
		IsActive:   true,
	}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	if !active {
		if err := db.Model(store).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate test store: %v", err)
		}
		store.IsActive = false
	}

	return store
}

// CreateTestInvitation creates an invitation expiring expiresIn from now.
// A negative duration yields one that is already past its expiry.
func CreateTestInvitation(t *testing.T, db *gorm.DB, customerID, adminID uuid.UUID, status models.InvitationStatus, expiresIn time.Duration) *models.Invitation {
	t.Helper()

	if expiresIn == 0 {
		expiresIn = 7 * 24 * time.Hour
	}

	now := time.Now().UTC()
	invitation := &models.Invitation{
		CustomerID:      customerID,
		InvitationToken: uuid.New().String(),
		Status:          status,
		ExpiresAt:       now.Add(expiresIn),
		InvitedBy:       adminID,
		InvitedAt:       now,
	}
	if err := db.Create(invitation).Error; err != nil {
		t.Fatalf("failed to create test invitation: %v", err)
	}
	return invitation
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

func GenerateAdminToken(t *testing.T, jwtService *auth.JWTService, admin *models.Admin) string {
	t.Helper()

	token, err := jwtService.GenerateToken(auth.Principal{
		ID:       admin.ID,
		Email:    admin.Email,
		Role:     auth.RoleAdmin,
		UserType: auth.UserTypeAdmin,
	})
	if err != nil {
		t.Fatalf("failed to generate admin token: %v", err)
	}
	return token
}

func GenerateUserToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(auth.Principal{
		ID:       user.ID,
		Email:    user.Email,
		Role:     string(user.Role),
		UserType: auth.UserTypeUser,
	})
	if err != nil {
		t.Fatalf("failed to generate user token: %v", err)
	}
	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}
