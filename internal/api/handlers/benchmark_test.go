package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/care-package/internal/activity"
	"github.com/hugh/care-package/internal/api/dto"
)

func benchStores(n int) []dto.StoreDTO {
	owner := "Owner"
	email := "owner@example.com"
	stores := make([]dto.StoreDTO, n)
	for i := range stores {
		stores[i] = dto.StoreDTO{
			ID:         uuid.New().String(),
			CustomerID: uuid.New().String(),
			Name:       "Store " + strconv.Itoa(i),
			IsActive:   i%3 != 0,
			OwnerName:  &owner,
			OwnerEmail: &email,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
	}
	return stores
}

// BenchmarkJSONSerialization benchmarks JSON encoding of common response types
func BenchmarkJSONSerialization(b *testing.B) {
	b.Run("ErrorResponse", func(b *testing.B) {
		resp := dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{"username": "Username is required", "password": "Password is required"},
		}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = json.Marshal(resp)
		}
	})

	b.Run("DashboardResponse", func(b *testing.B) {
		resp := dto.DashboardResponse{
			Stats: dto.DashboardStats{TotalUsers: 120, TotalStores: 80, ActiveStores: 75, NewUsersThisMonth: 12},
			RecentActivity: []activity.Entry{
				{Type: activity.TypeUserRegistered, Message: "New store owner registered", Timestamp: time.Now()},
				{Type: activity.TypeStoreCreated, Message: "New store created", Timestamp: time.Now()},
			},
		}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = json.Marshal(resp)
		}
	})

	b.Run("StoresResponse", func(b *testing.B) {
		resp := dto.StoresResponse{Stores: benchStores(50)}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = json.Marshal(resp)
		}
	})
}

// BenchmarkRequestValidation benchmarks decode plus validation of auth requests
func BenchmarkRequestValidation(b *testing.B) {
	b.Run("AdminLoginRequest", func(b *testing.B) {
		body := []byte(`{"username":"ops","password":"correct-password"}`)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			var req dto.AdminLoginRequest
			_ = json.NewDecoder(bytes.NewReader(body)).Decode(&req)
			_ = req.Validate()
		}
	})

	b.Run("CreateAdminRequestInvalid", func(b *testing.B) {
		req := dto.CreateAdminRequest{Username: "x", Email: "not-an-email", Password: "short"}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = req.Validate()
		}
	})
}

// BenchmarkWriteJSON benchmarks the writeJSON helper function
func BenchmarkWriteJSON(b *testing.B) {
	b.Run("SmallResponse", func(b *testing.B) {
		resp := dto.MessageResponse{Message: "Logged out successfully"}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			writeJSON(httptest.NewRecorder(), http.StatusOK, resp)
		}
	})

	b.Run("LargeResponse", func(b *testing.B) {
		resp := dto.StoresResponse{Stores: benchStores(200)}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			writeJSON(httptest.NewRecorder(), http.StatusOK, resp)
		}
	})
}
