package dto

import (
	"time"

	"github.com/hugh/care-package/internal/activity"
	"github.com/hugh/care-package/internal/admin"
	"github.com/hugh/care-package/internal/database/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type DashboardStats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalStores       int64 `json:"totalStores"`
	ActiveStores      int64 `json:"activeStores"`
	NewUsersThisMonth int64 `json:"newUsersThisMonth"`
}

type DashboardResponse struct {
	Stats          DashboardStats   `json:"stats"`
	RecentActivity []activity.Entry `json:"recentActivity"`
}

func NewDashboardResponse(d *admin.Dashboard) DashboardResponse {
	return DashboardResponse{
		Stats: DashboardStats{
			TotalUsers:        d.Stats.TotalUsers,
			TotalStores:       d.Stats.TotalStores,
			ActiveStores:      d.Stats.ActiveStores,
			NewUsersThisMonth: d.Stats.NewUsersThisMonth,
		},
		RecentActivity: d.RecentActivity,
	}
}

type UsersResponse struct {
	Users []UserDTO `json:"users"`
}

type UserResponse struct {
	User UserDTO `json:"user"`
}

// StoreDTO is the list view of a store with its owner's identity.
type StoreDTO struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	Name       string    `json:"name"`
	Address    *string   `json:"address"`
	Phone      *string   `json:"phone"`
	Email      *string   `json:"email"`
	Category   *string   `json:"category"`
	IsActive   bool      `json:"isActive"`
	OwnerName  *string   `json:"ownerName"`
	OwnerEmail *string   `json:"ownerEmail"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewStoreDTO(s admin.StoreSummary) StoreDTO {
	return StoreDTO{
		ID:         s.ID.String(),
		CustomerID: s.CustomerID.String(),
		Name:       s.Name,
		Address:    s.Address,
		Phone:      s.Phone,
		Email:      s.Email,
		Category:   s.Category,
		IsActive:   s.IsActive,
		OwnerName:  s.OwnerName,
		OwnerEmail: s.OwnerEmail,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// StoreDetailDTO adds the descriptive, geo and business-hours fields.
type StoreDetailDTO struct {
	StoreDTO
	Description   *string          `json:"description"`
	Website       *string          `json:"website"`
	BusinessHours datatypes.JSON   `json:"businessHours"`
	Latitude      *decimal.Decimal `json:"latitude"`
	Longitude     *decimal.Decimal `json:"longitude"`
}

func NewStoreDetailDTO(s *models.Store) StoreDetailDTO {
	summary := admin.StoreSummary{
		ID:         s.ID,
		CustomerID: s.CustomerID,
		Name:       s.Name,
		Address:    s.Address,
		Phone:      s.Phone,
		Email:      s.Email,
		Category:   s.Category,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	if s.Customer != nil {
		summary.OwnerName = &s.Customer.Name
		summary.OwnerEmail = &s.Customer.Email
	}

	return StoreDetailDTO{
		StoreDTO:      NewStoreDTO(summary),
		Description:   s.Description,
		Website:       s.Website,
		BusinessHours: s.BusinessHours,
		Latitude:      s.Latitude,
		Longitude:     s.Longitude,
	}
}

type StoresResponse struct {
	Stores []StoreDTO `json:"stores"`
}

type StoreResponse struct {
	Store StoreDetailDTO `json:"store"`
}

type CustomerDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone"`
	StoreCount    int64     `json:"storeCount"`
	ContractCount int64     `json:"contractCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewCustomerDTO(c admin.CustomerSummary) CustomerDTO {
	return CustomerDTO{
		ID:            c.ID.String(),
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		StoreCount:    c.StoreCount,
		ContractCount: c.ContractCount,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

type ContractDTO struct {
	ID         string                `json:"id"`
	PlanID     string                `json:"planId"`
	Status     models.ContractStatus `json:"status"`
	MonthlyFee decimal.Decimal       `json:"monthlyFee"`
	StartDate  *datatypes.Date       `json:"startDate"`
	EndDate    *datatypes.Date       `json:"endDate"`
	CreatedAt  time.Time             `json:"createdAt"`
}

type CustomerDetailDTO struct {
	CustomerDTO
	Contracts []ContractDTO `json:"contracts"`
	Stores    []StoreDTO    `json:"stores"`
}

func NewCustomerDetailDTO(c *models.Customer) CustomerDetailDTO {
	out := CustomerDetailDTO{
		CustomerDTO: NewCustomerDTO(admin.CustomerSummary{
			Customer:      *c,
			StoreCount:    int64(len(c.Stores)),
			ContractCount: int64(len(c.Contracts)),
		}),
		Contracts: make([]ContractDTO, 0, len(c.Contracts)),
		Stores:    make([]StoreDTO, 0, len(c.Stores)),
	}

	for _, ct := range c.Contracts {
		out.Contracts = append(out.Contracts, ContractDTO{
			ID:         ct.ID.String(),
			PlanID:     ct.PlanID,
			Status:     ct.Status,
			MonthlyFee: ct.MonthlyFee,
			StartDate:  ct.StartDate,
			EndDate:    ct.EndDate,
			CreatedAt:  ct.CreatedAt,
		})
	}
	for _, s := range c.Stores {
		out.Stores = append(out.Stores, NewStoreDTO(admin.StoreSummary{
			ID:         s.ID,
			CustomerID: s.CustomerID,
			Name:       s.Name,
			Address:    s.Address,
			Phone:      s.Phone,
			Email:      s.Email,
			Category:   s.Category,
			IsActive:   s.IsActive,
			OwnerName:  &c.Name,
			OwnerEmail: &c.Email,
			CreatedAt:  s.CreatedAt,
			UpdatedAt:  s.UpdatedAt,
		}))
	}
	return out
}

type CustomersResponse struct {
	Customers []CustomerDTO `json:"customers"`
}

type CustomerResponse struct {
	Customer CustomerDetailDTO `json:"customer"`
}

type InvitationDTO struct {
	ID           string                  `json:"id"`
	CustomerID   string                  `json:"customerId"`
	CustomerName *string                 `json:"customerName"`
	StoreID      *string                 `json:"storeId"`
	ContractID   *string                 `json:"contractId"`
	Status       models.InvitationStatus `json:"status"`
	ExpiresAt    time.Time               `json:"expiresAt"`
	InvitedBy    string                  `json:"invitedBy"`
	InvitedAt    time.Time               `json:"invitedAt"`
	AcceptedAt   *time.Time              `json:"acceptedAt"`
	Notes        *string                 `json:"notes"`
	CreatedAt    time.Time               `json:"createdAt"`
}

func NewInvitationDTO(inv *models.Invitation) InvitationDTO {
	out := InvitationDTO{
		ID:         inv.ID.String(),
		CustomerID: inv.CustomerID.String(),
		Status:     inv.Status,
		ExpiresAt:  inv.ExpiresAt,
		InvitedBy:  inv.InvitedBy.String(),
		InvitedAt:  inv.InvitedAt,
		AcceptedAt: inv.AcceptedAt,
		Notes:      inv.Notes,
		CreatedAt:  inv.CreatedAt,
	}
	if inv.Customer != nil {
		out.CustomerName = &inv.Customer.Name
	}
	if inv.StoreID != nil {
		id := inv.StoreID.String()
		out.StoreID = &id
	}
	if inv.ContractID != nil {
		id := inv.ContractID.String()
		out.ContractID = &id
	}
	return out
}

type InvitationsResponse struct {
	Invitations []InvitationDTO `json:"invitations"`
}
