package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hugh/care-package/internal/admin"
	"github.com/hugh/care-package/internal/api/dto"
)

type AdminHandler struct {
	service *admin.Service
	logger  *slog.Logger
}

func NewAdminHandler(service *admin.Service, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{service: service, logger: logger}
}

func (h *AdminHandler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.internalError(w, "building dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewDashboardResponse(d))
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.internalError(w, "listing users", err)
		return
	}

	resp := dto.UsersResponse{Users: make([]dto.UserDTO, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, dto.NewUserDTO(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, admin.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.internalError(w, "loading user", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.UserResponse{User: dto.NewUserDTO(user)})
}

func (h *AdminHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.service.ListStores(r.Context())
	if err != nil {
		h.internalError(w, "listing stores", err)
		return
	}

	resp := dto.StoresResponse{Stores: make([]dto.StoreDTO, 0, len(stores))}
	for _, s := range stores {
		resp.Stores = append(resp.Stores, dto.NewStoreDTO(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Store not found")
		return
	}

	store, err := h.service.GetStore(r.Context(), id)
	if err != nil {
		if errors.Is(err, admin.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Store not found")
			return
		}
		h.internalError(w, "loading store", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.StoreResponse{Store: dto.NewStoreDetailDTO(store)})
}

func (h *AdminHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.internalError(w, "listing customers", err)
		return
	}

	resp := dto.CustomersResponse{Customers: make([]dto.CustomerDTO, 0, len(customers))}
	for _, c := range customers {
		resp.Customers = append(resp.Customers, dto.NewCustomerDTO(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Customer not found")
		return
	}

	customer, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		if errors.Is(err, admin.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Customer not found")
			return
		}
		h.internalError(w, "loading customer", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CustomerResponse{Customer: dto.NewCustomerDetailDTO(customer)})
}

func (h *AdminHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.service.ListInvitations(r.Context())
	if err != nil {
		h.internalError(w, "listing invitations", err)
		return
	}

	resp := dto.InvitationsResponse{Invitations: make([]dto.InvitationDTO, 0, len(invitations))}
	for i := range invitations {
		resp.Invitations = append(resp.Invitations, dto.NewInvitationDTO(&invitations[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}
