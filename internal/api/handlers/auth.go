package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/hugh/care-package/internal/api/dto"
	"github.com/hugh/care-package/internal/api/middleware"
	"github.com/hugh/care-package/internal/auth"
)

type AuthHandler struct {
	authService auth.Authenticator
	google      auth.GoogleProvider
	frontendURL string
	production  bool
	logger      *slog.Logger
}

type AuthHandlerOptions struct {
	// Google is nil when OAuth credentials are not configured.
	Google      auth.GoogleProvider
	FrontendURL string
	Production  bool
	Logger      *slog.Logger
}

func NewAuthHandler(authService auth.Authenticator, opts AuthHandlerOptions) *AuthHandler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authService: authService,
		google:      opts.Google,
		frontendURL: opts.FrontendURL,
		production:  opts.Production,
		logger:      logger,
	}
}

func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	session, err := h.authService.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, auth.ErrInactiveAccount):
			writeError(w, http.StatusForbidden, "Account is deactivated")
		default:
			h.logger.Error("admin login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.AdminLoginResponse{
		Token: session.Token,
		User:  dto.NewAdminDTO(session.Admin),
	})
}

// AdminMe expects Auth and RequireAdmin in front of it.
func (h *AuthHandler) AdminMe(w http.ResponseWriter, r *http.Request) {
	admin, err := h.authService.GetAdminByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, auth.ErrAdminNotFound) {
			writeError(w, http.StatusNotFound, "Admin not found")
			return
		}
		h.logger.Error("loading admin", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load admin")
		return
	}

	writeJSON(w, http.StatusOK, dto.MeResponse{User: dto.NewAdminDTO(admin)})
}

// Me returns the signed-in principal of either type.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.GetUserID(ctx)

	switch middleware.GetUserType(ctx) {
	case auth.UserTypeAdmin:
		h.AdminMe(w, r)
	case auth.UserTypeUser:
		user, err := h.authService.GetUserByID(ctx, id)
		if err != nil {
			if errors.Is(err, auth.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			h.logger.Error("loading user", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to load user")
			return
		}
		writeJSON(w, http.StatusOK, dto.MeResponse{User: dto.NewUserDTO(user)})
	default:
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	}
}

// Logout is stateless: tokens stay valid until they expire and the client
// is expected to discard its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	if h.production {
		writeError(w, http.StatusForbidden, "Admin creation is disabled in production")
		return
	}

	var req dto.CreateAdminRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Normalize()

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	admin, err := h.authService.CreateAdmin(r.Context(), auth.CreateAdminInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		if errors.Is(err, auth.ErrAdminExists) {
			writeError(w, http.StatusConflict, "Username or email already exists")
			return
		}
		h.logger.Error("creating admin", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create admin")
		return
	}

	writeJSON(w, http.StatusOK, dto.AdminResponse{Admin: dto.NewAdminDTO(admin)})
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}

	state, err := middleware.IssueOAuthState(w, r)
	if err != nil {
		h.logger.Error("generating oauth state", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to start Google sign-in")
		return
	}

	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusFound)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}

	q := r.URL.Query()
	if !middleware.VerifyOAuthState(w, r, q.Get("state")) {
		writeError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	if q.Get("error") != "" {
		writeError(w, http.StatusBadRequest, "Google sign-in was cancelled")
		return
	}
	code := q.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Missing authorization code")
		return
	}

	profile, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("google exchange failed", "error", err)
		writeError(w, http.StatusBadRequest, "Failed to authenticate with Google")
		return
	}

	session, err := h.authService.UpsertGoogleUser(r.Context(), *profile)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInactiveAccount):
			writeError(w, http.StatusForbidden, "Account is deactivated")
		case errors.Is(err, auth.ErrInvalidProfile):
			writeError(w, http.StatusBadRequest, "Google profile is incomplete")
		case errors.Is(err, auth.ErrUserConflict):
			writeError(w, http.StatusConflict, "Email is linked to another account")
		default:
			h.logger.Error("upserting google user", "error", err)
			writeError(w, http.StatusInternalServerError, "Authentication failed")
		}
		return
	}

	target := h.frontendURL + "/auth/callback?token=" + url.QueryEscape(session.Token)
	http.Redirect(w, r, target, http.StatusFound)
}
