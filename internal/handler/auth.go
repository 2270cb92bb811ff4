package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/claimledger/internal/domain"
	"github.com/aryan0dhankhar/claimledger/internal/security/audit"
	"github.com/aryan0dhankhar/claimledger/internal/security/middleware"
	"github.com/aryan0dhankhar/claimledger/internal/service"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	authService *service.AuthService
	audit       *audit.Logger
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler. auditLog may be nil.
func NewAuthHandler(authService *service.AuthService, auditLog *audit.Logger, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		authService: authService,
		audit:       auditLog,
		logger:      logger,
	}
}

// UserResponse wraps the account returned by register and login
type UserResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	f, err := p.fields("username", "email", "password")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.authService.Register(r.Context(), f[0], f[1], f[2])
	if err != nil {
		h.logger.Info("registration failed",
			slog.String("email", f[1]),
			slog.String("error", err.Error()),
		)
		writeError(w, h.logger, err)
		return
	}

	h.audit.LogAction(r.Context(), middleware.GetRequestID(r.Context()), user.ID, "register", "user", user.ID, "success")
	writeJSON(w, http.StatusCreated, UserResponse{Message: "User registered successfully", User: user})
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	f, err := p.fields("email", "password")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.authService.Login(r.Context(), f[0], f[1])
	if err != nil {
		h.audit.LogAction(r.Context(), middleware.GetRequestID(r.Context()), "", "login", "user", "", "denied")
		writeError(w, h.logger, err)
		return
	}

	h.audit.LogAction(r.Context(), middleware.GetRequestID(r.Context()), user.ID, "login", "user", user.ID, "success")
	writeJSON(w, http.StatusOK, UserResponse{Message: "Login successful", User: user})
}
