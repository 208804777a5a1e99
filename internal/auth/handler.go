package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/confpulse/backend/pkg/response"
	"github.com/confpulse/backend/pkg/utils"
)

// Credentials is one configured dashboard account. The password is stored as
// a bcrypt hash; there is no user database.
type Credentials struct {
	Username     string
	PasswordHash string
	Role         string
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the issued JWT.
type TokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Handler handles auth HTTP endpoints against the configured account list.
type Handler struct {
	accounts []Credentials
	jwt      *JWTService
	logger   *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(accounts []Credentials, jwt *JWTService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{accounts: accounts, jwt: jwt, logger: logger}
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	account, ok := h.lookup(req.Username)
	if !ok || !utils.CheckPassword(req.Password, account.PasswordHash) {
		h.logger.Warn("failed login", zap.String("username", req.Username))
		response.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := h.jwt.Generate(account.Username, account.Role)
	if err != nil {
		response.Internal(c, "failed to issue token")
		return
	}
	response.OK(c, TokenResponse{Token: token, Username: account.Username, Role: account.Role})
}

func (h *Handler) lookup(username string) (Credentials, bool) {
	for _, a := range h.accounts {
		if strings.EqualFold(a.Username, username) {
			return a, true
		}
	}
	return Credentials{}, false
}
