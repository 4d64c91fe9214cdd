package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/tenant-notes/internal/middleware"
	"github.com/iliyamo/tenant-notes/internal/model"
	"github.com/iliyamo/tenant-notes/internal/repository"
	"github.com/iliyamo/tenant-notes/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Users     *repository.UserRepo
	JWTSecret string
	AccessTTL time.Duration
	Log       *zap.Logger
}

func NewAuthHandler(users *repository.UserRepo, jwtSecret string, accessTTL time.Duration, log *zap.Logger) *AuthHandler {
	if users == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{Users: users, JWTSecret: jwtSecret, AccessTTL: accessTTL, Log: log}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login: verify credentials and return a signed token with the user record.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	u, err := h.Users.FindByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.Log.Info("login rejected: unknown email", zap.String("email", req.Email))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		h.Log.Info("login rejected: bad password", zap.String("email", req.Email))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.JWTSecret, utils.Claims{
		ID:         u.ID,
		Email:      u.Email,
		Role:       string(u.Role),
		TenantSlug: u.TenantSlug,
	}, h.AccessTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	h.Log.Info("login succeeded", zap.Uint64("user_id", u.ID), zap.String("tenant", u.TenantSlug))
	return c.JSON(http.StatusOK, loginResp{Token: access.Token, User: u})
}

// Me: return the identity claim attached to the request.
func (h *AuthHandler) Me(c echo.Context) error {
	cl, ok := middleware.ClaimsFrom(c)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": cl})
}
