package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ashiknm/dsa-backend/pkg/config"
	"github.com/ashiknm/dsa-backend/pkg/database"
	"github.com/ashiknm/dsa-backend/pkg/logger"
	"github.com/ashiknm/dsa-backend/pkg/middleware"
	"github.com/ashiknm/dsa-backend/pkg/models"
	"github.com/ashiknm/dsa-backend/pkg/utils"
	"go.uber.org/zap"
)

// defaultAdminID 配置内置管理员的固定 id，与种子数据一致
const defaultAdminID = "550e8400-e29b-41d4-a716-446655440000"

// AuthHandler 认证处理器
type AuthHandler struct {
	config *config.Config
	store  database.Store
	jwt    *utils.JWTService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, store database.Store) *AuthHandler {
	return &AuthHandler{
		config: cfg,
		store:  store,
		jwt:    utils.NewJWTService(cfg.JWTSecret),
	}
}

// Login 用户登录
// POST /api/auth/login
// 凭据先匹配配置内置管理员，再查用户表（原型阶段的明文比较）。
// 成功后签发 access/refresh 令牌对
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.UserLoginRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		utils.WriteValidationErrorResponse(w, "Email and password are required")
		return
	}

	user := h.authenticate(req.Email, req.Password)
	if user == nil {
		utils.WriteUnauthorizedResponse(w, "Invalid email or password")
		return
	}

	accessToken, refreshToken, expiresIn, err := h.jwt.GenerateTokenPair(user)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to generate tokens: "+err.Error())
		return
	}

	utils.WriteSuccessResponse(w, models.UserLoginResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}

// authenticate 明文凭据比较，返回 principal 或 nil
func (h *AuthHandler) authenticate(email, password string) *models.User {
	// 配置内置管理员
	if strings.EqualFold(email, h.config.AdminEmail) && password == h.config.AdminPassword {
		return &models.User{
			ID:    defaultAdminID,
			Email: h.config.AdminEmail,
			Name:  "Admin User",
			Role:  "admin",
		}
	}

	// 用户表
	user, err := h.store.GetUserByEmail(email)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			logger.L().Warn("user lookup failed during login", zap.Error(err))
		}
		return nil
	}
	if user.Password == "" || user.Password != password {
		return nil
	}
	return user
}

// RefreshToken 刷新访问令牌
// POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	if req.RefreshToken == "" {
		utils.WriteValidationErrorResponse(w, "refresh_token is required")
		return
	}

	accessToken, expiresIn, err := h.jwt.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Invalid refresh token")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"access_token": accessToken,
		"expires_in":   expiresIn,
	})
}

// Me 获取当前用户
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"user": user,
	})
}
