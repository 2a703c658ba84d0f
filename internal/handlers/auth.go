package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/imcbsglobal/task-webapp-backend/internal/auth"
	"github.com/imcbsglobal/task-webapp-backend/internal/config"
	"github.com/imcbsglobal/task-webapp-backend/internal/middleware"
	"github.com/imcbsglobal/task-webapp-backend/internal/models"
)

type AuthHandler struct {
	DB        *gorm.DB
	Authority *auth.Authority
	Cfg       config.Config
}

func NewAuthHandler(db *gorm.DB, authority *auth.Authority, cfg config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Authority: authority, Cfg: cfg}
}

type loginRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	ClientID    string `json:"client_id" binding:"required"`
	AccountCode string `json:"accountcode"`
}

// Login checks the legacy acc_users row and issues the access token. The
// desktop suite stores role "level 3" for administrators; everyone else is
// a plain user.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing credentials"})
		return
	}

	var user models.AccUser
	if err := h.DB.Where("id = ? AND pass = ?", req.Username, req.Password).
		Take(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid credentials"})
		return
	}

	if req.ClientID != user.ClientID {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid client ID"})
		return
	}
	if req.AccountCode != "" && req.AccountCode != user.AccountCode {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid account code"})
		return
	}

	role := auth.RoleUser
	if strings.EqualFold(strings.TrimSpace(user.Role), "level 3") {
		role = auth.RoleAdmin
	}

	token, err := h.Authority.GenerateAccessToken(user.ID, user.ClientID, role, user.AccountCode, h.Cfg.JwtHours)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"username":    user.ID,
			"role":        role,
			"client_id":   user.ClientID,
			"accountcode": user.AccountCode,
			"login_time":  time.Now().Format("2006-01-02 15:04:05"),
		},
		"token": token,
	})
}

// Users lists the tenant's users without credentials.
func (h *AuthHandler) Users(c *gin.Context) {
	tc, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing authorization"})
		return
	}

	var users []models.AccUser
	if err := h.DB.Where("client_id = ?", tc.ClientID).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "database operation failed"})
		return
	}

	list := make([]gin.H, 0, len(users))
	for _, user := range users {
		list = append(list, gin.H{
			"id":        user.ID,
			"role":      user.Role,
			"client_id": user.ClientID,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": list})
}
