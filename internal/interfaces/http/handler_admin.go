package http

import (
	"net/http"
	"strconv"

	"project_waRelay/internal/repository"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	userRepo   *repository.UserRepository
	tenantRepo *repository.TenantRepository
}

func NewAdminHandler(userRepo *repository.UserRepository, tenantRepo *repository.TenantRepository) *AdminHandler {
	return &AdminHandler{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
	}
}

// GetStats returns platform statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	if h.userRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Dashboard disabled (no database)"})
		return
	}
	stats, err := h.userRepo.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	tenantCount := 0
	if h.tenantRepo != nil {
		tenantCount, _ = h.tenantRepo.Count(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users":  stats.TotalUsers,
		"active_users": stats.ActiveUsers,
		"admin_count":  stats.AdminCount,
		"tenant_count": tenantCount,
	})
}

// GetAllUsers returns list of all operator accounts
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	if h.userRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Dashboard disabled (no database)"})
		return
	}
	users, err := h.userRepo.GetAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUserStatus enables/disables an operator account
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var payload struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Don't allow disabling self
	currentUserID, _ := c.Get("user_id")
	if int(currentUserID.(float64)) == userID && !payload.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot disable your own account"})
		return
	}

	if err := h.userRepo.UpdateUserStatus(userID, payload.IsActive); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated", "is_active": payload.IsActive})
}

// UpdateUserLimits sets relay quotas for an operator
func (h *AdminHandler) UpdateUserLimits(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var payload struct {
		DailyLimit   int `json:"daily_limit"`
		MonthlyLimit int `json:"monthly_limit"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Validate limits
	if payload.DailyLimit < 0 || payload.MonthlyLimit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Limits cannot be negative"})
		return
	}

	if err := h.userRepo.UpdateUserLimits(userID, payload.DailyLimit, payload.MonthlyLimit); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update limits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "updated",
		"daily_limit":   payload.DailyLimit,
		"monthly_limit": payload.MonthlyLimit,
	})
}
