package http

import (
	"net/http"

	"project_waRelay/internal/entities"

	"github.com/gin-gonic/gin"
)

// getUserID extracts user_id from JWT context
func getUserID(c *gin.Context) int {
	userIDFloat, _ := c.Get("user_id")
	if uid, ok := userIDFloat.(float64); ok { // JWT numbers decode as float64
		return int(uid)
	}
	return 0
}

// GetUserStats returns dashboard stats for the authenticated operator
func (h *Handler) GetUserStats(c *gin.Context) {
	if h.tenantRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Dashboard disabled (no database)"})
		return
	}
	userID := getUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return
	}

	tenants, err := h.tenantRepo.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tenants"})
		return
	}

	// Today's traffic summed over the operator's tenants
	totalSent, totalReceived := 0, 0
	if h.usageRepo != nil {
		for _, t := range tenants {
			sent, received, _ := h.usageRepo.GetTodayUsage(t.PhoneNumberID)
			totalSent += sent
			totalReceived += received
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"tenant_count":   len(tenants),
		"today_sent":     totalSent,
		"today_received": totalReceived,
	})
}

// GetMyTenants lists the operator's registered tenants
func (h *Handler) GetMyTenants(c *gin.Context) {
	if h.tenantRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Dashboard disabled (no database)"})
		return
	}
	tenants, err := h.tenantRepo.ListByOwner(c.Request.Context(), getUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tenants)
}

// UpsertTenant creates or updates a tenant config in the local registry
func (h *Handler) UpsertTenant(c *gin.Context) {
	if h.tenantRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Dashboard disabled (no database)"})
		return
	}
	var t entities.TenantConfig
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if p := c.Param("phone_number_id"); p != "" {
		t.PhoneNumberID = p
	}

	// Validate inputs
	if !ValidPhoneNumberID(t.PhoneNumberID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone_number_id"})
		return
	}
	if t.WhatsAppToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "whatsapp_token is required"})
		return
	}
	for _, v := range []*string{&t.ReplyHi, &t.ReplyPrice, &t.ReplyDemo, &t.ReplyHelp, &t.ReplyDefault} {
		*v = SanitizeString(TruncateString(*v, MaxTemplateLength))
	}

	if err := h.tenantRepo.Upsert(c.Request.Context(), getUserID(c), &t); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save tenant"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved", "phone_number_id": t.PhoneNumberID})
}

// DeleteTenant removes a tenant from the local registry
func (h *Handler) DeleteTenant(c *gin.Context) {
	if h.tenantRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Dashboard disabled (no database)"})
		return
	}
	phoneID := c.Param("phone_number_id")
	if !ValidPhoneNumberID(phoneID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone_number_id"})
		return
	}
	if err := h.tenantRepo.Delete(c.Request.Context(), getUserID(c), phoneID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tenant"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GetTenantUsage returns the last 30 days of relay counters for a tenant
func (h *Handler) GetTenantUsage(c *gin.Context) {
	if h.usageRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Dashboard disabled (no database)"})
		return
	}
	phoneID := c.Param("phone_number_id")
	if !ValidPhoneNumberID(phoneID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone_number_id"})
		return
	}
	usage, err := h.usageRepo.GetUsageHistory(phoneID, 30)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch usage"})
		return
	}
	c.JSON(http.StatusOK, usage)
}
