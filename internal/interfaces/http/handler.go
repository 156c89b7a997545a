package http

import (
	"context"
	"net/http"
	"time"

	"project_waRelay/internal/entities"
	"project_waRelay/internal/repository"
	"project_waRelay/internal/usecases"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	relay        *usecases.RelayService
	tenantRepo   *repository.TenantRepository
	usageRepo    *repository.UsageRepository
	userRepo     *repository.UserRepository
	verifyToken  string
	defaultPhone string // PHONE_NUMBER_ID fallback for payloads without metadata
}

func NewHandler(relay *usecases.RelayService, tenantRepo *repository.TenantRepository, usageRepo *repository.UsageRepository, userRepo *repository.UserRepository, verifyToken, defaultPhone string) *Handler {
	return &Handler{
		relay:        relay,
		tenantRepo:   tenantRepo,
		usageRepo:    usageRepo,
		userRepo:     userRepo,
		verifyToken:  verifyToken,
		defaultPhone: defaultPhone,
	}
}

func SetupRoutes(r *gin.Engine, relay *usecases.RelayService, auth *usecases.AuthUsecase, tenantRepo *repository.TenantRepository, usageRepo *repository.UsageRepository, userRepo *repository.UserRepository, middleware *Middleware, verifyToken, defaultPhone string) {
	h := NewHandler(relay, tenantRepo, usageRepo, userRepo, verifyToken, defaultPhone)
	adminHandler := NewAdminHandler(userRepo, tenantRepo)

	// Apply Security Middleware
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(1 << 20)) // 1MB max request size
	r.Use(middleware.CORSMiddleware())

	// Platform webhook (public)
	r.GET("/webhook", h.VerifyWebhook)
	r.POST("/webhook", h.HandleWebhook)

	// Public Auth Routes
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/login", func(c *gin.Context) {
			if auth == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Dashboard disabled (no database)"})
				return
			}
			var loginReq struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&loginReq); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			token, err := auth.Login(loginReq.Username, loginReq.Password)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": token})
		})

		authGroup.POST("/register", func(c *gin.Context) {
			if auth == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Dashboard disabled (no database)"})
				return
			}
			var regReq struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&regReq); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			// Validate inputs
			if !ValidSlug(regReq.Username) || len(regReq.Password) < 6 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username or password (min 6 chars)"})
				return
			}
			if err := auth.Register(regReq.Username, regReq.Password); err != nil {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"status": "registered"})
		})
	}

	// Protected Dashboard Routes
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	api.Use(middleware.RateLimitPerUser(5, 10))
	{
		api.GET("/dashboard/stats", h.GetUserStats)

		// Tenant Routes
		api.GET("/tenants", h.GetMyTenants)
		api.POST("/tenants", h.UpsertTenant)
		api.PUT("/tenants/:phone_number_id", h.UpsertTenant)
		api.DELETE("/tenants/:phone_number_id", h.DeleteTenant)
		api.GET("/tenants/:phone_number_id/usage", h.GetTenantUsage)
	}

	// Admin-only Routes
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired())
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/users", adminHandler.GetAllUsers)
		admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
		admin.PUT("/users/:id/limits", adminHandler.UpdateUserLimits)
	}
}

// VerifyWebhook answers the platform's subscription handshake.
// Correct mode + token → echo hub.challenge verbatim; anything else 403.
func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && h.verifyToken != "" && token == h.verifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.Status(http.StatusForbidden)
}

// metaWebhookPayload mirrors the platform's delivery envelope. Only the
// first message of the first change is relayed; status-only deliveries
// have an empty messages array.
type metaWebhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Metadata struct {
					PhoneNumberID string `json:"phone_number_id"`
				} `json:"metadata"`
				Messages []struct {
					ID   string `json:"id"`
					From string `json:"from"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// HandleWebhook ingests a message delivery. Every path ACKs 200 once we
// got this far — the platform retries on non-2xx, which would duplicate
// side effects already performed.
func (h *Handler) HandleWebhook(c *gin.Context) {
	var payload metaWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	msg, ok := extractMessage(payload)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	if msg.PhoneNumberID == "" {
		msg.PhoneNumberID = h.defaultPhone
	}
	msg.ReceivedAt = time.Now()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		_ = h.relay.ProcessMessage(ctx, msg) // errors already logged inside
	}()

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// extractMessage pulls the first text message out of the envelope.
// Returns ok=false for status updates, media-only messages and other
// payloads with nothing to relay.
func extractMessage(payload metaWebhookPayload) (entities.InboundMessage, bool) {
	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return entities.InboundMessage{}, false
	}
	value := payload.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return entities.InboundMessage{}, false
	}
	m := value.Messages[0]
	if m.Text.Body == "" {
		return entities.InboundMessage{}, false
	}
	return entities.InboundMessage{
		ID:            m.ID,
		From:          m.From,
		Text:          m.Text.Body,
		PhoneNumberID: value.Metadata.PhoneNumberID,
	}, true
}
