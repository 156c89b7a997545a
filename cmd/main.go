package main

import (
	"os"

	"project_waRelay/internal/infrastructure"
	"project_waRelay/internal/interfaces"
	"project_waRelay/internal/interfaces/http"
	"project_waRelay/internal/repository"
	"project_waRelay/internal/usecases"

	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		fmt.Println("No .env file found, using process environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	verifyToken := os.Getenv("VERIFY_TOKEN")
	if verifyToken == "" {
		fmt.Println("Warning: VERIFY_TOKEN not set. Webhook verification will reject all handshakes.")
	}

	// Connect to PostgreSQL (optional — the relay works without it, the
	// dashboard API does not)
	var tenantRepo *repository.TenantRepository
	var userRepo *repository.UserRepository
	var usageRepo *repository.UsageRepository
	var authUsecase *usecases.AuthUsecase

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pgClient, err := infrastructure.NewPostgresClient(dsn)
		if err != nil {
			fmt.Println("Warning: Failed to connect to database:", err)
			fmt.Println("Warning: Dashboard API disabled. Relay continues without persistence.")
		} else {
			defer pgClient.Close()
			tenantRepo = repository.NewTenantRepository(pgClient.Pool)
			userRepo = repository.NewUserRepository(pgClient.Pool)
			usageRepo = repository.NewUsageRepository(pgClient.Pool)

			authUsecase = usecases.NewAuthUsecase(userRepo, os.Getenv("JWT_SECRET"))
			if err := authUsecase.EnsureAdmin("root", "root"); err != nil {
				fmt.Println("Warning: Failed to ensure admin user:", err)
			}
		}
	} else {
		fmt.Println("Warning: DATABASE_URL not set. Dashboard API disabled. Relay continues without persistence.")
	}

	// Tenant config resolution: external config service when configured,
	// otherwise the local registry, otherwise single-tenant env credentials
	var configSource interfaces.ConfigSource
	switch {
	case os.Getenv("CONFIG_SERVICE_URL") != "":
		configSource = infrastructure.NewConfigServiceClient(os.Getenv("CONFIG_SERVICE_URL"))
		fmt.Println("[CONFIG] resolving tenants via config service")
	case tenantRepo != nil:
		configSource = tenantRepo
		fmt.Println("[CONFIG] resolving tenants via local registry")
	default:
		configSource = infrastructure.NewStaticConfigSource(os.Getenv("WHATSAPP_TOKEN"), os.Getenv("PHONE_NUMBER_ID"))
		if os.Getenv("WHATSAPP_TOKEN") == "" || os.Getenv("PHONE_NUMBER_ID") == "" {
			fmt.Println("Warning: no config source available (CONFIG_SERVICE_URL, DATABASE_URL and WHATSAPP_TOKEN/PHONE_NUMBER_ID all unset). Inbound messages will be dropped.")
		} else {
			fmt.Println("[CONFIG] single-tenant mode from environment credentials")
		}
	}

	// Outbound clients
	messenger := infrastructure.NewWhatsAppBusinessClient(os.Getenv("GRAPH_API_VERSION"))
	sink := infrastructure.NewWebhookSink()
	alerter := infrastructure.NewTelegramClient(os.Getenv("TELEGRAM_BOT_TOKEN"), os.Getenv("ADMIN_TELEGRAM_CHAT"))

	// Relay pipeline
	dedup := infrastructure.NewDedupStore()
	escalation := usecases.NewEscalationPolicy(infrastructure.NewSeenSenders())

	relay := usecases.NewRelayService(configSource, messenger, sink, alerter, dedup, escalation)
	relay.Limiter = infrastructure.NewMessageRateLimiter(1, 5) // 1 msg/sec per sender, burst 5
	relay.UsageRepo = usageRepo
	relay.AdminAlertURL = os.Getenv("ADMIN_ALERT_URL")
	if relay.AdminAlertURL == "" {
		fmt.Println("Warning: ADMIN_ALERT_URL not set. Escalations go to Telegram only.")
	}
	defer relay.Flush()

	authMiddleware := http.NewMiddleware(os.Getenv("JWT_SECRET"))

	// Setup HTTP server
	r := gin.Default()
	http.SetupRoutes(r, relay, authUsecase, tenantRepo, usageRepo, userRepo, authMiddleware, verifyToken, os.Getenv("PHONE_NUMBER_ID"))

	fmt.Println("🚀 Relay listening on port " + port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		fmt.Printf("FAILED to start HTTP Server: %v\n", err)
		os.Exit(1)
	}
}
