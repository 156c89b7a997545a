package interfaces

import (
	"context"
	"project_waRelay/internal/entities"
)

// Messenger sends a reply back to the originating user on the platform.
type Messenger interface {
	SendMessage(ctx context.Context, to, content string, cfg *entities.TenantConfig) error
}

// ConfigSource resolves a tenant's config by its phone number identity.
// A nil config with nil error means the tenant is unknown.
type ConfigSource interface {
	Resolve(ctx context.Context, phoneNumberID string) (*entities.TenantConfig, error)
}

// Sink receives structured relay records (tenant log, admin alert).
type Sink interface {
	Post(ctx context.Context, url string, record entities.RelayRecord) error
}

// Alerter pushes a plain-text admin notification (e.g. Telegram chat).
type Alerter interface {
	SendAlert(ctx context.Context, text string) error
}
