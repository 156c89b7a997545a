package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"project_waRelay/internal/entities"
	"project_waRelay/internal/interfaces"
)

// ConfigServiceClient resolves tenant config from the external config
// webhook (spreadsheet-backed service). Every message re-resolves; the
// service response is never cached so template edits apply immediately.
type ConfigServiceClient struct {
	url    string
	client *http.Client
}

func NewConfigServiceClient(url string) interfaces.ConfigSource {
	return &ConfigServiceClient{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *ConfigServiceClient) Resolve(ctx context.Context, phoneNumberID string) (*entities.TenantConfig, error) {
	body, _ := json.Marshal(map[string]string{"phone_number_id": phoneNumberID})
	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("config service call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil // unknown tenant
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("config service returned %s", resp.Status)
	}

	var cfg entities.TenantConfig
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config service response: %w", err)
	}
	if cfg.PhoneNumberID == "" {
		cfg.PhoneNumberID = phoneNumberID
	}
	return &cfg, nil
}

// StaticConfigSource serves a single tenant from environment
// credentials. Last-resort fallback when neither the config service nor
// the database is configured.
type StaticConfigSource struct {
	cfg entities.TenantConfig
}

func NewStaticConfigSource(token, phoneNumberID string) interfaces.ConfigSource {
	return &StaticConfigSource{cfg: entities.TenantConfig{
		PhoneNumberID: phoneNumberID,
		WhatsAppToken: token,
		ReplyHi:       "👋 Hi! Thanks for reaching out.\n\nReply *1* for pricing, *2* for a demo, *3* for support.",
		ReplyPrice:    "💰 Our pricing starts from $29/month. An agent will follow up with details shortly.",
		ReplyDemo:     "📅 Happy to show you around! An agent will contact you to schedule a demo.",
		ReplyHelp:     "🛠 Sorry you're having trouble. Our support team has been notified and will reply soon.",
		ReplyDefault:  "🤖 Thanks for your message! An agent will get back to you.\n\nReply *1* for pricing, *2* for a demo, *3* for support.",
	}}
}

func (s *StaticConfigSource) Resolve(_ context.Context, phoneNumberID string) (*entities.TenantConfig, error) {
	if s.cfg.WhatsAppToken == "" || phoneNumberID != s.cfg.PhoneNumberID {
		return nil, nil // unknown tenant
	}
	cfg := s.cfg
	return &cfg, nil
}
