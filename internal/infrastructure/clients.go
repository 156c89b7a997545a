package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"project_waRelay/internal/entities"
	"project_waRelay/internal/interfaces"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const sendTimeout = 10 * time.Second

// WhatsAppBusinessClient sends replies through the WhatsApp Cloud API.
type WhatsAppBusinessClient struct {
	apiVersion string
	client     *http.Client
}

func NewWhatsAppBusinessClient(apiVersion string) interfaces.Messenger {
	if apiVersion == "" {
		apiVersion = "v18.0"
	}
	return &WhatsAppBusinessClient{
		apiVersion: apiVersion,
		client:     &http.Client{Timeout: sendTimeout},
	}
}

func (w *WhatsAppBusinessClient) SendMessage(ctx context.Context, to, content string, cfg *entities.TenantConfig) error {
	if !cfg.IsConfigured() {
		return fmt.Errorf("tenant has no whatsapp token")
	}
	url := fmt.Sprintf("https://graph.facebook.com/%s/%s/messages", w.apiVersion, cfg.PhoneNumberID)
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text": map[string]string{
			"body": content,
		},
	}
	data, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.WhatsAppToken)
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp send failed: %s body=%s", resp.Status, string(body))
	}
	return nil
}

// WebhookSink posts relay records to an external webhook (tenant sheet
// log or admin alert URL). Callers treat it as best-effort.
type WebhookSink struct {
	client *http.Client
}

func NewWebhookSink() interfaces.Sink {
	return &WebhookSink{client: &http.Client{Timeout: sendTimeout}}
}

func (s *WebhookSink) Post(ctx context.Context, url string, record entities.RelayRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sink %s returned %s", url, resp.Status)
	}
	return nil
}

// TelegramClient pushes admin alerts to a Telegram chat.
type TelegramClient struct {
	Bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramClient(token, chatID string) interfaces.Alerter {
	if token == "" || chatID == "" {
		return &TelegramClient{Bot: nil}
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		fmt.Printf("Warning: Telegram Bot Token issue: %v. Telegram alerts disabled.\n", err)
		return &TelegramClient{Bot: nil}
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		fmt.Printf("Warning: invalid ADMIN_TELEGRAM_CHAT %q. Telegram alerts disabled.\n", chatID)
		return &TelegramClient{Bot: nil}
	}
	return &TelegramClient{Bot: bot, chatID: id}
}

func (t *TelegramClient) SendAlert(_ context.Context, text string) error {
	if t.Bot == nil {
		return nil // alerts disabled, silently skip
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	_, err := t.Bot.Send(msg)
	return err
}
