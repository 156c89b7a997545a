package entities

// TenantConfig holds one tenant's reply templates and outbound credential.
// Resolved fresh per inbound message; read-only for the request.
type TenantConfig struct {
	PhoneNumberID string `json:"phone_number_id"`
	WhatsAppToken string `json:"whatsapp_token"`
	ReplyHi       string `json:"reply_hi"`
	ReplyPrice    string `json:"reply_price"`
	ReplyDemo     string `json:"reply_demo"`
	ReplyHelp     string `json:"reply_help"`
	ReplyDefault  string `json:"reply_default"`
	SheetWebhook  string `json:"sheet_webhook,omitempty"` // optional per-tenant log sink
}

// IsConfigured reports whether an outbound send may be attempted.
// A tenant without a token is a terminal no-op for that message.
func (t *TenantConfig) IsConfigured() bool {
	return t != nil && t.WhatsAppToken != ""
}
