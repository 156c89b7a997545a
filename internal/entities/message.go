package entities

import "time"

// InboundMessage is one user message extracted from the webhook payload.
// Immutable after parsing; ID is the platform's dedup key.
type InboundMessage struct {
	ID            string
	From          string // sender phone number (wa_id)
	Text          string
	PhoneNumberID string // tenant identity the message arrived on
	ReceivedAt    time.Time
}

// LeadReason is the escalation category a message is classified into.
type LeadReason string

const (
	LeadPricing LeadReason = "pricing"
	LeadDemo    LeadReason = "demo"
	LeadSupport LeadReason = "support"
	LeadGeneral LeadReason = "general"
)

// RelayRecord is the JSON record forwarded to the tenant log sink and
// the admin alert sink.
type RelayRecord struct {
	From       string     `json:"from"`
	Message    string     `json:"message"`
	Reply      string     `json:"reply"`
	LeadReason LeadReason `json:"lead_reason,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}
