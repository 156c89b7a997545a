package usecases

import (
	"testing"

	"project_waRelay/internal/entities"
)

func testConfig() *entities.TenantConfig {
	return &entities.TenantConfig{
		PhoneNumberID: "1234567890",
		WhatsAppToken: "token",
		ReplyHi:       "HI",
		ReplyPrice:    "PRICE",
		ReplyDemo:     "DEMO",
		ReplyHelp:     "HELP",
		ReplyDefault:  "DEFAULT",
	}
}

func TestDecideReply(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"greeting hi", "hi", "HI"},
		{"greeting hello", "hello", "HI"},
		{"greeting hey", "hey", "HI"},
		{"greeting hii", "hii", "HI"},
		{"greeting hy", "hy", "HI"},
		{"greeting uppercase", "HELLO", "HI"},
		{"greeting padded", "  hi  ", "HI"},
		{"greeting not substring", "hi there", "DEFAULT"},
		{"menu 1", "1", "PRICE"},
		{"menu 2", "2", "DEMO"},
		{"menu 3", "3", "HELP"},
		{"price keyword", "what is the price?", "PRICE"},
		{"price keyword harga", "berapa harga paketnya", "PRICE"},
		{"demo keyword", "can I get a demo", "DEMO"},
		{"help keyword", "I have a problem", "HELP"},
		{"price beats help on overlap", "price help", "PRICE"},
		{"unmatched falls through", "tell me more about the product", "DEFAULT"},
		{"empty", "", "DEFAULT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecideReply(tt.text, cfg); got != tt.want {
				t.Errorf("DecideReply(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDecideReplyDeterministic(t *testing.T) {
	cfg := testConfig()
	first := DecideReply("how much does it cost", cfg)
	for i := 0; i < 50; i++ {
		if got := DecideReply("how much does it cost", cfg); got != first {
			t.Fatalf("run %d: got %q, want %q", i, got, first)
		}
	}
}

func TestIsBareGreeting(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"hi", true},
		{"Hello", true},
		{" hey ", true},
		{"hi there", false},
		{"", false},
		{"pricing", false},
	}
	for _, tt := range tests {
		if got := IsBareGreeting(tt.text); got != tt.want {
			t.Errorf("IsBareGreeting(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
