package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"project_waRelay/internal/entities"
	"project_waRelay/internal/infrastructure"
	"project_waRelay/internal/usecases"

	"github.com/gin-gonic/gin"
)

type captureMessenger struct {
	ch chan string // "to|content" per send
}

func (m *captureMessenger) SendMessage(_ context.Context, to, content string, _ *entities.TenantConfig) error {
	m.ch <- to + "|" + content
	return nil
}

type staticSource struct {
	cfg *entities.TenantConfig
}

func (s *staticSource) Resolve(_ context.Context, _ string) (*entities.TenantConfig, error) {
	return s.cfg, nil
}

type nopSink struct{}

func (nopSink) Post(_ context.Context, _ string, _ entities.RelayRecord) error { return nil }

type nopAlerter struct{}

func (nopAlerter) SendAlert(_ context.Context, _ string) error { return nil }

func testRouter(t *testing.T, messenger *captureMessenger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &entities.TenantConfig{
		PhoneNumberID: "1234567890",
		WhatsAppToken: "token",
		ReplyHi:       "HI",
		ReplyDefault:  "DEFAULT",
	}
	relay := usecases.NewRelayService(
		&staticSource{cfg: cfg},
		messenger,
		nopSink{},
		nopAlerter{},
		infrastructure.NewDedupStore(),
		usecases.NewEscalationPolicy(infrastructure.NewSeenSenders()),
	)

	r := gin.New()
	SetupRoutes(r, relay, nil, nil, nil, nil, NewMiddleware("testsecret"), "vtoken", "")
	return r
}

func TestVerifyWebhook(t *testing.T) {
	r := testRouter(t, &captureMessenger{ch: make(chan string, 1)})

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantBody   string
	}{
		{"valid handshake", "hub.mode=subscribe&hub.verify_token=vtoken&hub.challenge=42", http.StatusOK, "42"},
		{"wrong token", "hub.mode=subscribe&hub.verify_token=nope&hub.challenge=42", http.StatusForbidden, ""},
		{"wrong mode", "hub.mode=unsubscribe&hub.verify_token=vtoken&hub.challenge=42", http.StatusForbidden, ""},
		{"missing everything", "", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/webhook?"+tt.query, nil)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

const messagePayload = `{
	"entry": [{
		"changes": [{
			"value": {
				"metadata": {"phone_number_id": "1234567890"},
				"messages": [{
					"id": "wamid.test1",
					"from": "628555",
					"text": {"body": "hi"}
				}]
			}
		}]
	}]
}`

func TestHandleWebhookRelaysMessage(t *testing.T) {
	messenger := &captureMessenger{ch: make(chan string, 1)}
	r := testRouter(t, messenger)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(messagePayload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	// Processing is async; the ACK must not wait for it.
	select {
	case sent := <-messenger.ch:
		if sent != "628555|HI" {
			t.Errorf("sent %q, want %q", sent, "628555|HI")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reply sent within 2s")
	}
}

func TestHandleWebhookStatusOnlyDelivery(t *testing.T) {
	messenger := &captureMessenger{ch: make(chan string, 1)}
	r := testRouter(t, messenger)

	payload := `{"entry": [{"changes": [{"value": {"metadata": {"phone_number_id": "1234567890"}, "statuses": [{"id": "wamid.x", "status": "delivered"}]}}]}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status-only delivery must still ACK 200, got %d", w.Code)
	}
	select {
	case sent := <-messenger.ch:
		t.Errorf("status-only delivery triggered a send: %q", sent)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHandleWebhookMalformedJSON(t *testing.T) {
	messenger := &captureMessenger{ch: make(chan string, 1)}
	r := testRouter(t, messenger)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(`{"entry": [`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("malformed payload must still ACK 200, got %d", w.Code)
	}
}

func TestHandleWebhookDuplicateDelivery(t *testing.T) {
	messenger := &captureMessenger{ch: make(chan string, 2)}
	r := testRouter(t, messenger)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/webhook", strings.NewReader(messagePayload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("delivery %d: status = %d, want 200", i, w.Code)
		}
	}

	select {
	case <-messenger.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no reply sent within 2s")
	}
	select {
	case sent := <-messenger.ch:
		t.Errorf("duplicate delivery triggered a second send: %q", sent)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDashboardDisabledWithoutDatabase(t *testing.T) {
	r := testRouter(t, &captureMessenger{ch: make(chan string, 1)})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"a","password":"b"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("login without database: status = %d, want 503", w.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := testRouter(t, &captureMessenger{ch: make(chan string, 1)})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/tenants", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated request: status = %d, want 401", w.Code)
	}
}
