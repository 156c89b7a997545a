package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"project_waRelay/internal/entities"
	"project_waRelay/internal/infrastructure"
)

type fakeMessenger struct {
	mu    sync.Mutex
	sent  []string // reply bodies in send order
	to    []string
	fail  bool
	calls int
}

func (f *fakeMessenger) SendMessage(_ context.Context, to, content string, _ *entities.TenantConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.sent = append(f.sent, content)
	f.to = append(f.to, to)
	if f.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func (f *fakeMessenger) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeConfigSource struct {
	cfg *entities.TenantConfig
	err error
}

func (f *fakeConfigSource) Resolve(_ context.Context, _ string) (*entities.TenantConfig, error) {
	return f.cfg, f.err
}

type fakeSink struct {
	mu    sync.Mutex
	posts map[string][]entities.RelayRecord // url → records
}

func newFakeSink() *fakeSink {
	return &fakeSink{posts: make(map[string][]entities.RelayRecord)}
}

func (f *fakeSink) Post(_ context.Context, url string, record entities.RelayRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts[url] = append(f.posts[url], record)
	return nil
}

func (f *fakeSink) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts[url])
}

type fakeAlerter struct {
	mu     sync.Mutex
	alerts []string
}

func (f *fakeAlerter) SendAlert(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, text)
	return nil
}

func (f *fakeAlerter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}

func newTestRelay(messenger *fakeMessenger, source *fakeConfigSource, sink *fakeSink, alerter *fakeAlerter) *RelayService {
	return NewRelayService(
		source,
		messenger,
		sink,
		alerter,
		infrastructure.NewDedupStore(),
		NewEscalationPolicy(infrastructure.NewSeenSenders()),
	)
}

func inbound(id, from, text string) entities.InboundMessage {
	return entities.InboundMessage{
		ID:            id,
		From:          from,
		Text:          text,
		PhoneNumberID: "1234567890",
		ReceivedAt:    time.Now(),
	}
}

func TestProcessMessageSendsReply(t *testing.T) {
	messenger := &fakeMessenger{}
	sink := newFakeSink()
	relay := newTestRelay(messenger, &fakeConfigSource{cfg: testConfig()}, sink, &fakeAlerter{})

	if err := relay.ProcessMessage(context.Background(), inbound("wamid.1", "628555", "hi")); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	relay.Flush()

	if messenger.sendCount() != 1 {
		t.Fatalf("got %d sends, want 1", messenger.sendCount())
	}
	if messenger.sent[0] != "HI" || messenger.to[0] != "628555" {
		t.Errorf("sent %q to %q, want HI to 628555", messenger.sent[0], messenger.to[0])
	}
}

func TestProcessMessageDuplicateID(t *testing.T) {
	messenger := &fakeMessenger{}
	relay := newTestRelay(messenger, &fakeConfigSource{cfg: testConfig()}, newFakeSink(), &fakeAlerter{})

	msg := inbound("wamid.dup", "628555", "what's the price?")
	relay.ProcessMessage(context.Background(), msg)
	relay.ProcessMessage(context.Background(), msg)
	relay.Flush()

	if messenger.sendCount() != 1 {
		t.Errorf("duplicate delivery caused %d sends, want 1", messenger.sendCount())
	}
}

func TestProcessMessageConcurrentDuplicates(t *testing.T) {
	messenger := &fakeMessenger{}
	relay := newTestRelay(messenger, &fakeConfigSource{cfg: testConfig()}, newFakeSink(), &fakeAlerter{})

	msg := inbound("wamid.race", "628555", "demo please")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			relay.ProcessMessage(context.Background(), msg)
		}()
	}
	wg.Wait()
	relay.Flush()

	if messenger.sendCount() != 1 {
		t.Errorf("concurrent duplicates caused %d sends, want exactly 1", messenger.sendCount())
	}
}

func TestProcessMessageEmptyText(t *testing.T) {
	messenger := &fakeMessenger{}
	relay := newTestRelay(messenger, &fakeConfigSource{cfg: testConfig()}, newFakeSink(), &fakeAlerter{})

	relay.ProcessMessage(context.Background(), inbound("wamid.empty", "628555", "   "))
	relay.Flush()

	if messenger.sendCount() != 0 {
		t.Errorf("blank message caused %d sends, want 0", messenger.sendCount())
	}
}

func TestProcessMessageUnknownTenant(t *testing.T) {
	messenger := &fakeMessenger{}
	sink := newFakeSink()
	alerter := &fakeAlerter{}
	relay := newTestRelay(messenger, &fakeConfigSource{cfg: nil}, sink, alerter)
	relay.AdminAlertURL = "https://alerts.example.com"

	if err := relay.ProcessMessage(context.Background(), inbound("wamid.unknown", "628555", "hello?")); err != nil {
		t.Fatalf("unknown tenant must be a clean no-op, got %v", err)
	}
	relay.Flush()

	if messenger.sendCount() != 0 {
		t.Errorf("unknown tenant caused %d sends, want 0", messenger.sendCount())
	}
	if sink.count("https://alerts.example.com") != 0 || alerter.count() != 0 {
		t.Error("unknown tenant must not produce alerts")
	}
}

func TestProcessMessageSendFailureStillLogsAndEscalates(t *testing.T) {
	messenger := &fakeMessenger{fail: true}
	sink := newFakeSink()
	alerter := &fakeAlerter{}

	cfg := testConfig()
	cfg.SheetWebhook = "https://sheet.example.com/log"
	relay := newTestRelay(messenger, &fakeConfigSource{cfg: cfg}, sink, alerter)
	relay.AdminAlertURL = "https://alerts.example.com"

	// Pricing intent: escalates even though the reply send fails.
	err := relay.ProcessMessage(context.Background(), inbound("wamid.fail", "628555", "how much is it?"))
	relay.Flush()

	if err == nil {
		t.Error("expected send error to surface")
	}
	if sink.count("https://sheet.example.com/log") != 1 {
		t.Error("tenant log sink should still receive the record")
	}
	if sink.count("https://alerts.example.com") != 1 {
		t.Error("admin alert sink should still receive the record")
	}
	if alerter.count() != 1 {
		t.Error("telegram alert should still fire")
	}
}

func TestProcessMessageNoEscalationForKnownGreeting(t *testing.T) {
	messenger := &fakeMessenger{}
	sink := newFakeSink()
	alerter := &fakeAlerter{}
	relay := newTestRelay(messenger, &fakeConfigSource{cfg: testConfig()}, sink, alerter)
	relay.AdminAlertURL = "https://alerts.example.com"

	relay.ProcessMessage(context.Background(), inbound("wamid.a", "628555", "hi"))
	relay.ProcessMessage(context.Background(), inbound("wamid.b", "628555", "hello"))
	relay.Flush()

	// First greeting is first contact; the second is pure chatter.
	if got := sink.count("https://alerts.example.com"); got != 1 {
		t.Errorf("got %d admin alerts, want 1 (first contact only)", got)
	}
	if alerter.count() != 1 {
		t.Errorf("got %d telegram alerts, want 1", alerter.count())
	}
	if messenger.sendCount() != 2 {
		t.Errorf("got %d replies, want 2 (both greetings answered)", messenger.sendCount())
	}
}

func TestProcessMessageFloodGuard(t *testing.T) {
	messenger := &fakeMessenger{}
	relay := newTestRelay(messenger, &fakeConfigSource{cfg: testConfig()}, newFakeSink(), &fakeAlerter{})
	relay.Limiter = infrastructure.NewMessageRateLimiter(0.001, 1) // effectively one token

	relay.ProcessMessage(context.Background(), inbound("wamid.f1", "628555", "first"))
	relay.ProcessMessage(context.Background(), inbound("wamid.f2", "628555", "second"))
	relay.Flush()

	if messenger.sendCount() != 1 {
		t.Errorf("flood guard let %d sends through, want 1", messenger.sendCount())
	}
}
