package usecases

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"project_waRelay/internal/entities"
	"project_waRelay/internal/infrastructure"
	"project_waRelay/internal/interfaces"
	"project_waRelay/internal/repository"
)

// RelayService processes one inbound message end to end:
// dedup gate → config resolve → reply decide + lead classify →
// reply send → tenant log → escalation check → admin alert.
// Every step after the dedup gate degrades to a logged no-op on
// failure; the webhook handler has already ACKed by the time we run.
type RelayService struct {
	messengerClient interfaces.Messenger
	configSource    interfaces.ConfigSource
	sink            interfaces.Sink
	alerter         interfaces.Alerter
	dedup           *infrastructure.DedupStore
	escalation      *EscalationPolicy

	// Optional collaborators, set after construction like the
	// exported fields below.
	Limiter       *infrastructure.MessageRateLimiter
	UsageRepo     *repository.UsageRepository
	AdminAlertURL string

	wg sync.WaitGroup
}

func NewRelayService(
	configSource interfaces.ConfigSource,
	messenger interfaces.Messenger,
	sink interfaces.Sink,
	alerter interfaces.Alerter,
	dedup *infrastructure.DedupStore,
	escalation *EscalationPolicy,
) *RelayService {
	return &RelayService{
		messengerClient: messenger,
		configSource:    configSource,
		sink:            sink,
		alerter:         alerter,
		dedup:           dedup,
		escalation:      escalation,
	}
}

// ProcessMessage runs the relay pipeline for one inbound message.
// Returns the reply-send error for diagnostics; callers never turn it
// into a non-2xx response.
func (s *RelayService) ProcessMessage(ctx context.Context, msg entities.InboundMessage) error {
	if strings.TrimSpace(msg.Text) == "" {
		return nil // non-actionable
	}

	// Atomic insert-if-absent: two concurrent deliveries of the same
	// id get exactly one winner.
	if !s.dedup.MarkIfNew(msg.ID) {
		fmt.Printf("[RELAY] duplicate message %s from %s, skipping\n", msg.ID, msg.From)
		return nil
	}

	if s.Limiter != nil && !s.Limiter.Allow(msg.From) {
		fmt.Printf("[RELAY] sender %s over flood limit, dropping message %s\n", msg.From, msg.ID)
		return nil
	}

	if s.UsageRepo != nil {
		if err := s.UsageRepo.IncrementReceived(msg.PhoneNumberID); err != nil {
			fmt.Printf("[USAGE] increment received failed: %v\n", err)
		}
	}

	cfg, err := s.configSource.Resolve(ctx, msg.PhoneNumberID)
	if err != nil {
		fmt.Printf("[RELAY] config resolve for tenant %s failed: %v\n", msg.PhoneNumberID, err)
		return nil
	}
	if !cfg.IsConfigured() {
		fmt.Printf("[RELAY] tenant %s not configured, no reply sent\n", msg.PhoneNumberID)
		return nil
	}

	// Both pure, both fed the same raw text. They may disagree on the
	// intent and that is fine.
	reply := DecideReply(msg.Text, cfg)
	reason := ClassifyLead(msg.Text)

	sendErr := s.messengerClient.SendMessage(ctx, msg.From, reply, cfg)
	if sendErr != nil {
		fmt.Printf("[SEND] reply to %s failed: %v\n", msg.From, sendErr)
	} else if s.UsageRepo != nil {
		if err := s.UsageRepo.IncrementSent(msg.PhoneNumberID); err != nil {
			fmt.Printf("[USAGE] increment sent failed: %v\n", err)
		}
	}

	record := entities.RelayRecord{
		From:       msg.From,
		Message:    msg.Text,
		Reply:      reply,
		LeadReason: reason,
		Timestamp:  msg.ReceivedAt,
	}

	if cfg.SheetWebhook != "" {
		s.dispatchSink(cfg.SheetWebhook, record, "[SINK] tenant log")
	}

	if s.escalation.ShouldEscalate(msg.From, msg.Text, reason) {
		fmt.Printf("[RELAY] escalating %s (reason=%s)\n", msg.From, reason)
		if s.AdminAlertURL != "" {
			s.dispatchSink(s.AdminAlertURL, record, "[SINK] admin alert")
		}
		if s.alerter != nil {
			s.dispatchAlert(record)
		}
	}

	return sendErr
}

// dispatchSink posts a record in the background. The result is
// deliberately discarded: sink failures are logged and never reach the
// inbound platform.
func (s *RelayService) dispatchSink(url string, record entities.RelayRecord, tag string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.sink.Post(ctx, url, record); err != nil {
			fmt.Printf("%s to %s failed: %v\n", tag, url, err)
		}
	}()
}

func (s *RelayService) dispatchAlert(record entities.RelayRecord) {
	text := fmt.Sprintf("🔔 New lead (%s)\nFrom: %s\nMessage: %s\nReply: %s",
		record.LeadReason, record.From, record.Message, record.Reply)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.alerter.SendAlert(ctx, text); err != nil {
			fmt.Printf("[ALERT] telegram alert failed: %v\n", err)
		}
	}()
}

// Flush waits for in-flight best-effort deliveries. Called on shutdown.
func (s *RelayService) Flush() {
	s.wg.Wait()
}
