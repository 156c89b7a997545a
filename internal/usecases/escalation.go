package usecases

import (
	"strings"

	"project_waRelay/internal/entities"
	"project_waRelay/internal/infrastructure"
)

// minMeaningfulLen is the trimmed-text length above which an
// unclassified message still counts as worth surfacing. Longer than
// every bare greeting.
const minMeaningfulLen = 12

// EscalationPolicy decides whether a conversation is forwarded to the
// admin channel.
type EscalationPolicy struct {
	seen *infrastructure.SeenSenders
}

func NewEscalationPolicy(seen *infrastructure.SeenSenders) *EscalationPolicy {
	return &EscalationPolicy{seen: seen}
}

// ShouldEscalate evaluates the three rules independently; any one
// firing escalates. Rule 1 registers the sender as seen in the same
// atomic step as its check, so concurrent messages from a new sender
// produce exactly one first-contact alert.
//
//  1. First contact — sender never escalated before.
//  2. High-intent lead reason (pricing/demo/support).
//  3. Meaningful unclassified message — General, not a bare greeting,
//     and long enough to be a real question.
func (p *EscalationPolicy) ShouldEscalate(senderID, text string, reason entities.LeadReason) bool {
	firstContact := p.seen.MarkIfNew(senderID)

	highIntent := reason == entities.LeadPricing ||
		reason == entities.LeadDemo ||
		reason == entities.LeadSupport

	trimmed := strings.TrimSpace(text)
	meaningful := reason == entities.LeadGeneral &&
		!IsBareGreeting(trimmed) &&
		len(trimmed) > minMeaningfulLen

	return firstContact || highIntent || meaningful
}
