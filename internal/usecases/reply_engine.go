package usecases

import (
	"strings"

	"project_waRelay/internal/entities"
)

// replyRule is one entry of the ordered reply rule list.
// DecideReply walks the list top to bottom and the first match wins, so
// the slice order IS the contract — a message containing both "price"
// and "help" gets the price template because that rule sits higher.
type replyRule struct {
	name  string
	match func(text string) bool
	pick  func(cfg *entities.TenantConfig) string
}

// Exact greeting set. Membership test, not substring: "hi there" is not
// a bare greeting.
var greetingSet = map[string]bool{
	"hi":    true,
	"hello": true,
	"hey":   true,
	"hii":   true,
	"hy":    true,
}

// Keyword sets per intent. "1"/"2"/"3" are the numeric menu shortcuts
// the bot offers in its default reply.
var (
	priceKeywords = []string{"price", "pricing", "cost", "how much", "harga", "berapa"}
	demoKeywords  = []string{"demo", "trial", "try"}
	helpKeywords  = []string{"help", "support", "issue", "problem", "error"}
)

var replyRules = []replyRule{
	{
		name:  "greeting",
		match: func(t string) bool { return greetingSet[t] },
		pick:  func(c *entities.TenantConfig) string { return c.ReplyHi },
	},
	{
		name:  "price",
		match: func(t string) bool { return t == "1" || containsAny(t, priceKeywords) },
		pick:  func(c *entities.TenantConfig) string { return c.ReplyPrice },
	},
	{
		name:  "demo",
		match: func(t string) bool { return t == "2" || containsAny(t, demoKeywords) },
		pick:  func(c *entities.TenantConfig) string { return c.ReplyDemo },
	},
	{
		name:  "help",
		match: func(t string) bool { return t == "3" || containsAny(t, helpKeywords) },
		pick:  func(c *entities.TenantConfig) string { return c.ReplyHelp },
	},
}

// DecideReply picks the reply text for a message. Pure function of
// (text, config); same input always yields the same reply.
func DecideReply(text string, cfg *entities.TenantConfig) string {
	norm := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range replyRules {
		if rule.match(norm) {
			return rule.pick(cfg)
		}
	}
	return cfg.ReplyDefault
}

// IsBareGreeting reports whether the message is nothing but a greeting.
// Used by the escalation policy to skip "hi"-only chatter.
func IsBareGreeting(text string) bool {
	return greetingSet[strings.ToLower(strings.TrimSpace(text))]
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
