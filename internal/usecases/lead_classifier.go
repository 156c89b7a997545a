package usecases

import (
	"regexp"

	"project_waRelay/internal/entities"
)

// leadPatterns are tested in fixed order; the first hit wins. The rule
// set is deliberately independent from the reply rules — the classifier
// may see Pricing where the reply engine fell through to the default
// template, and that divergence is expected.
var leadPatterns = []struct {
	reason entities.LeadReason
	re     *regexp.Regexp
}{
	{entities.LeadPricing, regexp.MustCompile(`(?i)\b(price|pricing|cost|quote|how much|harga|berapa)\b`)},
	{entities.LeadDemo, regexp.MustCompile(`(?i)\b(demo|trial|try)\b`)},
	{entities.LeadSupport, regexp.MustCompile(`(?i)\b(help|support|issue|problem|error|broken|not working)\b`)},
}

// ClassifyLead maps message text to exactly one lead reason.
// Total and deterministic: anything unmatched is General.
func ClassifyLead(text string) entities.LeadReason {
	for _, p := range leadPatterns {
		if p.re.MatchString(text) {
			return p.reason
		}
	}
	return entities.LeadGeneral
}
