package http

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input validation constants
const (
	MaxSlugLength     = 64
	MaxPhoneIDLength  = 64
	MaxTemplateLength = 4096 // WhatsApp text body cap
)

var (
	slugRe    = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	phoneIDRe = regexp.MustCompile(`^[0-9]+$`)
)

// ValidSlug checks if a username/slug is safe (alphanumeric + underscore + hyphen)
func ValidSlug(s string) bool {
	return s != "" && len(s) <= MaxSlugLength && slugRe.MatchString(s)
}

// ValidPhoneNumberID checks the tenant key coming from the platform (digits only)
func ValidPhoneNumberID(s string) bool {
	return s != "" && len(s) <= MaxPhoneIDLength && phoneIDRe.MatchString(s)
}

// SanitizeString removes null bytes and invalid UTF-8
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")

	// Keep only valid UTF-8
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r != utf8.RuneError {
				v = append(v, r)
			}
		}
		s = string(v)
	}
	return s
}

// TruncateString safely truncates a string to max length
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
