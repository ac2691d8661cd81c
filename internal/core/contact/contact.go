// Package contact holds the rules shared by every record carrying contact
// details: email validation and phone normalization.
package contact

import (
	"regexp"
	"strings"
)

var reEmail = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.[A-Za-z]{2,}$`)

// ValidEmail reports whether s looks like an email address: a local part,
// an @, a domain and a top level domain of at least two letters.
func ValidEmail(s string) bool {
	return reEmail.MatchString(s)
}

// NormalizePhone keeps only the digits of phone and strips leading zeros.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), "0")
}

// WhatsAppURL returns the wa.me link for phone. It returns false when the
// phone has no usable digits.
func WhatsAppURL(phone string) (string, bool) {
	digits := NormalizePhone(phone)
	if digits == "" {
		return "", false
	}
	return "https://wa.me/" + digits, true
}
