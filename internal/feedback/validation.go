package feedback

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MinMessageLength and MaxMessageLength bound a normalized message.
	MinMessageLength = 10
	MaxMessageLength = 2000
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// Characters Discord interprets as markdown.
	markdownEscaper = strings.NewReplacer(
		"\\", "\\\\",
		"*", "\\*",
		"_", "\\_",
		"~", "\\~",
		"`", "\\`",
		"|", "\\|",
		">", "\\>",
		"#", "\\#",
		"-", "\\-",
	)

	whitespaceRun = regexp.MustCompile(`[ \t]{2,}`)
)

// ValidType reports whether a submission type is one of the accepted kinds.
func ValidType(t string) bool {
	switch t {
	case "suggestion", "bug", "feedback":
		return true
	}
	return false
}

// NormalizeMessage trims and collapses whitespace and validates the length
// bounds against the normalized form, so padding cannot smuggle an
// effectively-empty message through.
func NormalizeMessage(message string) (string, error) {
	normalized := strings.TrimSpace(message)
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = whitespaceRun.ReplaceAllString(normalized, " ")

	length := utf8.RuneCountInString(normalized)
	if length < MinMessageLength {
		return "", errors.New("message must be at least 10 characters")
	}
	if length > MaxMessageLength {
		return "", errors.New("message must be at most 2000 characters")
	}
	return normalized, nil
}

// ValidateEmail checks format only; an empty email is allowed since the
// field is optional.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if !emailPattern.MatchString(email) {
		return errors.New("invalid email address")
	}
	return nil
}

// SanitizeForWebhook escapes markdown and defuses mention pings before a
// message is forwarded. A zero-width space after each @ keeps @everyone,
// @here, and user/role mentions inert without mangling the visible text.
func SanitizeForWebhook(text string) string {
	sanitized := markdownEscaper.Replace(text)
	sanitized = strings.ReplaceAll(sanitized, "@", "@\u200b")
	return sanitized
}
