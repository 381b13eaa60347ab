package checker

import (
	"fmt"
	"strings"

	sharederrors "github.com/khanhnv2901/framecheck/internal/shared/errors"
	"golang.org/x/text/language"
)

// Locale selects the language of user-facing messages.
type Locale string

const (
	LocaleIndonesian Locale = "id"
	LocaleEnglish    Locale = "en"
)

// DefaultLocale is used when nothing better can be negotiated.
const DefaultLocale = LocaleIndonesian

// supportedTags must stay index-aligned with supportedLocales.
var (
	supportedTags    = []language.Tag{language.Indonesian, language.English}
	supportedLocales = []Locale{LocaleIndonesian, LocaleEnglish}
	localeMatcher    = language.NewMatcher(supportedTags)
)

type messageSet struct {
	protected  string
	vulnerable string
}

var messages = map[Locale]messageSet{
	LocaleIndonesian: {
		protected:  "✅ Website TERLINDUNGI dari clickjacking. Proteksi: %s",
		vulnerable: "⚠️ Website RENTAN terhadap clickjacking! Tidak ditemukan header X-Frame-Options atau CSP frame-ancestors.",
	},
	LocaleEnglish: {
		protected:  "✅ Website is PROTECTED against clickjacking. Protection: %s",
		vulnerable: "⚠️ Website is VULNERABLE to clickjacking! No X-Frame-Options header or CSP frame-ancestors directive found.",
	},
}

// ParseLocale validates a locale name given on the command line or in config.
func ParseLocale(s string) (Locale, error) {
	switch l := Locale(strings.ToLower(strings.TrimSpace(s))); l {
	case LocaleIndonesian, LocaleEnglish:
		return l, nil
	case "":
		return DefaultLocale, nil
	default:
		return "", fmt.Errorf("%w: %q", sharederrors.ErrUnsupportedLocale, s)
	}
}

// MatchLocale picks the best supported locale for an Accept-Language value,
// falling back when the header is empty, malformed or matches nothing.
func MatchLocale(acceptLanguage string, fallback Locale) Locale {
	if strings.TrimSpace(acceptLanguage) == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, confidence := localeMatcher.Match(tags...)
	if confidence == language.No || idx < 0 || idx >= len(supportedLocales) {
		return fallback
	}
	return supportedLocales[idx]
}

// ComposeMessage renders the human-readable summary for a classification.
func ComposeMessage(locale Locale, vulnerable bool, reasons []string) string {
	set, ok := messages[locale]
	if !ok {
		set = messages[DefaultLocale]
	}
	if vulnerable {
		return set.vulnerable
	}
	return fmt.Sprintf(set.protected, strings.Join(reasons, ", "))
}
