// Package normalize coerces the heterogeneous raw property values coming out
// of the mail decoders into plain display strings.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DefaultMaxFilenameLen bounds sanitized filenames.
const DefaultMaxFilenameLen = 180

var (
	embeddedEmailRe     = regexp.MustCompile(`<([^>]+@[^>]+)>`)
	addressAnnotationRe = regexp.MustCompile(`\s*<[^>]+>\s*`)
	illegalFilenameRe   = regexp.MustCompile(`[<>:"/\\|?*` + "\n\r\t" + `]+`)
)

// Text converts any raw property value into a string. It never fails: nil
// becomes "", byte sequences are decoded as UTF-8 with a Latin-1 fallback
// (every byte maps, so the fallback is lossless), times are rendered as
// RFC 3339 (zero time becomes ""), anything else goes through its natural
// text representation.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		if utf8.Valid(x) {
			return string(x)
		}
		if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(x); err == nil {
			return string(decoded)
		}
		return string(x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// AddressList renders a recipient value that may be a list or a scalar.
// List entries are normalized, trimmed and joined with ", "; blank entries
// are dropped.
func AddressList(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []string:
		return joinNonBlank(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			parts = append(parts, Text(item))
		}
		return joinNonBlank(parts)
	default:
		return Text(v)
	}
}

func joinNonBlank(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(Text(p)); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ", ")
}

// DisplayAndEmail normalizes a sender display-name/email pair. When the email
// field is blank it tries to pull an address out of a "Name <a@b>" display
// value; when only the email is known it doubles as the display text. Any
// trailing <...> annotation is stripped from the display text.
func DisplayAndEmail(display, emailField string) (string, string) {
	disp := Text(display)
	email := strings.TrimSpace(Text(emailField))

	if email == "" {
		if m := embeddedEmailRe.FindStringSubmatch(disp); m != nil {
			email = strings.TrimSpace(m[1])
		}
	}
	if disp == "" && email != "" {
		disp = email
	}
	if stripped := strings.TrimSpace(addressAnnotationRe.ReplaceAllString(disp, "")); stripped != "" {
		disp = stripped
	}
	return strings.TrimSpace(disp), email
}

// Filename replaces characters that are illegal in filenames with "_", trims
// surrounding whitespace and periods, and truncates to maxLen. A maxLen of
// zero or less means DefaultMaxFilenameLen.
func Filename(name string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxFilenameLen
	}
	cleaned := illegalFilenameRe.ReplaceAllString(Text(name), "_")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.Trim(cleaned, ".")
	if len(cleaned) > maxLen {
		cleaned = cleaned[:maxLen]
	}
	return cleaned
}
