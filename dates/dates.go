// Package dates reconciles a message date from multiple untrustworthy
// sources. Candidates are ranked by reliability and the first one that
// actually parses wins; a malformed high-priority source never suppresses a
// well-formed lower-priority one.
package dates

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/ManassasDevAct/msg2txt/normalize"
)

// Candidate is one raw date source under consideration.
type Candidate struct {
	// Source names where the raw text came from (metadata, header, body).
	Source string
	Raw    string
}

var (
	bodyDateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^[ \t]*sent:[ \t]*(.+)$`),
		regexp.MustCompile(`(?im)^[ \t]*date:[ \t]*(.+)$`),
	}
	trailingLabelRe = regexp.MustCompile(`(?i)\b(subject|to|from):`)
	foldedLineRe    = regexp.MustCompile(`^[\t ]`)
)

// Reconcile walks the candidates in priority order and returns the first one
// that parses as a calendar date, serialized as RFC 3339, together with the
// raw text it came from. Parse failures are absorbed and the scan continues.
// When nothing parses the ISO value is empty and the raw value is the first
// non-blank candidate, if any.
func Reconcile(candidates []Candidate) (iso, raw string) {
	for _, c := range candidates {
		s := strings.TrimSpace(c.Raw)
		if s == "" {
			continue
		}
		if t, err := dateparse.ParseAny(s); err == nil {
			return t.Format(time.RFC3339), s
		}
	}
	return "", FirstNonBlank(rawTexts(candidates)...)
}

// FirstNonBlank returns the first value with non-whitespace content, trimmed.
func FirstNonBlank(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(normalize.Text(v)); s != "" {
			return s
		}
	}
	return ""
}

func rawTexts(candidates []Candidate) []string {
	raws := make([]string, len(candidates))
	for i, c := range candidates {
		raws[i] = c.Raw
	}
	return raws
}

// FromHeaders extracts the raw value of the Date: header from a raw header
// block. Folded continuation lines (physical lines starting with whitespace)
// are re-joined into logical lines before matching; matching is
// case-insensitive and takes the text after the first colon.
func FromHeaders(headers string) string {
	if strings.TrimSpace(headers) == "" {
		return ""
	}
	for _, line := range unfold(headers) {
		if !strings.HasPrefix(strings.ToLower(line), "date:") {
			continue
		}
		if _, value, ok := strings.Cut(line, ":"); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// unfold collapses folded header continuations into single logical lines.
func unfold(headers string) []string {
	var (
		logical []string
		current string
		started bool
	)
	for _, line := range strings.Split(headers, "\n") {
		line = strings.TrimRight(line, "\r")
		if foldedLineRe.MatchString(line) && started {
			current += " " + strings.TrimSpace(line)
			continue
		}
		if started {
			logical = append(logical, current)
		}
		current = line
		started = true
	}
	if started {
		logical = append(logical, current)
	}
	return logical
}

// FromBody scans body text for a date-like line. Only start-of-line
// "sent:" or "date:" labels match; a trailing "subject:", "to:" or "from:"
// label (typical of quoted reply chains) is stripped from the captured text.
func FromBody(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	for _, re := range bodyDateRes {
		m := re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		cand := strings.TrimSpace(m[1])
		if loc := trailingLabelRe.FindStringIndex(cand); loc != nil {
			cand = strings.TrimSpace(cand[:loc[0]])
		}
		if cand != "" {
			return cand
		}
	}
	return ""
}
