// Package export renders ordered record lists into the combined output
// documents (flat text, Markdown, PDF) and owns the ordering policy.
package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ManassasDevAct/msg2txt/model"
)

const bannerRule = 78

// Text renders all records as one flat UTF-8 document. Each record gets a
// fixed "Email i of N" banner, labeled single-line fields, then the literal
// header block and body. There is no global header or footer.
func Text(records []model.Record) string {
	total := len(records)
	sections := make([]string, 0, total)
	for i, rec := range records {
		sections = append(sections, formatRecordText(rec, i+1, total))
	}
	return strings.Join(sections, "\n")
}

func formatRecordText(rec model.Record, idx, total int) string {
	rule := strings.Repeat("=", bannerRule)

	lines := []string{
		rule,
		fmt.Sprintf("Email %d of %d", idx, total),
		rule,
		"From: " + rec.From,
		"FromEmail: " + rec.FromEmail,
		"To: " + rec.To,
		"Cc: " + rec.Cc,
		"Bcc: " + rec.Bcc,
		"Subject: " + rec.Subject,
		"Date: " + dateOrRaw(rec),
		"AttachmentNames: " + rec.AttachmentNames,
		"",
	}

	if headers := strings.TrimSpace(rec.HeadersRaw); headers != "" {
		lines = append(lines, "Headers:", headers, "")
	}

	lines = append(lines,
		"Body:",
		strings.TrimRightFunc(rec.Body, unicode.IsSpace),
		"",
	)

	return strings.Join(lines, "\n")
}

// dateOrRaw prefers the reconciled ISO date and falls back to the raw text
// it was derived from.
func dateOrRaw(rec model.Record) string {
	if rec.Date != "" {
		return rec.Date
	}
	return rec.DateRaw
}
