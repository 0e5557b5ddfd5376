package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ManassasDevAct/msg2txt/model"
)

var inlineEscaper = strings.NewReplacer(
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
)

// escapeInline backslash-escapes the Markdown-significant characters in
// metadata text. Fenced content is embedded verbatim and never escaped.
func escapeInline(s string) string {
	return inlineEscaper.Replace(s)
}

// Markdown renders all records as one Markdown document: a title with the
// record count, then per record a level-2 heading, bolded metadata lines, an
// optional collapsible raw-header block, the body in a fenced literal block,
// and a page-break marker so the PDF renderer starts every message on a new
// page.
func Markdown(records []model.Record) string {
	parts := []string{
		"# Email Export\n",
		fmt.Sprintf("_Total emails_: **%d**\n", len(records)),
		"---\n",
	}

	for i, rec := range records {
		parts = append(parts, fmt.Sprintf("## Email %d\n", i+1))
		parts = append(parts, "**From:** "+escapeInline(rec.From)+"  ")
		if rec.FromEmail != "" {
			parts = append(parts, "**FromEmail:** `"+rec.FromEmail+"`  ")
		}
		parts = append(parts, "**To:** "+escapeInline(rec.To)+"  ")
		if rec.Cc != "" {
			parts = append(parts, "**Cc:** "+escapeInline(rec.Cc)+"  ")
		}
		if rec.Bcc != "" {
			parts = append(parts, "**Bcc:** "+escapeInline(rec.Bcc)+"  ")
		}
		parts = append(parts, "**Subject:** "+escapeInline(rec.Subject)+"  ")
		parts = append(parts, "**Date:** `"+dateOrRaw(rec)+"`  ")
		if rec.AttachmentNames != "" {
			parts = append(parts, "**Attachments:** "+escapeInline(rec.AttachmentNames)+"  ")
		}
		if rec.OriginalFilename != "" {
			parts = append(parts, "**Source File:** `"+rec.OriginalFilename+"`  ")
		}

		if headers := strings.TrimSpace(rec.HeadersRaw); headers != "" {
			parts = append(parts,
				"\n<details>\n<summary><strong>Headers</strong></summary>\n\n```text",
				headers,
				"```\n</details>\n",
			)
		}

		parts = append(parts,
			"\n**Body**\n",
			"```text",
			strings.TrimRightFunc(rec.Body, unicode.IsSpace),
			"```",
		)

		parts = append(parts, "\n<div class=\"pagebreak\"></div>\n", "---\n")
	}

	return strings.Join(parts, "\n")
}
