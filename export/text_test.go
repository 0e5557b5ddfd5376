package export

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManassasDevAct/msg2txt/model"
)

func TestTextBannerPerRecord(t *testing.T) {
	records := []model.Record{
		{Subject: "one", Body: "Email 9 of 9 appears in a body and must not count"},
		{Subject: "two"},
		{Subject: "three"},
	}

	doc := Text(records)

	banner := regexp.MustCompile(`(?m)^Email \d+ of 3$`)
	assert.Len(t, banner.FindAllString(doc, -1), 3)
	assert.Contains(t, doc, strings.Repeat("=", 78))
}

func TestTextFields(t *testing.T) {
	rec := model.Record{
		From:            "Jane Doe",
		FromEmail:       "jane@x.com",
		To:              "bob@x.com",
		Subject:         "hi",
		Date:            "2020-01-01T10:00:00Z",
		DateRaw:         "Wed, 01 Jan 2020 10:00:00 +0000",
		HeadersRaw:      "From: jane@x.com\nSubject: hi",
		Body:            "body text\n\n",
		AttachmentNames: "a.txt",
	}

	doc := Text([]model.Record{rec})

	assert.Contains(t, doc, "Email 1 of 1\n")
	assert.Contains(t, doc, "From: Jane Doe\n")
	assert.Contains(t, doc, "FromEmail: jane@x.com\n")
	assert.Contains(t, doc, "To: bob@x.com\n")
	assert.Contains(t, doc, "Subject: hi\n")
	// The parsed date wins over the raw text.
	assert.Contains(t, doc, "Date: 2020-01-01T10:00:00Z\n")
	assert.Contains(t, doc, "AttachmentNames: a.txt\n")
	assert.Contains(t, doc, "Headers:\nFrom: jane@x.com\nSubject: hi\n")
	// Trailing whitespace of the body is trimmed, and the section ends with
	// a blank line.
	assert.Contains(t, doc, "Body:\nbody text\n")
	assert.True(t, strings.HasSuffix(doc, "\n"))
}

func TestTextDateFallsBackToRaw(t *testing.T) {
	doc := Text([]model.Record{{DateRaw: "sometime in June"}})
	assert.Contains(t, doc, "Date: sometime in June\n")
}

func TestTextOmitsBlankHeaders(t *testing.T) {
	doc := Text([]model.Record{{Body: "b", HeadersRaw: "  \n "}})
	assert.NotContains(t, doc, "Headers:")
	assert.Contains(t, doc, "Body:\nb\n")
}
