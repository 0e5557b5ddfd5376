package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ManassasDevAct/msg2txt/model"
)

func sampleMessage() model.DecodedMessage {
	return model.DecodedMessage{
		SenderName:  "Jane Doe <jane@x.com>",
		SenderEmail: "",
		Subject:     "Quarterly report",
		Body:        "Hello,\nplease find the report attached.\n",
		HeadersRaw:  "From: Jane Doe <jane@x.com>\nDate: Wed, 01 Jan 2020 10:00:00 +0000\nSubject: Quarterly report",
		To:          []string{"Bob <bob@x.com>", "carol@x.com"},
		Cc:          "dave@x.com",
		Attachments: []model.Attachment{
			{LongFilename: "report-final.xlsx", ShortFilename: "REPORT~1.XLS"},
			{LongFilename: "", ShortFilename: "NOTES~1.TXT"},
			{},
		},
		DeliveryTime: time.Date(2020, 1, 1, 10, 0, 5, 0, time.UTC),
	}
}

func TestAssemble(t *testing.T) {
	rec, debug := Assemble("report.msg", sampleMessage(), Options{IncludeHeaders: true, IncludeBody: true})

	assert.Equal(t, "report.msg", rec.OriginalFilename)
	assert.Equal(t, "Jane Doe", rec.From)
	assert.Equal(t, "jane@x.com", rec.FromEmail)
	assert.Equal(t, "Bob <bob@x.com>, carol@x.com", rec.To)
	assert.Equal(t, "dave@x.com", rec.Cc)
	assert.Empty(t, rec.Bcc)
	assert.Equal(t, "Quarterly report", rec.Subject)
	assert.Equal(t, "report-final.xlsx, NOTES~1.TXT", rec.AttachmentNames)

	// The delivery time is the highest-priority metadata source.
	assert.Equal(t, "2020-01-01T10:00:05Z", rec.Date)
	assert.Equal(t, "2020-01-01T10:00:05Z", rec.DateRaw)
	assert.Equal(t, rec.Date, debug.ISO)
	assert.Equal(t, "Wed, 01 Jan 2020 10:00:00 +0000", debug.HeaderDate)
}

func TestAssembleFallsBackToHeaderDate(t *testing.T) {
	msg := sampleMessage()
	msg.DeliveryTime = "corrupted timestamp"

	rec, _ := Assemble("report.msg", msg, Options{IncludeHeaders: true, IncludeBody: true})

	assert.Equal(t, "2020-01-01T10:00:00Z", rec.Date)
	assert.Equal(t, "Wed, 01 Jan 2020 10:00:00 +0000", rec.DateRaw)
}

func TestAssembleRedactionToggles(t *testing.T) {
	rec, _ := Assemble("report.msg", sampleMessage(), Options{IncludeHeaders: false, IncludeBody: false})
	assert.Empty(t, rec.HeadersRaw)
	assert.Empty(t, rec.Body)

	// Metadata derived from the body/headers is extracted before redaction.
	assert.NotEmpty(t, rec.Date)
	assert.Equal(t, "Quarterly report", rec.Subject)
}

func TestAssembleEmptyMessage(t *testing.T) {
	rec, debug := Assemble("empty.msg", model.DecodedMessage{}, Options{IncludeHeaders: true, IncludeBody: true})

	assert.Equal(t, "empty.msg", rec.OriginalFilename)
	assert.Empty(t, rec.From)
	assert.Empty(t, rec.Date)
	assert.Empty(t, rec.DateRaw)
	assert.Empty(t, rec.AttachmentNames)
	assert.Empty(t, debug.RawUsed)
}
