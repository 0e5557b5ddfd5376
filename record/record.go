// Package record assembles decoded messages into export Records.
package record

import (
	"strings"

	"github.com/ManassasDevAct/msg2txt/dates"
	"github.com/ManassasDevAct/msg2txt/model"
	"github.com/ManassasDevAct/msg2txt/normalize"
)

// Options control what an assembled Record retains.
type Options struct {
	IncludeHeaders bool
	IncludeBody    bool
}

// Assemble builds one Record from a decoded message. name is the caller's
// name for the input item and always ends up in OriginalFilename, never an
// internal temporary name. The returned DateDebug snapshot carries every raw
// date source for diagnostics.
func Assemble(name string, dec model.DecodedMessage, opts Options) (model.Record, model.DateDebug) {
	from, fromEmail := normalize.DisplayAndEmail(dec.SenderName, dec.SenderEmail)

	debug := model.DateDebug{
		DisplayDate:      normalize.Text(dec.DisplayDate),
		ClientSubmitTime: normalize.Text(dec.ClientSubmitTime),
		DeliveryTime:     normalize.Text(dec.DeliveryTime),
		LastModified:     normalize.Text(dec.LastModified),
		CreationTime:     normalize.Text(dec.CreationTime),
		HeaderDate:       dates.FromHeaders(dec.HeadersRaw),
		BodyDate:         dates.FromBody(dec.Body),
	}

	// Metadata sources ranked by reliability; the first non-blank one stands
	// in for the whole group.
	metadata := dates.FirstNonBlank(
		debug.DeliveryTime,
		debug.ClientSubmitTime,
		debug.LastModified,
		debug.CreationTime,
		debug.DisplayDate,
	)

	iso, raw := dates.Reconcile([]dates.Candidate{
		{Source: "metadata", Raw: metadata},
		{Source: "header", Raw: debug.HeaderDate},
		{Source: "body", Raw: debug.BodyDate},
	})
	debug.ISO = iso
	debug.RawUsed = raw

	rec := model.Record{
		OriginalFilename: normalize.Text(name),
		From:             from,
		FromEmail:        fromEmail,
		To:               normalize.AddressList(dec.To),
		Cc:               normalize.AddressList(dec.Cc),
		Bcc:              normalize.AddressList(dec.Bcc),
		Subject:          normalize.Text(dec.Subject),
		Date:             iso,
		DateRaw:          raw,
		HeadersRaw:       dec.HeadersRaw,
		Body:             dec.Body,
		AttachmentNames:  attachmentNames(dec.Attachments),
	}

	if !opts.IncludeHeaders {
		rec.HeadersRaw = ""
	}
	if !opts.IncludeBody {
		rec.Body = ""
	}

	return rec, debug
}

// attachmentNames joins the display names of all attachments, preferring the
// long filename and falling back to the short one.
func attachmentNames(atts []model.Attachment) string {
	names := make([]string, 0, len(atts))
	for _, att := range atts {
		name := strings.TrimSpace(att.LongFilename)
		if name == "" {
			name = strings.TrimSpace(att.ShortFilename)
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
